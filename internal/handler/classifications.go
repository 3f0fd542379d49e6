package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"tidestom/internal/taxonomy"
)

type ClassificationHandler struct {
	Taxonomy *taxonomy.Taxonomy
}

func (h *ClassificationHandler) Register(r *gin.Engine) {
	group := r.Group("/api/classifications")
	group.GET("/main", h.listMainClasses)
	group.GET("/subclasses", h.listSubclasses)
}

// @Summary Main classification names
// @Tags classifications
// @Success 200 {object} apiResponse
// @Router /api/classifications/main [get]
func (h *ClassificationHandler) listMainClasses(c *gin.Context) {
	if h.Taxonomy == nil {
		Error(c, http.StatusInternalServerError, "taxonomy unavailable", nil)
		return
	}
	Ok(c, h.Taxonomy.MainClasses(), nil)
}

// @Summary Subclasses of a main classification
// @Description Unknown or missing main classes yield an empty list.
// @Tags classifications
// @Param main_class query string true "main classification name"
// @Success 200 {object} apiResponse
// @Router /api/classifications/subclasses [get]
func (h *ClassificationHandler) listSubclasses(c *gin.Context) {
	if h.Taxonomy == nil {
		Error(c, http.StatusInternalServerError, "taxonomy unavailable", nil)
		return
	}
	main := strings.TrimSpace(c.Query("main_class"))
	Ok(c, h.Taxonomy.Subclasses(main), map[string]any{"main_class": main})
}
