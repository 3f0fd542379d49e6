package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tidestom/internal/service"
)

type SpectraHandler struct {
	Query  *service.QueryService
	Logger *zap.Logger
}

func (h *SpectraHandler) Register(r *gin.Engine) {
	r.GET("/api/spectra/latest", h.listLatest)
}

// @Summary Recently observed spectra
// @Tags spectra
// @Param days_range query int false "observation window in days (default 30)"
// @Param page query int false "1-based page"
// @Success 200 {object} apiResponse
// @Router /api/spectra/latest [get]
func (h *SpectraHandler) listLatest(c *gin.Context) {
	if h.Query == nil || h.Query.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Query.LatestSpectra(c.Request.Context(), daysRangeQuery(c), intQuery(c, "page", 1))
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list latest spectra failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	offset := (result.Page - 1) * result.PageSize
	meta := paginationMeta(result.PageSize, offset, result.Total)
	meta["page"] = result.Page
	meta["days_range"] = result.DaysRange
	meta["since"] = result.Since
	Ok(c, result.Items, meta)
}

// daysRangeQuery maps a missing, non-integer or negative value to -1, which
// selects the default window.
func daysRangeQuery(c *gin.Context) int {
	val := strings.TrimSpace(c.Query("days_range"))
	if val == "" {
		return -1
	}
	days, err := strconv.Atoi(val)
	if err != nil || days < 0 {
		return -1
	}
	return days
}
