package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tidestom/internal/service"
)

type SyncHandler struct {
	Service *service.CandidateSyncService
	// RequireSubmitter guards the trigger route; nil leaves it open.
	RequireSubmitter gin.HandlerFunc
	Logger           *zap.Logger
}

func (h *SyncHandler) Register(r *gin.Engine) {
	group := r.Group("/api/sync")
	trigger := []gin.HandlerFunc{h.syncCandidates}
	if h.RequireSubmitter != nil {
		trigger = append([]gin.HandlerFunc{h.RequireSubmitter}, trigger...)
	}
	group.POST("/candidates", trigger...)
	group.GET("/state", h.listSyncState)
}

// @Summary Mirror candidates into targets
// @Tags sync
// @Success 200 {object} apiResponse
// @Router /api/sync/candidates [post]
func (h *SyncHandler) syncCandidates(c *gin.Context) {
	if h.Service == nil || h.Service.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	result, err := h.Service.Sync(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("candidate sync failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, result, nil)
}

// @Summary List sync states
// @Tags sync
// @Success 200 {object} apiResponse
// @Router /api/sync/state [get]
func (h *SyncHandler) listSyncState(c *gin.Context) {
	if h.Service == nil || h.Service.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	states, err := h.Service.Repo.ListSyncStates(c.Request.Context())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("list sync state failed", zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, states, nil)
}
