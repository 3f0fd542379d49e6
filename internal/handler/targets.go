package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tidestom/internal/auth"
	"tidestom/internal/repository"
	"tidestom/internal/service"
	"tidestom/internal/taxonomy"
)

type TargetHandler struct {
	Query           *service.QueryService
	Classifications *service.ClassificationService
	Taxonomy        *taxonomy.Taxonomy
	Flash           *FlashStore
	// RequireSubmitter guards the submission route; nil leaves it open.
	RequireSubmitter gin.HandlerFunc
	Logger           *zap.Logger
}

func (h *TargetHandler) Register(r *gin.Engine) {
	group := r.Group("/api/targets")
	group.GET("", h.listTargets)
	group.GET("/:id", h.getTarget)
	group.GET("/:id/spectrum", h.getSpectrum)
	group.GET("/:id/classification-form", h.getClassificationForm)

	submit := []gin.HandlerFunc{h.submitClassification}
	if h.RequireSubmitter != nil {
		submit = append([]gin.HandlerFunc{h.RequireSubmitter}, submit...)
	}
	group.POST("/:id/classifications", submit...)
}

type targetDetailResponse struct {
	*service.TargetDetail
	Flashes []Flash `json:"flashes"`
}

// @Summary List mirrored targets
// @Tags targets
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Param name query string false "name contains"
// @Param order_by query string false "order by field"
// @Param ascending query bool false "ascending"
// @Success 200 {object} apiResponse
// @Router /api/targets [get]
func (h *TargetHandler) listTargets(c *gin.Context) {
	if h.Query == nil || h.Query.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	params := repository.ListTargetsParams{
		Limit:   limit,
		Offset:  offset,
		Name:    strQueryPtr(c, "name"),
		OrderBy: c.Query("order_by"),
		Asc:     boolQueryPtr(c, "ascending"),
	}
	items, total, err := h.Query.ListTargets(c.Request.Context(), params)
	if err != nil {
		h.warn("list targets failed", err)
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Target detail
// @Description Target, machine and human classifications, aggregation, attached spectra and pending flash messages.
// @Tags targets
// @Param id path int true "candidate id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/targets/{id} [get]
func (h *TargetHandler) getTarget(c *gin.Context) {
	if h.Classifications == nil || h.Classifications.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := int64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	detail, err := h.Classifications.TargetDetail(c.Request.Context(), id)
	if err != nil {
		h.warn("load target detail failed", err, zap.Int64("tides_id", id))
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if detail == nil {
		Error(c, http.StatusNotFound, "target not found", nil)
		return
	}
	Ok(c, targetDetailResponse{TargetDetail: detail, Flashes: h.Flash.Pop(c)}, nil)
}

// @Summary Latest spectrum of a target
// @Description Parsed wavelength and flux arrays; a message replaces them when no readable spectrum exists.
// @Tags targets
// @Param id path int true "candidate id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/targets/{id}/spectrum [get]
func (h *TargetHandler) getSpectrum(c *gin.Context) {
	if h.Query == nil || h.Query.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := int64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	view, err := h.Query.TargetSpectrum(c.Request.Context(), id)
	if errors.Is(err, service.ErrTargetNotFound) {
		Error(c, http.StatusNotFound, "target not found", nil)
		return
	}
	if err != nil {
		h.warn("load target spectrum failed", err, zap.Int64("tides_id", id))
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, view, nil)
}

type formField struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Required  bool     `json:"required"`
	MaxLength int      `json:"max_length,omitempty"`
	Choices   []string `json:"choices,omitempty"`
	Help      string   `json:"help,omitempty"`
}

type classificationFormResponse struct {
	Action      string      `json:"action"`
	Method      string      `json:"method"`
	Fields      []formField `json:"fields"`
	MainClasses []string    `json:"main_classes"`
}

// @Summary Classification form descriptor
// @Tags targets
// @Param id path int true "candidate id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /api/targets/{id}/classification-form [get]
func (h *TargetHandler) getClassificationForm(c *gin.Context) {
	if h.Query == nil || h.Query.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := int64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	target, err := h.Query.Repo.GetTarget(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if target == nil {
		Error(c, http.StatusNotFound, "target not found", nil)
		return
	}
	mainClasses := []string{}
	if h.Taxonomy != nil {
		mainClasses = h.Taxonomy.MainClasses()
	}
	Ok(c, classificationFormResponse{
		Action: fmt.Sprintf("/api/targets/%d/classifications", id),
		Method: http.MethodPost,
		Fields: []formField{
			{Name: "sn_type", Type: "choice", Required: true, MaxLength: 50, Choices: mainClasses},
			{Name: "subtype", Type: "text", MaxLength: 100, Help: "options from /api/classifications/subclasses?main_class=<sn_type>"},
			{Name: "redshift", Type: "number", Help: fmt.Sprintf("required when sn_type is %s", service.OtherClass)},
			{Name: "comments", Type: "textarea"},
			{Name: "obs_id", Type: "integer"},
		},
		MainClasses: mainClasses,
	}, nil)
}

// @Summary Submit a human classification
// @Description Always redirects to the target detail; the outcome is delivered as a flash message.
// @Tags targets
// @Accept json
// @Accept x-www-form-urlencoded
// @Param id path int true "candidate id"
// @Param body body service.ClassificationForm true "classification"
// @Success 303 {string} string "redirect to the target detail"
// @Failure 404 {object} apiResponse
// @Router /api/targets/{id}/classifications [post]
func (h *TargetHandler) submitClassification(c *gin.Context) {
	if h.Classifications == nil || h.Classifications.Repo == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := int64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	ctx := c.Request.Context()
	detailURL := fmt.Sprintf("/api/targets/%d", id)

	var form service.ClassificationForm
	if bindErr := c.ShouldBind(&form); bindErr != nil {
		target, err := h.Classifications.Repo.GetTarget(ctx, id)
		if err == nil && target == nil {
			Error(c, http.StatusNotFound, "target not found", nil)
			return
		}
		h.flash(c, Flash{
			Level:   FlashError,
			Message: "The classification could not be read.",
			Fields:  map[string]string{"form": "Submit sn_type, subtype, redshift and comments as form or JSON fields."},
		})
		c.Redirect(http.StatusSeeOther, detailURL)
		return
	}

	submitter, _ := auth.SubmitterFromGin(c)
	result, err := h.Classifications.Submit(ctx, service.SubmitInput{
		CandidateID: id,
		SubmitterID: submitter,
		Form:        form,
	})
	var subErr *service.SubmissionError
	switch {
	case errors.Is(err, service.ErrTargetNotFound):
		Error(c, http.StatusNotFound, "target not found", nil)
		return
	case errors.As(err, &subErr):
		h.flash(c, Flash{
			Level:   FlashError,
			Message: fmt.Sprintf("The classification could not be saved (reference %s).", subErr.Ref),
			Ref:     subErr.Ref,
		})
	case err != nil:
		h.warn("submit classification failed", err, zap.Int64("tides_id", id))
		h.flash(c, Flash{Level: FlashError, Message: "The classification could not be saved."})
	case len(result.FieldErrors) > 0:
		h.flash(c, Flash{
			Level:   FlashError,
			Message: "The classification is invalid.",
			Fields:  result.FieldErrors,
		})
	default:
		h.flash(c, Flash{Level: FlashSuccess, Message: "Classification submitted successfully!"})
	}
	c.Redirect(http.StatusSeeOther, detailURL)
}

func (h *TargetHandler) flash(c *gin.Context, flash Flash) {
	if err := h.Flash.Add(c, flash); err != nil {
		h.warn("store flash failed", err)
	}
}

func (h *TargetHandler) warn(msg string, err error, fields ...zap.Field) {
	if h.Logger == nil {
		return
	}
	h.Logger.Warn(msg, append(fields, zap.Error(err))...)
}
