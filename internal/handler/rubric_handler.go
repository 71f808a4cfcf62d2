package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// RubricHandler serves the interactive rubric-builder drafts.
type RubricHandler struct {
	service *service.RubricService
}

// NewRubricHandler creates a new handler.
func NewRubricHandler(svc *service.RubricService) *RubricHandler {
	return &RubricHandler{service: svc}
}

// CreateDraft godoc
// @Summary Start a rubric draft
// @Description Create a draft seeded with the default level columns
// @Tags Rubrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateRubricDraftRequest true "Draft metadata"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /rubrics/drafts [post]
func (h *RubricHandler) CreateDraft(c *gin.Context) {
	var req service.CreateRubricDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	draft, err := h.service.CreateDraft(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, draft)
}

// GetDraft godoc
// @Summary Get a rubric draft
// @Tags Rubrics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rubrics/drafts/{id} [get]
func (h *RubricHandler) GetDraft(c *gin.Context) {
	draft, err := h.service.GetDraft(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, draft, nil)
}

// UpdateDraft godoc
// @Summary Update a rubric draft grid
// @Description Replace the draft's title, levels and criteria
// @Tags Rubrics
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft id"
// @Param payload body service.UpdateRubricDraftRequest true "Grid state"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rubrics/drafts/{id} [put]
func (h *RubricHandler) UpdateDraft(c *gin.Context) {
	var req service.UpdateRubricDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	draft, err := h.service.UpdateDraft(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, draft, nil)
}

// GenerateDescriptions godoc
// @Summary Fill draft cells
// @Description Generate level descriptions for the draft's fixed grid
// @Tags Rubrics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /rubrics/drafts/{id}/descriptions [post]
func (h *RubricHandler) GenerateDescriptions(c *gin.Context) {
	draft, err := h.service.GenerateDescriptions(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, draft, nil)
}

// SaveDraft godoc
// @Summary Finalize a rubric draft
// @Description Assemble the draft into a rubric and persist it to the library
// @Tags Rubrics
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft id"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /rubrics/drafts/{id}/save [post]
func (h *RubricHandler) SaveDraft(c *gin.Context) {
	record, rubric, err := h.service.SaveDraft(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"record": record, "rubric": rubric})
}
