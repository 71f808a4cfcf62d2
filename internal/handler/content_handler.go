package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// ContentHandler serves the saved-content library.
type ContentHandler struct {
	service *service.ContentService
}

// NewContentHandler creates a new handler.
func NewContentHandler(svc *service.ContentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// List godoc
// @Summary List saved content
// @Description List the caller's saved content, newest first
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Filter by content kind"
// @Param collection_id query string false "Filter by collection"
// @Param search query string false "Case-insensitive title search"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /contents [get]
func (h *ContentHandler) List(c *gin.Context) {
	filter := models.ContentFilter{
		Kind:         models.ContentKind(c.Query("kind")),
		CollectionID: c.Query("collection_id"),
		Search:       c.Query("search"),
	}

	records, err := h.service.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, records, nil)
}

// Get godoc
// @Summary Get one saved item
// @Tags Content
// @Produce json
// @Security BearerAuth
// @Param id path string true "Content id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contents/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	record, err := h.service.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Save godoc
// @Summary Save generated content
// @Description Validate and persist a generated payload into the library
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.SaveContentRequest true "Content payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /contents [post]
func (h *ContentHandler) Save(c *gin.Context) {
	var req service.SaveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid content payload"))
		return
	}

	record, err := h.service.Save(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, record)
}

// Update godoc
// @Summary Update a saved item
// @Description Replace the payload or collection membership of a saved item
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Content id"
// @Param payload body service.UpdateContentRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /contents/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	var req service.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid update payload"))
		return
	}

	record, err := h.service.Update(c.Request.Context(), currentUserID(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, record, nil)
}

// Migrate godoc
// @Summary Import a client-side library
// @Description Bulk import previously exported items, keeping their ids
// @Tags Content
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.MigrateRequest true "Items to import"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /contents/migrate [post]
func (h *ContentHandler) Migrate(c *gin.Context) {
	var req service.MigrateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid migration payload"))
		return
	}

	result, err := h.service.Migrate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
