package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// CollectionHandler serves content collections.
type CollectionHandler struct {
	service *service.CollectionService
}

// NewCollectionHandler creates a new handler.
func NewCollectionHandler(svc *service.CollectionService) *CollectionHandler {
	return &CollectionHandler{service: svc}
}

// List godoc
// @Summary List collections
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /collections [get]
func (h *CollectionHandler) List(c *gin.Context) {
	collections, err := h.service.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, collections, nil)
}

// Get godoc
// @Summary Get one collection
// @Tags Collections
// @Produce json
// @Security BearerAuth
// @Param id path string true "Collection id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /collections/{id} [get]
func (h *CollectionHandler) Get(c *gin.Context) {
	collection, err := h.service.Get(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, collection, nil)
}

// Create godoc
// @Summary Create a collection
// @Tags Collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateCollectionRequest true "Collection payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /collections [post]
func (h *CollectionHandler) Create(c *gin.Context) {
	var req service.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid collection payload"))
		return
	}

	collection, err := h.service.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, collection)
}
