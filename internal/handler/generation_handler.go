package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// GenerationHandler serves single-item generation and text refinement.
type GenerationHandler struct {
	service *service.GenerationService
}

// NewGenerationHandler creates a new handler.
func NewGenerationHandler(svc *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{service: svc}
}

// Generate godoc
// @Summary Generate content
// @Description Generate one content item from the selected tool and form parameters
// @Tags Generation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.GenerateContentRequest true "Generation parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /generate [post]
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req service.GenerateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generation payload"))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Refine godoc
// @Summary Refine a text passage
// @Description Stream a rewritten version of the given text as plain-text chunks
// @Tags Generation
// @Accept json
// @Produce plain
// @Security BearerAuth
// @Param payload body service.RefineRequest true "Refinement request"
// @Success 200 {string} string "streamed text"
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /generate/refine [post]
func (h *GenerationHandler) Refine(c *gin.Context) {
	var req service.RefineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid refine payload"))
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")

	wrote := false
	err := h.service.Refine(c.Request.Context(), req, func(chunk string) error {
		if !wrote {
			c.Status(http.StatusOK)
			wrote = true
		}
		if _, err := c.Writer.WriteString(chunk); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	})
	if err != nil {
		// Once bytes are on the wire the status line is gone; the
		// client sees a truncated stream instead.
		if !wrote {
			response.Error(c, err)
		}
		return
	}
	if !wrote {
		c.Status(http.StatusOK)
	}
}
