package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// PackageHandler serves multi-item unit-package generation.
type PackageHandler struct {
	service *service.PackageService
}

// NewPackageHandler creates a new handler.
func NewPackageHandler(svc *service.PackageService) *PackageHandler {
	return &PackageHandler{service: svc}
}

// Generate godoc
// @Summary Generate a unit package
// @Description Generate and save each package component in sequence; a failed component stops the run but already saved siblings are kept
// @Tags Packages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.GeneratePackageRequest true "Package parameters"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /packages [post]
func (h *PackageHandler) Generate(c *gin.Context) {
	var req service.GeneratePackageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid package payload"))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}
