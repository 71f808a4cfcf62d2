package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// ShareHandler serves portable share tokens for saved content.
type ShareHandler struct {
	service *service.ShareService
}

// NewShareHandler creates a new handler.
func NewShareHandler(svc *service.ShareService) *ShareHandler {
	return &ShareHandler{service: svc}
}

// Encode godoc
// @Summary Create a share token
// @Description Encode one saved item into a self-contained share token
// @Tags Share
// @Produce json
// @Security BearerAuth
// @Param id path string true "Content id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /contents/{id}/share [post]
func (h *ShareHandler) Encode(c *gin.Context) {
	token, err := h.service.Encode(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"token": token}, nil)
}

// Decode godoc
// @Summary Open a share token
// @Description Decode a share token into its validated content; no account required
// @Tags Share
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /share/{token} [get]
func (h *ShareHandler) Decode(c *gin.Context) {
	shared, err := h.service.Decode(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	// Signed-in viewers can copy the item into their own library.
	canImport := claimsFromContext(c) != nil

	response.JSON(c, http.StatusOK, gin.H{"content": shared, "can_import": canImport}, nil)
}
