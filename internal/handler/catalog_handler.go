package handler

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/response"
)

// CatalogHandler serves the static form catalogs the studio UI is built
// from: tools, subjects, grade levels, Bloom's levels and image styles.
type CatalogHandler struct{}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

type toolDTO struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	Kind            models.ContentKind `json:"kind"`
	RequiresSubject bool               `json:"requires_subject"`
	SupportsRubric  bool               `json:"supports_rubric"`
	IsImage         bool               `json:"is_image"`
	IsPackage       bool               `json:"is_package"`
}

// Catalog godoc
// @Summary Form catalogs
// @Description List tools, subjects, grade levels, Bloom's levels and image styles
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) Catalog(c *gin.Context) {
	tools := make([]toolDTO, 0, len(models.ToolCatalog))
	for _, tool := range models.ToolCatalog {
		tools = append(tools, toolDTO{
			ID:              tool.ID,
			Name:            tool.Name,
			Kind:            tool.Kind,
			RequiresSubject: tool.RequiresSubject,
			SupportsRubric:  tool.SupportsRubric,
			IsImage:         tool.IsImage,
			IsPackage:       tool.IsPackage,
		})
	}

	styles := make([]string, 0, len(models.ImageStyles))
	for style := range models.ImageStyles {
		styles = append(styles, style)
	}
	sort.Strings(styles)

	response.JSON(c, http.StatusOK, gin.H{
		"tools":         tools,
		"subjects":      models.Subjects,
		"grade_levels":  models.GradeLevels,
		"blooms_levels": models.BloomsLevels,
		"image_styles":  styles,
	}, nil)
}
