package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/middleware"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/service"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth        *AuthHandler
	Catalog     *CatalogHandler
	Content     *ContentHandler
	Generation  *GenerationHandler
	Rubric      *RubricHandler
	Package     *PackageHandler
	Collection  *CollectionHandler
	Settings    *SettingsHandler
	Share       *ShareHandler
	Export      *ExportHandler
	AuthService *service.AuthService
}

// RegisterRoutes mounts the API under the given prefix. Share decode
// and export download stay public; everything else except auth and the
// catalog requires a bearer token.
func RegisterRoutes(r gin.IRouter, h Handlers) {
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/auth/refresh", h.Auth.Refresh)

	r.GET("/catalog", h.Catalog.Catalog)
	r.GET("/share/:token", middleware.OptionalJWT(h.AuthService), h.Share.Decode)

	if h.Export != nil {
		r.GET("/exports/download", h.Export.Download)
	}

	authed := r.Group("", middleware.JWT(h.AuthService))
	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)

	authed.POST("/generate", h.Generation.Generate)
	authed.POST("/generate/refine", h.Generation.Refine)
	authed.POST("/packages", h.Package.Generate)

	authed.GET("/contents", h.Content.List)
	authed.POST("/contents", h.Content.Save)
	authed.POST("/contents/migrate", h.Content.Migrate)
	authed.GET("/contents/:id", h.Content.Get)
	authed.PUT("/contents/:id", h.Content.Update)
	authed.POST("/contents/:id/share", h.Share.Encode)

	authed.GET("/collections", h.Collection.List)
	authed.POST("/collections", h.Collection.Create)
	authed.GET("/collections/:id", h.Collection.Get)

	authed.POST("/rubrics/drafts", h.Rubric.CreateDraft)
	authed.GET("/rubrics/drafts/:id", h.Rubric.GetDraft)
	authed.PUT("/rubrics/drafts/:id", h.Rubric.UpdateDraft)
	authed.POST("/rubrics/drafts/:id/descriptions", h.Rubric.GenerateDescriptions)
	authed.POST("/rubrics/drafts/:id/save", h.Rubric.SaveDraft)

	authed.GET("/settings/persona", h.Settings.GetPersona)
	authed.PUT("/settings/persona", h.Settings.UpdatePersona)

	if h.Export != nil {
		authed.POST("/exports", h.Export.Create)
		authed.GET("/exports/:id", h.Export.Get)
	}
}
