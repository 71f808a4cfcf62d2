package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type settingsRepository interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertPersona(ctx context.Context, userID, persona string) (*models.UserSettings, error)
}

// SettingsService manages per-account preferences, currently the
// generation persona.
type SettingsService struct {
	repo   settingsRepository
	logger *zap.Logger
}

// NewSettingsService constructs the service.
func NewSettingsService(repo settingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{repo: repo, logger: logger}
}

// UpdatePersonaRequest replaces the stored persona text.
type UpdatePersonaRequest struct {
	Persona string `json:"persona"`
}

// GetPersona returns the owner's persona, empty when never set.
func (s *SettingsService) GetPersona(ctx context.Context, ownerID string) (*models.UserSettings, error) {
	settings, err := s.repo.Get(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settings")
	}
	return settings, nil
}

// UpdatePersona stores a free-text instruction merged into all future
// generation prompts. It must be non-empty; no other validation
// applies.
func (s *SettingsService) UpdatePersona(ctx context.Context, ownerID string, req UpdatePersonaRequest) (*models.UserSettings, error) {
	persona := strings.TrimSpace(req.Persona)
	if persona == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "persona must not be empty")
	}
	settings, err := s.repo.UpsertPersona(ctx, ownerID, persona)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update persona")
	}
	return settings, nil
}
