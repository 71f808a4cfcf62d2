package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/contentschema"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type contentRepository interface {
	List(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.ContentRecord, error)
	FindByID(ctx context.Context, ownerID, id string) (*models.ContentRecord, error)
	Create(ctx context.Context, record *models.ContentRecord) error
	Update(ctx context.Context, record *models.ContentRecord) error
	BatchUpsert(ctx context.Context, records []models.ContentRecord) ([]string, error)
}

// ContentService manages the stored content library. Every payload
// passes the schema gate on the way in; the store never holds content
// the gate has not accepted.
type ContentService struct {
	repo      contentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewContentService constructs the service.
func NewContentService(repo contentRepository, validate *validator.Validate, logger *zap.Logger) *ContentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{repo: repo, validator: validate, logger: logger}
}

// SaveContentRequest persists one generated item.
type SaveContentRequest struct {
	ToolID       string             `json:"tool_id" validate:"required"`
	Kind         models.ContentKind `json:"kind" validate:"required"`
	CollectionID *string            `json:"collection_id"`
	Payload      json.RawMessage    `json:"payload" validate:"required"`
}

// UpdateContentRequest rewrites a stored item.
type UpdateContentRequest struct {
	CollectionID *string         `json:"collection_id"`
	Payload      json.RawMessage `json:"payload" validate:"required"`
}

// MigrateItem is one locally stored record being moved server-side.
type MigrateItem struct {
	ID           string             `json:"id" validate:"required"`
	ToolID       string             `json:"tool_id" validate:"required"`
	Kind         models.ContentKind `json:"kind" validate:"required"`
	CollectionID *string            `json:"collection_id"`
	Payload      json.RawMessage    `json:"payload" validate:"required"`
	CreatedAt    time.Time          `json:"created_at"`
}

// MigrateRequest carries a whole local library in one batch.
type MigrateRequest struct {
	Items []MigrateItem `json:"items" validate:"required,min=1,dive"`
}

// MigrateIssue reports one rejected migration item.
type MigrateIssue struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// MigrateResult summarises a migration batch.
type MigrateResult struct {
	Migrated int            `json:"migrated"`
	Skipped  []MigrateIssue `json:"skipped,omitempty"`
}

// List returns the owner's library, optionally filtered.
func (s *ContentService) List(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.ContentRecord, error) {
	records, err := s.repo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list content")
	}
	return records, nil
}

// Get returns one owned record.
func (s *ContentService) Get(ctx context.Context, ownerID, id string) (*models.ContentRecord, error) {
	record, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "content not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load content")
	}
	return record, nil
}

// Save validates the payload against its kind and persists it. The
// record's id comes from the content itself so a generated item keeps
// the identifier the dispatcher stamped.
func (s *ContentService) Save(ctx context.Context, ownerID string, req SaveContentRequest) (*models.ContentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save request")
	}
	content, err := contentschema.Validate(req.Kind, req.Payload)
	if err != nil {
		return nil, gateError(err)
	}

	record := &models.ContentRecord{
		ID:           content.Base().ID,
		OwnerID:      ownerID,
		CollectionID: req.CollectionID,
		ToolID:       req.ToolID,
		Kind:         req.Kind,
		Title:        content.Base().Title,
		Payload:      req.Payload,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save content")
	}
	return record, nil
}

// Update re-validates and rewrites a stored item. The kind is fixed at
// creation and cannot change here.
func (s *ContentService) Update(ctx context.Context, ownerID, id string, req UpdateContentRequest) (*models.ContentRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid update request")
	}
	record, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	content, err := contentschema.Validate(record.Kind, req.Payload)
	if err != nil {
		return nil, gateError(err)
	}

	record.CollectionID = req.CollectionID
	record.Title = content.Base().Title
	record.Payload = req.Payload
	if err := s.repo.Update(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update content")
	}
	return record, nil
}

// Migrate upserts a batch of locally stored items, keeping their
// original identifiers so the batch can be replayed without creating
// duplicates. Items the gate rejects, and ids already claimed by
// another account, are skipped and reported, never stored.
func (s *ContentService) Migrate(ctx context.Context, ownerID string, req MigrateRequest) (*MigrateResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid migration request")
	}

	result := &MigrateResult{}
	now := time.Now().UTC()
	records := make([]models.ContentRecord, 0, len(req.Items))
	for _, item := range req.Items {
		content, err := contentschema.Validate(item.Kind, item.Payload)
		if err != nil {
			result.Skipped = append(result.Skipped, MigrateIssue{ID: item.ID, Message: appErrors.FromError(gateError(err)).Message})
			continue
		}
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		records = append(records, models.ContentRecord{
			ID:           item.ID,
			OwnerID:      ownerID,
			CollectionID: item.CollectionID,
			ToolID:       item.ToolID,
			Kind:         item.Kind,
			Title:        content.Base().Title,
			Payload:      item.Payload,
			CreatedAt:    createdAt,
			UpdatedAt:    now,
		})
	}
	result.Migrated = len(records)
	if len(records) > 0 {
		rejected, err := s.repo.BatchUpsert(ctx, records)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "migration batch failed")
		}
		// Ids already claimed by another account are not stored; they
		// must not be counted as migrated.
		for _, id := range rejected {
			result.Skipped = append(result.Skipped, MigrateIssue{ID: id, Message: "id already belongs to another account"})
		}
		result.Migrated -= len(rejected)
	}
	return result, nil
}

// gateError maps schema gate failures onto the error taxonomy: unknown
// kinds are a caller mistake, shape mismatches carry the field detail.
func gateError(err error) error {
	var vErr *contentschema.ValidationError
	if errors.As(err, &vErr) {
		return appErrors.Wrap(err, appErrors.ErrSchemaMismatch.Code, appErrors.ErrSchemaMismatch.Status, vErr.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported content kind")
}
