package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type collectionRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]models.Collection, error)
	FindByID(ctx context.Context, ownerID, id string) (*models.Collection, error)
	Create(ctx context.Context, collection *models.Collection) error
}

// CollectionService manages the owner's collections.
type CollectionService struct {
	repo      collectionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCollectionService constructs the service.
func NewCollectionService(repo collectionRepository, validate *validator.Validate, logger *zap.Logger) *CollectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionService{repo: repo, validator: validate, logger: logger}
}

// CreateCollectionRequest names a new collection.
type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// List returns the owner's collections.
func (s *CollectionService) List(ctx context.Context, ownerID string) ([]models.Collection, error) {
	collections, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list collections")
	}
	return collections, nil
}

// Get returns one owned collection.
func (s *CollectionService) Get(ctx context.Context, ownerID, id string) (*models.Collection, error) {
	collection, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "collection not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load collection")
	}
	return collection, nil
}

// Create makes a new empty collection.
func (s *CollectionService) Create(ctx context.Context, ownerID string, req CreateCollectionRequest) (*models.Collection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "collection name is required")
	}
	collection := &models.Collection{OwnerID: ownerID, Name: req.Name}
	if err := s.repo.Create(ctx, collection); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create collection")
	}
	return collection, nil
}
