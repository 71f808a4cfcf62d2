package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

// CollectionRepository manages content collections.
type CollectionRepository struct {
	db *sqlx.DB
}

// NewCollectionRepository creates a new repository instance.
func NewCollectionRepository(db *sqlx.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

// ListByOwner returns the owner's collections, newest first.
func (r *CollectionRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Collection, error) {
	const query = `SELECT id, owner_id, name, created_at FROM collections WHERE owner_id = $1 ORDER BY created_at DESC`
	var collections []models.Collection
	if err := r.db.SelectContext(ctx, &collections, query, ownerID); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	return collections, nil
}

// FindByID returns a single owned collection.
func (r *CollectionRepository) FindByID(ctx context.Context, ownerID, id string) (*models.Collection, error) {
	const query = `SELECT id, owner_id, name, created_at FROM collections WHERE id = $1 AND owner_id = $2`
	var collection models.Collection
	if err := r.db.GetContext(ctx, &collection, query, id, ownerID); err != nil {
		return nil, err
	}
	return &collection, nil
}

// Create inserts a collection.
func (r *CollectionRepository) Create(ctx context.Context, collection *models.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}
	collection.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO collections (id, owner_id, name, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, collection.ID, collection.OwnerID, collection.Name, collection.CreatedAt); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}
