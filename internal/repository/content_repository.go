package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

// ContentRepository manages stored content records. Every query is
// scoped by owner id; the content core itself stays owner-agnostic.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository creates a new repository instance.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

const contentColumns = `id, owner_id, collection_id, tool_id, kind, title, payload, created_at, updated_at`

// List returns the owner's content records matching the filter, newest
// first.
func (r *ContentRepository) List(ctx context.Context, ownerID string, filter models.ContentFilter) ([]models.ContentRecord, error) {
	query := `SELECT ` + contentColumns + ` FROM contents WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", len(args)+1)
		args = append(args, filter.Kind)
	}
	if filter.CollectionID != "" {
		query += fmt.Sprintf(" AND collection_id = $%d", len(args)+1)
		args = append(args, filter.CollectionID)
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND title ILIKE $%d", len(args)+1)
		args = append(args, "%"+filter.Search+"%")
	}
	query += " ORDER BY created_at DESC"

	var records []models.ContentRecord
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	return records, nil
}

// FindByID returns a single owned content record.
func (r *ContentRepository) FindByID(ctx context.Context, ownerID, id string) (*models.ContentRecord, error) {
	const query = `SELECT ` + contentColumns + ` FROM contents WHERE id = $1 AND owner_id = $2`
	var record models.ContentRecord
	if err := r.db.GetContext(ctx, &record, query, id, ownerID); err != nil {
		return nil, err
	}
	return &record, nil
}

// Create inserts a record; identity is assigned here when absent.
func (r *ContentRepository) Create(ctx context.Context, record *models.ContentRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now
	const query = `INSERT INTO contents (id, owner_id, collection_id, tool_id, kind, title, payload, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	if _, err := r.db.ExecContext(ctx, query,
		record.ID, record.OwnerID, record.CollectionID, record.ToolID,
		record.Kind, record.Title, record.Payload, record.CreatedAt, record.UpdatedAt,
	); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of an owned record.
func (r *ContentRepository) Update(ctx context.Context, record *models.ContentRecord) error {
	record.UpdatedAt = time.Now().UTC()
	const query = `UPDATE contents SET collection_id = $1, title = $2, payload = $3, updated_at = $4
        WHERE id = $5 AND owner_id = $6`
	result, err := r.db.ExecContext(ctx, query,
		record.CollectionID, record.Title, record.Payload, record.UpdatedAt, record.ID, record.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update content %s: no matching row", record.ID)
	}
	return nil
}

// BatchUpsert inserts records keeping their original identifiers,
// updating on conflict. Running the same batch twice therefore creates
// no duplicates, which is what makes the local-storage migration safe
// to retry. An id that already belongs to a different owner makes the
// guarded upsert touch zero rows; those ids are returned as rejected
// rather than silently swallowed.
func (r *ContentRepository) BatchUpsert(ctx context.Context, records []models.ContentRecord) ([]string, error) {
	if len(records) == 0 {
		return nil, nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	const query = `INSERT INTO contents (id, owner_id, collection_id, tool_id, kind, title, payload, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (id) DO UPDATE SET
            collection_id = EXCLUDED.collection_id,
            title = EXCLUDED.title,
            payload = EXCLUDED.payload,
            updated_at = EXCLUDED.updated_at
        WHERE contents.owner_id = EXCLUDED.owner_id`
	var rejected []string
	for _, record := range records {
		result, err := tx.ExecContext(ctx, query,
			record.ID, record.OwnerID, record.CollectionID, record.ToolID,
			record.Kind, record.Title, record.Payload, record.CreatedAt, record.UpdatedAt,
		)
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("upsert content %s: %w", record.ID, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			tx.Rollback() //nolint:errcheck
			return nil, fmt.Errorf("upsert content %s: %w", record.ID, err)
		}
		if rows == 0 {
			rejected = append(rejected, record.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit content batch: %w", err)
	}
	return rejected, nil
}
