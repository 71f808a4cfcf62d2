package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

// SettingsRepository stores per-account settings, currently the
// generation persona.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the user's settings; callers see an empty persona when no
// row exists yet.
func (r *SettingsRepository) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	const query = `SELECT user_id, persona, updated_at FROM user_settings WHERE user_id = $1`
	var settings models.UserSettings
	if err := r.db.GetContext(ctx, &settings, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return &models.UserSettings{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

// UpsertPersona writes the persona text for the user.
func (r *SettingsRepository) UpsertPersona(ctx context.Context, userID, persona string) (*models.UserSettings, error) {
	now := time.Now().UTC()
	const query = `INSERT INTO user_settings (user_id, persona, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (user_id) DO UPDATE SET persona = EXCLUDED.persona, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, userID, persona, now); err != nil {
		return nil, fmt.Errorf("upsert persona: %w", err)
	}
	return &models.UserSettings{UserID: userID, Persona: persona, UpdatedAt: now}, nil
}
