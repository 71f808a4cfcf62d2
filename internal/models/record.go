package models

import (
	"encoding/json"
	"time"
)

// ContentRecord is the stored form of a content item: the kind-specific
// payload is kept as opaque structured data alongside denormalized
// columns used for listing and filtering. Every record is exclusively
// owned by the account that created it.
type ContentRecord struct {
	ID           string          `db:"id" json:"id"`
	OwnerID      string          `db:"owner_id" json:"-"`
	CollectionID *string         `db:"collection_id" json:"collection_id,omitempty"`
	ToolID       string          `db:"tool_id" json:"tool_id"`
	Kind         ContentKind     `db:"kind" json:"type"`
	Title        string          `db:"title" json:"title"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// ContentFilter narrows content listing.
type ContentFilter struct {
	Kind         ContentKind
	CollectionID string
	Search       string
}

// Collection groups content items by reference; membership is a
// nullable foreign key on the content row. Deleting a collection's
// effect on members is left to the store (no cascade specified).
type Collection struct {
	ID        string    `db:"id" json:"id"`
	OwnerID   string    `db:"owner_id" json:"-"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserSettings holds per-account preferences; Persona is a free-text
// instruction merged into future generation prompts.
type UserSettings struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Persona   string    `db:"persona" json:"persona"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
