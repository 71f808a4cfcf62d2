package models

import "time"

// DraftStatus tracks the rubric builder state machine.
type DraftStatus string

const (
	DraftEditing    DraftStatus = "editing"
	DraftGenerating DraftStatus = "generating"
	DraftSaved      DraftStatus = "saved"
)

// DraftLevel is an achievement-level column of the draft grid.
type DraftLevel struct {
	Label  string  `json:"label"`
	Points float64 `json:"points"`
}

// DraftCriterion is a row of the draft grid; Descriptions is aligned
// index-for-index with the draft's level set.
type DraftCriterion struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
}

// RubricDraft is the server-held working state of the interactive
// rubric builder. Structural fields (title, criteria names, level
// labels and points) are frozen while a generation call is in flight so
// the merge-back cannot be re-keyed out from under it.
type RubricDraft struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"-"`
	Title      string           `json:"title"`
	Subject    string           `json:"subject,omitempty"`
	GradeLevel string           `json:"gradeLevel,omitempty"`
	Levels     []DraftLevel     `json:"levels"`
	Criteria   []DraftCriterion `json:"criteria"`
	Status     DraftStatus      `json:"status"`
	ContentID  string           `json:"contentId,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}
