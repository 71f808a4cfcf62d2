package models

// Difficulty grades generated material.
type Difficulty string

const (
	DifficultyIntro      Difficulty = "introductory"
	DifficultyStandard   Difficulty = "standard"
	DifficultyAdvanced   Difficulty = "advanced"
	DifficultyEnrichment Difficulty = "enrichment"
)

// GenerationParams is the ephemeral request object driving one
// dispatcher call. It is constructed fresh per submission and never
// persisted.
type GenerationParams struct {
	Audience Audience
	Kind     ContentKind
	ToolID   string
	Subject  string
	Grade    string
	Topic    string

	Standard                string
	Objectives              []string
	Difficulty              Difficulty
	BloomsLevel             string
	DifferentiationProfiles []string

	// Assessment extras.
	QuestionCount    int
	IncludeRubric    bool
	AssociatedRubric *Rubric

	// Image extras.
	ImageStyle  string
	AspectRatio string

	// Package extras: sub-kinds generated under one collection.
	PackageKinds []ContentKind

	// Persona is the caller's stored stylistic instruction, merged
	// into the prompt when non-empty.
	Persona string
}
