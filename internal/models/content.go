package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContentKind discriminates the closed set of content shapes the studio
// can generate and store.
type ContentKind string

const (
	KindLesson              ContentKind = "lesson"
	KindActivity            ContentKind = "activity"
	KindResource            ContentKind = "resource"
	KindPrintable           ContentKind = "printable"
	KindAssessment          ContentKind = "assessment"
	KindAssessmentQuestions ContentKind = "assessment-questions"
	KindRubric              ContentKind = "rubric"
	KindImage               ContentKind = "image"
	KindFlashcard           ContentKind = "flashcard"
	KindInfographic         ContentKind = "infographic"
)

// Kinds lists every known content kind.
var Kinds = []ContentKind{
	KindLesson, KindActivity, KindResource, KindPrintable,
	KindAssessment, KindAssessmentQuestions, KindRubric,
	KindImage, KindFlashcard, KindInfographic,
}

// Valid reports whether the kind belongs to the closed catalog.
func (k ContentKind) Valid() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// Audience identifies who a piece of content is written for.
type Audience string

const (
	AudienceEducator Audience = "educator"
	AudienceStudent  Audience = "student"
	AudienceBoth     Audience = "both"
	AudienceSeller   Audience = "seller"
)

// ContentBase carries the fields shared by every content variant. ID is
// assigned once at creation and never reassigned; GeneratedAt is the
// creation timestamp and immutable thereafter.
type ContentBase struct {
	ID          string      `json:"id"`
	Type        ContentKind `json:"type"`
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// Kind returns the discriminant tag.
func (b *ContentBase) Kind() ContentKind { return b.Type }

// Base exposes the shared fields to kind-agnostic code.
func (b *ContentBase) Base() *ContentBase { return b }

// Content is the tagged union over all content variants.
type Content interface {
	Kind() ContentKind
	Base() *ContentBase
}

// EducationalContent backs the lesson, activity, resource and printable
// kinds: the body is an opaque rich-text blob, the kind owns no internal
// structure beyond the metadata.
type EducationalContent struct {
	ContentBase
	TargetAudience Audience        `json:"targetAudience"`
	Subject        string          `json:"subject"`
	GradeLevel     string          `json:"gradeLevel"`
	Standard       string          `json:"standard,omitempty"`
	Body           string          `json:"content"`
	Metadata       ContentMetadata `json:"metadata"`
}

// ContentMetadata carries optional teaching metadata.
type ContentMetadata struct {
	Duration        string   `json:"duration,omitempty"`
	Materials       []string `json:"materials,omitempty"`
	Objectives      []string `json:"objectives,omitempty"`
	Differentiation []string `json:"differentiation,omitempty"`
	Alignment       []string `json:"alignment,omitempty"`
}

// QuestionType enumerates supported assessment question formats.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionShortAnswer    QuestionType = "short-answer"
	QuestionEssay          QuestionType = "essay"
	QuestionTrueFalse      QuestionType = "true-false"
)

// Question is a single assessment item. Choices only carry meaning for
// multiple-choice questions.
type Question struct {
	ID      string       `json:"id"`
	Type    QuestionType `json:"type"`
	Prompt  string       `json:"prompt"`
	Choices []string     `json:"choices,omitempty"`
	Answer  AnswerKey    `json:"answerKey"`
	Points  float64      `json:"points"`
}

// Assessment covers both the assessment and assessment-questions kinds.
// PointsTotal is stored as emitted; it is not cross-checked against the
// per-question sum (observed upstream behaviour, kept as-is).
type Assessment struct {
	ContentBase
	Subject     string     `json:"subject"`
	GradeLevel  string     `json:"gradeLevel"`
	Questions   []Question `json:"questions"`
	PointsTotal float64    `json:"pointsTotal"`
	Rubric      *Rubric    `json:"rubric,omitempty"`
}

// RubricLevel is one achievement level of a rubric: an ordered cell
// column with a label, a point value and per-criterion prose.
type RubricLevel struct {
	Label       string  `json:"label"`
	Points      float64 `json:"points"`
	Description string  `json:"description"`
}

// RubricRow pairs a criterion with its cells across all levels.
type RubricRow struct {
	Criterion string        `json:"criterion"`
	Levels    []RubricLevel `json:"levels"`
}

// Rubric is a scored criteria grid. PointsTotal is derived as the
// criteria count times the maximum level points; per-criterion scales
// are not supported.
type Rubric struct {
	ContentBase
	Rows        []RubricRow `json:"rows"`
	PointsTotal float64     `json:"pointsTotal"`
}

// DerivePointsTotal computes criteria × max(level points).
func (r *Rubric) DerivePointsTotal() float64 {
	maxPoints := 0.0
	for _, row := range r.Rows {
		for _, level := range row.Levels {
			if level.Points > maxPoints {
				maxPoints = level.Points
			}
		}
	}
	return float64(len(r.Rows)) * maxPoints
}

// ImageContent stores a generated illustration. No subject or grade
// fields apply.
type ImageContent struct {
	ContentBase
	Prompt      string `json:"prompt"`
	Base64Image string `json:"base64Image"`
	Style       string `json:"style,omitempty"`
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// Flashcard is a single front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardSet is the flashcard content kind.
type FlashcardSet struct {
	ContentBase
	Subject    string      `json:"subject"`
	GradeLevel string      `json:"gradeLevel"`
	Cards      []Flashcard `json:"cards"`
}

// InfographicSection is a heading/body block of an infographic outline.
type InfographicSection struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// Infographic is a structured outline meant for visual rendering.
type Infographic struct {
	ContentBase
	Subject    string               `json:"subject"`
	GradeLevel string               `json:"gradeLevel"`
	Sections   []InfographicSection `json:"sections"`
}

// AnswerKey is a polymorphic answer value: string, number, boolean, or
// a list of strings (multiple-choice with several correct options).
type AnswerKey struct {
	value any
}

// NewAnswerKey wraps a supported value. Unsupported types are stored
// as their string representation.
func NewAnswerKey(v any) AnswerKey {
	switch v.(type) {
	case string, float64, int, bool, []string, nil:
		return AnswerKey{value: v}
	default:
		return AnswerKey{value: fmt.Sprintf("%v", v)}
	}
}

// Value returns the underlying answer.
func (a AnswerKey) Value() any { return a.value }

// List returns the answer as a string list when it holds one.
func (a AnswerKey) List() ([]string, bool) {
	list, ok := a.value.([]string)
	return list, ok
}

// String returns the answer as a string when it holds one.
func (a AnswerKey) String() (string, bool) {
	s, ok := a.value.(string)
	return s, ok
}

// MarshalJSON writes the underlying value verbatim.
func (a AnswerKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.value)
}

// UnmarshalJSON accepts string, number, boolean or string-array values.
func (a *AnswerKey) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		a.value = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		a.value = s
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		a.value = n
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		a.value = b
		return nil
	}
	if string(data) == "null" {
		a.value = nil
		return nil
	}
	return fmt.Errorf("answer key: unsupported value %s", data)
}
