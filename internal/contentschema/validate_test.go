package contentschema

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

func TestValidateDecodesLesson(t *testing.T) {
	payload := json.RawMessage(`{
		"id": "lesson-1",
		"title": "Photosynthesis",
		"generatedAt": "2026-08-20T10:00:00Z",
		"targetAudience": "educator",
		"subject": "Science",
		"gradeLevel": "7th Grade",
		"standard": "NGSS MS-LS1-6",
		"content": "# Lesson body",
		"metadata": {"duration": "45 min", "objectives": ["Explain the light reactions"]}
	}`)

	content, err := Validate(models.KindLesson, payload)
	require.NoError(t, err)

	lesson, ok := content.(*models.EducationalContent)
	require.True(t, ok)
	assert.Equal(t, models.KindLesson, lesson.Kind())
	assert.Equal(t, "Photosynthesis", lesson.Title)
	assert.Equal(t, models.AudienceEducator, lesson.TargetAudience)
	assert.Equal(t, "45 min", lesson.Metadata.Duration)
}

func TestValidateRoundTripsEveryKind(t *testing.T) {
	generatedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	base := func(kind models.ContentKind, id, title string) models.ContentBase {
		return models.ContentBase{ID: id, Type: kind, Title: title, GeneratedAt: generatedAt}
	}

	educational := func(kind models.ContentKind) models.Content {
		return &models.EducationalContent{
			ContentBase:    base(kind, string(kind)+"-1", "Photosynthesis"),
			TargetAudience: models.AudienceEducator,
			Subject:        "Science",
			GradeLevel:     "7th Grade",
			Body:           "# Body",
			Metadata:       models.ContentMetadata{Duration: "45 min", Objectives: []string{"Explain the light reactions"}},
		}
	}
	assessment := func(kind models.ContentKind) models.Content {
		return &models.Assessment{
			ContentBase: base(kind, string(kind)+"-1", "Unit quiz"),
			Subject:     "Science",
			GradeLevel:  "7th Grade",
			PointsTotal: 5,
			Questions: []models.Question{{
				ID: "q-1", Type: models.QuestionMultipleChoice, Prompt: "Pick one",
				Choices: []string{"A", "B"}, Answer: models.NewAnswerKey("B"), Points: 5,
			}},
		}
	}

	fixtures := map[models.ContentKind]models.Content{
		models.KindLesson:              educational(models.KindLesson),
		models.KindActivity:            educational(models.KindActivity),
		models.KindResource:            educational(models.KindResource),
		models.KindPrintable:           educational(models.KindPrintable),
		models.KindAssessment:          assessment(models.KindAssessment),
		models.KindAssessmentQuestions: assessment(models.KindAssessmentQuestions),
		models.KindRubric: &models.Rubric{
			ContentBase: base(models.KindRubric, "rubric-1", "Lab report rubric"),
			Rows: []models.RubricRow{{
				Criterion: "Hypothesis",
				Levels: []models.RubricLevel{
					{Label: "Strong", Points: 4, Description: "Testable and precise"},
					{Label: "Weak", Points: 1, Description: "Vague or missing"},
				},
			}},
			PointsTotal: 4,
		},
		models.KindImage: &models.ImageContent{
			ContentBase: base(models.KindImage, "image-1", "Cell diagram"),
			Prompt:      "A labelled plant cell",
			Base64Image: "aW1hZ2U=",
			Style:       "line-art",
			AspectRatio: "1:1",
		},
		models.KindFlashcard: &models.FlashcardSet{
			ContentBase: base(models.KindFlashcard, "flashcard-1", "Organelles"),
			Subject:     "Science",
			GradeLevel:  "7th Grade",
			Cards:       []models.Flashcard{{Front: "Mitochondria", Back: "Powerhouse of the cell"}},
		},
		models.KindInfographic: &models.Infographic{
			ContentBase: base(models.KindInfographic, "infographic-1", "Water cycle"),
			Subject:     "Science",
			GradeLevel:  "7th Grade",
			Sections:    []models.InfographicSection{{Heading: "Evaporation", Body: "Water rises as vapour"}},
		},
	}

	for _, kind := range models.Kinds {
		kind := kind
		t.Run(string(kind), func(t *testing.T) {
			fixture, ok := fixtures[kind]
			require.True(t, ok, "every catalogued kind needs a round-trip fixture")

			raw, err := json.Marshal(fixture)
			require.NoError(t, err)

			decoded, err := Validate(kind, raw)
			require.NoError(t, err)
			assert.Equal(t, fixture, decoded)
		})
	}
}

func TestValidateAggregatesAllIssues(t *testing.T) {
	payload := json.RawMessage(`{
		"id": "lesson-1",
		"title": "",
		"generatedAt": "2026-08-20T10:00:00Z",
		"targetAudience": "wizard",
		"subject": 42,
		"content": "body"
	}`)

	_, err := Validate(models.KindLesson, payload)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.GreaterOrEqual(t, len(vErr.Issues), 4, "every mismatch is reported, not just the first")

	paths := make(map[string]bool)
	for _, issue := range vErr.Issues {
		paths[issue.Path] = true
	}
	assert.True(t, paths["$.title"])
	assert.True(t, paths["$.targetAudience"])
	assert.True(t, paths["$.subject"])
	assert.True(t, paths["$.gradeLevel"])
}

func TestValidateUnknownKindIsNotAValidationError(t *testing.T) {
	_, err := Validate(models.ContentKind("mixtape"), json.RawMessage(`{}`))
	require.Error(t, err)

	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr), "an unknown kind is caller misuse, not malformed input")
}

func TestValidateAnswerKeyPolymorphism(t *testing.T) {
	template := `{
		"id": "a-1",
		"title": "Quiz",
		"generatedAt": "2026-08-20T10:00:00Z",
		"subject": "Science",
		"gradeLevel": "7th Grade",
		"pointsTotal": 5,
		"questions": [{"id": "q-1", "type": "multiple-choice", "prompt": "Pick", "answerKey": %s, "points": 5}]
	}`

	for _, accepted := range []string{`"B"`, `3.14`, `true`, `["A", "C"]`} {
		_, err := Validate(models.KindAssessment, json.RawMessage(fmt.Sprintf(template, accepted)))
		require.NoError(t, err, "answer key %s should validate", accepted)
	}

	_, err := Validate(models.KindAssessment, json.RawMessage(fmt.Sprintf(template, `{"answer": "B"}`)))
	require.Error(t, err, "an object answer key is rejected")

	_, err = Validate(models.KindAssessment, json.RawMessage(fmt.Sprintf(template, `["A", 5]`)))
	require.Error(t, err, "list entries must all be strings")
}

func TestValidateEnforcesPipelineFields(t *testing.T) {
	payload := json.RawMessage(`{
		"title": "No identity",
		"targetAudience": "educator",
		"subject": "Science",
		"gradeLevel": "7th Grade",
		"content": "body"
	}`)

	_, err := Validate(models.KindLesson, payload)
	require.Error(t, err, "id and generatedAt are required even though the model never authors them")
}

func TestValidateNonObjectPayload(t *testing.T) {
	_, err := Validate(models.KindLesson, json.RawMessage(`[1, 2, 3]`))
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}
