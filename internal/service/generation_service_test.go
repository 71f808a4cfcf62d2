package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type fakeBackend struct {
	response   json.RawMessage
	err        error
	imageBytes []byte
	imageErr   error
	chunks     []string
	lastPrompt string
	lastAspect string
	calls      int
}

func (f *fakeBackend) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.response, f.err
}

func (f *fakeBackend) GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error) {
	f.calls++
	f.lastPrompt = prompt
	f.lastAspect = aspectRatio
	return f.imageBytes, f.imageErr
}

func (f *fakeBackend) StreamRefine(ctx context.Context, instruction, text string, onChunk func(chunk string) error) error {
	if f.err != nil {
		return f.err
	}
	for _, chunk := range f.chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeBackend) Name() string { return "fake-model" }

type fakeSettings struct {
	persona string
}

func (f *fakeSettings) Get(ctx context.Context, userID string) (*models.UserSettings, error) {
	return &models.UserSettings{UserID: userID, Persona: f.persona}, nil
}

func lessonResponse() json.RawMessage {
	return json.RawMessage(`{
		"id": "model-assigned-id",
		"title": "Photosynthesis Basics",
		"generatedAt": "1999-01-01T00:00:00Z",
		"targetAudience": "educator",
		"subject": "Science",
		"gradeLevel": "7th Grade",
		"content": "# Photosynthesis\nPlants convert light into energy."
	}`)
}

func lessonRequest() GenerateContentRequest {
	return GenerateContentRequest{
		ToolID:     "lesson-plan",
		Subject:    "Science",
		GradeLevel: "7th Grade",
		Topic:      "Photosynthesis",
	}
}

func TestGenerateStampsFreshIdentity(t *testing.T) {
	backend := &fakeBackend{response: lessonResponse()}
	svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

	result, err := svc.Generate(context.Background(), "user-1", lessonRequest())
	require.NoError(t, err)

	base := result.Content.Base()
	assert.NotEmpty(t, base.ID)
	assert.NotEqual(t, "model-assigned-id", base.ID, "the backend's own id must be discarded")
	assert.WithinDuration(t, time.Now(), base.GeneratedAt, time.Minute, "the backend's timestamp must be replaced")
	assert.Equal(t, "Photosynthesis Basics", base.Title)
	assert.Equal(t, models.KindLesson, result.Kind)
	assert.Equal(t, "fake-model", result.Model)
}

func TestGenerateDistinguishesBackendAndShapeFailures(t *testing.T) {
	t.Run("backend error", func(t *testing.T) {
		backend := &fakeBackend{err: assert.AnError}
		svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

		_, err := svc.Generate(context.Background(), "user-1", lessonRequest())
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrGenerationFailed.Code, appErrors.FromError(err).Code)
	})

	t.Run("wrong shape", func(t *testing.T) {
		backend := &fakeBackend{response: json.RawMessage(`{"title": "only a title"}`)}
		svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

		_, err := svc.Generate(context.Background(), "user-1", lessonRequest())
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrSchemaMismatch.Code, appErrors.FromError(err).Code)
	})

	t.Run("non-JSON text", func(t *testing.T) {
		backend := &fakeBackend{response: json.RawMessage(`I am sorry, I cannot do that.`)}
		svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

		_, err := svc.Generate(context.Background(), "user-1", lessonRequest())
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrGenerationFailed.Code, appErrors.FromError(err).Code)
	})
}

func TestGenerateRepairsBracketedAnswerKeys(t *testing.T) {
	backend := &fakeBackend{response: json.RawMessage(`{
		"title": "Unit Quiz",
		"subject": "Science",
		"gradeLevel": "7th Grade",
		"pointsTotal": 10,
		"questions": [
			{"type": "multiple-choice", "prompt": "Pick all that apply", "choices": ["A", "B", "C"], "answerKey": "[\"A\",\"C\"]", "points": 5},
			{"type": "short-answer", "prompt": "Explain", "answerKey": "[A,C]", "points": 5}
		]
	}`)}
	svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

	result, err := svc.Generate(context.Background(), "user-1", GenerateContentRequest{
		ToolID:     "assessment",
		Subject:    "Science",
		GradeLevel: "7th Grade",
		Topic:      "Photosynthesis",
	})
	require.NoError(t, err)

	assessment, ok := result.Content.(*models.Assessment)
	require.True(t, ok)
	require.Len(t, assessment.Questions, 2)

	list, ok := assessment.Questions[0].Answer.List()
	require.True(t, ok, "a parseable bracketed literal becomes a real list")
	assert.Equal(t, []string{"A", "C"}, list)

	str, ok := assessment.Questions[1].Answer.String()
	require.True(t, ok, "an unparsable bracketed string stays a string")
	assert.Equal(t, "[A,C]", str)

	assert.NotEmpty(t, assessment.Questions[0].ID)
	assert.NotEmpty(t, assessment.Questions[1].ID)
	assert.NotEqual(t, assessment.Questions[0].ID, assessment.Questions[1].ID)
}

func TestGenerateAttachesAssociatedRubric(t *testing.T) {
	backend := &fakeBackend{response: json.RawMessage(`{
		"title": "Unit Quiz",
		"subject": "Science",
		"gradeLevel": "7th Grade",
		"pointsTotal": 4,
		"questions": [
			{"type": "essay", "prompt": "Discuss", "answerKey": "open response", "points": 4}
		]
	}`)}
	svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

	req := GenerateContentRequest{
		ToolID:        "assessment",
		Subject:       "Science",
		GradeLevel:    "7th Grade",
		Topic:         "Photosynthesis",
		IncludeRubric: true,
		AssociatedRubric: &models.Rubric{
			ContentBase: models.ContentBase{Title: "Essay Rubric"},
			Rows: []models.RubricRow{{
				Criterion: "Clarity",
				Levels: []models.RubricLevel{
					{Label: "Strong", Points: 4, Description: "Clear throughout"},
					{Label: "Weak", Points: 1, Description: "Hard to follow"},
				},
			}},
		},
	}
	result, err := svc.Generate(context.Background(), "user-1", req)
	require.NoError(t, err)

	assessment := result.Content.(*models.Assessment)
	require.NotNil(t, assessment.Rubric)
	assert.Equal(t, "Essay Rubric", assessment.Rubric.Title)
	assert.NotEmpty(t, assessment.Rubric.ID)
	assert.Equal(t, 4.0, assessment.Rubric.PointsTotal, "one criterion times max points")
}

func TestGenerateImageEncodesBytes(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	backend := &fakeBackend{imageBytes: payload}
	svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

	result, err := svc.Generate(context.Background(), "user-1", GenerateContentRequest{
		ToolID:     "illustration",
		Topic:      "a plant cell",
		ImageStyle: "watercolor",
	})
	require.NoError(t, err)

	image, ok := result.Content.(*models.ImageContent)
	require.True(t, ok)
	assert.Equal(t, base64.StdEncoding.EncodeToString(payload), image.Base64Image)
	assert.Equal(t, "1:1", backend.lastAspect)
	assert.Contains(t, backend.lastPrompt, "a plant cell")
	assert.NotEqual(t, "a plant cell", backend.lastPrompt, "a non-default style prepends its prefix")
}

func TestGenerateImageEmptyBytesIsAFailure(t *testing.T) {
	backend := &fakeBackend{imageBytes: nil}
	svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

	_, err := svc.Generate(context.Background(), "user-1", GenerateContentRequest{
		ToolID: "illustration",
		Topic:  "a plant cell",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrGenerationFailed.Code, appErrors.FromError(err).Code)
}

func TestGenerateMergesPersonaIntoPrompt(t *testing.T) {
	backend := &fakeBackend{response: lessonResponse()}
	svc := NewGenerationService(backend, &fakeSettings{persona: "Always include a hands-on demo."}, nil, nil, nil, time.Minute)

	_, err := svc.Generate(context.Background(), "user-1", lessonRequest())
	require.NoError(t, err)
	assert.Contains(t, backend.lastPrompt, "Always include a hands-on demo.")
}

func TestRefineStreamsChunksInOrder(t *testing.T) {
	backend := &fakeBackend{chunks: []string{"refined:", " first", " second"}}
	svc := NewGenerationService(backend, &fakeSettings{}, nil, nil, nil, time.Minute)

	var got []string
	err := svc.Refine(context.Background(), RefineRequest{Instruction: "simplify", Text: "some text"}, func(chunk string) error {
		got = append(got, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"refined:", " first", " second"}, got)
}

func TestBuildParams(t *testing.T) {
	t.Run("unknown tool", func(t *testing.T) {
		_, _, err := BuildParams(GenerateContentRequest{ToolID: "nope", Topic: "x"})
		require.Error(t, err)
	})

	t.Run("image tool needs no subject", func(t *testing.T) {
		params, tool, err := BuildParams(GenerateContentRequest{ToolID: "illustration", Topic: "a map"})
		require.NoError(t, err)
		assert.True(t, tool.IsImage)
		assert.Equal(t, models.KindImage, params.Kind)
	})

	t.Run("structured tool requires subject and grade", func(t *testing.T) {
		_, _, err := BuildParams(GenerateContentRequest{ToolID: "lesson-plan", Topic: "x"})
		require.Error(t, err)
	})

	t.Run("package tool carries sub-kinds", func(t *testing.T) {
		params, tool, err := BuildParams(GenerateContentRequest{
			ToolID: "unit-package", Subject: "Science", GradeLevel: "7th Grade", Topic: "Cells",
		})
		require.NoError(t, err)
		assert.True(t, tool.IsPackage)
		assert.NotEmpty(t, params.PackageKinds)
	})
}

func TestRepairAnswerKeyLeavesNonStringsAlone(t *testing.T) {
	question := map[string]any{"answerKey": true}
	repairAnswerKey(question)
	assert.Equal(t, true, question["answerKey"])

	question = map[string]any{"answerKey": "plain answer"}
	repairAnswerKey(question)
	assert.Equal(t, "plain answer", question["answerKey"])
}
