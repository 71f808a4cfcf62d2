package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type fakePackageDispatcher struct {
	failKind models.ContentKind
	calls    []models.ContentKind
}

func (f *fakePackageDispatcher) GenerateKind(ctx context.Context, params models.GenerationParams) (*GenerationResult, error) {
	f.calls = append(f.calls, params.Kind)
	if params.Kind == f.failKind {
		return nil, appErrors.Clone(appErrors.ErrGenerationFailed, "model unavailable")
	}
	content := &models.EducationalContent{
		ContentBase: models.ContentBase{
			ID:          uuid.NewString(),
			Type:        params.Kind,
			Title:       string(params.Kind) + ": " + params.Topic,
			GeneratedAt: time.Now().UTC(),
		},
	}
	payload, _ := json.Marshal(content)
	return &GenerationResult{Content: content, Payload: payload, Kind: params.Kind, ToolID: params.ToolID}, nil
}

type spyCollectionCreator struct {
	created []models.Collection
}

func (s *spyCollectionCreator) Create(ctx context.Context, collection *models.Collection) error {
	if collection.ID == "" {
		collection.ID = uuid.NewString()
	}
	s.created = append(s.created, *collection)
	return nil
}

func packageRequest() GeneratePackageRequest {
	return GeneratePackageRequest{
		ToolID:     "unit-package",
		Subject:    "Science",
		GradeLevel: "7th Grade",
		Topic:      "Cells",
	}
}

func TestPackageGeneratesAllKindsSequentially(t *testing.T) {
	dispatcher := &fakePackageDispatcher{}
	collections := &spyCollectionCreator{}
	contents := &spyContentWriter{}
	svc := NewPackageService(dispatcher, collections, contents, &fakeSettings{}, nil, nil)

	result, err := svc.Generate(context.Background(), "user-1", packageRequest())
	require.NoError(t, err)

	require.Nil(t, result.Failure)
	require.Len(t, collections.created, 1)
	assert.Equal(t, "Unit: Cells", collections.created[0].Name)
	assert.Equal(t, []models.ContentKind{models.KindLesson, models.KindAssessment, models.KindResource}, dispatcher.calls)
	require.Len(t, contents.records, 3)
	for _, record := range contents.records {
		require.NotNil(t, record.CollectionID)
		assert.Equal(t, result.Collection.ID, *record.CollectionID)
	}
}

func TestPackagePartialFailureKeepsSavedSiblings(t *testing.T) {
	dispatcher := &fakePackageDispatcher{failKind: models.KindAssessment}
	collections := &spyCollectionCreator{}
	contents := &spyContentWriter{}
	svc := NewPackageService(dispatcher, collections, contents, &fakeSettings{}, nil, nil)

	result, err := svc.Generate(context.Background(), "user-1", packageRequest())
	require.NoError(t, err, "a sub-generation failure is reported in the result, not as a request error")

	require.NotNil(t, result.Failure)
	assert.Equal(t, models.KindAssessment, result.Failure.Kind)

	require.Len(t, contents.records, 1, "the lesson saved before the failure stays saved")
	assert.Equal(t, models.KindLesson, contents.records[0].Kind)
	require.Len(t, collections.created, 1, "the collection is not rolled back")

	assert.Equal(t, []models.ContentKind{models.KindLesson, models.KindAssessment}, dispatcher.calls,
		"the run stops at the failing kind")
}

func TestPackageRejectsNonPackageTool(t *testing.T) {
	svc := NewPackageService(&fakePackageDispatcher{}, &spyCollectionCreator{}, &spyContentWriter{}, &fakeSettings{}, nil, nil)

	req := packageRequest()
	req.ToolID = "lesson-plan"
	_, err := svc.Generate(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
