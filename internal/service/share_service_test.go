package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

func TestShareRoundTrip(t *testing.T) {
	repo := newMockContentRepo()
	repo.records["lesson-1"] = models.ContentRecord{
		ID:      "lesson-1",
		OwnerID: "user-1",
		Kind:    models.KindLesson,
		Title:   "Photosynthesis",
		Payload: validLessonPayload(),
	}
	svc := NewShareService(repo, nil)

	token, err := svc.Encode(context.Background(), "user-1", "lesson-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	shared, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, models.KindLesson, shared.Kind)
	assert.Equal(t, "Photosynthesis", shared.Title)
	assert.JSONEq(t, string(validLessonPayload()), string(shared.Payload))
}

func TestShareDecodeRejectsGarbage(t *testing.T) {
	svc := NewShareService(newMockContentRepo(), nil)

	for _, token := range []string{"", "not!base64url", "bm90IGd6aXA"} {
		_, err := svc.Decode(token)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrShareDecode.Code, appErrors.FromError(err).Code)
	}
}

func TestShareEncodeRequiresOwnership(t *testing.T) {
	repo := newMockContentRepo()
	repo.records["lesson-1"] = models.ContentRecord{ID: "lesson-1", OwnerID: "someone-else", Kind: models.KindLesson, Payload: validLessonPayload()}
	svc := NewShareService(repo, nil)

	_, err := svc.Encode(context.Background(), "user-1", "lesson-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestShareDecodeValidatesPayload(t *testing.T) {
	repo := newMockContentRepo()
	repo.records["lesson-1"] = models.ContentRecord{
		ID: "lesson-1", OwnerID: "user-1", Kind: models.KindLesson, Title: "Broken",
		Payload: []byte(`{"title": "missing required fields"}`),
	}
	svc := NewShareService(repo, nil)

	token, err := svc.Encode(context.Background(), "user-1", "lesson-1")
	require.NoError(t, err, "encode does not re-validate; the store only holds gate-approved payloads")

	_, err = svc.Decode(token)
	require.Error(t, err, "decode always re-validates before showing shared content")
}
