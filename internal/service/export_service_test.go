package service

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/jobs"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/storage"
)

// inlineQueue runs each job synchronously through the handler, keeping
// the test deterministic.
type inlineQueue struct {
	handler func(context.Context, jobs.Job) error
	lastErr error
}

func (q *inlineQueue) Enqueue(job jobs.Job) error {
	q.lastErr = q.handler(context.Background(), job)
	return nil
}

func rubricPayload() []byte {
	return []byte(`{
		"id": "rubric-1",
		"title": "Lab Rubric",
		"generatedAt": "2026-08-20T10:00:00Z",
		"pointsTotal": 8,
		"rows": [
			{"criterion": "Hypothesis", "levels": [
				{"label": "Strong", "points": 4, "description": "Testable"},
				{"label": "Weak", "points": 1, "description": "Vague"}
			]},
			{"criterion": "Analysis", "levels": [
				{"label": "Strong", "points": 4, "description": "Thorough"},
				{"label": "Weak", "points": 1, "description": "Superficial"}
			]}
		]
	}`)
}

func newExportFixture(t *testing.T) (*ExportService, *inlineQueue, *mockContentRepo) {
	t.Helper()
	repo := newMockContentRepo()
	repo.records["rubric-1"] = models.ContentRecord{
		ID: "rubric-1", OwnerID: "user-1", Kind: models.KindRubric, Title: "Lab Rubric", Payload: rubricPayload(),
	}

	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", 0)

	svc := NewExportService(repo, newMemStore(), local, signer, nil, nil, nil)
	queue := &inlineQueue{handler: svc.HandleJob}
	svc.SetQueue(queue)
	return svc, queue, repo
}

func TestExportRendersAndSigns(t *testing.T) {
	svc, queue, _ := newExportFixture(t)

	for _, format := range []models.ExportFormat{models.ExportCSV, models.ExportPDF} {
		job, err := svc.Create(context.Background(), "user-1", CreateExportRequest{ContentID: "rubric-1", Format: format})
		require.NoError(t, err)
		require.NoError(t, queue.lastErr)

		done, err := svc.Get(context.Background(), "user-1", job.ID)
		require.NoError(t, err)
		assert.Equal(t, models.ExportDone, done.Status)
		require.NotEmpty(t, done.DownloadToken)

		file, name, err := svc.Download(done.DownloadToken)
		require.NoError(t, err)
		data, err := io.ReadAll(file)
		require.NoError(t, file.Close())
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		assert.Contains(t, name, string(format))
	}
}

func TestExportCSVOfRubricCarriesGrid(t *testing.T) {
	svc, queue, _ := newExportFixture(t)

	job, err := svc.Create(context.Background(), "user-1", CreateExportRequest{ContentID: "rubric-1", Format: models.ExportCSV})
	require.NoError(t, err)
	require.NoError(t, queue.lastErr)

	done, err := svc.Get(context.Background(), "user-1", job.ID)
	require.NoError(t, err)
	file, _, err := svc.Download(done.DownloadToken)
	require.NoError(t, err)
	defer file.Close()

	data, err := io.ReadAll(file)
	require.NoError(t, err)
	csv := string(data)
	assert.Contains(t, csv, "Criterion")
	assert.Contains(t, csv, "Strong (4)")
	assert.Contains(t, csv, "Hypothesis")
	assert.Contains(t, csv, "Thorough")
}

func TestExportProseKindRejectsCSV(t *testing.T) {
	svc, queue, repo := newExportFixture(t)
	repo.records["lesson-1"] = models.ContentRecord{
		ID: "lesson-1", OwnerID: "user-1", Kind: models.KindLesson, Title: "Photosynthesis", Payload: validLessonPayload(),
	}

	job, err := svc.Create(context.Background(), "user-1", CreateExportRequest{ContentID: "lesson-1", Format: models.ExportCSV})
	require.NoError(t, err)
	require.NoError(t, queue.lastErr)

	failed, err := svc.Get(context.Background(), "user-1", job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportFailed, failed.Status)
	assert.NotEmpty(t, failed.Error)
}

func TestExportRequiresOwnership(t *testing.T) {
	svc, _, _ := newExportFixture(t)

	_, err := svc.Create(context.Background(), "user-2", CreateExportRequest{ContentID: "rubric-1", Format: models.ExportPDF})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestDownloadRejectsTamperedToken(t *testing.T) {
	svc, queue, _ := newExportFixture(t)
	job, err := svc.Create(context.Background(), "user-1", CreateExportRequest{ContentID: "rubric-1", Format: models.ExportPDF})
	require.NoError(t, err)
	require.NoError(t, queue.lastErr)

	done, err := svc.Get(context.Background(), "user-1", job.ID)
	require.NoError(t, err)

	_, _, err = svc.Download(done.DownloadToken + "tampered")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
