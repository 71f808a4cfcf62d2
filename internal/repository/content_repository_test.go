package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
)

func newContentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func contentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "owner_id", "collection_id", "tool_id", "kind", "title", "payload", "created_at", "updated_at"})
}

func TestContentRepositoryCreateAssignsIdentity(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contents")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	record := &models.ContentRecord{
		OwnerID: "user-1",
		ToolID:  "lesson-plan",
		Kind:    models.KindLesson,
		Title:   "Photosynthesis",
		Payload: []byte(`{"title":"Photosynthesis"}`),
	}
	require.NoError(t, repo.Create(context.Background(), record))
	require.NotEmpty(t, record.ID)
	require.False(t, record.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db)
	now := time.Now()
	rows := contentRows().
		AddRow("content-1", "user-1", nil, "assessment", "assessment", "Unit quiz", []byte(`{}`), now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, owner_id, collection_id")).
		WithArgs("user-1", "assessment", "%quiz%").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), "user-1", models.ContentFilter{
		Kind:   models.KindAssessment,
		Search: "quiz",
	})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "content-1", list[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryUpdateMissingRow(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE contents SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.ContentRecord{
		ID:      "content-missing",
		OwnerID: "user-1",
		Payload: []byte(`{}`),
	})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryBatchUpsertRetriesCleanly(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db)
	records := []models.ContentRecord{
		{ID: "content-1", OwnerID: "user-1", ToolID: "lesson-plan", Kind: models.KindLesson, Title: "Cells", Payload: []byte(`{}`)},
		{ID: "content-2", OwnerID: "user-1", ToolID: "rubric", Kind: models.KindRubric, Title: "Lab rubric", Payload: []byte(`{}`)},
	}

	for i := 0; i < 2; i++ {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contents")).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contents")).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit()
		rejected, err := repo.BatchUpsert(context.Background(), records)
		require.NoError(t, err)
		require.Empty(t, rejected)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryBatchUpsertReportsForeignIds(t *testing.T) {
	db, mock, cleanup := newContentRepoMock(t)
	defer cleanup()

	repo := NewContentRepository(db)
	records := []models.ContentRecord{
		{ID: "content-1", OwnerID: "user-1", ToolID: "lesson-plan", Kind: models.KindLesson, Title: "Cells", Payload: []byte(`{}`)},
		{ID: "content-2", OwnerID: "user-1", ToolID: "rubric", Kind: models.KindRubric, Title: "Lab rubric", Payload: []byte(`{}`)},
	}

	// The ownership guard turns a cross-account id collision into a
	// zero-row statement; that id must come back as rejected.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contents")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO contents")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	rejected, err := repo.BatchUpsert(context.Background(), records)
	require.NoError(t, err)
	require.Equal(t, []string{"content-1"}, rejected)
	require.NoError(t, mock.ExpectationsWereMet())
}
