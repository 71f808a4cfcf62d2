package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type memStore struct {
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type fakeRubricGenerator struct {
	rubric *models.Rubric
	err    error
	calls  int
}

func (f *fakeRubricGenerator) GenerateRubric(ctx context.Context, draft *models.RubricDraft) (*models.Rubric, error) {
	f.calls++
	return f.rubric, f.err
}

type spyContentWriter struct {
	records []models.ContentRecord
	err     error
}

func (s *spyContentWriter) Create(ctx context.Context, record *models.ContentRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, *record)
	return nil
}

func validDraftUpdate() UpdateRubricDraftRequest {
	return UpdateRubricDraftRequest{
		Title: "Lab Report Rubric",
		Levels: []models.DraftLevel{
			{Label: "Strong", Points: 4},
			{Label: "Developing", Points: 2},
		},
		Criteria: []models.DraftCriterion{
			{Name: "Hypothesis", Descriptions: []string{"", ""}},
			{Name: "Analysis", Descriptions: []string{"", ""}},
		},
	}
}

func newRubricFixture(t *testing.T, generator *fakeRubricGenerator, contents *spyContentWriter) (*RubricService, *models.RubricDraft) {
	t.Helper()
	svc := NewRubricService(newMemStore(), generator, contents, nil, nil, time.Hour)
	draft, err := svc.CreateDraft(context.Background(), "user-1", CreateRubricDraftRequest{Title: "Lab Report Rubric"})
	require.NoError(t, err)
	_, err = svc.UpdateDraft(context.Background(), "user-1", draft.ID, validDraftUpdate())
	require.NoError(t, err)
	return svc, draft
}

func TestRubricDraftRejectsDuplicateLevelPoints(t *testing.T) {
	svc, draft := newRubricFixture(t, &fakeRubricGenerator{}, &spyContentWriter{})

	update := validDraftUpdate()
	update.Levels = []models.DraftLevel{
		{Label: "Strong", Points: 3},
		{Label: "Developing", Points: 3},
	}
	_, err := svc.UpdateDraft(context.Background(), "user-1", draft.ID, update)
	require.NoError(t, err, "the grid accepts intermediate states; invariants bind at generate and save")

	_, err = svc.GenerateDescriptions(context.Background(), "user-1", draft.ID)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "duplicate level points")
}

func TestRubricDraftInvariants(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*UpdateRubricDraftRequest)
	}{
		{"single level", func(r *UpdateRubricDraftRequest) {
			r.Levels = r.Levels[:1]
		}},
		{"empty level label", func(r *UpdateRubricDraftRequest) {
			r.Levels[0].Label = ""
		}},
		{"no criteria", func(r *UpdateRubricDraftRequest) {
			r.Criteria = nil
		}},
		{"empty criterion name", func(r *UpdateRubricDraftRequest) {
			r.Criteria[0].Name = ""
		}},
		{"duplicate criterion name", func(r *UpdateRubricDraftRequest) {
			r.Criteria[1].Name = r.Criteria[0].Name
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, draft := newRubricFixture(t, &fakeRubricGenerator{}, &spyContentWriter{})
			update := validDraftUpdate()
			tc.mutate(&update)
			_, err := svc.UpdateDraft(context.Background(), "user-1", draft.ID, update)
			require.NoError(t, err)
			_, err = svc.GenerateDescriptions(context.Background(), "user-1", draft.ID)
			require.Error(t, err)
		})
	}
}

func TestGenerateDescriptionsMergesByCriterionAndLevel(t *testing.T) {
	generator := &fakeRubricGenerator{rubric: &models.Rubric{
		Rows: []models.RubricRow{
			{Criterion: "Hypothesis", Levels: []models.RubricLevel{
				{Label: "Strong", Points: 4, Description: "Testable and precise"},
				{Label: "Developing", Points: 2, Description: "Present but vague"},
			}},
			{Criterion: "Renamed Criterion", Levels: []models.RubricLevel{
				{Label: "Strong", Points: 4, Description: "Should be ignored"},
			}},
		},
	}}
	svc, draft := newRubricFixture(t, generator, &spyContentWriter{})

	updated, err := svc.GenerateDescriptions(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)
	require.Equal(t, 1, generator.calls)

	assert.Equal(t, models.DraftEditing, updated.Status)
	assert.Equal(t, "Testable and precise", updated.Criteria[0].Descriptions[0])
	assert.Equal(t, "Present but vague", updated.Criteria[0].Descriptions[1])
	assert.Empty(t, updated.Criteria[1].Descriptions[0], "a cell with no matching returned pair keeps its prior text")
}

func TestGenerateDescriptionsFailureLeavesCellsUntouched(t *testing.T) {
	generator := &fakeRubricGenerator{err: appErrors.Clone(appErrors.ErrGenerationFailed, "backend down")}
	svc, draft := newRubricFixture(t, generator, &spyContentWriter{})

	update := validDraftUpdate()
	update.Criteria[0].Descriptions = []string{"hand written", ""}
	_, err := svc.UpdateDraft(context.Background(), "user-1", draft.ID, update)
	require.NoError(t, err)

	_, err = svc.GenerateDescriptions(context.Background(), "user-1", draft.ID)
	require.Error(t, err)

	after, err := svc.GetDraft(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftEditing, after.Status, "a failed call returns the draft to editing")
	assert.Equal(t, "hand written", after.Criteria[0].Descriptions[0])
}

func TestSaveDraftDerivesPointsTotalAndPersists(t *testing.T) {
	contents := &spyContentWriter{}
	svc, draft := newRubricFixture(t, &fakeRubricGenerator{}, contents)

	update := validDraftUpdate()
	update.Criteria[0].Descriptions = []string{"a", "b"}
	update.Criteria[1].Descriptions = []string{"c", "d"}
	_, err := svc.UpdateDraft(context.Background(), "user-1", draft.ID, update)
	require.NoError(t, err)

	record, rubric, err := svc.SaveDraft(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)

	assert.Equal(t, 8.0, rubric.PointsTotal, "two criteria times the maximum level points of four")
	require.Len(t, contents.records, 1)
	assert.Equal(t, models.KindRubric, contents.records[0].Kind)
	assert.Equal(t, record.ID, contents.records[0].ID)

	after, err := svc.GetDraft(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftSaved, after.Status)
	assert.Equal(t, record.ID, after.ContentID)
}

func TestSaveDraftRequiresFilledDescriptions(t *testing.T) {
	contents := &spyContentWriter{}
	svc, draft := newRubricFixture(t, &fakeRubricGenerator{}, contents)

	_, _, err := svc.SaveDraft(context.Background(), "user-1", draft.ID)
	require.Error(t, err)
	assert.Empty(t, contents.records, "nothing reaches the store when validation fails")
}

func TestDraftStructureLockedWhileGenerating(t *testing.T) {
	svc, draft := newRubricFixture(t, &fakeRubricGenerator{}, &spyContentWriter{})

	// Force the stored status to generating, as it would be while a
	// call is in flight.
	stored, err := svc.GetDraft(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)
	stored.Status = models.DraftGenerating
	require.NoError(t, svc.store.Set(context.Background(), draftKey("user-1", draft.ID), stored, time.Hour))

	_, err = svc.UpdateDraft(context.Background(), "user-1", draft.ID, validDraftUpdate())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDraftState.Code, appErrors.FromError(err).Code)
}

func TestStaleGenerationLockClearsOnLoad(t *testing.T) {
	svc, draft := newRubricFixture(t, &fakeRubricGenerator{}, &spyContentWriter{})

	// A process that died after taking the lock never writes the unlock;
	// the stored draft sits in generating with an old timestamp.
	stored, err := svc.GetDraft(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)
	stored.Status = models.DraftGenerating
	stored.UpdatedAt = time.Now().UTC().Add(-generationLockStaleAfter - time.Minute)
	require.NoError(t, svc.store.Set(context.Background(), draftKey("user-1", draft.ID), stored, time.Hour))

	after, err := svc.GetDraft(context.Background(), "user-1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftEditing, after.Status, "an abandoned lock does not outlive the stale window")

	_, err = svc.UpdateDraft(context.Background(), "user-1", draft.ID, validDraftUpdate())
	require.NoError(t, err, "the grid is editable again after recovery")
}
