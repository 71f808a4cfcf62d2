package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/contentschema"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type draftStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type rubricGenerator interface {
	GenerateRubric(ctx context.Context, draft *models.RubricDraft) (*models.Rubric, error)
}

type contentWriter interface {
	Create(ctx context.Context, record *models.ContentRecord) error
}

// RubricService runs the interactive rubric builder. Drafts live in the
// cache with a TTL; only a save promotes the grid into a stored content
// record, and that save goes through the schema gate like every other
// generated artifact.
type RubricService struct {
	store     draftStore
	generator rubricGenerator
	contents  contentWriter
	validator *validator.Validate
	logger    *zap.Logger
	draftTTL  time.Duration
}

// NewRubricService constructs the service.
func NewRubricService(store draftStore, generator rubricGenerator, contents contentWriter, validate *validator.Validate, logger *zap.Logger, draftTTL time.Duration) *RubricService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if draftTTL <= 0 {
		draftTTL = 2 * time.Hour
	}
	return &RubricService{
		store:     store,
		generator: generator,
		contents:  contents,
		validator: validate,
		logger:    logger,
		draftTTL:  draftTTL,
	}
}

// CreateRubricDraftRequest opens a new draft.
type CreateRubricDraftRequest struct {
	Title      string `json:"title" validate:"required"`
	Subject    string `json:"subject"`
	GradeLevel string `json:"grade_level"`
}

// UpdateRubricDraftRequest replaces the editable grid state.
type UpdateRubricDraftRequest struct {
	Title      string                  `json:"title" validate:"required"`
	Subject    string                  `json:"subject"`
	GradeLevel string                  `json:"grade_level"`
	Levels     []models.DraftLevel     `json:"levels" validate:"required,min=1"`
	Criteria   []models.DraftCriterion `json:"criteria"`
}

func draftKey(ownerID, draftID string) string {
	return fmt.Sprintf("rubric:draft:%s:%s", ownerID, draftID)
}

// A generation call that has not settled within this window is assumed
// dead; after a crash the unlock write never arrives, and without this
// the grid would stay locked until the draft TTL expires.
const generationLockStaleAfter = 5 * time.Minute

// CreateDraft opens a draft seeded with a conventional four-level scale
// and no criteria yet.
func (s *RubricService) CreateDraft(ctx context.Context, ownerID string, req CreateRubricDraftRequest) (*models.RubricDraft, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft request")
	}
	now := time.Now().UTC()
	draft := &models.RubricDraft{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Title:      req.Title,
		Subject:    req.Subject,
		GradeLevel: req.GradeLevel,
		Levels: []models.DraftLevel{
			{Label: "Excellent", Points: 4},
			{Label: "Proficient", Points: 3},
			{Label: "Developing", Points: 2},
			{Label: "Beginning", Points: 1},
		},
		Status:    models.DraftEditing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Set(ctx, draftKey(ownerID, draft.ID), draft, s.draftTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store draft")
	}
	return draft, nil
}

// GetDraft loads an owner's draft. Expired or unknown drafts are a not
// found condition. A draft left locked by a generation call that died
// mid-flight is returned to editing.
func (s *RubricService) GetDraft(ctx context.Context, ownerID, draftID string) (*models.RubricDraft, error) {
	var draft models.RubricDraft
	if err := s.store.Get(ctx, draftKey(ownerID, draftID), &draft); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrCacheMiss.Code {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "rubric draft not found or expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load draft")
	}
	draft.OwnerID = ownerID
	if draft.Status == models.DraftGenerating && time.Since(draft.UpdatedAt) > generationLockStaleAfter {
		draft.Status = models.DraftEditing
		draft.UpdatedAt = time.Now().UTC()
		if err := s.store.Set(ctx, draftKey(ownerID, draftID), &draft, s.draftTTL); err != nil {
			s.logger.Warn("failed to clear stale generation lock", zap.String("draft_id", draftID), zap.Error(err))
		}
	}
	return &draft, nil
}

// UpdateDraft applies an edit to the grid. Structural edits are refused
// while a generation call is in flight, and a saved draft is final.
func (s *RubricService) UpdateDraft(ctx context.Context, ownerID, draftID string, req UpdateRubricDraftRequest) (*models.RubricDraft, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft update")
	}
	draft, err := s.GetDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	switch draft.Status {
	case models.DraftGenerating:
		return nil, appErrors.Clone(appErrors.ErrDraftState, "a generation call is in flight; the grid is locked until it settles")
	case models.DraftSaved:
		return nil, appErrors.Clone(appErrors.ErrDraftState, "the draft has already been saved")
	}

	for i := range req.Criteria {
		if len(req.Criteria[i].Descriptions) != len(req.Levels) {
			req.Criteria[i].Descriptions = resizeDescriptions(req.Criteria[i].Descriptions, len(req.Levels))
		}
	}

	draft.Title = req.Title
	draft.Subject = req.Subject
	draft.GradeLevel = req.GradeLevel
	draft.Levels = req.Levels
	draft.Criteria = req.Criteria
	draft.UpdatedAt = time.Now().UTC()

	if err := s.store.Set(ctx, draftKey(ownerID, draftID), draft, s.draftTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store draft")
	}
	return draft, nil
}

// GenerateDescriptions fills every cell's prose via the dispatcher. The
// grid structure is frozen for the duration of the call; returned
// descriptions are merged back by criterion name and (label, points)
// pair, and cells with no matching pair keep their prior text.
func (s *RubricService) GenerateDescriptions(ctx context.Context, ownerID, draftID string) (*models.RubricDraft, error) {
	draft, err := s.GetDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, err
	}
	if draft.Status != models.DraftEditing {
		return nil, appErrors.Clone(appErrors.ErrDraftState, "descriptions can only be generated while editing")
	}
	if err := checkDraftInvariants(draft); err != nil {
		return nil, err
	}

	draft.Status = models.DraftGenerating
	draft.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, draftKey(ownerID, draftID), draft, s.draftTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store draft")
	}

	rubric, genErr := s.generator.GenerateRubric(ctx, draft)

	// Whatever happened, the draft returns to editing. A failed call
	// must not disturb existing descriptions.
	draft.Status = models.DraftEditing
	if genErr == nil {
		mergeDescriptions(draft, rubric)
	}
	draft.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, draftKey(ownerID, draftID), draft, s.draftTTL); err != nil {
		s.logger.Error("failed to unlock rubric draft", zap.String("draft_id", draftID), zap.Error(err))
	}
	if genErr != nil {
		return nil, genErr
	}
	return draft, nil
}

// SaveDraft promotes the draft into a rubric content record. Reachable
// only from editing with the full invariant set holding; the assembled
// rubric still passes the schema gate before it is persisted.
func (s *RubricService) SaveDraft(ctx context.Context, ownerID, draftID string) (*models.ContentRecord, *models.Rubric, error) {
	draft, err := s.GetDraft(ctx, ownerID, draftID)
	if err != nil {
		return nil, nil, err
	}
	if draft.Status != models.DraftEditing {
		return nil, nil, appErrors.Clone(appErrors.ErrDraftState, "only an editing draft can be saved")
	}
	if err := checkDraftInvariants(draft); err != nil {
		return nil, nil, err
	}
	for i := range draft.Criteria {
		if len(draft.Criteria[i].Descriptions) != len(draft.Levels) {
			draft.Criteria[i].Descriptions = resizeDescriptions(draft.Criteria[i].Descriptions, len(draft.Levels))
		}
	}
	for _, criterion := range draft.Criteria {
		for j, description := range criterion.Descriptions {
			if description == "" {
				return nil, nil, appErrors.Clone(appErrors.ErrValidation,
					fmt.Sprintf("criterion %q has no description for level %d; fill it in or generate descriptions", criterion.Name, j+1))
			}
		}
	}

	rubric := assembleRubric(draft)
	payload, err := json.Marshal(rubric)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode rubric")
	}
	if _, err := contentschema.Validate(models.KindRubric, payload); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrSchemaMismatch.Code, appErrors.ErrSchemaMismatch.Status, "assembled rubric failed validation")
	}

	record := &models.ContentRecord{
		ID:      rubric.ID,
		OwnerID: ownerID,
		ToolID:  "rubric",
		Kind:    models.KindRubric,
		Title:   rubric.Title,
		Payload: payload,
	}
	if err := s.contents.Create(ctx, record); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save rubric")
	}

	draft.Status = models.DraftSaved
	draft.ContentID = record.ID
	draft.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, draftKey(ownerID, draftID), draft, s.draftTTL); err != nil {
		s.logger.Warn("saved rubric but failed to mark draft", zap.String("draft_id", draftID), zap.Error(err))
	}
	return record, rubric, nil
}

// checkDraftInvariants enforces the builder's form-validity rules:
// a non-empty title, at least two levels with unique points and
// non-empty labels, and at least one criterion with a non-empty,
// unique name.
func checkDraftInvariants(draft *models.RubricDraft) error {
	if draft.Title == "" {
		return appErrors.Clone(appErrors.ErrValidation, "rubric title must not be empty")
	}
	if len(draft.Levels) < 2 {
		return appErrors.Clone(appErrors.ErrValidation, "a rubric needs at least two achievement levels")
	}
	seenPoints := make(map[float64]bool, len(draft.Levels))
	for _, level := range draft.Levels {
		if level.Label == "" {
			return appErrors.Clone(appErrors.ErrValidation, "level labels must not be empty")
		}
		if seenPoints[level.Points] {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate level points value %g", level.Points))
		}
		seenPoints[level.Points] = true
	}
	if len(draft.Criteria) < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "a rubric needs at least one criterion")
	}
	seenNames := make(map[string]bool, len(draft.Criteria))
	for _, criterion := range draft.Criteria {
		if criterion.Name == "" {
			return appErrors.Clone(appErrors.ErrValidation, "criterion names must not be empty")
		}
		if seenNames[criterion.Name] {
			return appErrors.Clone(appErrors.ErrValidation, "duplicate criterion name: "+criterion.Name)
		}
		seenNames[criterion.Name] = true
	}
	return nil
}

// mergeDescriptions copies returned prose into the draft grid. Matching
// is by criterion name and (label, points); unmatched cells keep their
// prior text.
func mergeDescriptions(draft *models.RubricDraft, rubric *models.Rubric) {
	rows := make(map[string]models.RubricRow, len(rubric.Rows))
	for _, row := range rubric.Rows {
		rows[row.Criterion] = row
	}
	for i, criterion := range draft.Criteria {
		row, ok := rows[criterion.Name]
		if !ok {
			continue
		}
		if len(draft.Criteria[i].Descriptions) != len(draft.Levels) {
			draft.Criteria[i].Descriptions = resizeDescriptions(draft.Criteria[i].Descriptions, len(draft.Levels))
		}
		for j, level := range draft.Levels {
			for _, returned := range row.Levels {
				if returned.Label == level.Label && returned.Points == level.Points && returned.Description != "" {
					draft.Criteria[i].Descriptions[j] = returned.Description
					break
				}
			}
		}
	}
}

// assembleRubric builds the final content object, deriving pointsTotal
// as criteria count times the maximum level points.
func assembleRubric(draft *models.RubricDraft) *models.Rubric {
	rubric := &models.Rubric{
		ContentBase: models.ContentBase{
			ID:          uuid.NewString(),
			Type:        models.KindRubric,
			Title:       draft.Title,
			GeneratedAt: time.Now().UTC(),
		},
		Rows: make([]models.RubricRow, 0, len(draft.Criteria)),
	}
	for _, criterion := range draft.Criteria {
		row := models.RubricRow{
			Criterion: criterion.Name,
			Levels:    make([]models.RubricLevel, 0, len(draft.Levels)),
		}
		for j, level := range draft.Levels {
			description := ""
			if j < len(criterion.Descriptions) {
				description = criterion.Descriptions[j]
			}
			row.Levels = append(row.Levels, models.RubricLevel{
				Label:       level.Label,
				Points:      level.Points,
				Description: description,
			})
		}
		rubric.Rows = append(rubric.Rows, row)
	}
	rubric.PointsTotal = rubric.DerivePointsTotal()
	return rubric
}

func resizeDescriptions(descriptions []string, size int) []string {
	resized := make([]string, size)
	copy(resized, descriptions)
	return resized
}
