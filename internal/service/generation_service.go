package service

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/contentschema"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type generationBackend interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (json.RawMessage, error)
	GenerateImage(ctx context.Context, prompt, aspectRatio string) ([]byte, error)
	StreamRefine(ctx context.Context, instruction, text string, onChunk func(chunk string) error) error
	Name() string
}

type personaReader interface {
	Get(ctx context.Context, userID string) (*models.UserSettings, error)
}

type generationObserver interface {
	ObserveGeneration(kind, outcome string, duration time.Duration)
}

// GenerationService is the prompt/schema dispatcher. It composes the
// instruction and response schema for a kind, calls the generation
// backend, then repairs, stamps and gate-validates the returned payload
// before anything downstream may treat it as content.
type GenerationService struct {
	backend   generationBackend
	settings  personaReader
	metrics   generationObserver
	validator *validator.Validate
	logger    *zap.Logger
	timeout   time.Duration
}

// NewGenerationService constructs the service.
func NewGenerationService(backend generationBackend, settings personaReader, metrics generationObserver, validate *validator.Validate, logger *zap.Logger, timeout time.Duration) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &GenerationService{
		backend:   backend,
		settings:  settings,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		timeout:   timeout,
	}
}

// GenerateContentRequest is one form submission.
type GenerateContentRequest struct {
	ToolID                  string         `json:"tool_id" validate:"required"`
	Audience                string         `json:"audience"`
	Subject                 string         `json:"subject"`
	GradeLevel              string         `json:"grade_level"`
	Topic                   string         `json:"topic" validate:"required"`
	Standard                string         `json:"standard"`
	Objectives              []string       `json:"objectives"`
	Difficulty              string         `json:"difficulty"`
	BloomsLevel             string         `json:"blooms_level"`
	DifferentiationProfiles []string       `json:"differentiation_profiles"`
	QuestionCount           int            `json:"question_count"`
	IncludeRubric           bool           `json:"include_rubric"`
	AssociatedRubric        *models.Rubric `json:"associated_rubric"`
	ImageStyle              string         `json:"image_style"`
	AspectRatio             string         `json:"aspect_ratio"`
}

// RefineRequest drives the streaming text-refinement path.
type RefineRequest struct {
	Instruction string `json:"instruction" validate:"required"`
	Text        string `json:"text" validate:"required"`
}

// GenerationResult pairs the typed content with its serialized payload
// and the model that produced it.
type GenerationResult struct {
	Content models.Content  `json:"-"`
	Payload json.RawMessage `json:"payload"`
	Kind    models.ContentKind
	ToolID  string
	Model   string
}

// BuildParams maps a request onto GenerationParams for the selected
// tool. It is pure: no I/O, no clock, no identifiers.
func BuildParams(req GenerateContentRequest) (models.GenerationParams, *models.Tool, error) {
	tool, ok := models.ToolByID(req.ToolID)
	if !ok {
		return models.GenerationParams{}, nil, appErrors.Clone(appErrors.ErrValidation, "unknown tool: "+req.ToolID)
	}

	params := models.GenerationParams{
		Audience:                models.Audience(req.Audience),
		Kind:                    tool.Kind,
		ToolID:                  tool.ID,
		Subject:                 req.Subject,
		Grade:                   req.GradeLevel,
		Topic:                   req.Topic,
		Standard:                req.Standard,
		Objectives:              req.Objectives,
		Difficulty:              models.Difficulty(req.Difficulty),
		BloomsLevel:             req.BloomsLevel,
		DifferentiationProfiles: req.DifferentiationProfiles,
		QuestionCount:           req.QuestionCount,
		ImageStyle:              req.ImageStyle,
		AspectRatio:             req.AspectRatio,
	}
	if params.Audience == "" {
		params.Audience = models.AudienceEducator
	}

	if tool.IsPackage {
		params.PackageKinds = tool.PackageKinds
	}
	if tool.RequiresSubject && (req.Subject == "" || req.GradeLevel == "") {
		return models.GenerationParams{}, nil, appErrors.Clone(appErrors.ErrValidation, "subject and grade level are required for this tool")
	}

	if tool.SupportsRubric {
		params.IncludeRubric = req.IncludeRubric
		params.AssociatedRubric = req.AssociatedRubric
	}
	return params, &tool, nil
}

// Generate runs one dispatch for the owner's submission and returns the
// validated content. Nothing is persisted here.
func (s *GenerationService) Generate(ctx context.Context, ownerID string, req GenerateContentRequest) (*GenerationResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid generation request")
	}
	params, tool, err := BuildParams(req)
	if err != nil {
		return nil, err
	}
	if tool.IsPackage {
		return nil, appErrors.Clone(appErrors.ErrValidation, "package tools are dispatched through the package endpoint")
	}
	params.Persona = s.loadPersona(ctx, ownerID)

	if tool.IsImage {
		return s.generateImage(ctx, params)
	}
	return s.generateStructured(ctx, params)
}

// GenerateKind dispatches a single non-image kind with already-built
// params. The package orchestrator calls this once per sub-kind.
func (s *GenerationService) GenerateKind(ctx context.Context, params models.GenerationParams) (*GenerationResult, error) {
	return s.generateStructured(ctx, params)
}

// GenerateRubric asks the backend to fill in description prose for a
// draft whose structure is already fixed. The result passes the same
// schema gate as any other structured kind.
func (s *GenerationService) GenerateRubric(ctx context.Context, draft *models.RubricDraft) (*models.Rubric, error) {
	schema, err := contentschema.ResponseSchema(models.KindRubric)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "rubric schema unavailable")
	}
	prompt := buildRubricPrompt(draft)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.backend.GenerateStructured(ctx, prompt, schema)
	if err != nil {
		s.observe(models.KindRubric, "backend_error", started)
		return nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "rubric generation failed")
	}
	payload, err := finalizePayload(models.GenerationParams{Kind: models.KindRubric}, raw, time.Now())
	if err != nil {
		s.observe(models.KindRubric, "backend_error", started)
		return nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "backend returned unparsable output")
	}
	content, err := contentschema.Validate(models.KindRubric, payload)
	if err != nil {
		s.observe(models.KindRubric, "schema_mismatch", started)
		return nil, appErrors.Wrap(err, appErrors.ErrSchemaMismatch.Code, appErrors.ErrSchemaMismatch.Status, "the model produced output in the wrong shape")
	}
	rubric, ok := content.(*models.Rubric)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInternal, "rubric gate returned unexpected type")
	}
	s.observe(models.KindRubric, "success", started)
	return rubric, nil
}

// Refine streams free-text refinement chunks to the callback in order.
// No schema validation applies to this path.
func (s *GenerationService) Refine(ctx context.Context, req RefineRequest, onChunk func(chunk string) error) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refine request")
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.StreamRefine(ctx, req.Instruction, req.Text, onChunk); err != nil {
		return appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "refinement failed")
	}
	return nil
}

func (s *GenerationService) loadPersona(ctx context.Context, ownerID string) string {
	if s.settings == nil || ownerID == "" {
		return ""
	}
	settings, err := s.settings.Get(ctx, ownerID)
	if err != nil {
		s.logger.Warn("persona lookup failed, generating without it", zap.Error(err))
		return ""
	}
	return settings.Persona
}

func (s *GenerationService) generateStructured(ctx context.Context, params models.GenerationParams) (*GenerationResult, error) {
	schema, err := contentschema.ResponseSchema(params.Kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported content kind")
	}
	prompt := buildPrompt(params)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	raw, err := s.backend.GenerateStructured(ctx, prompt, schema)
	if err != nil {
		s.observe(params.Kind, "backend_error", started)
		s.logger.Error("generation backend call failed", zap.String("kind", string(params.Kind)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "content generation failed")
	}

	payload, err := finalizePayload(params, raw, time.Now())
	if err != nil {
		s.observe(params.Kind, "backend_error", started)
		return nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "backend returned unparsable output")
	}

	content, err := contentschema.Validate(params.Kind, payload)
	if err != nil {
		s.observe(params.Kind, "schema_mismatch", started)
		s.logger.Warn("generated payload failed the schema gate", zap.String("kind", string(params.Kind)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrSchemaMismatch.Code, appErrors.ErrSchemaMismatch.Status, "the model produced output in the wrong shape")
	}

	s.observe(params.Kind, "success", started)
	return &GenerationResult{
		Content: content,
		Payload: payload,
		Kind:    params.Kind,
		ToolID:  params.ToolID,
		Model:   s.backend.Name(),
	}, nil
}

func (s *GenerationService) generateImage(ctx context.Context, params models.GenerationParams) (*GenerationResult, error) {
	prompt := buildImagePrompt(params)
	aspectRatio := params.AspectRatio
	if aspectRatio == "" {
		aspectRatio = "1:1"
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	imageBytes, err := s.backend.GenerateImage(ctx, prompt, aspectRatio)
	if err != nil {
		s.observe(params.Kind, "backend_error", started)
		s.logger.Error("image generation failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, "image generation failed")
	}
	if len(imageBytes) == 0 {
		s.observe(params.Kind, "backend_error", started)
		return nil, appErrors.Clone(appErrors.ErrGenerationFailed, "the backend returned no image")
	}

	image := &models.ImageContent{
		ContentBase: models.ContentBase{
			ID:          uuid.NewString(),
			Type:        models.KindImage,
			Title:       params.Topic,
			GeneratedAt: time.Now().UTC(),
		},
		Prompt:      prompt,
		Base64Image: base64.StdEncoding.EncodeToString(imageBytes),
		Style:       params.ImageStyle,
		AspectRatio: aspectRatio,
	}
	payload, err := json.Marshal(image)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode image content")
	}

	s.observe(params.Kind, "success", started)
	return &GenerationResult{
		Content: image,
		Payload: payload,
		Kind:    models.KindImage,
		ToolID:  params.ToolID,
		Model:   s.backend.Name(),
	}, nil
}

func (s *GenerationService) observe(kind models.ContentKind, outcome string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveGeneration(string(kind), outcome, time.Since(started))
}

// finalizePayload parses the backend text as JSON, repairs answer keys,
// stamps fresh identifiers and the generation timestamp, and attaches
// the caller's rubric when one is associated. Whatever id or timestamp
// the backend emitted is overwritten.
func finalizePayload(params models.GenerationParams, raw json.RawMessage, now time.Time) (json.RawMessage, error) {
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	obj["id"] = uuid.NewString()
	obj["generatedAt"] = now.UTC().Format(time.RFC3339)

	if questions, ok := obj["questions"].([]any); ok {
		for _, item := range questions {
			question, ok := item.(map[string]any)
			if !ok {
				continue
			}
			question["id"] = uuid.NewString()
			repairAnswerKey(question)
		}
	}

	if params.AssociatedRubric != nil && (params.Kind == models.KindAssessment || params.Kind == models.KindAssessmentQuestions) {
		rubric := *params.AssociatedRubric
		if rubric.ID == "" {
			rubric.ID = uuid.NewString()
		}
		rubric.Type = models.KindRubric
		if rubric.GeneratedAt.IsZero() {
			rubric.GeneratedAt = now.UTC()
		}
		rubric.PointsTotal = rubric.DerivePointsTotal()
		encoded, err := json.Marshal(&rubric)
		if err != nil {
			return nil, err
		}
		var rubricObj map[string]any
		if err := json.Unmarshal(encoded, &rubricObj); err != nil {
			return nil, err
		}
		obj["rubric"] = rubricObj
	}

	return json.Marshal(obj)
}

// repairAnswerKey turns a bracketed string literal such as `["A","C"]`
// into a real list. Strings that merely look bracketed but fail to
// parse stay untouched.
func repairAnswerKey(question map[string]any) {
	s, ok := question["answerKey"].(string)
	if !ok {
		return
	}
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return
	}
	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err != nil {
		return
	}
	question["answerKey"] = list
}
