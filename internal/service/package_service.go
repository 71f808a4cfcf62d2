package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
)

type packageDispatcher interface {
	GenerateKind(ctx context.Context, params models.GenerationParams) (*GenerationResult, error)
}

type collectionCreator interface {
	Create(ctx context.Context, collection *models.Collection) error
}

// PackageService orchestrates unit packages: one collection, then one
// sequential dispatch per sub-kind, each persisted as it succeeds.
type PackageService struct {
	dispatcher  packageDispatcher
	collections collectionCreator
	contents    contentWriter
	settings    personaReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewPackageService constructs the service.
func NewPackageService(dispatcher packageDispatcher, collections collectionCreator, contents contentWriter, settings personaReader, validate *validator.Validate, logger *zap.Logger) *PackageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PackageService{
		dispatcher:  dispatcher,
		collections: collections,
		contents:    contents,
		settings:    settings,
		validator:   validate,
		logger:      logger,
	}
}

// GeneratePackageRequest drives one package run.
type GeneratePackageRequest struct {
	ToolID         string `json:"tool_id" validate:"required"`
	Audience       string `json:"audience"`
	Subject        string `json:"subject" validate:"required"`
	GradeLevel     string `json:"grade_level" validate:"required"`
	Topic          string `json:"topic" validate:"required"`
	Standard       string `json:"standard"`
	Difficulty     string `json:"difficulty"`
	CollectionName string `json:"collection_name"`
}

// PackageFailure attributes one failed sub-generation.
type PackageFailure struct {
	Kind    models.ContentKind `json:"kind"`
	Message string             `json:"message"`
}

// PackageResult reports the collection, every item that was saved, and
// the first failure if one occurred. Saved items are never rolled back.
type PackageResult struct {
	Collection *models.Collection     `json:"collection"`
	Items      []models.ContentRecord `json:"items"`
	Failure    *PackageFailure        `json:"failure,omitempty"`
}

// Generate runs the package. Sub-kinds are dispatched strictly in
// order; on the first failure the run stops, already-saved siblings and
// the collection stay in place, and the failure is reported against the
// sub-kind that caused it.
func (s *PackageService) Generate(ctx context.Context, ownerID string, req GeneratePackageRequest) (*PackageResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid package request")
	}

	params, tool, err := BuildParams(GenerateContentRequest{
		ToolID:     req.ToolID,
		Audience:   req.Audience,
		Subject:    req.Subject,
		GradeLevel: req.GradeLevel,
		Topic:      req.Topic,
		Standard:   req.Standard,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		return nil, err
	}
	if !tool.IsPackage || len(params.PackageKinds) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "tool is not a package tool")
	}
	params.Persona = s.loadPersona(ctx, ownerID)

	name := req.CollectionName
	if name == "" {
		name = "Unit: " + req.Topic
	}
	collection := &models.Collection{OwnerID: ownerID, Name: name}
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create collection")
	}

	result := &PackageResult{Collection: collection}
	for _, kind := range params.PackageKinds {
		sub := params
		sub.Kind = kind
		sub.ToolID = toolIDForKind(kind, tool.ID)

		generated, err := s.dispatcher.GenerateKind(ctx, sub)
		if err != nil {
			s.logger.Warn("package sub-generation failed",
				zap.String("kind", string(kind)), zap.String("collection_id", collection.ID), zap.Error(err))
			result.Failure = &PackageFailure{Kind: kind, Message: appErrors.FromError(err).Message}
			break
		}

		record := &models.ContentRecord{
			ID:           generated.Content.Base().ID,
			OwnerID:      ownerID,
			CollectionID: &collection.ID,
			ToolID:       generated.ToolID,
			Kind:         kind,
			Title:        generated.Content.Base().Title,
			Payload:      generated.Payload,
		}
		if err := s.contents.Create(ctx, record); err != nil {
			s.logger.Error("failed to persist package item",
				zap.String("kind", string(kind)), zap.String("collection_id", collection.ID), zap.Error(err))
			result.Failure = &PackageFailure{Kind: kind, Message: "generated successfully but could not be saved"}
			break
		}
		result.Items = append(result.Items, *record)
	}
	return result, nil
}

func (s *PackageService) loadPersona(ctx context.Context, ownerID string) string {
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

// toolIDForKind resolves the standalone tool matching a package
// sub-kind so saved items list under the tool that would have produced
// them individually.
func toolIDForKind(kind models.ContentKind, fallback string) string {
	for _, tool := range models.ToolCatalog {
		if tool.Kind == kind && !tool.IsPackage {
			return tool.ID
		}
	}
	return fallback
}
