package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/contentschema"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/internal/models"
	appErrors "github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/errors"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/export"
	"github.com/Krosebrook/ai-academic-content-catalog-sub000/pkg/jobs"
)

const exportJobTTL = 48 * time.Hour

type exportEnqueuer interface {
	Enqueue(job jobs.Job) error
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
}

type exportSigner interface {
	Generate(jobID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
}

type exportObserver interface {
	ObserveExportJob(format, outcome string)
}

// ExportService renders stored content into downloadable PDF or CSV
// files. Rendering happens on a background queue; the caller polls the
// job and then follows a signed download token, so the file itself is
// served without auth.
type ExportService struct {
	contents  shareContentReader
	store     draftStore
	queue     exportEnqueuer
	storage   exportStorage
	signer    exportSigner
	pdf       *export.PDFExporter
	csv       *export.CSVExporter
	metrics   exportObserver
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs the service. Call HandleJob from the
// queue worker.
func NewExportService(contents shareContentReader, store draftStore, storage exportStorage, signer exportSigner, metrics exportObserver, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		contents:  contents,
		store:     store,
		storage:   storage,
		signer:    signer,
		pdf:       export.NewPDFExporter(),
		csv:       export.NewCSVExporter(),
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// SetQueue wires the queue after construction; the queue handler and
// the service reference each other.
func (s *ExportService) SetQueue(queue exportEnqueuer) {
	s.queue = queue
}

// CreateExportRequest asks for one rendered file.
type CreateExportRequest struct {
	ContentID string              `json:"content_id" validate:"required"`
	Format    models.ExportFormat `json:"format" validate:"required,oneof=pdf csv"`
}

// exportPayload travels through the job queue.
type exportPayload struct {
	JobID     string
	OwnerID   string
	ContentID string
	Format    models.ExportFormat
}

func exportKey(ownerID, jobID string) string {
	return fmt.Sprintf("export:job:%s:%s", ownerID, jobID)
}

// Create validates the request, records a pending job and enqueues the
// render.
func (s *ExportService) Create(ctx context.Context, ownerID string, req CreateExportRequest) (*models.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if _, err := s.contents.FindByID(ctx, ownerID, req.ContentID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "content not found")
	}

	now := time.Now().UTC()
	job := &models.ExportJob{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		ContentID: req.ContentID,
		Format:    req.Format,
		Status:    models.ExportPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Set(ctx, exportKey(ownerID, job.ID), job, exportJobTTL); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record export job")
	}

	if err := s.queue.Enqueue(jobs.Job{
		ID:      job.ID,
		Type:    "export.render",
		Payload: exportPayload{JobID: job.ID, OwnerID: ownerID, ContentID: req.ContentID, Format: req.Format},
	}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return job, nil
}

// Get returns the owner's export job state.
func (s *ExportService) Get(ctx context.Context, ownerID, jobID string) (*models.ExportJob, error) {
	var job models.ExportJob
	if err := s.store.Get(ctx, exportKey(ownerID, jobID), &job); err != nil {
		if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrCacheMiss.Code {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found or expired")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	job.OwnerID = ownerID
	return &job, nil
}

// HandleJob renders one queued export. Returning an error lets the
// queue retry; a render that failed deterministically is marked failed
// and returns nil so it is not retried.
func (s *ExportService) HandleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		s.logger.Error("export queue delivered an unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	stored, err := s.Get(ctx, payload.OwnerID, payload.JobID)
	if err != nil {
		return err
	}
	stored.Status = models.ExportProcessing
	stored.UpdatedAt = time.Now().UTC()
	if err := s.store.Set(ctx, exportKey(payload.OwnerID, payload.JobID), stored, exportJobTTL); err != nil {
		return err
	}

	data, fileName, renderErr := s.render(ctx, payload)
	if renderErr != nil {
		s.observeExport(payload.Format, "failed")
		stored.Status = models.ExportFailed
		stored.Error = appErrors.FromError(renderErr).Message
		stored.UpdatedAt = time.Now().UTC()
		return s.store.Set(ctx, exportKey(payload.OwnerID, payload.JobID), stored, exportJobTTL)
	}

	if _, err := s.storage.Save(fileName, data); err != nil {
		// Disk trouble may be transient; let the queue retry.
		return fmt.Errorf("save export %s: %w", fileName, err)
	}
	token, expiresAt, err := s.signer.Generate(payload.JobID, fileName)
	if err != nil {
		return fmt.Errorf("sign export %s: %w", fileName, err)
	}

	s.observeExport(payload.Format, "success")
	stored.Status = models.ExportDone
	stored.FileName = fileName
	stored.DownloadToken = token
	stored.ExpiresAt = &expiresAt
	stored.Error = ""
	stored.UpdatedAt = time.Now().UTC()
	return s.store.Set(ctx, exportKey(payload.OwnerID, payload.JobID), stored, exportJobTTL)
}

// Download resolves a signed token into an open file handle. The
// caller closes the file.
func (s *ExportService) Download(token string) (*os.File, string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "export file no longer exists")
	}
	return file, relPath, nil
}

func (s *ExportService) render(ctx context.Context, payload exportPayload) ([]byte, string, error) {
	record, err := s.contents.FindByID(ctx, payload.OwnerID, payload.ContentID)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrNotFound, "content disappeared before rendering")
	}
	content, err := contentschema.Validate(record.Kind, record.Payload)
	if err != nil {
		return nil, "", appErrors.Clone(appErrors.ErrSchemaMismatch, "stored payload no longer validates")
	}

	fileName := fmt.Sprintf("%s/%s-%s.%s", payload.OwnerID, record.Kind, payload.JobID, payload.Format)
	switch payload.Format {
	case models.ExportPDF:
		doc, err := contentDocument(content)
		if err != nil {
			return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		data, err := s.pdf.Render(doc)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf rendering failed")
		}
		return data, fileName, nil
	case models.ExportCSV:
		table, err := contentTable(content)
		if err != nil {
			return nil, "", appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv rendering failed")
		}
		return data, fileName, nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ExportService) observeExport(format models.ExportFormat, outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ObserveExportJob(string(format), outcome)
}
