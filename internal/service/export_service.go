package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/repository"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/export"
	"github.com/jeboro/jeboro-api/pkg/jobs"
	"github.com/jeboro/jeboro-api/pkg/storage"
)

// ExportJobType identifies review-queue exports on the worker queue.
const ExportJobType = "review_queue_export"

type exportRepository interface {
	Create(ctx context.Context, job *models.ExportJob) error
	GetByID(ctx context.Context, id string) (*models.ExportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error
}

type exportReportSource interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithAuthor, int, error)
}

// ExportService renders the admin review queue into downloadable CSV or PDF
// files through the background worker queue.
type ExportService struct {
	repo      exportRepository
	reports   exportReportSource
	queue     jobQueue
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(repo exportRepository, reports exportReportSource, queue jobQueue, store *storage.LocalStorage, signer *storage.SignedURLSigner, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ExportService{
		repo:      repo,
		reports:   reports,
		queue:     queue,
		store:     store,
		signer:    signer,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

// CreateJob persists and enqueues a review-queue export.
func (s *ExportService) CreateJob(ctx context.Context, req dto.CreateExportRequest, actorID string) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid export payload")
	}

	job := &models.ExportJob{
		ID:        uuid.NewString(),
		Format:    req.Format,
		Status:    models.ExportStatusQueued,
		CreatedBy: actorID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export job")
	}

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ExportJobType, Payload: job.ID}); err != nil {
		failed := models.ExportStatusFailed
		msg := "queue unavailable"
		_ = s.repo.Update(ctx, job.ID, repository.UpdateExportJobParams{Status: &failed, ErrorMessage: &msg})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}

	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus returns job progress metadata.
func (s *ExportService) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &dto.ExportStatusResponse{
		ID:        job.ID,
		Status:    job.Status,
		ResultURL: job.ResultURL,
		Error:     job.ErrorMessage,
	}, nil
}

// ResolveDownload exchanges a signed token for the rendered file.
func (s *ExportService) ResolveDownload(token string) (*os.File, error) {
	_, key, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	file, err := s.store.Open(key)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file not found")
	}
	return file, nil
}

// JobHandler processes queued exports.
func (s *ExportService) JobHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		jobID, ok := job.Payload.(string)
		if !ok || jobID == "" {
			s.logger.Warn("export job carried no id", zap.String("job_id", job.ID))
			return nil
		}
		if err := s.process(ctx, jobID); err != nil {
			failed := models.ExportStatusFailed
			msg := err.Error()
			_ = s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{Status: &failed, ErrorMessage: &msg})
			return err
		}
		return nil
	}
}

func (s *ExportService) process(ctx context.Context, jobID string) error {
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load export job: %w", err)
	}

	processing := models.ExportStatusProcessing
	if err := s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{Status: &processing}); err != nil {
		return fmt.Errorf("mark export processing: %w", err)
	}

	pending := models.ReportStatusPending
	reports, _, err := s.reports.List(ctx, models.ReportFilter{Status: &pending, PageSize: 100})
	if err != nil {
		return fmt.Errorf("load review queue: %w", err)
	}

	dataset := reviewQueueDataset(reports)

	var payload []byte
	var filename string
	switch job.Format {
	case models.ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, "Review Queue")
		filename = fmt.Sprintf("review_queue_%s.pdf", job.ID)
	default:
		payload, err = s.csv.Render(dataset)
		filename = fmt.Sprintf("review_queue_%s.csv", job.ID)
	}
	if err != nil {
		return fmt.Errorf("render export: %w", err)
	}

	key, err := s.store.Save(filename, payload)
	if err != nil {
		return fmt.Errorf("store export: %w", err)
	}

	token, _, err := s.signer.Generate(job.ID, key)
	if err != nil {
		return fmt.Errorf("sign export url: %w", err)
	}

	finished := models.ExportStatusFinished
	resultURL := "/api/v1/admin/exports/download/" + token
	now := time.Now().UTC()
	if err := s.repo.Update(ctx, jobID, repository.UpdateExportJobParams{Status: &finished, ResultURL: &resultURL, FinishedAt: &now}); err != nil {
		return fmt.Errorf("mark export finished: %w", err)
	}

	s.logger.Info("review queue exported", zap.String("job_id", job.ID), zap.String("key", key))
	return nil
}

func reviewQueueDataset(reports []models.ReportWithAuthor) export.Dataset {
	headers := []string{"ID", "Title", "Category", "Region", "Publish Type", "Status", "Author", "Submitted"}
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		region := ""
		if r.Region != nil {
			region = *r.Region
		}
		author := r.AuthorName
		if r.IsAnonymous {
			author = anonymousAuthorName
		}
		rows = append(rows, map[string]string{
			"ID":           r.ID,
			"Title":        r.Title,
			"Category":     r.Category,
			"Region":       region,
			"Publish Type": string(r.PublishType),
			"Status":       string(r.Status),
			"Author":       author,
			"Submitted":    r.CreatedAt.Format(time.RFC3339),
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
