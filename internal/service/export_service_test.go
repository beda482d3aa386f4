package service

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/repository"
	"github.com/jeboro/jeboro-api/pkg/storage"
)

type exportRepoStub struct {
	jobs map[string]*models.ExportJob
}

func newExportRepoStub() *exportRepoStub {
	return &exportRepoStub{jobs: map[string]*models.ExportJob{}}
}

func (s *exportRepoStub) Create(ctx context.Context, job *models.ExportJob) error {
	copied := *job
	s.jobs[job.ID] = &copied
	return nil
}

func (s *exportRepoStub) GetByID(ctx context.Context, id string) (*models.ExportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, assert.AnError
	}
	copied := *job
	return &copied, nil
}

func (s *exportRepoStub) Update(ctx context.Context, id string, params repository.UpdateExportJobParams) error {
	job := s.jobs[id]
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.ResultURL != nil {
		job.ResultURL = params.ResultURL
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

type reviewQueueStub struct {
	reports []models.ReportWithAuthor
}

func (s *reviewQueueStub) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithAuthor, int, error) {
	return s.reports, len(s.reports), nil
}

func newTestExportService(t *testing.T, repo *exportRepoStub, queue *queueStub) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-secret", time.Hour)
	source := &reviewQueueStub{
		reports: []models.ReportWithAuthor{
			{
				Report: models.Report{
					ID:          "report-1",
					Title:       "Pending tip",
					Category:    "corruption",
					PublishType: models.PublishOpen,
					Status:      models.ReportStatusPending,
					IsAnonymous: true,
					CreatedAt:   time.Now().UTC(),
				},
				AuthorName: "Kim",
			},
		},
	}
	return NewExportService(repo, source, queue, store, signer, nil, nil)
}

func TestExportServiceCreateJobEnqueues(t *testing.T) {
	repo := newExportRepoStub()
	queue := &queueStub{}
	svc := newTestExportService(t, repo, queue)

	res, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{Format: models.ExportFormatCSV}, "admin-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, res.Status)

	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, ExportJobType, queue.enqueued[0].Type)
	assert.Equal(t, res.ID, queue.enqueued[0].Payload)
}

func TestExportServiceCreateJobQueueFailureMarksFailed(t *testing.T) {
	repo := newExportRepoStub()
	queue := &queueStub{err: assert.AnError}
	svc := newTestExportService(t, repo, queue)

	_, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{Format: models.ExportFormatCSV}, "admin-1")
	require.Error(t, err)

	require.Len(t, repo.jobs, 1)
	for _, job := range repo.jobs {
		assert.Equal(t, models.ExportStatusFailed, job.Status)
	}
}

func TestExportServiceProcessRendersCSV(t *testing.T) {
	repo := newExportRepoStub()
	queue := &queueStub{}
	svc := newTestExportService(t, repo, queue)

	res, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{Format: models.ExportFormatCSV}, "admin-1")
	require.NoError(t, err)

	handler := svc.JobHandler()
	require.NoError(t, handler(context.Background(), queue.enqueued[0]))

	job := repo.jobs[res.ID]
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	require.NotNil(t, job.ResultURL)
	require.True(t, strings.HasPrefix(*job.ResultURL, "/api/v1/admin/exports/download/"))

	token := strings.TrimPrefix(*job.ResultURL, "/api/v1/admin/exports/download/")
	file, err := svc.ResolveDownload(token)
	require.NoError(t, err)
	defer file.Close()

	content, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Pending tip")
	// The anonymous flag redacts the author even in admin exports.
	assert.Contains(t, string(content), "Anonymous")
}

func TestExportServiceProcessRendersPDF(t *testing.T) {
	repo := newExportRepoStub()
	queue := &queueStub{}
	svc := newTestExportService(t, repo, queue)

	res, err := svc.CreateJob(context.Background(), dto.CreateExportRequest{Format: models.ExportFormatPDF}, "admin-1")
	require.NoError(t, err)

	handler := svc.JobHandler()
	require.NoError(t, handler(context.Background(), queue.enqueued[0]))

	job := repo.jobs[res.ID]
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	require.NotNil(t, job.ResultURL)

	status, err := svc.GetStatus(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, status.Status)
}
