package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/models"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/jobs"
)

const (
	feedCacheKeyPattern = "feed:reports:*"
	feedCachePrefix     = "feed:reports:"

	// ReputationJobType identifies reputation recalculation jobs on the queue.
	ReputationJobType = "reputation_recalc"

	embargoedContentPlaceholder = "[Exclusive report. Content withheld until the embargo ends or the report is picked.]"
	anonymousAuthorName         = "Anonymous"
)

type reportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithAuthor, int, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus, updatedAt time.Time) error
}

type pickLookup interface {
	ExistsForReporter(ctx context.Context, reportID, reporterID string) (bool, error)
}

type feedCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// ReportServiceConfig tunes report intake and feed behaviour.
type ReportServiceConfig struct {
	EmbargoDuration time.Duration
	FeedCacheTTL    time.Duration
}

// ReportService handles report submission, the visibility-filtered feed and
// the admin review transitions.
type ReportService struct {
	repo      reportRepository
	picks     pickLookup
	cache     feedCache
	queue     jobQueue
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    ReportServiceConfig
}

// NewReportService constructs a ReportService instance.
func NewReportService(repo reportRepository, picks pickLookup, cache feedCache, queue jobQueue, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, config ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.EmbargoDuration <= 0 {
		config.EmbargoDuration = 48 * time.Hour
	}
	if config.FeedCacheTTL <= 0 {
		config.FeedCacheTTL = time.Minute
	}
	return &ReportService{repo: repo, picks: picks, cache: cache, queue: queue, metrics: metrics, validator: validate, logger: logger, config: config}
}

// Create validates a submission and persists it as PENDING. The embargo
// window for exclusive reports opens at creation time. An authenticated
// author is mandatory; there is no fallback identity.
func (s *ReportService) Create(ctx context.Context, req dto.SubmitReportRequest, authorID string) (*models.Report, error) {
	if authorID == "" {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "submission requires an authenticated author")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid report payload")
	}

	now := time.Now().UTC()
	report := &models.Report{
		Title:       req.Title,
		Content:     req.Content,
		Category:    req.Category,
		Region:      req.Region,
		PublishType: req.PublishType,
		Status:      models.ReportStatusPending,
		IsAnonymous: req.IsAnonymous,
		AuthorID:    authorID,
		CreatedAt:   now,
	}
	if req.PublishType == models.PublishExclusive {
		ends := now.Add(s.config.EmbargoDuration)
		report.EmbargoEnds = &ends
	}

	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	if s.metrics != nil {
		s.metrics.IncReportSubmitted(string(report.PublishType))
	}
	s.invalidateFeed(ctx)

	return report, nil
}

// List returns the feed with visibility filtering applied: embargoed
// exclusive content is replaced with a placeholder and anonymous authors are
// redacted. A viewer that picked an embargoed exclusive sees its content.
// Only the anonymous shape is cached, per filter combination.
func (s *ReportService) List(ctx context.Context, query dto.ReportListQuery, viewerID string) ([]dto.ReportResponse, *models.Pagination, error) {
	filter, err := buildReportFilter(query)
	if err != nil {
		return nil, nil, err
	}

	cacheKey := feedCacheKey(query)
	if s.cache != nil && viewerID == "" {
		var cached feedCacheEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return cached.Reports, cached.Pagination, nil
		}
	}

	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}

	now := time.Now().UTC()
	responses := make([]dto.ReportResponse, 0, len(reports))
	for _, row := range reports {
		responses = append(responses, s.render(ctx, row, now, viewerID))
	}

	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	if pagination.Page < 1 {
		pagination.Page = 1
	}
	if pagination.PageSize <= 0 {
		pagination.PageSize = 20
	}

	if s.cache != nil && viewerID == "" {
		if err := s.cache.Set(ctx, cacheKey, feedCacheEntry{Reports: responses, Pagination: pagination}, s.config.FeedCacheTTL); err != nil {
			s.logger.Warn("failed to cache report feed", zap.Error(err))
		}
	}

	return responses, pagination, nil
}

// Get returns a single report with the same redaction rules as the feed.
func (s *ReportService) Get(ctx context.Context, id string, viewerID string) (*dto.ReportResponse, error) {
	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	rendered := s.render(ctx, models.ReportWithAuthor{Report: *report}, time.Now().UTC(), viewerID)
	return &rendered, nil
}

// ListForReview returns the unredacted admin review queue.
func (s *ReportService) ListForReview(ctx context.Context, query dto.ReportListQuery) ([]models.ReportWithAuthor, *models.Pagination, error) {
	filter, err := buildReportFilter(query)
	if err != nil {
		return nil, nil, err
	}
	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list review queue")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return reports, pagination, nil
}

// UpdateStatus transitions a report through review. Approval queues a
// reputation recalculation for the author.
func (s *ReportService) UpdateStatus(ctx context.Context, id string, req dto.UpdateReportStatusRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid status payload")
	}

	report, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}
	if report.Status != models.ReportStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "report already reviewed")
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, id, req.Status, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report status")
	}
	report.Status = req.Status
	report.UpdatedAt = now

	if req.Status == models.ReportStatusApproved && s.queue != nil {
		if err := s.queue.Enqueue(jobs.Job{
			ID:      uuid.NewString(),
			Type:    ReputationJobType,
			Payload: report.AuthorID,
		}); err != nil {
			s.logger.Warn("failed to enqueue reputation recalculation", zap.Error(err), zap.String("author_id", report.AuthorID))
		}
	}
	s.invalidateFeed(ctx)

	return report, nil
}

func (s *ReportService) render(ctx context.Context, row models.ReportWithAuthor, now time.Time, viewerID string) dto.ReportResponse {
	resp := dto.ReportResponse{
		ID:          row.ID,
		Title:       row.Title,
		Content:     row.Content,
		Category:    row.Category,
		Region:      row.Region,
		PublishType: row.PublishType,
		Status:      row.Status,
		Visibility:  row.Visibility(now),
		EmbargoEnds: row.EmbargoEnds,
		AuthorName:  row.AuthorName,
		AuthorEmail: row.AuthorEmail,
		CreatedAt:   row.CreatedAt,
	}
	if row.Embargoed(now) && !s.viewerHasPicked(ctx, row.ID, viewerID) {
		resp.Content = embargoedContentPlaceholder
	}
	if row.IsAnonymous {
		resp.AuthorName = anonymousAuthorName
		resp.AuthorEmail = ""
	}
	return resp
}

func (s *ReportService) viewerHasPicked(ctx context.Context, reportID, viewerID string) bool {
	if viewerID == "" || s.picks == nil {
		return false
	}
	picked, err := s.picks.ExistsForReporter(ctx, reportID, viewerID)
	if err != nil {
		s.logger.Warn("failed to check viewer pick", zap.Error(err), zap.String("report_id", reportID))
		return false
	}
	return picked
}

func (s *ReportService) invalidateFeed(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, feedCacheKeyPattern); err != nil {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

type feedCacheEntry struct {
	Reports    []dto.ReportResponse `json:"reports"`
	Pagination *models.Pagination   `json:"pagination"`
}

func feedCacheKey(query dto.ReportListQuery) string {
	return fmt.Sprintf("%s%s:%s:%s:%s:%d:%d", feedCachePrefix, query.Status, query.PublishType, query.Category, query.Region, query.Page, query.PageSize)
}

func buildReportFilter(query dto.ReportListQuery) (models.ReportFilter, error) {
	filter := models.ReportFilter{
		Category: query.Category,
		Region:   query.Region,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	if query.Status != "" {
		status := models.ReportStatus(strings.ToUpper(query.Status))
		switch status {
		case models.ReportStatusPending, models.ReportStatusApproved, models.ReportStatusRejected:
			filter.Status = &status
		default:
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
		}
	}
	if query.PublishType != "" {
		publishType := models.PublishType(strings.ToUpper(query.PublishType))
		switch publishType {
		case models.PublishOpen, models.PublishExclusive:
			filter.PublishType = &publishType
		default:
			return filter, appErrors.Clone(appErrors.ErrValidation, "unknown publishType filter")
		}
	}

	return filter, nil
}

// validationError converts validator output into a field-keyed domain error.
func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = validationMessage(fe)
		}
		wrapped := appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
		return appErrors.WithFields(wrapped, fields)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email address"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the %s rule", fe.Tag())
	}
}
