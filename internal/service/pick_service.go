package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/repository"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
)

type pickRepository interface {
	Create(ctx context.Context, pick *models.Pick) error
	ListByReport(ctx context.Context, reportID string) ([]models.Pick, error)
	ExistsForReporter(ctx context.Context, reportID, reporterID string) (bool, error)
}

type pickReportLoader interface {
	GetByID(ctx context.Context, id string) (*models.Report, error)
}

type pickUserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// PickService registers journalist claims on reports.
type PickService struct {
	picks   pickRepository
	reports pickReportLoader
	users   pickUserLoader
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPickService constructs a PickService instance.
func NewPickService(picks pickRepository, reports pickReportLoader, users pickUserLoader, metrics *MetricsService, logger *zap.Logger) *PickService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PickService{picks: picks, reports: reports, users: users, metrics: metrics, logger: logger}
}

// Create records a claim. The report and reporter must exist and the caller
// must hold the REPORTER role. Exclusive reports accept the first claim only,
// checked here and backstopped by the store's partial unique index so
// concurrent attempts race safely and the loser gets a conflict. Open reports
// accept one claim per reporter. The embargo window is not touched: it opened
// at submission.
func (s *PickService) Create(ctx context.Context, req dto.CreatePickRequest, reporterID string) (*models.Pick, error) {
	if reporterID == "" {
		return nil, appErrors.Clone(appErrors.ErrAuthenticationRequired, "claims require an authenticated reporter")
	}

	reporter, err := s.users.FindByID(ctx, reporterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reporter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reporter")
	}
	if reporter.Role != models.RoleReporter {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only reporters may pick reports")
	}

	report, err := s.reports.GetByID(ctx, req.ReportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	if report.PublishType == models.PublishExclusive {
		existing, err := s.picks.ListByReport(ctx, req.ReportID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing claims")
		}
		if len(existing) > 0 {
			return nil, appErrors.Clone(appErrors.ErrConflict, "report already claimed by another reporter")
		}
	} else {
		claimed, err := s.picks.ExistsForReporter(ctx, req.ReportID, reporterID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing claims")
		}
		if claimed {
			return nil, appErrors.Clone(appErrors.ErrConflict, "report already claimed by this reporter")
		}
	}

	pick := &models.Pick{
		ReportID:   req.ReportID,
		ReporterID: reporterID,
		Exclusive:  report.PublishType == models.PublishExclusive,
	}
	if err := s.picks.Create(ctx, pick); err != nil {
		if errors.Is(err, repository.ErrDuplicatePick) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "report already claimed by another reporter")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store pick")
	}

	if s.metrics != nil {
		s.metrics.IncPick()
	}
	s.logger.Info("report picked", zap.String("report_id", pick.ReportID), zap.String("reporter_id", reporterID))

	return pick, nil
}

// ListByReport returns the claims recorded against a report.
func (s *PickService) ListByReport(ctx context.Context, reportID string) ([]models.Pick, error) {
	if reportID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reportId required")
	}
	picks, err := s.picks.ListByReport(ctx, reportID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list picks")
	}
	return picks, nil
}
