package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/jeboro/jeboro-api/internal/models"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
	"github.com/jeboro/jeboro-api/pkg/jobs"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	GetReputation(ctx context.Context, userID string) (*models.Reputation, error)
	UpsertReputation(ctx context.Context, rep *models.Reputation) error
}

type authorReportCounter interface {
	CountsByAuthor(ctx context.Context, authorID string) (total int, approved int, err error)
}

// UserService exposes profile queries and the reputation aggregate.
type UserService struct {
	users   userRepository
	reports authorReportCounter
	logger  *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users userRepository, reports authorReportCounter, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{users: users, reports: reports, logger: logger}
}

// Me returns the session user with their reputation joined.
func (s *UserService) Me(ctx context.Context, userID string) (*models.UserWithReputation, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	reputation, err := s.users.GetReputation(ctx, user.ID)
	if err != nil {
		s.logger.Warn("failed to load reputation", zap.Error(err), zap.String("user_id", user.ID))
	}

	return &models.UserWithReputation{User: *user, Reputation: reputation}, nil
}

// RecalculateReputation rebuilds the aggregate from the report counts. Ten
// points per approved report, one per submission.
func (s *UserService) RecalculateReputation(ctx context.Context, userID string) error {
	total, approved, err := s.reports.CountsByAuthor(ctx, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count reports")
	}

	rep := &models.Reputation{
		UserID:        userID,
		Score:         total + approved*10,
		ReportCount:   total,
		ApprovedCount: approved,
	}
	if err := s.users.UpsertReputation(ctx, rep); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store reputation")
	}

	return nil
}

// ReputationJobHandler adapts RecalculateReputation to the job queue.
func (s *UserService) ReputationJobHandler() jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		userID, ok := job.Payload.(string)
		if !ok || userID == "" {
			s.logger.Warn("reputation job carried no user id", zap.String("job_id", job.ID))
			return nil
		}
		return s.RecalculateReputation(ctx, userID)
	}
}
