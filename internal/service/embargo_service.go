package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
)

type embargoReportRepository interface {
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

type feedCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EmbargoService demotes expired exclusive reports to open visibility. The
// flip is one-directional and approved reports are out of scope; both
// guarantees live in the store predicate so a run is a single atomic bulk
// update.
type EmbargoService struct {
	repo    embargoReportRepository
	cache   feedCacheInvalidator
	metrics *MetricsService
	logger  *zap.Logger
}

// NewEmbargoService constructs the sweeper.
func NewEmbargoService(repo embargoReportRepository, cache feedCacheInvalidator, metrics *MetricsService, logger *zap.Logger) *EmbargoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmbargoService{repo: repo, cache: cache, metrics: metrics, logger: logger}
}

// Sweep re-evaluates all exclusive reports past embargo and flips them to
// open. Returns the number of flipped rows. Idempotent: a second run with no
// intervening writes reports zero.
func (s *EmbargoService) Sweep(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.repo.SweepExpired(ctx, now)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sweep expired embargoes")
	}

	if count > 0 {
		s.logger.Info("embargoes expired", zap.Int64("count", count))
		if s.metrics != nil {
			s.metrics.AddEmbargoesExpired(count)
		}
		if s.cache != nil {
			if err := s.cache.DeleteByPattern(ctx, feedCacheKeyPattern); err != nil {
				s.logger.Warn("failed to invalidate feed cache after sweep", zap.Error(err))
			}
		}
	}

	return count, nil
}

// Run drives the sweeper on a fixed interval until the context is cancelled.
// The HTTP cron endpoint remains the authoritative trigger; this loop keeps
// the platform converging even when the external scheduler misfires.
func (s *EmbargoService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, time.Now().UTC()); err != nil {
				s.logger.Warn("scheduled embargo sweep failed", zap.Error(err))
			}
		}
	}
}
