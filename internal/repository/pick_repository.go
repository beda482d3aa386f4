package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jeboro/jeboro-api/internal/models"
)

// ErrDuplicatePick is returned when the single-claim invariant on an
// exclusive report is violated. Exclusivity is denormalized onto the pick
// row, so the partial unique index on picks(report_id) WHERE exclusive
// settles concurrent claims and the loser surfaces here.
var ErrDuplicatePick = errors.New("report already picked")

// PickRepository provides database access for journalist claims.
type PickRepository struct {
	db *sqlx.DB
}

// NewPickRepository creates a new instance of PickRepository.
func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

// Create inserts a pick row. A unique violation maps to ErrDuplicatePick.
func (r *PickRepository) Create(ctx context.Context, pick *models.Pick) error {
	if pick.ID == "" {
		pick.ID = uuid.NewString()
	}
	if pick.CreatedAt.IsZero() {
		pick.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO picks (id, report_id, reporter_id, exclusive, created_at)
VALUES (:id, :report_id, :reporter_id, :exclusive, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, pick); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePick
		}
		return fmt.Errorf("create pick: %w", err)
	}
	return nil
}

// ListByReport returns every claim recorded against a report, oldest first.
func (r *PickRepository) ListByReport(ctx context.Context, reportID string) ([]models.Pick, error) {
	const query = `SELECT id, report_id, reporter_id, exclusive, created_at FROM picks WHERE report_id = $1 ORDER BY created_at ASC`
	var picks []models.Pick
	if err := r.db.SelectContext(ctx, &picks, query, reportID); err != nil {
		return nil, fmt.Errorf("list picks by report: %w", err)
	}
	return picks, nil
}

// ExistsForReporter reports whether the reporter already claimed the report.
func (r *PickRepository) ExistsForReporter(ctx context.Context, reportID, reporterID string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM picks WHERE report_id = $1 AND reporter_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, reportID, reporterID); err != nil {
		return false, fmt.Errorf("check pick existence: %w", err)
	}
	return exists, nil
}
