package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jeboro/jeboro-api/internal/models"
)

// ReportRepository provides database access for submitted reports.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, title, content, category, region, publish_type, status, is_anonymous, embargo_ends, author_id, created_at, updated_at`

// Create inserts a new report row with generated defaults.
func (r *ReportRepository) Create(ctx context.Context, report *models.Report) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Status == "" {
		report.Status = models.ReportStatusPending
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	report.UpdatedAt = now

	const query = `INSERT INTO reports (id, title, content, category, region, publish_type, status, is_anonymous, embargo_ends, author_id, created_at, updated_at)
VALUES (:id, :title, :content, :category, :region, :publish_type, :status, :is_anonymous, :embargo_ends, :author_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, report); err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// GetByID returns a report by identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1 LIMIT 1`, reportColumns)
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &report, nil
}

// List returns reports with their author joined, newest first, plus a total
// count for pagination.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithAuthor, int, error) {
	baseQuery := `FROM reports r JOIN users u ON u.id = r.author_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.PublishType != nil {
		conditions = append(conditions, fmt.Sprintf("r.publish_type = $%d", len(args)+1))
		args = append(args, *filter.PublishType)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("r.category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Region != "" {
		conditions = append(conditions, fmt.Sprintf("r.region = $%d", len(args)+1))
		args = append(args, filter.Region)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf(`SELECT r.id, r.title, r.content, r.category, r.region, r.publish_type, r.status, r.is_anonymous, r.embargo_ends, r.author_id, r.created_at, r.updated_at, u.name AS author_name, u.email AS author_email %s ORDER BY r.created_at DESC LIMIT %d OFFSET %d`, baseQuery, pageSize, offset)

	var reports []models.ReportWithAuthor
	if err := r.db.SelectContext(ctx, &reports, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}

	return reports, total, nil
}

// UpdateStatus moves a report through the review lifecycle.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus, updatedAt time.Time) error {
	const query = `UPDATE reports SET status = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, updatedAt)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SweepExpired flips every exclusive report whose embargo has passed to open
// visibility in one atomic bulk update. Approved reports are never touched.
// Idempotent: flipped rows no longer match the predicate.
func (r *ReportRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE reports
SET publish_type = $1, embargo_ends = NULL, updated_at = $2
WHERE publish_type = $3 AND embargo_ends < $2 AND status <> $4`
	result, err := r.db.ExecContext(ctx, query, models.PublishOpen, now, models.PublishExclusive, models.ReportStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("sweep expired embargoes: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep expired embargoes: %w", err)
	}
	return affected, nil
}

// CountsByAuthor returns total and approved report counts for a user,
// feeding reputation recalculation.
func (r *ReportRepository) CountsByAuthor(ctx context.Context, authorID string) (total int, approved int, err error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'APPROVED') AS approved FROM reports WHERE author_id = $1`
	row := struct {
		Total    int `db:"total"`
		Approved int `db:"approved"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, authorID); err != nil {
		return 0, 0, fmt.Errorf("count reports by author: %w", err)
	}
	return row.Total, row.Approved, nil
}
