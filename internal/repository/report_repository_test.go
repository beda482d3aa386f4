package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func TestReportRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reports`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	report := &models.Report{
		Title:       "Leaked procurement documents",
		Content:     "Details of the irregular contract award.",
		Category:    "corruption",
		PublishType: models.PublishOpen,
		AuthorID:    "user-1",
	}
	err := repo.Create(context.Background(), report)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, models.ReportStatusPending, report.Status)
	assert.False(t, report.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReportRepositoryGetByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReportRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "title", "content", "category", "region", "publish_type", "status",
		"is_anonymous", "embargo_ends", "author_id", "created_at", "updated_at",
		"author_name", "author_email",
	}).AddRow(
		"report-1", "Title", "Content body here", "corruption", nil, "OPEN", "PENDING",
		false, nil, "user-1", now, now, "Kim", "kim@example.com",
	)

	status := models.ReportStatusPending
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY r.created_at DESC")).
		WithArgs(status).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(status).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	reports, total, err := repo.List(context.Background(), models.ReportFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Kim", reports[0].AuthorName)
}

func TestReportRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reports SET status = $2, updated_at = $3 WHERE id = $1`)).
		WithArgs("missing", models.ReportStatusApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.ReportStatusApproved, time.Now().UTC())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestReportRepositorySweepExpired(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE reports
SET publish_type = $1, embargo_ends = NULL, updated_at = $2
WHERE publish_type = $3 AND embargo_ends < $2 AND status <> $4`)).
		WithArgs(models.PublishOpen, now, models.PublishExclusive, models.ReportStatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestReportRepositorySweepExpiredNothingToDo(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE reports")).
		WithArgs(models.PublishOpen, now, models.PublishExclusive, models.ReportStatusApproved).
		WillReturnResult(sqlmock.NewResult(0, 0))

	count, err := repo.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReportRepositoryCountsByAuthor(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewReportRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reports WHERE author_id = $1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "approved"}).AddRow(5, 2))

	total, approved, err := repo.CountsByAuthor(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Equal(t, 2, approved)
}
