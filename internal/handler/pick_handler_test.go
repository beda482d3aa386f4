package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/middleware"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/repository"
	"github.com/jeboro/jeboro-api/internal/service"
)

type pickRepoStub struct {
	createErr error
	listResp  []models.Pick
}

func (s *pickRepoStub) Create(ctx context.Context, pick *models.Pick) error {
	pick.ID = "pick-1"
	return s.createErr
}

func (s *pickRepoStub) ListByReport(ctx context.Context, reportID string) ([]models.Pick, error) {
	return s.listResp, nil
}

func (s *pickRepoStub) ExistsForReporter(ctx context.Context, reportID, reporterID string) (bool, error) {
	return false, nil
}

type reportLoaderStub struct {
	resp *models.Report
	err  error
}

func (s *reportLoaderStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.resp, s.err
}

type userLoaderStub struct {
	resp *models.User
}

func (s *userLoaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if s.resp == nil {
		return nil, sql.ErrNoRows
	}
	return s.resp, nil
}

func newTestPickHandler(picks *pickRepoStub, reports *reportLoaderStub, users *userLoaderStub) *PickHandler {
	svc := service.NewPickService(picks, reports, users, nil, nil)
	return NewPickHandler(svc)
}

func reporterClaims(c *gin.Context) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "reporter-1", Role: models.RoleReporter})
}

func TestPickHandlerCreate(t *testing.T) {
	handler := newTestPickHandler(
		&pickRepoStub{},
		&reportLoaderStub{resp: &models.Report{ID: "report-1"}},
		&userLoaderStub{resp: &models.User{ID: "reporter-1", Role: models.RoleReporter}},
	)

	c, w := authedContext(t, http.MethodPost, "/api/v1/picks", []byte(`{"reportId":"report-1"}`))
	reporterClaims(c)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "pick-1")
}

func TestPickHandlerCreateReportNotFound(t *testing.T) {
	handler := newTestPickHandler(
		&pickRepoStub{},
		&reportLoaderStub{err: sql.ErrNoRows},
		&userLoaderStub{resp: &models.User{ID: "reporter-1", Role: models.RoleReporter}},
	)

	c, w := authedContext(t, http.MethodPost, "/api/v1/picks", []byte(`{"reportId":"missing"}`))
	reporterClaims(c)

	handler.Create(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPickHandlerCreateDuplicate(t *testing.T) {
	handler := newTestPickHandler(
		&pickRepoStub{createErr: repository.ErrDuplicatePick},
		&reportLoaderStub{resp: &models.Report{ID: "report-1"}},
		&userLoaderStub{resp: &models.User{ID: "reporter-1", Role: models.RoleReporter}},
	)

	c, w := authedContext(t, http.MethodPost, "/api/v1/picks", []byte(`{"reportId":"report-1"}`))
	reporterClaims(c)

	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPickHandlerCreateExclusiveAlreadyClaimed(t *testing.T) {
	handler := newTestPickHandler(
		&pickRepoStub{listResp: []models.Pick{{ID: "pick-1", ReportID: "report-1", ReporterID: "reporter-1", Exclusive: true}}},
		&reportLoaderStub{resp: &models.Report{ID: "report-1", PublishType: models.PublishExclusive}},
		&userLoaderStub{resp: &models.User{ID: "reporter-2", Role: models.RoleReporter}},
	)

	c, w := authedContext(t, http.MethodPost, "/api/v1/picks", []byte(`{"reportId":"report-1"}`))
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "reporter-2", Role: models.RoleReporter})

	handler.Create(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPickHandlerListRequiresReportID(t *testing.T) {
	handler := newTestPickHandler(&pickRepoStub{}, &reportLoaderStub{}, &userLoaderStub{})

	c, w := authedContext(t, http.MethodGet, "/api/v1/picks", nil)
	reporterClaims(c)

	handler.ListByReport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
