package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/dto"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/repository"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
)

type pickRepoStub struct {
	created   *models.Pick
	createErr error
	listResp  []models.Pick
	listErr   error
	exists    bool
	existsErr error
}

func (s *pickRepoStub) Create(ctx context.Context, pick *models.Pick) error {
	s.created = pick
	return s.createErr
}

func (s *pickRepoStub) ListByReport(ctx context.Context, reportID string) ([]models.Pick, error) {
	return s.listResp, s.listErr
}

func (s *pickRepoStub) ExistsForReporter(ctx context.Context, reportID, reporterID string) (bool, error) {
	return s.exists, s.existsErr
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
	err  error
}

func (s *userLoaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.resp, s.err
}

func reporterUser() *models.User {
	return &models.User{ID: "reporter-1", Role: models.RoleReporter}
}

func TestPickServiceCreate(t *testing.T) {
	picks := &pickRepoStub{}
	svc := NewPickService(picks, &reportLoaderStub{resp: &models.Report{ID: "report-1"}}, &userLoaderStub{resp: reporterUser()}, nil, nil)

	pick, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "reporter-1")
	require.NoError(t, err)
	assert.Equal(t, "report-1", pick.ReportID)
	assert.Equal(t, "reporter-1", pick.ReporterID)
	require.NotNil(t, picks.created)
}

func TestPickServiceCreateRequiresAuth(t *testing.T) {
	svc := NewPickService(&pickRepoStub{}, &reportLoaderStub{}, &userLoaderStub{}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrors.FromError(err).Status)
}

func TestPickServiceCreateNonReporterForbidden(t *testing.T) {
	informant := &models.User{ID: "user-1", Role: models.RoleInformant}
	svc := NewPickService(&pickRepoStub{}, &reportLoaderStub{resp: &models.Report{ID: "report-1"}}, &userLoaderStub{resp: informant}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "user-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)
}

func TestPickServiceCreateReportNotFound(t *testing.T) {
	svc := NewPickService(&pickRepoStub{}, &reportLoaderStub{err: sql.ErrNoRows}, &userLoaderStub{resp: reporterUser()}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "missing"}, "reporter-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestPickServiceCreateExclusiveMarksPick(t *testing.T) {
	picks := &pickRepoStub{}
	ends := time.Now().UTC().Add(24 * time.Hour)
	report := &models.Report{ID: "report-1", PublishType: models.PublishExclusive, EmbargoEnds: &ends}
	svc := NewPickService(picks, &reportLoaderStub{resp: report}, &userLoaderStub{resp: reporterUser()}, nil, nil)

	pick, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "reporter-1")
	require.NoError(t, err)
	assert.True(t, pick.Exclusive)
}

func TestPickServiceCreateExclusiveSecondClaimConflict(t *testing.T) {
	picks := &pickRepoStub{
		listResp: []models.Pick{{ID: "pick-1", ReportID: "report-1", ReporterID: "reporter-1", Exclusive: true}},
	}
	ends := time.Now().UTC().Add(24 * time.Hour)
	report := &models.Report{ID: "report-1", PublishType: models.PublishExclusive, EmbargoEnds: &ends}
	other := &models.User{ID: "reporter-2", Role: models.RoleReporter}
	svc := NewPickService(picks, &reportLoaderStub{resp: report}, &userLoaderStub{resp: other}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "reporter-2")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Nil(t, picks.created)
}

func TestPickServiceCreateOpenAllowsSecondReporter(t *testing.T) {
	picks := &pickRepoStub{
		listResp: []models.Pick{{ID: "pick-1", ReportID: "report-1", ReporterID: "reporter-1"}},
	}
	report := &models.Report{ID: "report-1", PublishType: models.PublishOpen}
	other := &models.User{ID: "reporter-2", Role: models.RoleReporter}
	svc := NewPickService(picks, &reportLoaderStub{resp: report}, &userLoaderStub{resp: other}, nil, nil)

	pick, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "reporter-2")
	require.NoError(t, err)
	assert.False(t, pick.Exclusive)
	require.NotNil(t, picks.created)
}

func TestPickServiceCreateOpenRepeatClaimConflict(t *testing.T) {
	picks := &pickRepoStub{exists: true}
	report := &models.Report{ID: "report-1", PublishType: models.PublishOpen}
	svc := NewPickService(picks, &reportLoaderStub{resp: report}, &userLoaderStub{resp: reporterUser()}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "reporter-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
	assert.Nil(t, picks.created)
}

func TestPickServiceCreateDuplicateConflict(t *testing.T) {
	picks := &pickRepoStub{createErr: repository.ErrDuplicatePick}
	svc := NewPickService(picks, &reportLoaderStub{resp: &models.Report{ID: "report-1"}}, &userLoaderStub{resp: reporterUser()}, nil, nil)

	_, err := svc.Create(context.Background(), dto.CreatePickRequest{ReportID: "report-1"}, "reporter-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrors.FromError(err).Status)
}

func TestPickServiceListByReportRequiresID(t *testing.T) {
	svc := NewPickService(&pickRepoStub{}, &reportLoaderStub{}, &userLoaderStub{}, nil, nil)

	_, err := svc.ListByReport(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
}
