package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/middleware"
	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/service"
	appErrors "github.com/jeboro/jeboro-api/pkg/errors"
)

type reportRepoStub struct {
	created  *models.Report
	getResp  *models.Report
	getErr   error
	listResp []models.ReportWithAuthor
	total    int
}

func (s *reportRepoStub) Create(ctx context.Context, report *models.Report) error {
	report.ID = "report-1"
	s.created = report
	return nil
}

func (s *reportRepoStub) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.getResp, s.getErr
}

func (s *reportRepoStub) List(ctx context.Context, filter models.ReportFilter) ([]models.ReportWithAuthor, int, error) {
	return s.listResp, s.total, nil
}

func (s *reportRepoStub) UpdateStatus(ctx context.Context, id string, status models.ReportStatus, updatedAt time.Time) error {
	return nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) DeleteByPattern(ctx context.Context, pattern string) error {
	return nil
}

func newTestReportHandler(repo *reportRepoStub) *ReportHandler {
	svc := service.NewReportService(repo, nil, noopCache{}, nil, nil, nil, nil, service.ReportServiceConfig{})
	return NewReportHandler(svc)
}

func authedContext(t *testing.T, method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleInformant})
	return c, w
}

func TestReportHandlerCreate(t *testing.T) {
	repo := &reportRepoStub{}
	handler := newTestReportHandler(repo)

	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "Bribery at the licensing office",
		"content":     "A detailed account with supporting material.",
		"category":    "corruption",
		"publishType": "EXCLUSIVE",
		"isAnonymous": true,
	})
	c, w := authedContext(t, http.MethodPost, "/api/v1/reports", payload)

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, "user-1", repo.created.AuthorID)
	assert.NotNil(t, repo.created.EmbargoEnds)
}

func TestReportHandlerCreateUnauthenticated(t *testing.T) {
	handler := newTestReportHandler(&reportRepoStub{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/reports", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportHandlerCreateInvalidPayload(t *testing.T) {
	handler := newTestReportHandler(&reportRepoStub{})

	payload, _ := json.Marshal(map[string]interface{}{
		"title":       "x",
		"content":     "short",
		"category":    "",
		"publishType": "OPEN",
	})
	c, w := authedContext(t, http.MethodPost, "/api/v1/reports", payload)

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerList(t *testing.T) {
	repo := &reportRepoStub{
		listResp: []models.ReportWithAuthor{
			{Report: models.Report{ID: "report-1", Title: "Open tip", PublishType: models.PublishOpen, Status: models.ReportStatusApproved}},
		},
		total: 1,
	}
	handler := newTestReportHandler(repo)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/reports?page=1", nil)
	c.Request = req

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "report-1", envelope.Data[0].ID)
}

func TestReportHandlerUpdateStatusConflict(t *testing.T) {
	repo := &reportRepoStub{
		getResp: &models.Report{ID: "report-1", Status: models.ReportStatusApproved},
	}
	handler := newTestReportHandler(repo)

	payload := []byte(`{"status":"REJECTED"}`)
	c, w := authedContext(t, http.MethodPatch, "/api/v1/admin/reports/report-1/status", payload)
	c.Params = gin.Params{{Key: "id", Value: "report-1"}}

	handler.UpdateStatus(c)
	assert.Equal(t, http.StatusConflict, w.Code)
}
