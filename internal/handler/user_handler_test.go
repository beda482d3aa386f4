package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/internal/service"
)

type userRepoStub struct {
	user       *models.User
	reputation *models.Reputation
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}

func (s *userRepoStub) GetReputation(ctx context.Context, userID string) (*models.Reputation, error) {
	return s.reputation, nil
}

func (s *userRepoStub) UpsertReputation(ctx context.Context, rep *models.Reputation) error {
	return nil
}

type counterStub struct{}

func (counterStub) CountsByAuthor(ctx context.Context, authorID string) (int, int, error) {
	return 0, 0, nil
}

func TestUserHandlerMe(t *testing.T) {
	repo := &userRepoStub{
		user:       &models.User{ID: "user-1", Email: "kim@example.com", Role: models.RoleInformant},
		reputation: &models.Reputation{UserID: "user-1", Score: 21, ReportCount: 1, ApprovedCount: 2},
	}
	handler := NewUserHandler(service.NewUserService(repo, counterStub{}, nil))

	c, w := authedContext(t, http.MethodGet, "/api/v1/users/me", nil)

	handler.Me(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data struct {
			Email      string `json:"email"`
			Reputation *struct {
				Score int `json:"score"`
			} `json:"reputation"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "kim@example.com", envelope.Data.Email)
	require.NotNil(t, envelope.Data.Reputation)
	assert.Equal(t, 21, envelope.Data.Reputation.Score)
}

func TestUserHandlerMeUnauthenticated(t *testing.T) {
	handler := NewUserHandler(nil)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	c.Request = req

	handler.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
