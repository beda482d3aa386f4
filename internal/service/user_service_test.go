package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeboro/jeboro-api/internal/models"
	"github.com/jeboro/jeboro-api/pkg/jobs"
)

type userRepoStub struct {
	user     *models.User
	rep      *models.Reputation
	upserted *models.Reputation
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.user, nil
}

func (s *userRepoStub) GetReputation(ctx context.Context, userID string) (*models.Reputation, error) {
	return s.rep, nil
}

func (s *userRepoStub) UpsertReputation(ctx context.Context, rep *models.Reputation) error {
	s.upserted = rep
	return nil
}

type countsStub struct {
	total    int
	approved int
}

func (s *countsStub) CountsByAuthor(ctx context.Context, authorID string) (int, int, error) {
	return s.total, s.approved, nil
}

func TestUserServiceRecalculateReputation(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, &countsStub{total: 5, approved: 2}, nil)

	err := svc.RecalculateReputation(context.Background(), "user-1")
	require.NoError(t, err)

	require.NotNil(t, repo.upserted)
	// One point per submission plus ten per approval.
	assert.Equal(t, 25, repo.upserted.Score)
	assert.Equal(t, 5, repo.upserted.ReportCount)
	assert.Equal(t, 2, repo.upserted.ApprovedCount)
}

func TestUserServiceReputationJobHandlerIgnoresBadPayload(t *testing.T) {
	repo := &userRepoStub{}
	svc := NewUserService(repo, &countsStub{}, nil)
	handler := svc.ReputationJobHandler()

	err := handler(context.Background(), jobs.Job{ID: "job-1", Type: ReputationJobType, Payload: 42})
	require.NoError(t, err)
	assert.Nil(t, repo.upserted)
}

func TestUserServiceMeIncludesReputation(t *testing.T) {
	repo := &userRepoStub{
		user: &models.User{ID: "user-1", Email: "kim@example.com"},
		rep:  &models.Reputation{UserID: "user-1", Score: 12},
	}
	svc := NewUserService(repo, &countsStub{}, nil)

	me, err := svc.Me(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "kim@example.com", me.Email)
	require.NotNil(t, me.Reputation)
	assert.Equal(t, 12, me.Reputation.Score)
}
