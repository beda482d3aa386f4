package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepRepoStub struct {
	counts []int64
	err    error
	calls  int
}

func (s *sweepRepoStub) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	defer func() { s.calls++ }()
	if s.err != nil {
		return 0, s.err
	}
	if s.calls < len(s.counts) {
		return s.counts[s.calls], nil
	}
	return 0, nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) DeleteByPattern(ctx context.Context, pattern string) error {
	s.calls++
	return nil
}

func TestEmbargoServiceSweep(t *testing.T) {
	repo := &sweepRepoStub{counts: []int64{4}}
	cache := &invalidatorStub{}
	svc := NewEmbargoService(repo, cache, nil, nil)

	count, err := svc.Sweep(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)
	assert.Equal(t, 1, cache.calls)
}

func TestEmbargoServiceSweepIdempotent(t *testing.T) {
	repo := &sweepRepoStub{counts: []int64{2, 0}}
	cache := &invalidatorStub{}
	svc := NewEmbargoService(repo, cache, nil, nil)

	now := time.Now().UTC()
	first, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	second, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), first)
	assert.Zero(t, second)
	// Only the run that actually flipped rows invalidates the feed.
	assert.Equal(t, 1, cache.calls)
}

func TestEmbargoServiceSweepError(t *testing.T) {
	repo := &sweepRepoStub{err: errors.New("connection reset")}
	svc := NewEmbargoService(repo, &invalidatorStub{}, nil, nil)

	_, err := svc.Sweep(context.Background(), time.Now().UTC())
	assert.Error(t, err)
}
