package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/booklib/internal/logging"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLimiter struct {
	calls int
	err   error
}

func (s *stubLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Result{Allowed: true, Limit: 5, Remaining: 4}, nil
}

func TestFallback_UsesPrimaryWhenHealthy(t *testing.T) {
	primary := &stubLimiter{}
	secondary := NewFixedWindow(5, time.Minute)
	f := NewFallback(primary, secondary, 3, time.Minute, logging.Nop())

	res, err := f.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.Len())
}

func TestFallback_OpensAfterFailures(t *testing.T) {
	primary := &stubLimiter{err: errors.New("connection refused")}
	secondary := NewFixedWindow(2, time.Minute)
	f := NewFallback(primary, secondary, 2, time.Minute, logging.Nop())

	fallbacks := 0
	f.OnFallback = func() { fallbacks++ }

	for i := 0; i < 2; i++ {
		res, err := f.Allow(context.Background(), "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	assert.Equal(t, gobreaker.StateOpen, f.State())
	assert.Equal(t, 2, primary.calls)

	res, err := f.Allow(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, res.Allowed, "the local window keeps counting while the breaker is open")
	assert.Equal(t, 2, primary.calls, "open breaker must not call primary")
	assert.Equal(t, 3, fallbacks)
}
