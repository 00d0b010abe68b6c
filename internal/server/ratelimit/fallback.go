package ratelimit

import (
	"context"
	"time"

	"github.com/dmitrijs2005/booklib/internal/logging"
	"github.com/sony/gobreaker"
)

// Fallback asks primary through a circuit breaker and answers from
// secondary whenever primary fails or the breaker is open. Allow itself
// never returns an error unless secondary does.
type Fallback struct {
	primary   Limiter
	secondary Limiter
	cb        *gobreaker.CircuitBreaker
	logger    logging.Logger

	// OnFallback, when set, is called each time secondary answers.
	OnFallback func()
}

// NewFallback trips the breaker after failures consecutive errors and
// probes primary again after openFor.
func NewFallback(primary, secondary Limiter, failures uint32, openFor time.Duration, logger logging.Logger) *Fallback {
	f := &Fallback{primary: primary, secondary: secondary, logger: logger}

	f.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "login-limiter",
		MaxRequests: 1,
		Timeout:     openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn(context.Background(), "circuit breaker state change",
				"name", name, "from", from.String(), "to", to.String())
		},
	})
	return f
}

func (f *Fallback) Allow(ctx context.Context, key string) (*Result, error) {
	out, err := f.cb.Execute(func() (interface{}, error) {
		return f.primary.Allow(ctx, key)
	})
	if err == nil {
		return out.(*Result), nil
	}

	f.logger.Debug(ctx, "using fallback rate limiter", "error", err)
	if f.OnFallback != nil {
		f.OnFallback()
	}
	return f.secondary.Allow(ctx, key)
}

// State reports the breaker state, mostly for tests and diagnostics.
func (f *Fallback) State() gobreaker.State {
	return f.cb.State()
}
