package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// Throttle is a per-key token bucket refilled at rps tokens per second,
// holding at most burst tokens.
type Throttle struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rps     rate.Limit
	burst   int
	idleTTL time.Duration
	now     func() time.Time
}

func NewThrottle(rps float64, burst int, idleTTL time.Duration) *Throttle {
	return &Throttle{
		buckets: make(map[string]*bucket),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

func (t *Throttle) Allow(ctx context.Context, key string) (*Result, error) {
	now := t.now()

	t.mu.Lock()
	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(t.rps, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = now
	t.mu.Unlock()

	allowed := b.lim.AllowN(now, 1)
	tokens := b.lim.TokensAt(now)

	var resetAfter time.Duration
	if missing := float64(t.burst) - tokens; missing > 0 && t.rps > 0 {
		resetAfter = time.Duration(math.Ceil(missing / float64(t.rps) * float64(time.Second)))
	}

	return &Result{
		Allowed:    allowed,
		Limit:      t.burst,
		Remaining:  int(math.Max(0, math.Floor(tokens))),
		ResetAfter: resetAfter,
	}, nil
}

// Cleanup drops buckets not used for idleTTL.
func (t *Throttle) Cleanup() {
	cutoff := t.now().Add(-t.idleTTL)

	t.mu.Lock()
	defer t.mu.Unlock()

	for k, b := range t.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(t.buckets, k)
		}
	}
}
