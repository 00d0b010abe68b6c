// Package ratelimit counts requests per client key. The login endpoint uses
// a fixed window (in memory, or in redis when several processes share the
// budget); the rest of the API can be throttled with a token bucket.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/booklib/internal/common"
)

// Limiter decides whether one more request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result describes a single decision.
type Result struct {
	Allowed bool
	// Limit is the number of requests a window (or bucket) admits.
	Limit     int
	Remaining int
	// ResetAfter is the time until the window ends or the bucket refills.
	ResetAfter time.Duration
}

// RejectionError is the error handed to clients whose login attempts were
// refused. The message names the window length.
func RejectionError(window time.Duration) error {
	return common.NewError(common.ErrRateLimited,
		fmt.Sprintf("Too many login attempts from this IP, please try again after %s", humanize(window)))
}

func humanize(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute && d%time.Minute == 0:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int((d+time.Second-1)/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// RunJanitor calls every cleanup function once per interval until ctx is
// done. It blocks, so start it in its own goroutine.
func RunJanitor(ctx context.Context, interval time.Duration, cleanups ...func()) {
	if interval <= 0 || len(cleanups) == 0 {
		return
	}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			for _, c := range cleanups {
				c()
			}
		}
	}
}
