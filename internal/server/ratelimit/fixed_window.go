package ratelimit

import (
	"context"
	"sync"
	"time"
)

type windowState struct {
	start time.Time
	count int
}

// FixedWindow admits limit requests per key in a window that starts with
// the key's first request and lasts window. Every request counts, including
// rejected ones. Expired windows are replaced on the next request and
// dropped by Cleanup.
type FixedWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	windows map[string]*windowState
	now     func() time.Time
}

func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		limit:   limit,
		window:  window,
		windows: make(map[string]*windowState),
		now:     time.Now,
	}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (*Result, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.start.Add(l.window)) {
		w = &windowState{start: now}
		l.windows[key] = w
	}
	w.count++

	remaining := l.limit - w.count
	if remaining < 0 {
		remaining = 0
	}

	return &Result{
		Allowed:    w.count <= l.limit,
		Limit:      l.limit,
		Remaining:  remaining,
		ResetAfter: w.start.Add(l.window).Sub(now),
	}, nil
}

// Cleanup forgets every window that has already ended.
func (l *FixedWindow) Cleanup() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for k, w := range l.windows {
		if !now.Before(w.start.Add(l.window)) {
			delete(l.windows, k)
		}
	}
}

// Len returns the number of tracked keys.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
