// Package ratelimit bounds per-caller request rates with a sliding window.
// The window is tracked in memory per process; a fleet fronted by a shared
// limiter should disable this one.
package ratelimit

import (
	"sync"
	"time"
)

// Result reports one admission decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter admits up to limit requests per key within a rolling window.
// Sliding timestamps rather than fixed buckets, so a burst straddling a
// bucket boundary cannot double the effective rate.
type Limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	entries map[string]*entry

	now func() time.Time
}

type entry struct {
	timestamps []time.Time
}

// New constructs a limiter. Limit and window must both be positive.
func New(limit int, window time.Duration) *Limiter {
	if limit <= 0 || window <= 0 {
		return nil
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow records one request for key and reports whether it fits the window.
// A nil limiter admits everything.
func (l *Limiter) Allow(key string) Result {
	if l == nil {
		return Result{Allowed: true}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.entries[key]
	if e == nil {
		e = &entry{}
		l.entries[key] = e
	}
	e.prune(now.Add(-l.window))

	if len(e.timestamps) >= l.limit {
		return Result{
			Allowed:   false,
			Limit:     l.limit,
			Remaining: 0,
			ResetAt:   e.timestamps[0].Add(l.window),
		}
	}

	e.timestamps = append(e.timestamps, now)
	return Result{
		Allowed:   true,
		Limit:     l.limit,
		Remaining: l.limit - len(e.timestamps),
		ResetAt:   e.timestamps[0].Add(l.window),
	}
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
}

// prune drops timestamps at or before the cutoff.
func (e *entry) prune(cutoff time.Time) {
	drop := 0
	for drop < len(e.timestamps) && !e.timestamps[drop].After(cutoff) {
		drop++
	}
	if drop > 0 {
		e.timestamps = append(e.timestamps[:0], e.timestamps[drop:]...)
	}
}
