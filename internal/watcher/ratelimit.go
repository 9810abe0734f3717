package watcher

import (
	"sync"
	"time"
)

// RateLimiter suppresses event bursts per path. It is leading-edge: the first
// event in a burst passes immediately and later ones are dropped until the
// interval has elapsed after the last accepted event.
type RateLimiter struct {
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewRateLimiter builds a limiter with the given minimum interval between
// accepted events for a single path. A zero interval accepts everything.
func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		interval: interval,
		last:     make(map[string]time.Time),
	}
}

// Allow reports whether an event for path observed at the given time should
// be processed. The per-path stamp advances only on accepted events, so a
// sustained burst stays suppressed until the interval passes.
func (r *RateLimiter) Allow(path string, at time.Time) bool {
	if r.interval <= 0 {
		return true
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if last, ok := r.last[path]; ok && at.Sub(last) < r.interval {
		return false
	}
	r.last[path] = at
	return true
}
