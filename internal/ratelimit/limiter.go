package ratelimit

import (
	"sync"
	"time"

	"github.com/courageallien/outreach-analyst/internal/core"
	"go.uber.org/zap"
)

// Limiter is a sliding-window rate limiter. It keeps the timestamps of
// admitted requests and purges everything older than the window on each
// check, so the window size invariant holds at the moment of admission.
type Limiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	stamps []time.Time
	logger *zap.Logger
	now    func() time.Time
}

// New creates a sliding-window limiter admitting max requests per window
func New(max int, window time.Duration, logger *zap.Logger) *Limiter {
	return &Limiter{
		max:    max,
		window: window,
		logger: logger,
		now:    time.Now,
	}
}

// NewWithClock creates a limiter with an injected clock, for tests
func NewWithClock(max int, window time.Duration, logger *zap.Logger, now func() time.Time) *Limiter {
	l := New(max, window, logger)
	l.now = now
	return l
}

// Check admits or rejects one request. On rejection the wait time is
// computed from the oldest timestamp still inside the window.
func (l *Limiter) Check() core.RateDecision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Purge timestamps that fell out of the window
	kept := l.stamps[:0]
	for _, ts := range l.stamps {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	l.stamps = kept

	if len(l.stamps) >= l.max {
		wait := l.stamps[0].Add(l.window).Sub(now)
		if l.logger != nil {
			l.logger.Warn("Rate limit reached",
				zap.Int("max_requests", l.max),
				zap.Duration("window", l.window),
				zap.Duration("wait", wait))
		}
		return core.RateDecision{Allowed: false, Wait: wait}
	}

	l.stamps = append(l.stamps, now)
	return core.RateDecision{
		Allowed:   true,
		Remaining: l.max - len(l.stamps),
	}
}
