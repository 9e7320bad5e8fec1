package processors

import (
	"fmt"
	"sync"
	"time"

	"github.com/logward/logward-go/pkg/logward"
)

// sweepInterval is the number of rate-limit checks between stale-window
// sweeps.
const sweepInterval = 1024

type rateWindow struct {
	start time.Time
	count int
}

// RateLimiter allows at most maxCount records per event name within a fixed
// window of period. When a window's start plus period has elapsed, the
// counter resets and a new window begins. Excess records are dropped, never
// delayed.
//
// The event name is the explicit "event" field when present, otherwise the
// record's raw message template.
type RateLimiter struct {
	max    int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]*rateWindow
	checks  int
}

// RateLimiterOption configures a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterClock overrides the time source, for tests.
func WithRateLimiterClock(now func() time.Time) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.now = now
	}
}

// NewRateLimiter validates its configuration: maxCount must be at least 1
// and period positive.
func NewRateLimiter(maxCount int, period time.Duration, opts ...RateLimiterOption) (*RateLimiter, error) {
	if maxCount < 1 {
		return nil, fmt.Errorf("rate limiter: max count must be >= 1, got %d", maxCount)
	}
	if period <= 0 {
		return nil, fmt.Errorf("rate limiter: period must be > 0, got %v", period)
	}

	rl := &RateLimiter{
		max:     maxCount,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*rateWindow),
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl, nil
}

func (rl *RateLimiter) Process(rec *logward.Record) *logward.Record {
	key := eventName(rec)
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	w := rl.windows[key]
	if w == nil || now.Sub(w.start) >= rl.period {
		w = &rateWindow{start: now}
		rl.windows[key] = w
	}

	rl.checks++
	if rl.checks >= sweepInterval {
		rl.checks = 0
		rl.sweep(now)
	}

	if w.count >= rl.max {
		return nil
	}
	w.count++
	return rec
}

// sweep discards expired windows so the map does not grow without bound
// under high event-name cardinality. Callers hold the mutex.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.period {
			delete(rl.windows, key)
		}
	}
}

// eventName groups records for suppression: the explicit "event" field when
// present, else the raw template, else the rendered message.
func eventName(rec *logward.Record) string {
	if v, ok := rec.Get("event"); ok {
		return fmt.Sprint(v)
	}
	if rec.Template != "" {
		return rec.Template
	}
	return rec.Message
}
