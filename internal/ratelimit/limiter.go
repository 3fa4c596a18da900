// Package ratelimit implements fixed-window rate limiting for abuse-prone
// public write endpoints.
//
// Counters live in process memory, so the limits hold per instance: a
// horizontally scaled deployment under-enforces proportionally to the number
// of instances. That is a documented limitation of this service, not a bug.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often expired counter entries are removed.
const DefaultSweepInterval = 10 * time.Minute

// Rule bounds one request category: at most Limit requests per Window.
type Rule struct {
	Limit  int
	Window time.Duration
}

// Decision is the outcome of a single Allow call.
type Decision struct {
	Allowed bool
	// Count is the number of requests seen in the current window, including
	// this one when allowed.
	Count int
	// RetryAfter is the time until the window resets. Only meaningful when
	// the request was rejected.
	RetryAfter time.Duration
}

type entry struct {
	count     int
	resetTime time.Time
}

// Limiter is a fixed-window rate limiter keyed by "{category}:{client}". It
// is safe for concurrent use; the read-check-increment sequence runs under a
// single mutex so that simultaneous requests cannot both slip past the
// threshold.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry

	rules    map[string]Rule
	disabled bool
	sweep    time.Duration
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithClock substitutes the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithLogger attaches a logger for sweep diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(l *Limiter) { l.log = log }
}

// WithSweepInterval overrides the cleanup cadence.
func WithSweepInterval(d time.Duration) Option {
	return func(l *Limiter) {
		if d > 0 {
			l.sweep = d
		}
	}
}

// Disabled turns the limiter into a pass-through. Used by the
// RATE_LIMIT_DISABLED kill switch for test environments.
func Disabled(disabled bool) Option {
	return func(l *Limiter) { l.disabled = disabled }
}

// New creates a limiter with one Rule per request category.
func New(rules map[string]Rule, opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		rules:   rules,
		sweep:   DefaultSweepInterval,
		now:     time.Now,
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Disabled reports whether the kill switch is set.
func (l *Limiter) Disabled() bool { return l.disabled }

// HasRule reports whether a rule exists for the category.
func (l *Limiter) HasRule(category string) bool {
	_, ok := l.rules[category]
	return ok
}

// Allow records a request for the given category and client and decides
// whether it may proceed.
//
// The window is fixed, not sliding: the first request for a key (or the first
// after the previous window expired) opens a fresh window with count 1; every
// further request inside the window increments the counter, and requests past
// the limit are rejected until the window resets.
func (l *Limiter) Allow(category, clientID string) Decision {
	if l.disabled {
		return Decision{Allowed: true}
	}

	rule, ok := l.rules[category]
	if !ok {
		return Decision{Allowed: true}
	}

	key := category + ":" + clientID

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, exists := l.entries[key]
	if !exists || now.After(e.resetTime) {
		l.entries[key] = &entry{count: 1, resetTime: now.Add(rule.Window)}
		return Decision{Allowed: true, Count: 1}
	}

	if e.count >= rule.Limit {
		retryAfter := time.Duration(math.Ceil(e.resetTime.Sub(now).Seconds())) * time.Second
		return Decision{Allowed: false, Count: e.count, RetryAfter: retryAfter}
	}

	e.count++
	return Decision{Allowed: true, Count: e.count}
}

// Start runs the periodic sweep until ctx is cancelled. The sweep only bounds
// memory; expired entries are also reset lazily by Allow, so correctness does
// not depend on its cadence.
func (l *Limiter) Start(ctx context.Context) {
	ticker := time.NewTicker(l.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.removeExpired(); removed > 0 {
				l.log.Debug("rate_limit_entries_swept", zap.Int("removed", removed))
			}
		}
	}
}

func (l *Limiter) removeExpired() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for key, e := range l.entries {
		if now.After(e.resetTime) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of live counter entries. Exposed for tests and
// debug instrumentation.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
