package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultCleanupInterval = 5 * time.Minute
	defaultEntryTTL        = 10 * time.Minute
)

// Config sizes the per-client token buckets.
type Config struct {
	RequestsPerSecond float64
	Burst             int
	CleanupInterval   time.Duration
	EntryTTL          time.Duration
}

// ClientLimiter hands out one token bucket per client key, usually the
// client IP. Buckets unused for EntryTTL are evicted by Cleanup.
type ClientLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry

	limit    rate.Limit
	burst    int
	cleanup  time.Duration
	entryTTL time.Duration
	now      func() time.Time
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter returns nil when the rate is not positive, which
// disables limiting.
func NewClientLimiter(cfg Config) *ClientLimiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = defaultCleanupInterval
	}
	ttl := cfg.EntryTTL
	if ttl <= 0 {
		ttl = defaultEntryTTL
	}
	return &ClientLimiter{
		limiters: make(map[string]*entry),
		limit:    rate.Limit(cfg.RequestsPerSecond),
		burst:    burst,
		cleanup:  cleanup,
		entryTTL: ttl,
		now:      time.Now,
	}
}

func (l *ClientLimiter) Enabled() bool {
	return l != nil
}

// Allow consumes one token for key.
func (l *ClientLimiter) Allow(key string) bool {
	if !l.Enabled() {
		return true
	}

	l.mu.Lock()
	now := l.now()
	e, ok := l.limiters[key]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

func (l *ClientLimiter) Burst() int {
	if !l.Enabled() {
		return 0
	}
	return l.burst
}

// Cleanup drops buckets that have not been used within the entry TTL.
func (l *ClientLimiter) Cleanup() int {
	if !l.Enabled() {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.entryTTL)
	removed := 0
	for key, e := range l.limiters {
		if e.lastSeen.Before(cutoff) {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of tracked clients.
func (l *ClientLimiter) Len() int {
	if !l.Enabled() {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Run evicts stale buckets every cleanup interval until stop is closed.
func (l *ClientLimiter) Run(stop <-chan struct{}) {
	if !l.Enabled() {
		return
	}
	ticker := time.NewTicker(l.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}
