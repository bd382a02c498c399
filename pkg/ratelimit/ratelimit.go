// Package ratelimit provides the injectable per-caller rate limiter used by
// the webhook and code-generator endpoints. The in-memory implementation is
// correct for a single instance; the Redis implementation shares the
// counter across instances.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter decides whether a caller identified by key may proceed. When the
// request is rejected, retryAfter hints how long the caller should wait.
type Limiter interface {
	Allow(ctx context.Context, key string) (ok bool, retryAfter time.Duration)
}

// Config holds the shared limiter settings
type Config struct {
	Requests int           // requests allowed per window
	Window   time.Duration // window length
}

type memoryEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per caller key
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	rate    rate.Limit
	burst   int
	window  time.Duration
	ttl     time.Duration
}

// NewMemoryLimiter creates an in-process limiter. A background goroutine
// evicts entries unused for ten minutes.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*memoryEntry),
		rate:    rate.Limit(float64(cfg.Requests) / cfg.Window.Seconds()),
		burst:   cfg.Requests,
		window:  cfg.Window,
		ttl:     10 * time.Minute,
	}
	go l.cleanupLoop()
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration) {
	l.mu.Lock()
	entry, exists := l.entries[key]
	if !exists {
		entry = &memoryEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	if entry.limiter.Allow() {
		return true, 0
	}

	// The reservation delay is the precise wait; round up to whole seconds
	// for the Retry-After header
	res := entry.limiter.Reserve()
	delay := res.Delay()
	res.Cancel()
	if delay <= 0 {
		delay = time.Second
	}
	return false, delay.Round(time.Second)
}

func (l *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-l.ttl)
		l.mu.Lock()
		for key, entry := range l.entries {
			if entry.lastSeen.Before(cutoff) {
				delete(l.entries, key)
			}
		}
		l.mu.Unlock()
	}
}
