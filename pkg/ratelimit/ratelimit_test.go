package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryLimiterEnforcesBurst(t *testing.T) {
	limiter := NewMemoryLimiter(Config{Requests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, _ := limiter.Allow(ctx, "203.0.113.50")
		assert.True(t, ok, "request %d should be allowed", i+1)
	}

	ok, retryAfter := limiter.Allow(ctx, "203.0.113.50")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	ok, _ := limiter.Allow(ctx, "203.0.113.50")
	assert.True(t, ok)
	ok, _ = limiter.Allow(ctx, "203.0.113.50")
	assert.False(t, ok)

	// A different caller still has a fresh budget
	ok, _ = limiter.Allow(ctx, "198.51.100.7")
	assert.True(t, ok)
}

func TestMemoryLimiterRetryAfterIsWholeSeconds(t *testing.T) {
	limiter := NewMemoryLimiter(Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	limiter.Allow(ctx, "key")
	_, retryAfter := limiter.Allow(ctx, "key")

	assert.Equal(t, retryAfter, retryAfter.Round(time.Second))
}
