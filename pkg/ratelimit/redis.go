package ratelimit

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements a fixed-window counter shared across instances.
// Each key gets an INCR'd counter that expires at the end of the window.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisLimiter creates a limiter backed by the given Redis connection
func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  cfg.Requests,
		window: cfg.Window,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	redisKey := "ratelimit:" + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		// Fail open on Redis outage: the unique constraints downstream are
		// the correctness backstop, rate limiting is protection only
		log.Printf("Rate limiter redis error: %v", err)
		return true, 0
	}

	if count == 1 {
		l.client.Expire(ctx, redisKey, l.window)
	}

	if count > int64(l.limit) {
		ttl, err := l.client.TTL(ctx, redisKey).Result()
		if err != nil || ttl < 0 {
			ttl = l.window
		}
		return false, ttl.Round(time.Second)
	}
	return true, 0
}
