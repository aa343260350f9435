// Package ratelimit provides request throttling for the mutating key
// routes: a Redis-backed fixed-window counter for multi-instance
// deployments, and an in-process token-bucket fallback when no Redis
// is configured.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Limiter answers whether one more request from a client is allowed.
type Limiter interface {
	Allow(ctx context.Context, clientKey string) (bool, error)
	Close() error
}

// RedisLimiter is a fixed-window counter keyed per client per minute.
type RedisLimiter struct {
	client  *redis.Client
	limit   int
	window  time.Duration
	baseKey string
}

// NewRedisLimiter connects to Redis and returns the limiter. limit is
// the allowed requests per one-minute window per client.
func NewRedisLimiter(redisURL string, limit int, baseKey string) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisLimiter{
		client:  client,
		limit:   limit,
		window:  60 * time.Second,
		baseKey: baseKey,
	}, nil
}

// Allow increments the counter for the current window and reports
// whether the request fits the limit. Redis being unreachable fails
// open: throttling is a guard, not a security boundary.
func (r *RedisLimiter) Allow(ctx context.Context, clientKey string) (bool, error) {
	now := time.Now()
	windowKey := fmt.Sprintf("%s:%s:%d", r.baseKey, clientKey, now.Unix()/60)

	count, err := r.client.Incr(ctx, windowKey).Result()
	if err != nil {
		log.Error().Err(err).Msg("rate limiter: redis error, failing open")
		return true, nil
	}

	if count == 1 {
		r.client.Expire(ctx, windowKey, 2*time.Minute)
	}

	if count > int64(r.limit) {
		log.Warn().
			Str("client", clientKey).
			Int64("count", count).
			Int("limit", r.limit).
			Msg("rate limit exceeded")
		return false, nil
	}
	return true, nil
}

// Close closes the Redis client.
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
