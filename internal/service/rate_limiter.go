package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chesterOps/salem-server/pkg/database"
)

// RateLimiter is a Redis-backed sliding window log limiter.
type RateLimiter struct {
	redis *database.Redis
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis) *RateLimiter {
	return &RateLimiter{redis: redis}
}

// Allow records a request under key and reports whether it fits within
// limit requests per window. When the limit is exceeded, retryAfter is
// the time until the oldest request slides out of the window.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, retryAfter time.Duration, err error) {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(limit) {
		oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			oldestTime := time.Unix(int64(oldest[0].Score), 0)
			retryAfter = window - time.Since(oldestTime)
			if retryAfter < 0 {
				retryAfter = 0
			}
		}
		return false, retryAfter, nil
	}

	member := fmt.Sprintf("%d", now.UnixNano())
	if err := r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err(); err != nil {
		return false, 0, fmt.Errorf("failed to add entry: %w", err)
	}

	// Buffer past the window so a quiet key still expires cleanly.
	r.redis.Client.Expire(ctx, redisKey, window+time.Minute)

	return true, 0, nil
}

// Remaining returns how many requests are left in the current window.
func (r *RateLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	now := time.Now()
	windowStart := now.Add(-window)
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	if err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err(); err != nil {
		return 0, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}

	return remaining, nil
}
