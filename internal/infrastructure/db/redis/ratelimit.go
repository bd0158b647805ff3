package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// FixedWindowLimiter counts requests per key in fixed windows.
// Key format: ratelimit:<key>:<window_start_unix>
type FixedWindowLimiter struct {
	client redis.Cmdable
	now    func() time.Time
}

// NewFixedWindowLimiter creates a limiter backed by the given Redis client.
func NewFixedWindowLimiter(client redis.Cmdable) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, now: time.Now}
}

// Allow records one hit for key and reports whether it is within limit for
// the current window. The counter expires with the window.
func (l *FixedWindowLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	start := l.now().Truncate(window)
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, start.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}
	return incr.Val() <= int64(limit), nil
}
