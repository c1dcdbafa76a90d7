// Package ratelimit provides a fixed-window request limiter backed by
// redis, used to throttle OTP issuance per client IP.
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/waynex/travels-api/pkg/logger"
)

type Limiter struct {
	client *redis.Client
}

func New(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

// Allow reports whether another request under key fits in the window.
// Redis failures fail open: availability of signup beats strict limiting.
func (l *Limiter) Allow(ctx context.Context, key string, limit int, window time.Duration) bool {
	fullKey := "rl:" + key

	pipe := l.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.WarnContext(ctx, "rate limit check failed, allowing request", "error", err, "key", key)
		return true
	}

	return incr.Val() <= int64(limit)
}
