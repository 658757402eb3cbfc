package ratelimit

import (
	"context"
	"strconv"
	"time"

	"cuctask_bot/internal/metrics"

	redis "github.com/redis/go-redis/v9"
)

// Limiter is a fixed-window counter per key using Redis INCR/EXPIRE.
// With no Redis client every call is allowed.
type Limiter struct {
	client *redis.Client
	max    int
	window time.Duration
}

func NewLimiter(client *redis.Client, max int, window time.Duration) *Limiter {
	return &Limiter{client: client, max: max, window: window}
}

// Allow counts one event for ident and reports whether it is within the limit.
// key format: rl:cmd:<window_seconds>:<ident>
func (l *Limiter) Allow(ctx context.Context, ident string) bool {
	if l == nil || l.client == nil {
		return true
	}

	key := "rl:cmd:" + strconv.FormatInt(int64(l.window.Seconds()), 10) + ":" + ident

	val, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		// fail-open
		return true
	}
	if val == 1 {
		l.client.Expire(ctx, key, l.window)
	}

	if val > int64(l.max) {
		metrics.RLBlocked.WithLabelValues("command").Inc()
		return false
	}
	return true
}
