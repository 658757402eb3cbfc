package reminder

import (
	"context"
	"strconv"
	"time"

	"cuctask_bot/internal/domain"

	redis "github.com/redis/go-redis/v9"
)

// Claimer grants the right to send one task's reminder for one minute.
// It guards against two scanner replicas firing the same reminder.
type Claimer interface {
	Claim(ctx context.Context, taskID int64, minute time.Time) (bool, error)
}

// NoopClaimer grants every claim; used for single-instance deployments.
type NoopClaimer struct{}

func (NoopClaimer) Claim(context.Context, int64, time.Time) (bool, error) {
	return true, nil
}

// RedisClaimer takes a short-lived SET NX lock per task and minute.
type RedisClaimer struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClaimer(client *redis.Client) *RedisClaimer {
	return &RedisClaimer{client: client, ttl: 2 * Interval}
}

// Claim returns false when another process already holds the lock. Redis
// errors are returned to the caller, which decides whether to fail open.
func (c *RedisClaimer) Claim(ctx context.Context, taskID int64, minute time.Time) (bool, error) {
	key := "reminder:" + strconv.FormatInt(taskID, 10) + ":" + strconv.FormatInt(domain.MinuteOf(minute), 10)
	return c.client.SetNX(ctx, key, 1, c.ttl).Result()
}
