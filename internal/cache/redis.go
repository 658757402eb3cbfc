package cache

import (
	"context"
	"time"

	"cuctask_bot/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// Connect returns a Redis client, or nil when addr is empty or the server
// does not answer. Callers treat a nil client as "Redis disabled".
func Connect(addr, password string, db int) *redis.Client {
	if addr == "" {
		logger.Info("redis not configured, running without shared locks and rate limits")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping failed, continuing without redis", "addr", addr, "error", err)
		_ = client.Close()
		return nil
	}

	logger.Info("redis connected", "addr", addr)
	return client
}

// Health adapts a client to the readiness check interface.
type Health struct {
	Client *redis.Client
}

func (h Health) Ping(ctx context.Context) error {
	return h.Client.Ping(ctx).Err()
}
