// Package redisclient builds the shared go-redis client used by the task
// queue and the notification transport, and reports its health.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clictest/clictest/internal/platform/config"
)

const pingTimeout = 5 * time.Second

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection to %s failed: %w", cfg.Addr, err)
	}
	return client, nil
}

// Checker reports Redis availability to the health registry.
type Checker struct {
	client *redis.Client
}

// NewChecker creates a Checker for client.
func NewChecker(client *redis.Client) *Checker {
	return &Checker{client: client}
}

// Name returns "redis".
func (c *Checker) Name() string {
	return "redis"
}

// HealthCheck pings Redis.
func (c *Checker) HealthCheck(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
