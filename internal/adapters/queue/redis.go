package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clictest/clictest/internal/ports"
)

// DefaultKey is the Redis list task IDs are pushed to.
const DefaultKey = "clictest:tasks:pending"

var _ ports.TaskQueue = (*Redis)(nil)

// Redis is a task queue backed by a Redis list: RPUSH to enqueue, BLPOP to
// dequeue.
type Redis struct {
	client *redis.Client
	key    string
	wait   time.Duration
}

// NewRedis creates a queue on key. Pop blocks for at most wait.
func NewRedis(client *redis.Client, key string, wait time.Duration) *Redis {
	if key == "" {
		key = DefaultKey
	}
	return &Redis{client: client, key: key, wait: wait}
}

// BeginProcessing enqueues taskID.
func (q *Redis) BeginProcessing(ctx context.Context, taskID string) error {
	return q.Push(ctx, taskID)
}

// Push appends taskID to the list.
func (q *Redis) Push(ctx context.Context, taskID string) error {
	if err := q.client.RPush(ctx, q.key, taskID).Err(); err != nil {
		return fmt.Errorf("push task %s: %w", taskID, err)
	}
	return nil
}

// Pop blocks until an ID is available or the wait elapses, in which case it
// returns ports.ErrQueueEmpty.
func (q *Redis) Pop(ctx context.Context) (string, error) {
	result, err := q.client.BLPop(ctx, q.wait, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ports.ErrQueueEmpty
		}
		return "", fmt.Errorf("pop task: %w", err)
	}
	return result[1], nil
}

// Len returns the number of queued IDs.
func (q *Redis) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue length: %w", err)
	}
	return n, nil
}
