package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/ports"
)

var _ ports.TaskQueue = (*Memory)(nil)

// Memory is a bounded in-process queue. Push fails fast when it is full.
type Memory struct {
	ids  chan string
	wait time.Duration
}

// NewMemory creates a queue holding up to size IDs. Pop gives up after wait.
func NewMemory(size int, wait time.Duration) *Memory {
	return &Memory{
		ids:  make(chan string, size),
		wait: wait,
	}
}

// BeginProcessing enqueues taskID.
func (q *Memory) BeginProcessing(ctx context.Context, taskID string) error {
	return q.Push(ctx, taskID)
}

// Push enqueues taskID. Returns domain.ErrUnavailable when the queue is full.
func (q *Memory) Push(_ context.Context, taskID string) error {
	select {
	case q.ids <- taskID:
		return nil
	default:
		return fmt.Errorf("task queue is full: %w", domain.ErrUnavailable)
	}
}

// Pop returns the next ID, or ports.ErrQueueEmpty once the wait elapses.
func (q *Memory) Pop(ctx context.Context) (string, error) {
	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	select {
	case id := <-q.ids:
		return id, nil
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", ports.ErrQueueEmpty
	}
}

// Len returns the number of queued IDs.
func (q *Memory) Len() int {
	return len(q.ids)
}
