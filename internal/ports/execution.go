package ports

import (
	"context"
	"errors"

	"github.com/clictest/clictest/internal/domain/task"
)

// Executor hands a task to the execution engine. It is declared in the task
// package so the entity can reference it; adapters use this name.
type Executor = task.Executor

// ErrQueueEmpty is returned by TaskQueue.Pop when no task ID arrived before
// the wait elapsed.
var ErrQueueEmpty = errors.New("queue empty")

// TaskQueue buffers task IDs between the API and the worker pool. Every
// TaskQueue is an Executor: BeginProcessing pushes the ID.
type TaskQueue interface {
	Executor

	// Push appends a task ID to the queue.
	Push(ctx context.Context, taskID string) error

	// Pop blocks until a task ID is available, ctx is done, or the
	// implementation's wait elapses (ErrQueueEmpty).
	Pop(ctx context.Context) (string, error)
}
