package ports

import (
	"context"
	"time"

	"github.com/clictest/clictest/internal/domain/task"
)

// TaskFactory builds new task entities. Implemented by *task.Factory and by
// the factory decorators in domain/proxy.
type TaskFactory interface {
	NewTask(taskType task.Type, owner string, input map[string]any, opts ...task.Option) (task.Entity, error)
}

// TaskService defines the service port for task operations.
// Implemented by the application layer; called by inbound adapters (handlers
// and the admin CLI).
type TaskService interface {
	// CreateTask builds a pending task, stores it and hands it to the
	// executor. Returns a *domain.InvalidTaskTypeError for unsupported types
	// and domain.ErrValidation for a missing owner.
	CreateTask(ctx context.Context, owner string, taskType task.Type, input map[string]any) (task.Entity, error)

	// GetTask returns a single task by ID.
	// Returns domain.ErrNotFound if the task does not exist.
	GetTask(ctx context.Context, id string) (task.Entity, error)

	// ListTasks returns stubs matching the filter.
	ListTasks(ctx context.Context, filter task.Filter) ([]task.Stub, error)

	// DeleteTask removes a task by ID.
	// Returns domain.ErrNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id string) error

	// PurgeExpired removes every task whose expiry is earlier than now.
	// Individual removal failures are collected in the result rather than
	// aborting the purge.
	PurgeExpired(ctx context.Context, now time.Time) (*PurgeResult, error)
}

// PurgeError records a single failed removal within a purge.
type PurgeError struct {
	TaskID string
	Err    error
}

// PurgeResult holds the outcome of a purge. Removed lists the IDs that were
// deleted; Errors contains per-task failures.
type PurgeResult struct {
	Removed []string
	Errors  []PurgeError
}
