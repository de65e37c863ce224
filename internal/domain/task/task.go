// Package task implements the Task entity: an asynchronous unit of work
// tracked through a four-state lifecycle (pending, processing, success,
// failure). Tasks are created by a Factory and mutated only through
// BeginProcessing, Succeed and Fail.
package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/clictest/clictest/internal/domain"
)

// Executor hands a task over to execution infrastructure. It is defined here
// rather than in ports so that Entity.Run can reference it without an import
// cycle; ports re-exports it.
type Executor interface {
	BeginProcessing(ctx context.Context, taskID string) error
}

// Entity is the behavior shared by *Task and every decorator that wraps one.
// Decorators forward each accessor to the wrapped entity.
type Entity interface {
	ID() string
	Type() Type
	Status() Status
	Owner() string
	ExpiresAt() *time.Time
	CreatedAt() time.Time
	UpdatedAt() time.Time
	Input() map[string]any
	Result() map[string]any
	Message() string

	// BeginProcessing moves a pending task to processing.
	BeginProcessing(ctx context.Context) error

	// Succeed records result and moves the task to success.
	Succeed(ctx context.Context, result map[string]any) error

	// Fail records message and moves the task to failure.
	Fail(ctx context.Context, message string) error

	// Run hands the task to executor. It does not change the task's state.
	Run(ctx context.Context, executor Executor) error
}

// Compile-time interface check.
var _ Entity = (*Task)(nil)

// Task is the base entity. The zero value is not usable; obtain instances
// from a Factory.
type Task struct {
	id        string
	taskType  Type
	status    Status
	owner     string
	expiresAt *time.Time
	createdAt time.Time
	updatedAt time.Time
	input     map[string]any
	result    map[string]any
	message   string

	timeToLive time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

func (t *Task) ID() string             { return t.id }
func (t *Task) Type() Type             { return t.taskType }
func (t *Task) Status() Status         { return t.status }
func (t *Task) Owner() string          { return t.owner }
func (t *Task) ExpiresAt() *time.Time  { return t.expiresAt }
func (t *Task) CreatedAt() time.Time   { return t.createdAt }
func (t *Task) UpdatedAt() time.Time   { return t.updatedAt }
func (t *Task) Input() map[string]any  { return t.input }
func (t *Task) Result() map[string]any { return t.result }
func (t *Task) Message() string        { return t.message }

// BeginProcessing moves the task from pending to processing. Returns a
// *domain.InvalidTaskStatusTransitionError from any other state.
func (t *Task) BeginProcessing(ctx context.Context) error {
	return t.setStatus(ctx, StatusProcessing)
}

// Succeed moves the task to success, stores result and sets the expiry.
// The transition is validated first: a rejected call leaves result, status
// and expiry untouched.
func (t *Task) Succeed(ctx context.Context, result map[string]any) error {
	if err := t.setStatus(ctx, StatusSuccess); err != nil {
		return err
	}
	t.result = result
	t.markExpiry()
	return nil
}

// Fail moves the task to failure, stores message and sets the expiry.
// A rejected call leaves message, status and expiry untouched.
func (t *Task) Fail(ctx context.Context, message string) error {
	if err := t.setStatus(ctx, StatusFailure); err != nil {
		return err
	}
	t.message = message
	t.markExpiry()
	return nil
}

// Run delegates to executor.BeginProcessing with the task's ID.
func (t *Task) Run(ctx context.Context, executor Executor) error {
	return executor.BeginProcessing(ctx, t.id)
}

func (t *Task) setStatus(ctx context.Context, next Status) error {
	cur := t.status
	if !cur.CanTransitionTo(next) {
		t.logger.ErrorContext(ctx, "task status failed to change",
			slog.String("task_id", t.id),
			slog.String("cur_status", cur.String()),
			slog.String("new_status", next.String()),
		)
		return &domain.InvalidTaskStatusTransitionError{From: cur.String(), To: next.String()}
	}

	t.logger.InfoContext(ctx, "task status changing",
		slog.String("task_id", t.id),
		slog.String("cur_status", cur.String()),
		slog.String("new_status", next.String()),
	)
	t.status = next
	t.updatedAt = t.now()
	return nil
}

// markExpiry derives the expiry from the completion time setStatus just
// recorded, so ExpiresAt is always UpdatedAt plus the time to live.
func (t *Task) markExpiry() {
	expires := t.updatedAt.Add(t.timeToLive)
	t.expiresAt = &expires
}
