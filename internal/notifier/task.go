package notifier

import (
	"context"
	"time"

	"github.com/clictest/clictest/internal/domain/proxy"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

// Task event types.
const (
	EventTaskCreate     = "task.create"
	EventTaskDelete     = "task.delete"
	EventTaskProcessing = "task.processing"
	EventTaskSuccess    = "task.success"
	EventTaskFailure    = "task.failure"
	EventTaskRun        = "task.run"
)

// TaskPayload returns the public fields of t. Input, result and message are
// never included.
func TaskPayload(t task.Entity) map[string]any {
	var expiresAt any
	if exp := t.ExpiresAt(); exp != nil {
		expiresAt = *exp
	}
	return map[string]any{
		"id":         t.ID(),
		"type":       t.Type().String(),
		"status":     t.Status().String(),
		"owner":      t.Owner(),
		"expires_at": expiresAt,
		"created_at": t.CreatedAt(),
		"updated_at": t.UpdatedAt(),
	}
}

// Compile-time interface checks.
var (
	_ task.Entity                  = (*TaskProxy)(nil)
	_ proxy.Unwrapper[task.Entity] = (*TaskProxy)(nil)
	_ ports.TaskRepo               = (*TaskRepoProxy)(nil)
	_ ports.TaskStubRepo           = (*TaskStubRepoProxy)(nil)
	_ ports.TaskFactory            = (*TaskFactoryProxy)(nil)
)

// TaskProxy decorates a task.Entity, emitting an event after each successful
// lifecycle operation. Rejected operations emit nothing.
type TaskProxy struct {
	base     task.Entity
	notifier *Notifier
}

// NewTaskProxy wraps base.
func NewTaskProxy(base task.Entity, n *Notifier) *TaskProxy {
	return &TaskProxy{base: base, notifier: n}
}

// Wrapper returns the child-wrapping function used by the repository and
// factory proxies.
func (n *Notifier) Wrapper() func(task.Entity) task.Entity {
	return func(e task.Entity) task.Entity {
		return NewTaskProxy(e, n)
	}
}

// Base returns the wrapped entity.
func (p *TaskProxy) Base() task.Entity { return p.base }

func (p *TaskProxy) ID() string             { return p.base.ID() }
func (p *TaskProxy) Type() task.Type        { return p.base.Type() }
func (p *TaskProxy) Status() task.Status    { return p.base.Status() }
func (p *TaskProxy) Owner() string          { return p.base.Owner() }
func (p *TaskProxy) ExpiresAt() *time.Time  { return p.base.ExpiresAt() }
func (p *TaskProxy) CreatedAt() time.Time   { return p.base.CreatedAt() }
func (p *TaskProxy) UpdatedAt() time.Time   { return p.base.UpdatedAt() }
func (p *TaskProxy) Input() map[string]any  { return p.base.Input() }
func (p *TaskProxy) Result() map[string]any { return p.base.Result() }
func (p *TaskProxy) Message() string        { return p.base.Message() }

// BeginProcessing forwards to the base and emits task.processing.
func (p *TaskProxy) BeginProcessing(ctx context.Context) error {
	if err := p.base.BeginProcessing(ctx); err != nil {
		return err
	}
	p.notify(ctx, EventTaskProcessing)
	return nil
}

// Succeed forwards to the base and emits task.success.
func (p *TaskProxy) Succeed(ctx context.Context, result map[string]any) error {
	if err := p.base.Succeed(ctx, result); err != nil {
		return err
	}
	p.notify(ctx, EventTaskSuccess)
	return nil
}

// Fail forwards to the base and emits task.failure.
func (p *TaskProxy) Fail(ctx context.Context, message string) error {
	if err := p.base.Fail(ctx, message); err != nil {
		return err
	}
	p.notify(ctx, EventTaskFailure)
	return nil
}

// Run forwards to the base and emits task.run.
func (p *TaskProxy) Run(ctx context.Context, executor task.Executor) error {
	if err := p.base.Run(ctx, executor); err != nil {
		return err
	}
	p.notify(ctx, EventTaskRun)
	return nil
}

// Announce emits the lifecycle event for the base task's current status
// without changing it. Callers that must persist a transition before it is
// published run the transition on Base and call Announce once the store
// accepts it. Pending has no event.
func (p *TaskProxy) Announce(ctx context.Context) {
	switch p.base.Status() {
	case task.StatusProcessing:
		p.notify(ctx, EventTaskProcessing)
	case task.StatusSuccess:
		p.notify(ctx, EventTaskSuccess)
	case task.StatusFailure:
		p.notify(ctx, EventTaskFailure)
	}
}

func (p *TaskProxy) notify(ctx context.Context, eventType string) {
	p.notifier.send(ctx, eventType, TaskPayload(p.base), nil)
}

// TaskRepoProxy decorates a task repository. Tasks it returns are wrapped in
// a TaskProxy; Add emits task.create and Remove emits task.delete.
type TaskRepoProxy struct {
	repo     *proxy.TaskRepo
	notifier *Notifier
}

// NewTaskRepoProxy wraps base.
func NewTaskRepoProxy(base ports.TaskRepo, n *Notifier) *TaskRepoProxy {
	return &TaskRepoProxy{repo: proxy.NewTaskRepo(base, n.Wrapper()), notifier: n}
}

// Get returns the task wrapped in a TaskProxy.
func (r *TaskRepoProxy) Get(ctx context.Context, id string) (task.Entity, error) {
	return r.repo.Get(ctx, id)
}

// Add stores t and emits task.create.
func (r *TaskRepoProxy) Add(ctx context.Context, t task.Entity) error {
	if err := r.repo.Add(ctx, t); err != nil {
		return err
	}
	r.notifier.send(ctx, EventTaskCreate, TaskPayload(t), nil)
	return nil
}

// Save stores t. No event is emitted; the entity proxy already reported the
// state change.
func (r *TaskRepoProxy) Save(ctx context.Context, t task.Entity, fromState task.Status) error {
	return r.repo.Save(ctx, t, fromState)
}

// Remove deletes t and emits task.delete with deleted and deleted_at.
func (r *TaskRepoProxy) Remove(ctx context.Context, t task.Entity) error {
	if err := r.repo.Remove(ctx, t); err != nil {
		return err
	}
	r.notifier.send(ctx, EventTaskDelete, TaskPayload(t), map[string]any{
		"deleted":    true,
		"deleted_at": r.notifier.now(),
	})
	return nil
}

// TaskStubRepoProxy decorates a stub repository. Stubs are read-only, so
// they are returned undecorated.
type TaskStubRepoProxy struct {
	lister *proxy.TaskStubRepo
}

// NewTaskStubRepoProxy wraps base.
func NewTaskStubRepoProxy(base ports.TaskStubRepo, _ *Notifier) *TaskStubRepoProxy {
	return &TaskStubRepoProxy{lister: proxy.NewTaskStubRepo(base, nil)}
}

// List forwards to the base repository.
func (r *TaskStubRepoProxy) List(ctx context.Context, filter task.Filter) ([]task.Stub, error) {
	return r.lister.List(ctx, filter)
}

// TaskFactoryProxy decorates a task factory so every new task is wrapped in a
// TaskProxy.
type TaskFactoryProxy struct {
	factory *proxy.Factory
}

// NewTaskFactoryProxy wraps base.
func NewTaskFactoryProxy(base ports.TaskFactory, n *Notifier) *TaskFactoryProxy {
	return &TaskFactoryProxy{factory: proxy.NewTaskFactory(base, n.Wrapper())}
}

// NewTask builds a task with the base factory and wraps it.
func (f *TaskFactoryProxy) NewTask(taskType task.Type, owner string, input map[string]any, opts ...task.Option) (task.Entity, error) {
	return f.factory.NewTask(taskType, owner, input, opts...)
}
