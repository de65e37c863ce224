package proxy

import (
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

var _ ports.TaskFactory = (*Factory)(nil)

// TaskRepo is a Repo over task entities.
type TaskRepo = Repo[task.Entity, task.Status]

// TaskStubRepo is a Lister over task stubs.
type TaskStubRepo = Lister[task.Stub, task.Filter]

// NewTaskRepo decorates a task repository; tasks it returns are wrapped with
// wrap.
func NewTaskRepo(base ports.TaskRepo, wrap func(task.Entity) task.Entity) *TaskRepo {
	return NewRepo(base, wrap)
}

// NewTaskStubRepo decorates a task stub repository; stubs it returns are
// wrapped with wrap.
func NewTaskStubRepo(base ports.TaskStubRepo, wrap func(task.Stub) task.Stub) *TaskStubRepo {
	return NewLister(base, wrap)
}

// Factory decorates a ports.TaskFactory, wrapping every task it builds.
type Factory struct {
	base   ports.TaskFactory
	helper Helper[task.Entity]
}

// NewTaskFactory creates a Factory over base whose tasks are decorated with
// wrap.
func NewTaskFactory(base ports.TaskFactory, wrap func(task.Entity) task.Entity) *Factory {
	return &Factory{base: base, helper: NewHelper(wrap)}
}

// NewTask builds a task with the base factory and wraps it. Errors from the
// base are returned unchanged.
func (f *Factory) NewTask(taskType task.Type, owner string, input map[string]any, opts ...task.Option) (task.Entity, error) {
	t, err := f.base.NewTask(taskType, owner, input, opts...)
	if err != nil {
		return nil, err
	}
	return f.helper.Proxy(t), nil
}
