// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/clictest/clictest/internal/app/fanout"
	"github.com/clictest/clictest/internal/app/steps"
	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

// Compile-time check that TaskService implements ports.TaskService.
var _ ports.TaskService = (*TaskService)(nil)

// DefaultPurgeWorkers bounds concurrent removals during PurgeExpired.
const DefaultPurgeWorkers = 4

// TaskService implements ports.TaskService. The repository, lister and
// factory it is given are usually the notifier decorators, so every change
// made here is published without the service knowing about notifications.
type TaskService struct {
	repo         ports.TaskRepo
	stubs        ports.TaskStubRepo
	factory      ports.TaskFactory
	executor     ports.Executor
	purgeWorkers int
	logger       *slog.Logger
}

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*TaskService)

// WithPurgeWorkers sets how many removals PurgeExpired runs at once.
// Values below 1 are ignored.
func WithPurgeWorkers(n int) TaskServiceOption {
	return func(s *TaskService) {
		if n >= 1 {
			s.purgeWorkers = n
		}
	}
}

// NewTaskService creates a TaskService. A nil logger discards output.
func NewTaskService(
	repo ports.TaskRepo,
	stubs ports.TaskStubRepo,
	factory ports.TaskFactory,
	executor ports.Executor,
	logger *slog.Logger,
	opts ...TaskServiceOption,
) *TaskService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &TaskService{
		repo:         repo,
		stubs:        stubs,
		factory:      factory,
		executor:     executor,
		purgeWorkers: DefaultPurgeWorkers,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTask builds a pending task, stores it and hands it to the executor.
// If the executor refuses the task, the stored task is removed again and the
// executor's error is returned.
func (s *TaskService) CreateTask(ctx context.Context, owner string, taskType task.Type, input map[string]any) (task.Entity, error) {
	s.logger.InfoContext(ctx, "creating task",
		slog.String("type", taskType.String()),
		slog.String("owner", owner),
	)

	if owner == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{"owner": domain.MsgRequired}}
	}

	t, err := s.factory.NewTask(taskType, owner, input)
	if err != nil {
		s.logger.WarnContext(ctx, "task rejected",
			slog.String("operation", "CreateTask"),
			slog.Any("error", err),
		)
		return nil, err
	}

	err = steps.Run(ctx, s.logger,
		steps.Step{
			Name: "store task " + t.ID(),
			Do:   func(ctx context.Context) error { return s.repo.Add(ctx, t) },
			Undo: func(ctx context.Context) error { return s.repo.Remove(ctx, t) },
		},
		steps.Step{
			Name: "enqueue task " + t.ID(),
			Do:   func(ctx context.Context) error { return t.Run(ctx, s.executor) },
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create task",
			slog.String("operation", "CreateTask"),
			slog.String("task_id", t.ID()),
			slog.Any("error", err),
		)
		return nil, err
	}

	return t, nil
}

// GetTask returns a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id string) (task.Entity, error) {
	s.logger.InfoContext(ctx, "fetching task", slog.String("task_id", id))

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch task",
			slog.String("operation", "GetTask"),
			slog.String("task_id", id),
			slog.Any("error", err),
		)
		return nil, err
	}
	return t, nil
}

// ListTasks returns stubs matching filter.
func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]task.Stub, error) {
	s.logger.InfoContext(ctx, "listing tasks",
		slog.String("owner", filter.Owner),
		slog.String("status", filter.Status.String()),
	)

	stubs, err := s.stubs.List(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks",
			slog.String("operation", "ListTasks"),
			slog.Any("error", err),
		)
		return nil, err
	}
	return stubs, nil
}

// DeleteTask removes a task by ID.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting task", slog.String("task_id", id))

	t, err := s.repo.Get(ctx, id)
	if err == nil {
		err = s.repo.Remove(ctx, t)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to delete task",
			slog.String("operation", "DeleteTask"),
			slog.String("task_id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// PurgeExpired removes every task whose expiry is earlier than now. A task
// that disappears between listing and removal is skipped silently.
func (s *TaskService) PurgeExpired(ctx context.Context, now time.Time) (*ports.PurgeResult, error) {
	s.logger.InfoContext(ctx, "purging expired tasks", slog.Time("before", now))

	expired, err := s.stubs.List(ctx, task.Filter{ExpiresBefore: &now})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list expired tasks",
			slog.String("operation", "PurgeExpired"),
			slog.Any("error", err),
		)
		return nil, err
	}

	results := fanout.Run(ctx, s.purgeWorkers, expired, func(ctx context.Context, st task.Stub) (bool, error) {
		t, err := s.repo.Get(ctx, st.ID)
		if err == nil {
			err = s.repo.Remove(ctx, t)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return err == nil, err
	})

	res := &ports.PurgeResult{Removed: []string{}}
	for i, r := range results {
		id := expired[i].ID
		switch {
		case r.Err != nil:
			s.logger.ErrorContext(ctx, "failed to purge task",
				slog.String("operation", "PurgeExpired"),
				slog.String("task_id", id),
				slog.Any("error", r.Err),
			)
			res.Errors = append(res.Errors, ports.PurgeError{TaskID: id, Err: r.Err})
		case r.Value:
			res.Removed = append(res.Removed, id)
		}
	}

	s.logger.InfoContext(ctx, "purge finished",
		slog.Int("removed", len(res.Removed)),
		slog.Int("failed", len(res.Errors)),
	)
	return res, nil
}
