// Package worker is the execution engine behind ports.Executor. A Pool pops
// task IDs from a ports.TaskQueue and drives each task through
// processing to success or failure with the Runner registered for its type.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/clictest/clictest/internal/domain/proxy"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/platform/logging"
	"github.com/clictest/clictest/internal/platform/telemetry"
	"github.com/clictest/clictest/internal/ports"
)

// popBackoff is how long a worker waits after a queue error other than
// ErrQueueEmpty before popping again.
const popBackoff = time.Second

// Runner performs the work of one task type and returns the task result.
type Runner interface {
	Run(ctx context.Context, t task.Entity) (map[string]any, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context, t task.Entity) (map[string]any, error)

// Run calls f.
func (f RunnerFunc) Run(ctx context.Context, t task.Entity) (map[string]any, error) {
	return f(ctx, t)
}

// Pool runs a fixed number of workers over a task queue.
type Pool struct {
	queue   ports.TaskQueue
	repo    ports.TaskRepo
	workers int
	metrics *telemetry.Metrics
	logger  *slog.Logger

	mu      sync.RWMutex
	runners map[task.Type]Runner

	wg sync.WaitGroup
}

// Option configures a Pool.
type Option func(*Pool)

// WithMetrics records finished tasks. A nil value disables recording.
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// NewPool creates a Pool of workers goroutines (at least one). Tasks are
// loaded and saved through repo, which is usually the notifying decorator.
func NewPool(queue ports.TaskQueue, repo ports.TaskRepo, workers int, logger *slog.Logger, opts ...Option) *Pool {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	p := &Pool{
		queue:   queue,
		repo:    repo,
		workers: workers,
		logger:  logger,
		runners: make(map[task.Type]Runner),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register sets the runner for taskType, replacing any previous one.
func (p *Pool) Register(taskType task.Type, r Runner) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runners[taskType] = r
}

// Start launches the workers. They stop popping when ctx is done; a task
// already being processed is finished first.
func (p *Pool) Start(ctx context.Context) {
	for i := range p.workers {
		p.wg.Go(func() { p.work(ctx, i) })
	}
	p.logger.InfoContext(ctx, "worker pool started", slog.Int("workers", p.workers))
}

// Wait blocks until every worker has returned.
func (p *Pool) Wait() {
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

func (p *Pool) work(ctx context.Context, workerID int) {
	logger := p.logger.With(slog.Int("worker", workerID))

	for {
		if ctx.Err() != nil {
			return
		}

		id, err := p.queue.Pop(ctx)
		switch {
		case err == nil:
			p.Process(context.WithoutCancel(ctx), id)
		case errors.Is(err, ports.ErrQueueEmpty):
		case ctx.Err() != nil:
			return
		default:
			logger.ErrorContext(ctx, "failed to pop task",
				slog.String("operation", "worker.Pop"),
				slog.Any("error", err),
			)
			select {
			case <-ctx.Done():
				return
			case <-time.After(popBackoff):
			}
		}
	}
}

// Process drives the task with the given ID from pending to a terminal
// status. A task that is no longer pending, or that another worker claimed
// first, is left alone.
func (p *Pool) Process(ctx context.Context, id string) {
	logger := p.logger.With(slog.String("task_id", id))
	ctx = logging.With(ctx, slog.String("task_id", id))

	t, err := p.repo.Get(ctx, id)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load task",
			slog.String("operation", "worker.Process"),
			slog.Any("error", err),
		)
		return
	}

	// Transitions run on the undecorated task and are announced only after
	// the compare-and-swap stores them, so a lost claim publishes nothing.
	base := t
	if u, ok := t.(proxy.Unwrapper[task.Entity]); ok {
		base = u.Base()
	}

	if err := base.BeginProcessing(ctx); err != nil {
		logger.WarnContext(ctx, "skipping task",
			slog.String("operation", "worker.Process"),
			slog.Any("error", err),
		)
		return
	}
	if err := p.repo.Save(ctx, t, task.StatusPending); err != nil {
		logger.WarnContext(ctx, "failed to claim task",
			slog.String("operation", "worker.Process"),
			slog.Any("error", err),
		)
		return
	}
	announce(ctx, t)

	result, runErr := p.run(ctx, t)
	if runErr != nil {
		err = base.Fail(ctx, runErr.Error())
	} else {
		err = base.Succeed(ctx, result)
	}
	if err == nil {
		err = p.repo.Save(ctx, t, task.StatusProcessing)
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to finish task",
			slog.String("operation", "worker.Process"),
			slog.Any("error", err),
		)
		return
	}
	announce(ctx, t)

	logger.InfoContext(ctx, "task finished", slog.String("status", t.Status().String()))
	p.record(ctx, t)
}

// announcer is implemented by decorators that publish task lifecycle events.
type announcer interface {
	Announce(ctx context.Context)
}

func announce(ctx context.Context, t task.Entity) {
	if a, ok := t.(announcer); ok {
		a.Announce(ctx)
	}
}

func (p *Pool) run(ctx context.Context, t task.Entity) (map[string]any, error) {
	p.mu.RLock()
	r, ok := p.runners[t.Type()]
	p.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no runner for task type %s", t.Type())
	}
	return r.Run(ctx, t)
}

func (p *Pool) record(ctx context.Context, t task.Entity) {
	if p.metrics == nil {
		return
	}
	p.metrics.TasksProcessed.Add(ctx, 1, metric.WithAttributes(
		telemetry.AttrTaskType.String(t.Type().String()),
		telemetry.AttrTaskStatus.String(t.Status().String()),
	))
}
