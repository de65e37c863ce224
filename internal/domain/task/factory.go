package task

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clictest/clictest/internal/domain"
)

// Params carries every field of a Task. Stores fill it when rehydrating.
type Params struct {
	ID        string
	Type      Type
	Status    Status
	Owner     string
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	Input     map[string]any
	Result    map[string]any
	Message   string
}

// Option pre-seeds optional fields on a task built by NewTask.
type Option func(*Params)

// WithResult pre-seeds the task result.
func WithResult(result map[string]any) Option {
	return func(p *Params) {
		p.Result = result
	}
}

// WithMessage pre-seeds the task message.
func WithMessage(message string) Option {
	return func(p *Params) {
		p.Message = message
	}
}

// Factory constructs Task instances. It owns the time-to-live applied on
// terminal transitions, the clock, the ID generator and the logger every
// task it builds writes transitions to.
type Factory struct {
	timeToLive time.Duration
	now        func() time.Time
	newID      func() string
	logger     *slog.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithClock overrides time.Now. Used by tests for deterministic expiry.
func WithClock(now func() time.Time) FactoryOption {
	return func(f *Factory) {
		f.now = now
	}
}

// WithIDGenerator overrides the UUID v4 generator.
func WithIDGenerator(newID func() string) FactoryOption {
	return func(f *Factory) {
		f.newID = newID
	}
}

// WithLogger sets the logger that tasks record transitions to.
// A nil logger is ignored.
func WithLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory creates a Factory whose tasks expire timeToLive after they
// reach a terminal state.
func NewFactory(timeToLive time.Duration, opts ...FactoryOption) *Factory {
	f := &Factory{
		timeToLive: timeToLive,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      uuid.NewString,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TimeToLive returns the expiry duration applied on terminal transitions.
func (f *Factory) TimeToLive() time.Duration {
	return f.timeToLive
}

// NewTask builds a pending task with a fresh ID. It does not check storage
// for uniqueness. Returns a *domain.InvalidTaskTypeError for unsupported
// types.
func (f *Factory) NewTask(taskType Type, owner string, input map[string]any, opts ...Option) (Entity, error) {
	created := f.now()
	p := Params{
		ID:        f.newID(),
		Type:      taskType,
		Status:    StatusPending,
		Owner:     owner,
		CreatedAt: created,
		UpdatedAt: created,
		Input:     input,
	}
	for _, opt := range opts {
		opt(&p)
	}

	t, err := f.Restore(p)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Restore builds a Task from stored fields, validating type and status.
// Returns *domain.InvalidTaskTypeError or *domain.InvalidTaskStatusError.
func (f *Factory) Restore(p Params) (*Task, error) {
	if !p.Type.IsValid() {
		return nil, &domain.InvalidTaskTypeError{Type: p.Type.String()}
	}
	if !p.Status.IsValid() {
		return nil, &domain.InvalidTaskStatusError{Status: p.Status.String()}
	}

	return &Task{
		id:         p.ID,
		taskType:   p.Type,
		status:     p.Status,
		owner:      p.Owner,
		expiresAt:  p.ExpiresAt,
		createdAt:  p.CreatedAt,
		updatedAt:  p.UpdatedAt,
		input:      p.Input,
		result:     p.Result,
		message:    p.Message,
		timeToLive: f.timeToLive,
		now:        f.now,
		logger:     f.logger,
	}, nil
}

// ParamsOf captures every field of e. Stores use it to snapshot an entity.
func ParamsOf(e Entity) Params {
	return Params{
		ID:        e.ID(),
		Type:      e.Type(),
		Status:    e.Status(),
		Owner:     e.Owner(),
		ExpiresAt: e.ExpiresAt(),
		CreatedAt: e.CreatedAt(),
		UpdatedAt: e.UpdatedAt(),
		Input:     e.Input(),
		Result:    e.Result(),
		Message:   e.Message(),
	}
}
