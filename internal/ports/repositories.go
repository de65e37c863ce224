package ports

import (
	"context"

	"github.com/clictest/clictest/internal/domain/task"
)

// Repository is the storage port for an entity T whose lifecycle state is S.
// Errors from the backing store (domain.ErrNotFound, domain.ErrConflict) are
// returned unchanged so callers can match them with errors.Is.
type Repository[T any, S comparable] interface {
	// Get returns the entity with the given ID.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (T, error)

	// Add persists a new entity.
	// Returns domain.ErrConflict if the ID is already taken.
	Add(ctx context.Context, item T) error

	// Save persists the current state of item. When fromState is not the zero
	// value, the write only happens if the stored state still equals
	// fromState; otherwise it returns domain.ErrConflict.
	Save(ctx context.Context, item T, fromState S) error

	// Remove deletes the entity.
	// Returns domain.ErrNotFound if it does not exist.
	Remove(ctx context.Context, item T) error
}

// Lister is the read-only listing port for projections of type T selected by
// a filter of type F.
type Lister[T any, F any] interface {
	List(ctx context.Context, filter F) ([]T, error)
}

// TaskRepo stores full Task entities.
type TaskRepo = Repository[task.Entity, task.Status]

// TaskStubRepo lists Task stubs.
type TaskStubRepo = Lister[task.Stub, task.Filter]

// TaskStore is implemented by storage adapters that serve both ports from
// one backend.
type TaskStore interface {
	TaskRepo
	TaskStubRepo
}
