// Package memory implements the task storage ports with a mutex-guarded map.
// It backs local development and tests; state is lost on restart.
package memory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/clictest/clictest/internal/domain"
	"github.com/clictest/clictest/internal/domain/task"
	"github.com/clictest/clictest/internal/ports"
)

var _ ports.TaskStore = (*TaskStore)(nil)

// TaskStore keeps snapshots of task fields keyed by ID. Every Get rebuilds a
// fresh entity, so callers never share mutable state through the store.
type TaskStore struct {
	mu      sync.RWMutex
	tasks   map[string]task.Params
	factory *task.Factory
}

// New creates an empty TaskStore. Entities are rebuilt with factory so they
// carry its time-to-live, clock and logger.
func New(factory *task.Factory) *TaskStore {
	return &TaskStore{
		tasks:   make(map[string]task.Params),
		factory: factory,
	}
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(_ context.Context, id string) (task.Entity, error) {
	s.mu.RLock()
	p, ok := s.tasks[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, domain.ErrNotFound)
	}
	t, err := s.factory.Restore(clone(p))
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Add stores a new task. Returns domain.ErrConflict if the ID exists.
func (s *TaskStore) Add(_ context.Context, t task.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID()]; ok {
		return fmt.Errorf("task %s already exists: %w", t.ID(), domain.ErrConflict)
	}
	s.tasks[t.ID()] = clone(task.ParamsOf(t))
	return nil
}

// Save overwrites the stored task. A non-empty fromState must match the
// stored status or domain.ErrConflict is returned.
func (s *TaskStore) Save(_ context.Context, t task.Entity, fromState task.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.tasks[t.ID()]
	if !ok {
		return fmt.Errorf("task %s: %w", t.ID(), domain.ErrNotFound)
	}
	if fromState != "" && cur.Status != fromState {
		return fmt.Errorf("task %s is %s, not %s: %w", t.ID(), cur.Status, fromState, domain.ErrConflict)
	}
	s.tasks[t.ID()] = clone(task.ParamsOf(t))
	return nil
}

// Remove deletes the task.
func (s *TaskStore) Remove(_ context.Context, t task.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID()]; !ok {
		return fmt.Errorf("task %s: %w", t.ID(), domain.ErrNotFound)
	}
	delete(s.tasks, t.ID())
	return nil
}

// List returns stubs matching filter, oldest first.
func (s *TaskStore) List(_ context.Context, filter task.Filter) ([]task.Stub, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stubs := make([]task.Stub, 0, len(s.tasks))
	for _, p := range s.tasks {
		stub := stubOf(p)
		if filter.Matches(stub) {
			stubs = append(stubs, stub)
		}
	}

	slices.SortFunc(stubs, func(a, b task.Stub) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})

	if filter.Limit > 0 && len(stubs) > filter.Limit {
		stubs = stubs[:filter.Limit]
	}
	return stubs, nil
}

// clone copies the payload maps and the expiry of p so entities handed in or
// out never alias stored state.
func clone(p task.Params) task.Params {
	p.Input = maps.Clone(p.Input)
	p.Result = maps.Clone(p.Result)
	if p.ExpiresAt != nil {
		exp := *p.ExpiresAt
		p.ExpiresAt = &exp
	}
	return p
}

func stubOf(p task.Params) task.Stub {
	return task.Stub{
		ID:        p.ID,
		Type:      p.Type,
		Status:    p.Status,
		Owner:     p.Owner,
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
