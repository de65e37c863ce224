package proxy

import (
	"context"

	"github.com/clictest/clictest/internal/ports"
)

// Compile-time interface checks.
var (
	_ ports.Repository[any, string] = (*Repo[any, string])(nil)
	_ ports.Lister[any, struct{}]   = (*Lister[any, struct{}])(nil)
)

// Repo decorates a ports.Repository. Entities it returns are wrapped by its
// Helper; entities passed in are unwrapped before they reach the base
// repository. Errors from the base are returned unchanged.
type Repo[T any, S comparable] struct {
	base   ports.Repository[T, S]
	helper Helper[T]
}

// NewRepo creates a Repo over base whose children are decorated with wrap.
func NewRepo[T any, S comparable](base ports.Repository[T, S], wrap func(T) T) *Repo[T, S] {
	return &Repo[T, S]{base: base, helper: NewHelper(wrap)}
}

// Get fetches from the base repository and wraps the result.
func (r *Repo[T, S]) Get(ctx context.Context, id string) (T, error) {
	item, err := r.base.Get(ctx, id)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.helper.Proxy(item), nil
}

// Add unwraps item and adds it to the base repository.
func (r *Repo[T, S]) Add(ctx context.Context, item T) error {
	return r.base.Add(ctx, r.helper.Unproxy(item))
}

// Save unwraps item and saves it to the base repository.
func (r *Repo[T, S]) Save(ctx context.Context, item T, fromState S) error {
	return r.base.Save(ctx, r.helper.Unproxy(item), fromState)
}

// Remove unwraps item and removes it from the base repository.
func (r *Repo[T, S]) Remove(ctx context.Context, item T) error {
	return r.base.Remove(ctx, r.helper.Unproxy(item))
}

// Lister decorates a list-only repository, wrapping every item it returns.
type Lister[T any, F any] struct {
	base   ports.Lister[T, F]
	helper Helper[T]
}

// NewLister creates a Lister over base whose items are decorated with wrap.
func NewLister[T any, F any](base ports.Lister[T, F], wrap func(T) T) *Lister[T, F] {
	return &Lister[T, F]{base: base, helper: NewHelper(wrap)}
}

// List fetches from the base and wraps each item.
func (l *Lister[T, F]) List(ctx context.Context, filter F) ([]T, error) {
	items, err := l.base.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = l.helper.Proxy(item)
	}
	return out, nil
}
