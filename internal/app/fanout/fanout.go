// Package fanout runs one function over many items with a concurrency limit.
// TaskService.PurgeExpired uses it to remove expired tasks in parallel
// without opening more store connections than the pool allows.
package fanout

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Result is the outcome for one item: Value when Err is nil.
type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for each item with at most limit calls in flight and returns
// the results in input order. A limit below one is treated as one.
//
// Once ctx is done, items that have not started get ctx.Err() as their
// result and fn is never called for them. Calls already running are waited
// for; fn should watch ctx itself. An empty input yields an empty, non-nil
// slice.
func Run[T, R any](ctx context.Context, limit int, items []T, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))
	sem := semaphore.NewWeighted(int64(max(limit, 1)))

	var wg sync.WaitGroup
	for i, item := range items {
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(items); j++ {
				results[j].Err = err
			}
			break
		}
		wg.Go(func() {
			defer sem.Release(1)
			v, err := fn(ctx, item)
			results[i] = Result[R]{Value: v, Err: err}
		})
	}
	wg.Wait()
	return results
}
