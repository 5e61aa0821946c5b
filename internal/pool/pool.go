// Package pool provides a bounded fan-out worker pool with typed tasks and
// typed results. Pools are created and torn down per call; there are no
// long-lived workers.
package pool

import (
	"context"
	"sync"
)

// Result pairs one task's output with its error.
type Result[R any] struct {
	Value R
	Err   error
}

// Map runs fn over every item with at most limit workers in flight and
// streams a Result per item to the returned channel, which is closed once
// all items have completed. Results arrive in completion order, not input
// order. The caller's goroutine is the only consumer, so any reduction over
// the results (such as best-score tracking) is race-free by construction.
func Map[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) <-chan Result[R] {
	if limit > len(items) {
		limit = len(items)
	}
	if limit < 1 {
		limit = 1
	}

	out := make(chan Result[R], len(items))
	sem := make(chan struct{}, limit)

	go func() {
		var wg sync.WaitGroup
		for _, item := range items {
			wg.Add(1)
			sem <- struct{}{}
			go func(item T) {
				defer wg.Done()
				defer func() { <-sem }()
				v, err := fn(ctx, item)
				out <- Result[R]{Value: v, Err: err}
			}(item)
		}
		wg.Wait()
		close(out)
	}()

	return out
}

// Collect drains a Map channel, splitting successful values from errors.
func Collect[R any](ch <-chan Result[R]) (values []R, errs []error) {
	for res := range ch {
		if res.Err != nil {
			errs = append(errs, res.Err)
			continue
		}
		values = append(values, res.Value)
	}
	return values, errs
}
