// Package batch runs a worker function over many items with bounded
// concurrency and per-worker pacing, collecting one result per item.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Options controls a batch run. Workers below one is treated as one. Delay is
// slept by each worker after finishing an item, so with N workers the
// steady-state request rate is roughly N items per delay interval; it is
// pacing, not a hard rate limit.
type Options struct {
	Workers int
	Delay   time.Duration
}

// Result pairs an item's outcome with the failure that produced it, if any.
// A failed item carries only Err; siblings are unaffected.
type Result[V any] struct {
	Value V
	Err   error
}

// Run dispatches fn over all items through a fixed-size worker pool and
// returns exactly one result entry per item, keyed by the item itself.
// Entries are stored in completion order, so map insertion order is
// non-deterministic; only the key to value association is guaranteed. A
// panicking or failing item is captured into its own result entry and never
// aborts the batch.
func Run[K comparable, V any](ctx context.Context, items []K, fn func(context.Context, K) (V, error), opts Options) map[K]Result[V] {
	results := make(map[K]Result[V], len(items))
	if len(items) == 0 {
		return results
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(items) {
		workers = len(items)
	}

	jobs := make(chan K)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				value, err := runOne(ctx, item, fn)

				mu.Lock()
				results[item] = Result[V]{Value: value, Err: err}
				mu.Unlock()

				if opts.Delay > 0 {
					time.Sleep(opts.Delay)
				}
			}
		}()
	}

	for _, item := range items {
		jobs <- item
	}
	close(jobs)
	wg.Wait()

	return results
}

// runOne isolates a single unit of work so a panic inside fn becomes that
// item's error instead of taking down the pool.
func runOne[K comparable, V any](ctx context.Context, item K, fn func(context.Context, K) (V, error)) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker panic: %v", r)
		}
	}()
	return fn(ctx, item)
}
