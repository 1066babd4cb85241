package parallel

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/ib-77/relay/pkg/relay/core"
)

// ItemError reports the failure of op on the item at Index.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

// ForEach applies op to every item exactly once and returns after the last
// call finished. See ForEachIndexed.
func ForEach[T any](ctx context.Context, items []T, op func(ctx context.Context, item T) error) error {
	return ForEachIndexed(ctx, items, func(ctx context.Context, _ int, item T) error {
		return op(ctx, item)
	})
}

// ForEachIndexed applies op to every item exactly once using a fixed set of
// workers and blocks until all calls have returned.
//
// The worker count comes from core.WithWorkerOptions on ctx and defaults to
// GOMAXPROCS; it never exceeds len(items). Calls run in no particular order.
// The run is never cut short: ctx is only handed to op, and a failing or
// panicking op is recorded as an *ItemError while the remaining items are
// still processed. All item errors are returned joined.
func ForEachIndexed[T any](ctx context.Context, items []T, op func(ctx context.Context, index int, item T) error) error {
	if len(items) == 0 {
		return nil
	}

	workers := min(core.GetWorkerMaxCount(ctx, runtime.GOMAXPROCS(0)), len(items))
	logger := core.Logger(ctx)
	logger.Debug("foreach started", "items", len(items), "workers", workers)

	var (
		mu   sync.Mutex
		errs []error
	)
	handlers := core.LocomotiveHandlers[T]{
		OnError: func(_ context.Context, in core.Indexed[T], err error) {
			logger.Debug("foreach item failed", "index", in.Index, "err", err)
			mu.Lock()
			errs = append(errs, &ItemError{Index: in.Index, Err: err})
			mu.Unlock()
		},
	}
	engine := func(ctx context.Context, in core.Indexed[T]) error {
		return op(ctx, in.Index, in.Value)
	}

	// feeding must not stop early, whatever happens to the caller's ctx
	inputCh := core.ToChanMany(context.WithoutCancel(ctx), items)

	wg := &sync.WaitGroup{}
	for range workers {
		wg.Add(1)
		go core.Locomotive(ctx, inputCh, engine, handlers, wg)
	}
	wg.Wait()

	logger.Debug("foreach finished", "items", len(items), "failed", len(errs))
	return errors.Join(errs...)
}
