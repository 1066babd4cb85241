package core

import (
	"context"
	"sync"

	"github.com/ib-77/relay/pkg/relay"
)

type LocomotiveHandlers[In any] struct {
	OnDone  func(ctx context.Context, in Indexed[In])
	OnError func(ctx context.Context, in Indexed[In], err error)
}

// Locomotive drains inputCh until it is closed, running engine once per
// value. A failing or panicking engine call never stops the loop; it is
// handed to OnError instead.
func Locomotive[In any](ctx context.Context, inputCh <-chan Indexed[In],
	engine func(ctx context.Context, in Indexed[In]) error,
	handlers LocomotiveHandlers[In], wg *sync.WaitGroup) {
	defer wg.Done()

	for in := range inputCh {
		if err := Capture(func() error { return engine(ctx, in) }); err != nil {
			if handlers.OnError != nil {
				handlers.OnError(ctx, in, err)
			}
			continue
		}
		if handlers.OnDone != nil {
			handlers.OnDone(ctx, in)
		}
	}
}

// Capture runs fn and converts a panic into *relay.PanicError.
func Capture(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = relay.NewPanicError(r)
		}
	}()
	return fn()
}
