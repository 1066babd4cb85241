package core

import (
	"context"
	"sync"
)

// Indexed pairs a value with its position in the source slice.
type Indexed[T any] struct {
	Index int
	Value T
}

// ToChanMany feeds values, tagged with their index, into an unbuffered
// channel that is closed after the last one or once ctx is done.
func ToChanMany[T any](ctx context.Context, values []T) <-chan Indexed[T] {
	in := make(chan Indexed[T])

	go func() {
		defer close(in)

		if ctx.Err() != nil {
			return
		}

		for i, v := range values {
			select {
			case in <- Indexed[T]{Index: i, Value: v}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return in
}

func FromChanMany[T any](ctx context.Context, out <-chan T) []T {
	res := make([]T, 0)
	wg := &sync.WaitGroup{}
	wg.Add(1)

	go func() {
		defer wg.Done()
		for {
			select {
			case v, ok := <-out:
				if !ok {
					return
				}
				res = append(res, v)
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()
	return res
}
