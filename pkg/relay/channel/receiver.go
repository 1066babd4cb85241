package channel

import (
	"context"
	"iter"
	"sync/atomic"
	"time"

	"github.com/ib-77/relay/pkg/relay"
)

// Receiver is the single consumer handle of a channel. It must not be
// shared: overlapping receive calls panic.
type Receiver[T any] struct {
	st     *state[T]
	busy   atomic.Bool
	closed atomic.Bool
}

// Recv blocks until a value is available. Once every sender is closed and
// the queue is empty it returns [relay.ErrDisconnected]. A done ctx
// unblocks the call with ctx.Err().
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	return r.recv(ctx, nil)
}

// RecvTimeout is Recv bounded by d. It returns [relay.ErrTimedOut] when no
// value arrived in time; the channel is left untouched and the call may be
// retried.
func (r *Receiver[T]) RecvTimeout(d time.Duration) (T, error) {
	return r.RecvTimeoutContext(context.Background(), d)
}

// RecvTimeoutContext is RecvTimeout that also gives up with ctx.Err() once
// ctx is done.
func (r *Receiver[T]) RecvTimeoutContext(ctx context.Context, d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	return r.recv(ctx, timer.C)
}

// TryRecv returns the head of the queue without waiting, or
// [relay.ErrEmpty] when nothing is queued but senders remain.
func (r *Receiver[T]) TryRecv() (T, error) {
	r.enter()
	defer r.exit()

	var zero T
	st := r.st
	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case st.rxClosed:
		return zero, relay.ErrDisconnected
	case st.len() > 0:
		return st.pop(), nil
	case st.senders == 0:
		return zero, relay.ErrDisconnected
	default:
		return zero, relay.ErrEmpty
	}
}

// Iter yields received values until Recv would fail. Each call starts a new
// sequence from the current head of the queue; consumed values are gone.
func (r *Receiver[T]) Iter(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			v, err := r.Recv(ctx)
			if err != nil {
				return
			}
			if !yield(v) {
				return
			}
		}
	}
}

// Close drops the receiver. Queued values are discarded and every sender,
// including ones blocked on a full channel, gets [relay.ErrDisconnected].
func (r *Receiver[T]) Close() {
	if !r.closed.CompareAndSwap(false, true) {
		return
	}

	st := r.st
	st.mu.Lock()
	st.rxClosed = true
	st.discard()
	st.broadcast()
	st.mu.Unlock()
}

// Len returns the number of queued values.
func (r *Receiver[T]) Len() int {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.len()
}

// Cap returns the channel capacity, 0 for unbounded.
func (r *Receiver[T]) Cap() int {
	return r.st.capacity
}

// Senders returns the number of open sender handles.
func (r *Receiver[T]) Senders() int {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.senders
}

func (r *Receiver[T]) recv(ctx context.Context, deadline <-chan time.Time) (T, error) {
	r.enter()
	defer r.exit()

	var zero T
	st := r.st
	for {
		st.mu.Lock()
		if st.rxClosed {
			st.mu.Unlock()
			return zero, relay.ErrDisconnected
		}
		if st.len() > 0 {
			v := st.pop()
			st.mu.Unlock()
			return v, nil
		}
		if st.senders == 0 {
			st.mu.Unlock()
			return zero, relay.ErrDisconnected
		}
		wake := st.wake
		st.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-deadline:
			return zero, relay.ErrTimedOut
		}
	}
}

func (r *Receiver[T]) enter() {
	if !r.busy.CompareAndSwap(false, true) {
		panic("relay: concurrent receive on single-consumer channel")
	}
}

func (r *Receiver[T]) exit() {
	r.busy.Store(false)
}
