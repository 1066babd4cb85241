package channel

import (
	"context"
	"sync/atomic"

	"github.com/ib-77/relay/pkg/relay"
)

// Sender is one producer handle. Handles are duplicated with Clone and each
// must be closed exactly once; further Close calls are no-ops. A single
// handle is meant to be used from one goroutine at a time.
type Sender[T any] struct {
	st     *state[T]
	closed atomic.Bool
}

// Send enqueues v at the tail of the channel.
//
// On an unbounded channel Send never blocks and ctx is not consulted.
// On a bounded channel Send waits for a free slot, returning ctx.Err() if
// ctx ends first. It returns [relay.ErrDisconnected] once the receiver is
// closed and [relay.ErrSenderClosed] if this handle was closed.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	st := s.st
	for {
		st.mu.Lock()
		if s.closed.Load() {
			st.mu.Unlock()
			return relay.ErrSenderClosed
		}
		if st.rxClosed {
			st.mu.Unlock()
			return relay.ErrDisconnected
		}
		if !st.full() {
			st.push(v)
			st.mu.Unlock()
			return nil
		}
		wake := st.wake
		st.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// TrySend enqueues v without waiting. It returns [relay.ErrFull] when a
// bounded channel has no free slot.
func (s *Sender[T]) TrySend(v T) error {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	switch {
	case s.closed.Load():
		return relay.ErrSenderClosed
	case st.rxClosed:
		return relay.ErrDisconnected
	case st.full():
		return relay.ErrFull
	}
	st.push(v)
	return nil
}

// Clone returns a new handle on the same channel. The receiver stays
// connected until every handle, including clones, is closed.
// Panics if s was already closed.
func (s *Sender[T]) Clone() *Sender[T] {
	st := s.st
	st.mu.Lock()
	defer st.mu.Unlock()

	if s.closed.Load() {
		panic("relay: Clone on closed sender")
	}
	st.senders++
	return &Sender[T]{st: st}
}

// Close drops the handle. Closing the last handle disconnects the receiver
// once it has drained the queue.
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}

	st := s.st
	st.mu.Lock()
	st.senders--
	if st.senders == 0 {
		st.broadcast()
	}
	st.mu.Unlock()
}

// Connected reports whether the receiver is still open.
func (s *Sender[T]) Connected() bool {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return !s.st.rxClosed
}
