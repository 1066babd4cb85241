package channel

import (
	"sync"

	"github.com/ib-77/relay/pkg/relay"
)

var (
	_ relay.Sender[int]   = (*Sender[int])(nil)
	_ relay.Receiver[int] = (*Receiver[int])(nil)
)

// compactAt is the number of consumed slots after which the queue is
// shifted back to the start of its backing array.
const compactAt = 1024

// state is shared by every handle of one channel. All fields are guarded
// by mu. wake is closed and replaced on every change a waiter could be
// interested in (push, pop on a bounded channel, disconnect).
type state[T any] struct {
	mu       sync.Mutex
	queue    []T
	head     int
	capacity int
	senders  int
	rxClosed bool
	wake     chan struct{}
}

// Unbounded creates a channel whose Send never blocks.
func Unbounded[T any]() (*Sender[T], *Receiver[T]) {
	return newChannel[T](0)
}

// Bounded creates a channel holding at most capacity queued values.
// Panics if capacity <= 0.
func Bounded[T any](capacity int) (*Sender[T], *Receiver[T]) {
	if capacity <= 0 {
		panic("relay: Bounded requires capacity > 0")
	}
	return newChannel[T](capacity)
}

func newChannel[T any](capacity int) (*Sender[T], *Receiver[T]) {
	st := &state[T]{
		capacity: capacity,
		senders:  1,
		wake:     make(chan struct{}),
	}
	if capacity > 0 {
		st.queue = make([]T, 0, capacity)
	}
	return &Sender[T]{st: st}, &Receiver[T]{st: st}
}

func (s *state[T]) len() int {
	return len(s.queue) - s.head
}

func (s *state[T]) full() bool {
	return s.capacity > 0 && s.len() >= s.capacity
}

func (s *state[T]) push(v T) {
	s.queue = append(s.queue, v)
	s.broadcast()
}

func (s *state[T]) pop() T {
	var zero T
	v := s.queue[s.head]
	s.queue[s.head] = zero
	s.head++

	switch {
	case s.head == len(s.queue):
		s.queue = s.queue[:0]
		s.head = 0
	case s.head >= compactAt && s.head*2 >= len(s.queue):
		n := copy(s.queue, s.queue[s.head:])
		clear(s.queue[n:])
		s.queue = s.queue[:n]
		s.head = 0
	}

	if s.capacity > 0 {
		s.broadcast()
	}
	return v
}

func (s *state[T]) discard() {
	clear(s.queue)
	s.queue = nil
	s.head = 0
}

func (s *state[T]) broadcast() {
	close(s.wake)
	s.wake = make(chan struct{})
}
