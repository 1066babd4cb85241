package relay

import (
	"context"
	"time"
)

// Sender defines the producer side of a channel
type Sender[T any] interface {
	// Send enqueues v at the tail of the queue
	Send(ctx context.Context, v T) error
	// Close drops this handle
	Close()
}

// Receiver defines the single consumer side of a channel
type Receiver[T any] interface {
	// Recv blocks until a value arrives or every sender is gone
	Recv(ctx context.Context) (T, error)
	// RecvTimeout blocks at most d
	RecvTimeout(d time.Duration) (T, error)
	// Close drops the consumer handle
	Close()
}
