package pipeline

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/ib-77/relay/pkg/relay"
	"github.com/ib-77/relay/pkg/relay/channel"
	"github.com/ib-77/relay/pkg/relay/core"
)

// State of a consumer loop.
type State int32

const (
	// Listening is the initial state: producers may still send.
	Listening State = iota
	// Draining means every sender handle is closed and the consumer is
	// working through the backlog.
	Draining
	// Stopped is terminal.
	Stopped
)

func (s State) String() string {
	switch s {
	case Listening:
		return "listening"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Reason tells why a consumer reached Stopped.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonStop
	ReasonDisconnected
	ReasonIdle
	ReasonCancelled
	ReasonFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonStop:
		return "stop"
	case ReasonDisconnected:
		return "disconnected"
	case ReasonIdle:
		return "idle"
	case ReasonCancelled:
		return "cancelled"
	case ReasonFailed:
		return "failed"
	default:
		return "none"
	}
}

// Handler emits one payload message. A returned error (or a panic) stops
// the consumer.
type Handler[T any] func(ctx context.Context, msg relay.Message[T]) error

// LogHandler emits every payload as an info record on the context logger.
func LogHandler[T any]() Handler[T] {
	return func(ctx context.Context, msg relay.Message[T]) error {
		core.Logger(ctx).Info("received", "id", msg.Id(), "body", msg.Body())
		return nil
	}
}

// WriteHandler prints every payload body on its own line.
func WriteHandler[T any](w io.Writer) Handler[T] {
	return func(_ context.Context, msg relay.Message[T]) error {
		_, err := fmt.Fprintf(w, "Received: %v\n", msg.Body())
		return err
	}
}

// Consumer drains a receiver until Stop, disconnect, idle timeout, ctx end
// or a handler failure. Once it returns, the receiver is closed so any
// remaining producer fails with relay.ErrDisconnected.
type Consumer[T any] struct {
	rx        *channel.Receiver[relay.Message[T]]
	handle    Handler[T]
	idle      time.Duration
	state     atomic.Int32
	processed atomic.Int64
}

// NewConsumer wires a consumer to rx. A non-positive idle waits forever; a
// nil handle defaults to LogHandler.
func NewConsumer[T any](rx *channel.Receiver[relay.Message[T]], handle Handler[T], idle time.Duration) *Consumer[T] {
	if handle == nil {
		handle = LogHandler[T]()
	}
	return &Consumer[T]{
		rx:     rx,
		handle: handle,
		idle:   idle,
	}
}

func (c *Consumer[T]) State() State {
	return State(c.state.Load())
}

// Processed returns how many payloads were handled successfully.
func (c *Consumer[T]) Processed() int64 {
	return c.processed.Load()
}

// Run executes the consumer loop on the calling goroutine. The error is
// non-nil only for ReasonFailed and ReasonCancelled.
func (c *Consumer[T]) Run(ctx context.Context) (Reason, error) {
	logger := core.Logger(ctx)
	defer c.rx.Close()

	for {
		msg, err := c.receive(ctx)
		if err != nil {
			switch {
			case relay.IsDisconnected(err):
				return c.stop(ctx, ReasonDisconnected, nil)
			case relay.IsTimedOut(err):
				return c.stop(ctx, ReasonIdle, nil)
			default:
				return c.stop(ctx, ReasonCancelled, err)
			}
		}

		switch msg.Kind() {
		case relay.KindStop:
			return c.stop(ctx, ReasonStop, nil)
		case relay.KindPayload:
			if err := core.Capture(func() error { return c.handle(ctx, msg) }); err != nil {
				return c.stop(ctx, ReasonFailed, err)
			}
			c.processed.Add(1)
		default:
			logger.Warn("consumer skipped empty message")
		}

		if c.State() == Listening && c.rx.Senders() == 0 {
			c.state.Store(int32(Draining))
			logger.Debug("consumer draining", "backlog", c.rx.Len())
		}
	}
}

func (c *Consumer[T]) receive(ctx context.Context) (relay.Message[T], error) {
	if c.idle > 0 {
		return c.rx.RecvTimeoutContext(ctx, c.idle)
	}
	return c.rx.Recv(ctx)
}

func (c *Consumer[T]) stop(ctx context.Context, reason Reason, err error) (Reason, error) {
	c.state.Store(int32(Stopped))
	core.Logger(ctx).Debug("consumer stopped",
		"reason", reason.String(), "processed", c.processed.Load(), "err", err)
	return reason, err
}
