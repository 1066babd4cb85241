package pipeline

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ib-77/relay/pkg/relay"
	"github.com/ib-77/relay/pkg/relay/channel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(out *[]string) Handler[string] {
	return func(_ context.Context, msg relay.Message[string]) error {
		*out = append(*out, msg.Body())
		return nil
	}
}

func TestConsumer_PayloadsThenStop(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	tx, rx := channel.Unbounded[relay.Message[string]]()
	defer tx.Close()

	for _, s := range []string{"a", "b", "c"} {
		require.NoError(t, tx.Send(ctx, relay.Payload(s)))
	}
	require.NoError(t, tx.Send(ctx, relay.Stop[string]()))

	var got []string
	c := NewConsumer(rx, collect(&got), 0)
	assert.Equal(t, Listening, c.State())

	reason, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonStop, reason)
	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, int64(3), c.Processed())
}

func TestConsumer_StopIsTerminalEvenWithQueuedPayloads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tx, rx := channel.Unbounded[relay.Message[string]]()
	defer tx.Close()

	require.NoError(t, tx.Send(ctx, relay.Payload("a")))
	require.NoError(t, tx.Send(ctx, relay.Stop[string]()))
	require.NoError(t, tx.Send(ctx, relay.Payload("late")))

	var got []string
	reason, err := NewConsumer(rx, collect(&got), 0).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, ReasonStop, reason)
	assert.Equal(t, []string{"a"}, got)

	// the consumer dropped its handle on exit
	assert.ErrorIs(t, tx.Send(ctx, relay.Payload("after")), relay.ErrDisconnected)
}

func TestConsumer_DisconnectedAfterDraining(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	tx, rx := channel.Unbounded[relay.Message[string]]()
	require.NoError(t, tx.Send(ctx, relay.Payload("x")))
	require.NoError(t, tx.Send(ctx, relay.Payload("y")))
	tx.Close()

	var (
		got    []string
		states []State
	)
	var c *Consumer[string]
	c = NewConsumer(rx, func(ctx context.Context, msg relay.Message[string]) error {
		states = append(states, c.State())
		got = append(got, msg.Body())
		return nil
	}, 0)

	reason, err := c.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonDisconnected, reason)
	assert.Equal(t, []string{"x", "y"}, got)
	assert.Equal(t, []State{Listening, Draining}, states)
}

func TestConsumer_IdleTimeoutActsAsStop(t *testing.T) {
	t.Parallel()

	tx, rx := channel.Unbounded[relay.Message[string]]()
	defer tx.Close()

	start := time.Now()
	reason, err := NewConsumer(rx, collect(new([]string)), 100*time.Millisecond).Run(context.Background())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, ReasonIdle, reason)
	assert.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
}

func TestConsumer_IdleTimerRestartsPerMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tx, rx := channel.Unbounded[relay.Message[string]]()
	defer tx.Close()

	go func() {
		for _, s := range []string{"1", "2", "3"} {
			time.Sleep(30 * time.Millisecond)
			_ = tx.Send(ctx, relay.Payload(s))
		}
	}()

	var got []string
	reason, err := NewConsumer(rx, collect(&got), 150*time.Millisecond).Run(ctx)

	require.NoError(t, err)
	assert.Equal(t, ReasonIdle, reason)
	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestConsumer_HandlerErrorStops(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tx, rx := channel.Unbounded[relay.Message[int]]()
	defer tx.Close()

	for i := range 5 {
		require.NoError(t, tx.Send(ctx, relay.Payload(i)))
	}

	boom := errors.New("boom")
	c := NewConsumer(rx, func(_ context.Context, msg relay.Message[int]) error {
		if msg.Body() == 2 {
			return boom
		}
		return nil
	}, 0)

	reason, err := c.Run(ctx)
	assert.Equal(t, ReasonFailed, reason)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(2), c.Processed())
}

func TestConsumer_HandlerPanicIsReported(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tx, rx := channel.Unbounded[relay.Message[int]]()
	defer tx.Close()
	require.NoError(t, tx.Send(ctx, relay.Payload(1)))

	reason, err := NewConsumer(rx, func(context.Context, relay.Message[int]) error {
		panic("handler blew up")
	}, 0).Run(ctx)

	assert.Equal(t, ReasonFailed, reason)
	var pe *relay.PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "handler blew up", pe.Value)
}

func TestConsumer_ContextCancel(t *testing.T) {
	t.Parallel()

	tx, rx := channel.Unbounded[relay.Message[int]]()
	defer tx.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	reason, err := NewConsumer[int](rx, nil, time.Second).Run(ctx)
	assert.Equal(t, ReasonCancelled, reason)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWriteHandler(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	h := WriteHandler[string](buf)

	require.NoError(t, h(context.Background(), relay.Payload("Hello 1!")))
	assert.Equal(t, "Received: Hello 1!\n", buf.String())
}

func TestStateAndReasonStrings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "listening", Listening.String())
	assert.Equal(t, "draining", Draining.String())
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "idle", ReasonIdle.String())
	assert.Equal(t, "none", ReasonNone.String())
	assert.Equal(t, "fail-fast", FailFast.String())
}
