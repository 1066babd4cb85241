package relay

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayload(t *testing.T) {
	before := time.Now().UTC()
	m := Payload("Hello 1!")

	assert.True(t, m.IsPayload())
	assert.False(t, m.IsStop())
	assert.False(t, m.IsEmpty())
	assert.Equal(t, KindPayload, m.Kind())
	assert.Equal(t, "Hello 1!", m.Body())
	assert.NotEqual(t, uuid.Nil, m.Id())
	assert.False(t, m.CreatedAt().Before(before))
	assert.Equal(t, time.UTC, m.CreatedAt().Location())
}

func TestStop(t *testing.T) {
	m := Stop[string]()

	assert.True(t, m.IsStop())
	assert.False(t, m.IsPayload())
	assert.Equal(t, KindStop, m.Kind())
	assert.Equal(t, "", m.Body())
	assert.NotEqual(t, uuid.Nil, m.Id())
}

func TestZeroMessageIsEmpty(t *testing.T) {
	var m Message[int]

	assert.True(t, m.IsEmpty())
	assert.Equal(t, "empty", m.Kind().String())
}

func TestMessageIdsAreUnique(t *testing.T) {
	seen := make(map[uuid.UUID]struct{})
	for i := range 100 {
		seen[Payload(i).Id()] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "payload", KindPayload.String())
	assert.Equal(t, "stop", KindStop.String())
}

func TestErrorHelpers(t *testing.T) {
	wrapped := fmt.Errorf("send: %w", ErrDisconnected)

	assert.True(t, IsDisconnected(wrapped))
	assert.False(t, IsTimedOut(wrapped))
	assert.True(t, IsTimedOut(ErrTimedOut))
	assert.True(t, IsCancellationError(context.Canceled))
	assert.False(t, IsCancellationError(ErrTimedOut))
}

func TestGetErrors(t *testing.T) {
	assert.Empty(t, GetErrors(nil))
	assert.Equal(t, []error{ErrEmpty}, GetErrors(ErrEmpty))

	joined := errors.Join(ErrFull, ErrEmpty)
	assert.Equal(t, []error{ErrFull, ErrEmpty}, GetErrors(joined))
}

func TestTaskError(t *testing.T) {
	id := uuid.New()
	te := &TaskError{Name: "p1", Id: id, Err: ErrDisconnected}

	assert.Equal(t, `task "p1" failed: relay: channel disconnected`, te.Error())
	assert.ErrorIs(t, te, ErrDisconnected)

	joined := errors.Join(
		te,
		errors.New("plain"),
		fmt.Errorf("wrapped: %w", &TaskError{Name: "p2", Err: ErrTimedOut}),
	)
	all := AllTaskErrors(joined)
	require.Len(t, all, 2)
	assert.Equal(t, "p1", all[0].Name)
	assert.Equal(t, "p2", all[1].Name)

	assert.Nil(t, AllTaskErrors(nil))
}

func TestPanicError(t *testing.T) {
	pe := NewPanicError("oops")

	assert.Equal(t, "oops", pe.Value)
	assert.Contains(t, pe.Error(), "panic: oops")
	assert.NotEmpty(t, pe.Stack)
}
