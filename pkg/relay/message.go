package relay

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags the variant held by a Message.
type Kind uint8

const (
	KindPayload Kind = iota + 1
	KindStop
)

func (k Kind) String() string {
	switch k {
	case KindPayload:
		return "payload"
	case KindStop:
		return "stop"
	default:
		return "empty"
	}
}

// Message is either a Payload carrying a body or a Stop sentinel.
// The zero value is empty and is never produced by this package.
type Message[T any] struct {
	id        uuid.UUID
	createdAt time.Time
	body      T
	kind      Kind
}

func Payload[T any](body T) Message[T] {
	return Message[T]{
		body:      body,
		kind:      KindPayload,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

func Stop[T any]() Message[T] {
	return Message[T]{
		kind:      KindStop,
		createdAt: time.Now().UTC(),
		id:        uuid.New(),
	}
}

func (m Message[T]) Kind() Kind {
	return m.kind
}

// Body returns the carried value. It is the zero T for Stop.
func (m Message[T]) Body() T {
	return m.body
}

func (m Message[T]) IsPayload() bool {
	return m.kind == KindPayload
}

func (m Message[T]) IsStop() bool {
	return m.kind == KindStop
}

func (m Message[T]) IsEmpty() bool {
	return m.kind == 0
}

func (m Message[T]) CreatedAt() time.Time {
	return m.createdAt
}

func (m Message[T]) Id() uuid.UUID {
	return m.id
}
