package relay

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/google/uuid"
)

var (
	// ErrDisconnected is returned when the peer side of a channel no longer exists.
	ErrDisconnected = errors.New("relay: channel disconnected")
	// ErrTimedOut is returned by RecvTimeout when nothing arrived in time.
	ErrTimedOut = errors.New("relay: receive timed out")
	// ErrEmpty is returned by TryRecv on an empty, still connected channel.
	ErrEmpty = errors.New("relay: channel empty")
	// ErrFull is returned by TrySend on a full bounded channel.
	ErrFull = errors.New("relay: channel full")
	// ErrSenderClosed is returned when sending through a handle that was closed.
	ErrSenderClosed = errors.New("relay: send on closed sender")
)

func IsNil(i interface{}) bool {
	if i == nil || (reflect.ValueOf(i).Kind() == reflect.Ptr && reflect.ValueOf(i).IsNil()) {
		return true
	}
	return false
}

func GetErrors(err error) []error {
	if IsNil(err) {
		return []error{}
	}

	e, ok := err.(interface{ Unwrap() []error })
	if ok {
		return e.Unwrap()
	}

	return []error{err}
}

func IsDisconnected(err error) bool {
	return errors.Is(err, ErrDisconnected)
}

func IsTimedOut(err error) bool {
	return errors.Is(err, ErrTimedOut)
}

func IsCancellationError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// PanicError wraps a value recovered from a panicking worker together with
// the stack captured at the point of the panic.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

func NewPanicError(v any) *PanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// TaskError attributes a failure to the named unit of work that produced it.
type TaskError struct {
	Name string
	Id   uuid.UUID
	Err  error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Name, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

// AllTaskErrors collects every *TaskError in err's chain, descending into
// errors.Join trees. Returns nil if none are found.
func AllTaskErrors(err error) []*TaskError {
	if err == nil {
		return nil
	}

	var out []*TaskError
	collectTaskErrors(err, &out)
	return out
}

func collectTaskErrors(err error, out *[]*TaskError) {
	switch e := err.(type) {
	case *TaskError:
		*out = append(*out, e)
	case interface{ Unwrap() []error }:
		for _, sub := range e.Unwrap() {
			collectTaskErrors(sub, out)
		}
	case interface{ Unwrap() error }:
		collectTaskErrors(e.Unwrap(), out)
	}
}
