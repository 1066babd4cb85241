// Package channel implements an ordered multi-producer, single-consumer
// queue with explicit disconnect semantics.
//
// Unlike a built-in Go channel, closing is split by side:
//   - every *Sender is a handle that can be cloned and must be closed; when
//     the last handle is closed the receiver drains the backlog and then gets
//     relay.ErrDisconnected
//   - closing the *Receiver makes every further Send fail with
//     relay.ErrDisconnected instead of panicking or blocking forever
//
// Receive comes in three flavours: Recv (blocking, context aware),
// RecvTimeout (bounded, relay.ErrTimedOut) and TryRecv (non-blocking).
// Iter exposes the receive loop as an iter.Seq.
//
// All queue operations are serialized by one mutex, so values sent through
// the same handle are received in send order.
package channel
