// Package relay defines the shared vocabulary of the coordination core:
// the Message tagged union (Payload or Stop) carried by pipelines, the
// error taxonomy returned by channels (ErrDisconnected, ErrTimedOut, ...),
// and the PanicError / TaskError wrappers used to surface worker faults at
// join time.
//
// Sub-packages:
//   - channel: multi-producer, single-consumer queue with timed receive
//   - counter: lock-based and lock-free shared counters
//   - pipeline: producers -> channel -> consumer with a Stop barrier
//   - parallel: bounded for-each over a fixed collection
//   - core: context options, feeders and the worker loop
package relay
