package pipeline

import "time"

// FailurePolicy decides what a producer error means for its siblings.
type FailurePolicy int

const (
	// Isolate lets the other producers run to completion.
	Isolate FailurePolicy = iota
	// FailFast cancels the context of every producer on the first error.
	FailFast
)

func (p FailurePolicy) String() string {
	if p == FailFast {
		return "fail-fast"
	}
	return "isolate"
}

type Option func(*config)

type config struct {
	capacity int
	idle     time.Duration
	idleSet  bool
	policy   FailurePolicy
}

// WithCapacity bounds the channel; 0 (the default) keeps it unbounded.
// Panics if n < 0.
func WithCapacity(n int) Option {
	if n < 0 {
		panic("relay: WithCapacity requires n >= 0")
	}
	return func(c *config) {
		c.capacity = n
	}
}

// WithIdleTimeout makes the consumer stop after d without a message.
// It overrides core.WithTimeoutOptions on the context.
func WithIdleTimeout(d time.Duration) Option {
	return func(c *config) {
		c.idle = d
		c.idleSet = true
	}
}

func WithFailurePolicy(p FailurePolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}
