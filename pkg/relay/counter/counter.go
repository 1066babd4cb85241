package counter

import (
	"sync"
	"sync/atomic"
)

// Counter is an integer accumulator safe for concurrent use.
type Counter interface {
	// IncrementBy adds amount (which may be negative)
	IncrementBy(amount int64)
	// Load returns the current value
	Load() int64
}

var (
	_ Counter = (*Locked)(nil)
	_ Counter = (*Atomic)(nil)
)

// Locked serializes every read-modify-write behind a mutex.
type Locked struct {
	mu    sync.Mutex
	value int64
}

func NewLocked(initial int64) *Locked {
	return &Locked{value: initial}
}

func (c *Locked) IncrementBy(amount int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value += amount
}

func (c *Locked) Load() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Atomic updates the value with a single fetch-and-add.
type Atomic struct {
	value atomic.Int64
}

func NewAtomic(initial int64) *Atomic {
	c := &Atomic{}
	c.value.Store(initial)
	return c
}

func (c *Atomic) IncrementBy(amount int64) {
	c.value.Add(amount)
}

func (c *Atomic) Load() int64 {
	return c.value.Load()
}

// Accumulate runs one aggregation round: every amount is added to c from
// its own goroutine, and the call returns c.Load() once all of them joined.
func Accumulate(c Counter, amounts []int64) int64 {
	wg := &sync.WaitGroup{}
	for _, amount := range amounts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.IncrementBy(amount)
		}()
	}
	wg.Wait()
	return c.Load()
}
