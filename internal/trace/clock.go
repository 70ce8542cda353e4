package trace

import "sync/atomic"

// Clock is a monotonic logical clock for event ordering.
//
// Events are stamped with strictly increasing seq numbers instead of
// wall-clock timestamps, so recorded traces are deterministic and two
// runs of the same scenario produce byte-identical snapshots.
//
// Thread-safety: safe for concurrent use (atomic operations), though a
// single Resolve call stamps events from one goroutine only.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and advances the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the clock's position without advancing it.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
