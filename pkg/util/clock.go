package util

import "time"

type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

type RealClock struct{}

func (RealClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
func (RealClock) Now() time.Time                         { return time.Now() }

// StepClock is a deterministic clock: every Now call moves time forward by
// Step. After advances by d and fires immediately.
type StepClock struct {
	t    time.Time
	Step time.Duration
}

func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{t: start, Step: step}
}

func (c *StepClock) Now() time.Time {
	c.t = c.t.Add(c.Step)
	return c.t
}

func (c *StepClock) After(d time.Duration) <-chan time.Time {
	c.t = c.t.Add(d)
	ch := make(chan time.Time, 1)
	ch <- c.t
	return ch
}

// Timestamp converts a clock reading into an order timestamp.
func Timestamp(c Clock) uint64 {
	return uint64(c.Now().UnixNano())
}
