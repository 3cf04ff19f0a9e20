// Package clock lets time-stamping code run against a fixed clock in tests
package clock

import "time"

// Clock reports the current instant
type Clock interface {
	Now() time.Time
}

type utc struct{}

func (utc) Now() time.Time {
	return time.Now().UTC()
}

// New returns the wall clock, normalized to UTC so stored timestamps compare
// consistently across hosts.
func New() Clock {
	return utc{}
}

// Fixed always reports At
type Fixed struct {
	At time.Time
}

func (c *Fixed) Now() time.Time {
	return c.At
}

// Advance moves the fixed clock forward by d
func (c *Fixed) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}
