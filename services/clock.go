package services

import "time"

// Clock is injected wherever expiry or health logic needs the current time,
// so tests can pin it.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

func NewClock() Clock { return realClock{} }

// FixedClock returns a preset time, for tests.
type FixedClock struct {
	T time.Time
}

func (c *FixedClock) Now() time.Time { return c.T }
