package model

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day without a date.
type Clock struct {
	Hour   int
	Minute int
	Second int
}

// ClockOf returns the time-of-day part of t.
func ClockOf(t time.Time) Clock {
	return Clock{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}
}

// Valid reports whether the clock denotes a time in [00:00:00, 24:00:00).
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour < 24 &&
		c.Minute >= 0 && c.Minute < 60 &&
		c.Second >= 0 && c.Second < 60
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour, c.Minute, c.Second)
}
