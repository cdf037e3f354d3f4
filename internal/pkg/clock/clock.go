package clock

import (
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

// Clock provides the current instant.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock in a fixed location.
type System struct {
	Location *time.Location
}

// NewSystem returns a wall clock reporting time in loc (UTC when loc is nil).
func NewSystem(loc *time.Location) System {
	if loc == nil {
		loc = time.UTC
	}
	return System{Location: loc}
}

func (s System) Now() time.Time {
	return time.Now().In(s.Location)
}

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}

// Today returns the calendar date of c.Now() in the clock's own location.
func Today(c Clock) time.Time {
	return daterange.Day(c.Now())
}
