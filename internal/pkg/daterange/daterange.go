// Package daterange handles calendar-day arithmetic over half-open ranges.
// Days are represented as time.Time values at UTC midnight.
package daterange

import (
	"errors"
	"time"
)

// Layout is the ISO calendar-date format used for keys and on the wire.
const Layout = "2006-01-02"

var ErrInvalidRange = errors.New("daterange: end must be after start")

// Range represents a half-open interval of days [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Day truncates t to its calendar date, keeping the date as seen in t's location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD string into a day.
func Parse(s string) (time.Time, error) {
	return time.ParseInLocation(Layout, s, time.UTC)
}

// Key formats a day as YYYY-MM-DD.
func Key(d time.Time) string {
	return d.Format(Layout)
}

// New builds a Range from two instants truncated to days and validates it.
func New(start, end time.Time) (Range, error) {
	r := Range{Start: Day(start), End: Day(end)}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Of builds a Range without validation. Callers that need an ordered range use New.
func Of(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrInvalidRange
	}
	if !r.End.After(r.Start) {
		return ErrInvalidRange
	}
	return nil
}

// Days returns the number of nights in the range. Negative when End precedes Start.
func (r Range) Days() int {
	return DaysBetween(r.Start, r.End)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

// Dates lists every day in the range in chronological order.
func (r Range) Dates() []time.Time {
	n := r.Days()
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, 0, n)
	for d := r.Start; d.Before(r.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}

// Contains reports whether the day d falls inside [Start, End).
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && d.Before(r.End)
}

// Overlaps reports whether two half-open ranges share at least one day.
func (r Range) Overlaps(other Range) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Extend returns a range starting at d and spanning n days.
func Extend(d time.Time, n int) Range {
	start := Day(d)
	return Range{Start: start, End: start.AddDate(0, 0, n)}
}
