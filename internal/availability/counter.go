package availability

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

// Stay is the part of a booking the counter looks at.
// Callers pass only stays whose status counts toward capacity.
type Stay struct {
	ID    string
	Start time.Time // inclusive
	End   time.Time // exclusive
}

// DateCount is the number of stays covering one date.
type DateCount struct {
	Date  time.Time
	Count int
}

// DateCounts holds one entry per date of a range in chronological order.
type DateCounts []DateCount

// CountPerDate counts, for every date of span, the stays covering it.
// A stay covers d when Start <= d < End. The stay whose ID equals excludeID is ignored.
// Dates without any stay are present with a zero count.
func CountPerDate(span daterange.Range, stays []Stay, excludeID string) DateCounts {
	dates := span.Dates()
	counts := make(DateCounts, len(dates))
	for i, d := range dates {
		counts[i].Date = d
	}
	if len(counts) == 0 {
		return counts
	}

	for _, s := range stays {
		if excludeID != "" && s.ID == excludeID {
			continue
		}
		stay := daterange.Of(s.Start, s.End)
		if !stay.Overlaps(span) {
			continue
		}
		// Clamp the stay to indices of span.
		from := max(daterange.DaysBetween(span.Start, stay.Start), 0)
		to := min(daterange.DaysBetween(span.Start, stay.End), len(counts))
		for i := from; i < to; i++ {
			counts[i].Count++
		}
	}
	return counts
}

// Map returns the counts keyed by YYYY-MM-DD.
func (dc DateCounts) Map() map[string]int {
	m := make(map[string]int, len(dc))
	for _, c := range dc {
		m[daterange.Key(c.Date)] = c.Count
	}
	return m
}

// FullDates lists the dates whose count has reached totalPlaces.
func (dc DateCounts) FullDates(totalPlaces int) []string {
	var full []string
	for _, c := range dc {
		if c.Count >= totalPlaces {
			full = append(full, daterange.Key(c.Date))
		}
	}
	return full
}

// MarshalJSON renders the counts as a JSON object whose keys keep chronological order.
func (dc DateCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range dc {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(daterange.Key(c.Date))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(c.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
