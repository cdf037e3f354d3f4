package availability

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/noq-backend/internal/pkg/daterange"
)

var day0 = time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return day0.AddDate(0, 0, n)
}

func stay(id string, start, end int) Stay {
	return Stay{ID: id, Start: day(start), End: day(end)}
}

// Five overlapping stays: starts 1,0,3,0,2 and ends 4,6,8,7,5.
func overlapping() []Stay {
	return []Stay{
		stay("b1", 1, 4),
		stay("b2", 0, 6),
		stay("b3", 3, 8),
		stay("b4", 0, 7),
		stay("b5", 2, 5),
	}
}

func values(dc DateCounts) []int {
	out := make([]int, len(dc))
	for i, c := range dc {
		out[i] = c.Count
	}
	return out
}

func TestCountPerDateOverlappingStays(t *testing.T) {
	counts := CountPerDate(daterange.Range{Start: day(0), End: day(8)}, overlapping(), "")

	require.Len(t, counts, 8)
	assert.Equal(t, []int{2, 3, 4, 5, 4, 3, 2, 1}, values(counts))
	for i, c := range counts {
		assert.Equal(t, day(i), c.Date)
	}
}

func TestCountPerDateExcludesBooking(t *testing.T) {
	counts := CountPerDate(daterange.Range{Start: day(0), End: day(8)}, overlapping(), "b1")

	assert.Equal(t, []int{2, 2, 3, 4, 4, 3, 2, 1}, values(counts))
}

func TestCountPerDateEndIsExclusive(t *testing.T) {
	counts := CountPerDate(daterange.Range{Start: day(0), End: day(3)}, []Stay{stay("a", 0, 1), stay("b", 2, 3)}, "")

	assert.Equal(t, []int{1, 0, 1}, values(counts))
}

func TestCountPerDateClampsToSpan(t *testing.T) {
	stays := []Stay{
		stay("long", -10, 20),
		stay("before", -5, 2),
		stay("after", 3, 9),
		stay("outside", 10, 12),
	}
	counts := CountPerDate(daterange.Range{Start: day(1), End: day(5)}, stays, "")

	assert.Equal(t, []int{2, 1, 2, 2}, values(counts))
}

func TestCountPerDateEmptySpan(t *testing.T) {
	assert.Empty(t, CountPerDate(daterange.Range{Start: day(3), End: day(3)}, overlapping(), ""))
	assert.Empty(t, CountPerDate(daterange.Range{Start: day(3), End: day(1)}, overlapping(), ""))
}

func TestDateCountsFullDates(t *testing.T) {
	counts := CountPerDate(daterange.Range{Start: day(0), End: day(8)}, overlapping(), "")

	assert.Equal(t, []string{"2026-05-03", "2026-05-04", "2026-05-05"}, counts.FullDates(4))
	assert.Nil(t, counts.FullDates(6))
}

func TestDateCountsMarshalKeepsOrder(t *testing.T) {
	counts := CountPerDate(daterange.Range{Start: time.Date(2026, 12, 30, 0, 0, 0, 0, time.UTC), End: time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC)},
		[]Stay{{ID: "x", Start: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), End: time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)}}, "")

	raw, err := json.Marshal(counts)
	require.NoError(t, err)
	assert.Equal(t, `{"2026-12-30":0,"2026-12-31":1,"2027-01-01":1,"2027-01-02":0}`, string(raw))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, counts.Map(), decoded)
}

func TestDateCountsMarshalEmpty(t *testing.T) {
	raw, err := json.Marshal(DateCounts{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(raw))
}
