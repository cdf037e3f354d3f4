package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayUsesClockLocation(t *testing.T) {
	stockholm, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	// 23:30 UTC on 31 May is already 1 June in Stockholm.
	instant := time.Date(2026, 5, 31, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC), Today(Fixed(instant)))
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), Today(Fixed(instant.In(stockholm))))
}

func TestSystemClock(t *testing.T) {
	stockholm, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	assert.Equal(t, stockholm, NewSystem(stockholm).Now().Location())
	assert.Equal(t, time.UTC, NewSystem(nil).Now().Location())
}
