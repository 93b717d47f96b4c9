package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2025, 6, 15, 18, 42, 11, 0, BerlinTZ)
	start := StartOfDay(ts)

	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, 15, start.Day())
}

func TestNextMidnight(t *testing.T) {
	ts := time.Date(2025, 6, 15, 23, 59, 0, 0, BerlinTZ)
	next := NextMidnight(ts)

	assert.Equal(t, 16, next.Day())
	assert.Equal(t, 0, next.Hour())
}

func TestStartOfWeekIsMonday(t *testing.T) {
	// Sunday
	ts := time.Date(2025, 6, 15, 12, 0, 0, 0, BerlinTZ)
	start := StartOfWeek(ts)

	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, 9, start.Day())
}

func TestNextWeekStart(t *testing.T) {
	// Wednesday
	ts := time.Date(2025, 6, 11, 12, 0, 0, 0, BerlinTZ)
	next := NextWeekStart(ts)

	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, 16, next.Day())
}

func TestBoundariesComputedInBerlinTime(t *testing.T) {
	// 23:30 UTC on the 15th is already the 16th in Berlin (CEST, UTC+2).
	ts := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	next := NextMidnight(ts)

	assert.Equal(t, 17, next.Day())
	assert.Equal(t, 0, next.Hour())
}
