package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdayIndex_MondayFirst(t *testing.T) {
	monday := time.Date(2026, 10, 12, 9, 0, 0, 0, SeoulLocation)
	sunday := time.Date(2026, 10, 18, 9, 0, 0, 0, SeoulLocation)

	assert.Equal(t, 0, WeekdayIndex(monday))
	assert.Equal(t, 6, WeekdayIndex(sunday))
}

func TestWeekdayIndex_UsesSeoulDate(t *testing.T) {
	// Sunday 20:00 UTC is already Monday 05:00 in Seoul.
	utc := time.Date(2026, 10, 11, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, WeekdayIndex(utc))
}

func TestClockHHMM(t *testing.T) {
	assert.Equal(t, 1430, ClockHHMM(time.Date(2026, 10, 12, 14, 30, 0, 0, SeoulLocation)))
	assert.Equal(t, 5, ClockHHMM(time.Date(2026, 10, 12, 0, 5, 0, 0, SeoulLocation)))
}
