package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func atClock(hour, minute int) time.Time {
	return time.Date(2026, 8, 30, hour, minute, 0, 0, time.UTC)
}

func TestIsQuietHoursWrapsMidnight(t *testing.T) {
	start := 22 * 60 // 22:00
	end := 6 * 60    // 06:00

	assert.True(t, IsQuietHours(start, end, atClock(23, 0)))
	assert.True(t, IsQuietHours(start, end, atClock(3, 0)))
	assert.False(t, IsQuietHours(start, end, atClock(10, 0)))

	// boundaries: start inclusive, end exclusive
	assert.True(t, IsQuietHours(start, end, atClock(22, 0)))
	assert.False(t, IsQuietHours(start, end, atClock(6, 0)))
	assert.True(t, IsQuietHours(start, end, atClock(5, 59)))
}

func TestIsQuietHoursSameDayWindow(t *testing.T) {
	start := 13 * 60 // 13:00
	end := 15 * 60   // 15:00

	assert.True(t, IsQuietHours(start, end, atClock(14, 0)))
	assert.False(t, IsQuietHours(start, end, atClock(12, 59)))
	assert.True(t, IsQuietHours(start, end, atClock(13, 0)))
	assert.False(t, IsQuietHours(start, end, atClock(15, 0)))
}

func TestIsQuietHoursZeroWidthWindowDisabled(t *testing.T) {
	start := 6 * 60
	for hour := 0; hour < 24; hour++ {
		assert.False(t, IsQuietHours(start, start, atClock(hour, 0)), "hour %d", hour)
	}
}

func TestQuietHoursResumeAt(t *testing.T) {
	end := 6 * 60

	// Deferral always lands on today's date with the end time applied,
	// even when that is already in the past.
	got := QuietHoursResumeAt(end, atClock(23, 30))
	assert.Equal(t, time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC), got)

	got = QuietHoursResumeAt(end, atClock(3, 15))
	assert.Equal(t, time.Date(2026, 8, 30, 6, 0, 0, 0, time.UTC), got)
}
