package services

import (
	"time"

	"campreserve-backend/utils"
)

// IsQuietHours reports whether sending must be deferred at the given instant.
// The window is expressed in minutes since midnight UTC. A zero-width window
// (start == end) means no restriction. A window with start > end wraps
// midnight: quiet iff t >= start OR t < end.
func IsQuietHours(startMinute, endMinute int, at time.Time) bool {
	if startMinute == endMinute {
		return false
	}
	t := at.UTC()
	m := t.Hour()*60 + t.Minute()
	if startMinute < endMinute {
		return m >= startMinute && m < endMinute
	}
	return m >= startMinute || m < endMinute
}

// QuietHoursResumeAt returns the instant a deferred job should next be
// considered: today's UTC date with the window-end hour/minute applied.
// Against a wrapped window this can land in the past; the next poll simply
// re-evaluates the job.
func QuietHoursResumeAt(endMinute int, at time.Time) time.Time {
	return utils.BeginningOfDay(at.UTC()).Add(time.Duration(endMinute) * time.Minute)
}
