package budget

import (
	"math"
	"time"
)

// calendarDays returns the number of calendar-day boundaries between a and b
// in b's location. Clock time is ignored: 23:59 to 00:01 is one day. Rounding
// keeps 23- and 25-hour DST days counting as one day.
func calendarDays(a, b time.Time) int {
	loc := b.Location()
	a = a.In(loc)
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(bd.Sub(ad).Hours() / 24))
}

// ApplyActivity advances the daily-activity streak for a qualifying action
// (any expense entry, or a completed lesson) happening at now.
//
// First ever activity initializes the streak to 1. A second action on the
// same calendar day leaves it unchanged. Activity exactly one calendar day
// after the last resets nothing and increments; a gap of more than one day
// restarts the streak at 1, counting today itself.
func ApplyActivity(streak int, last *time.Time, now time.Time) (int, time.Time) {
	if last == nil {
		return 1, now
	}
	switch days := calendarDays(*last, now); {
	case days == 0:
		return streak, now
	case days == 1:
		return streak + 1, now
	default:
		return 1, now
	}
}

// DecayStreak is the load-time housekeeping check: if more than one calendar
// day has passed since the last qualifying activity (or the streak is
// positive with no activity date at all), the streak falls back to zero.
// The activity date itself is left untouched.
func DecayStreak(streak int, last *time.Time, now time.Time) int {
	if streak == 0 {
		return 0
	}
	if last == nil || calendarDays(*last, now) > 1 {
		return 0
	}
	return streak
}
