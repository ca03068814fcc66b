package budget

import (
	"errors"
	"time"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

// ErrNonPositiveAmount is returned for a zero or negative movement amount.
var ErrNonPositiveAmount = errors.New("movement amount must be positive")

// RecordExpense applies the profile side effects of inserting a movement at
// now: the daily-activity streak transition, plus advancing the cycle start
// to now when the current window has fully elapsed. This is the sole
// rollover trigger; a completed cycle otherwise just sits in its terminal
// display state.
func RecordExpense(p models.Profile, m models.Movement, now time.Time) (models.Profile, error) {
	if !m.Amount.IsPositive() {
		return p, ErrNonPositiveAmount
	}

	streak, last := ApplyActivity(p.Streak, p.LastStreakDate, now)
	p.Streak = streak
	p.LastStreakDate = &last

	if RemainingTime(p.CycleStart, p.Frequency, now).Completed {
		p.CycleStart = now
	}
	return p, nil
}

// CompleteLesson applies the streak transition for the education feature's
// lesson-completed trigger. It shares the expense path's state machine.
func CompleteLesson(p models.Profile, now time.Time) models.Profile {
	streak, last := ApplyActivity(p.Streak, p.LastStreakDate, now)
	p.Streak = streak
	p.LastStreakDate = &last
	return p
}

// LoadProfile runs the streak decay check that the app performs when a
// session starts.
func LoadProfile(p models.Profile, now time.Time) models.Profile {
	p.Streak = DecayStreak(p.Streak, p.LastStreakDate, now)
	return p
}
