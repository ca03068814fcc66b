package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReminderConfig holds the optional expense-logging reminder settings.
type ReminderConfig struct {
	Enabled bool   `json:"enabled"`
	Time    string `json:"time"` // HH:MM
	Repeat  string `json:"frequency"`
	Message string `json:"customMessage,omitempty"`
}

const (
	ReminderDaily  = "DAILY"
	ReminderWeekly = "WEEKLY"
)

// DefaultReminders returns the reminder settings applied at onboarding.
func DefaultReminders() ReminderConfig {
	return ReminderConfig{
		Enabled: false,
		Time:    "20:00",
		Repeat:  ReminderDaily,
		Message: "¡Es hora de registrar tus movimientos! No olvides tus gastos fijos 🦂",
	}
}

// Profile is the budgeting profile owned by one user. Income is the amount
// received per pay period, not per month; Streak and LastStreakDate track
// the daily-activity streak, and CycleStart anchors the current budget cycle.
type Profile struct {
	UserID         int64           `json:"user_id"`
	Username       string          `json:"username"`
	Income         decimal.Decimal `json:"income"`
	Frequency      Frequency       `json:"frequency"`
	Currency       string          `json:"currency"`
	Streak         int             `json:"streak"`
	CycleStart     time.Time       `json:"cycle_start"`
	LastStreakDate *time.Time      `json:"last_streak_date,omitempty"`
	Reminders      ReminderConfig  `json:"reminders"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
