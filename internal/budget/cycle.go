// Package budget implements the budget-cycle engine: pure functions over
// already-validated profiles and movements. No I/O happens here; parsing and
// validation belong to the HTTP boundary.
package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

// PeriodLength returns the cycle window for a pay frequency. MONTHLY is a
// fixed 30-day window, not a calendar month.
func PeriodLength(freq models.Frequency) time.Duration {
	switch freq {
	case models.FrequencyWeekly:
		return 7 * 24 * time.Hour
	case models.FrequencyBiweekly:
		return 14 * 24 * time.Hour
	default:
		return 30 * 24 * time.Hour
	}
}

// CurrentCycle returns the movements whose date falls within
// [cycleStart, cycleStart+period).
func CurrentCycle(movements []models.Movement, cycleStart time.Time, freq models.Frequency) []models.Movement {
	end := cycleStart.Add(PeriodLength(freq))
	var out []models.Movement
	for _, m := range movements {
		if !m.Date.Before(cycleStart) && m.Date.Before(end) {
			out = append(out, m)
		}
	}
	return out
}

// CycleBalance returns income minus the sum of the given cycle movements.
// Amounts and income are assumed to share the profile currency.
func CycleBalance(income decimal.Decimal, cycle []models.Movement) decimal.Decimal {
	spent := decimal.Zero
	for _, m := range cycle {
		spent = spent.Add(m.Amount)
	}
	return income.Sub(spent)
}

// CategoryTotals sums cycle spend per category. Every category is present in
// the result, zero totals included; dropping zero rows is a chart concern.
func CategoryTotals(cycle []models.Movement) map[models.Category]decimal.Decimal {
	totals := map[models.Category]decimal.Decimal{
		models.CategoryNeeds:   decimal.Zero,
		models.CategoryWants:   decimal.Zero,
		models.CategorySavings: decimal.Zero,
	}
	for _, m := range cycle {
		totals[m.Category] = totals[m.Category].Add(m.Amount)
	}
	return totals
}

// Countdown describes how much of the current cycle is left.
type Countdown struct {
	Remaining time.Duration
	// Percent is the share of the cycle still remaining, in [0,100].
	Percent float64
	// Completed reports that the window has fully elapsed. It is a display
	// state: the cycle start only advances on the next recorded expense,
	// never on a timer.
	Completed bool
}

// RemainingTime computes the countdown until cycleStart+period as of now.
func RemainingTime(cycleStart time.Time, freq models.Frequency, now time.Time) Countdown {
	period := PeriodLength(freq)
	remaining := cycleStart.Add(period).Sub(now)
	if remaining <= 0 {
		return Countdown{Remaining: 0, Percent: 0, Completed: true}
	}
	pct := float64(remaining) / float64(period) * 100
	if pct > 100 {
		pct = 100
	}
	return Countdown{Remaining: remaining, Percent: pct}
}
