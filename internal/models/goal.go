package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SavingsGoal is a named savings target. Current may transiently exceed
// Target; clamping happens only in display projections, never on write.
type SavingsGoal struct {
	ID        uuid.UUID       `json:"id"`
	UserID    int64           `json:"user_id"`
	Name      string          `json:"name"`
	Target    decimal.Decimal `json:"targetAmount"`
	Current   decimal.Decimal `json:"currentAmount"`
	CreatedAt time.Time       `json:"created_at"`
}

// Progress returns the display-clamped completion percentage in [0,100].
func (g SavingsGoal) Progress() float64 {
	if !g.Target.IsPositive() {
		return 0
	}
	pct, _ := g.Current.Div(g.Target).Mul(decimal.NewFromInt(100)).Float64()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
