package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/zcorpion/zcorpion-be/internal/advisor"
	"github.com/zcorpion/zcorpion-be/internal/models"
)

// Amounts arrive as JSON strings or numbers; shopspring decimal accepts both
// and rejects anything non-numeric at decode time, so malformed input never
// reaches the engine.

type OnboardingRequest struct {
	Username  string          `json:"username"`
	Income    decimal.Decimal `json:"income"`
	Frequency string          `json:"frequency"`
	Currency  string          `json:"currency"`
}

type UpdateProfileRequest struct {
	Username  *string                `json:"username,omitempty"`
	Income    *decimal.Decimal       `json:"income,omitempty"`
	Frequency *string                `json:"frequency,omitempty"`
	Currency  *string                `json:"currency,omitempty"`
	Reminders *models.ReminderConfig `json:"reminders,omitempty"`
}

type CreateMovementRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        *time.Time      `json:"date,omitempty"`
	IsFixed     bool            `json:"isFixed"`
	Frequency   string          `json:"frequency,omitempty"`
}

type CreateGoalRequest struct {
	Name    string          `json:"name"`
	Target  decimal.Decimal `json:"targetAmount"`
	Current decimal.Decimal `json:"currentAmount,omitempty"`
}

type GoalResponse struct {
	models.SavingsGoal
	Progress float64 `json:"progress"`
}

// CategoryAmount is one row of a chart-facing projection. Zero-total rows
// are dropped before building these.
type CategoryAmount struct {
	Category models.Category `json:"category"`
	Amount   string          `json:"amount"`
}

type DashboardResponse struct {
	Balance          string            `json:"balance"`
	TotalSpent       string            `json:"total_spent"`
	CycleStart       time.Time         `json:"cycle_start"`
	RemainingSeconds int64             `json:"remaining_seconds"`
	RemainingPercent float64           `json:"remaining_percent"`
	CycleCompleted   bool              `json:"cycle_completed"`
	Streak           int               `json:"streak"`
	MonthlyIncome    string            `json:"monthly_income"`
	Split            map[string]string `json:"split"`
	CategoryTotals   []CategoryAmount  `json:"category_totals"`
	CycleExpenses    []models.Movement `json:"cycle_expenses"`
}

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Text string `json:"text"`
}

type AdviceResponse struct {
	Tips []advisor.Tip `json:"tips"`
}
