package budget

import (
	"github.com/shopspring/decimal"

	"github.com/zcorpion/zcorpion-be/internal/models"
)

var (
	four = decimal.NewFromInt(4)
	two  = decimal.NewFromInt(2)

	needsShare   = decimal.NewFromFloat(0.50)
	wantsShare   = decimal.NewFromFloat(0.30)
	savingsShare = decimal.NewFromFloat(0.20)
)

// MonthlyIncome normalizes per-period income to a monthly figure: weekly ×4,
// biweekly ×2, monthly ×1. An approximation, not calendar-accurate.
func MonthlyIncome(income decimal.Decimal, freq models.Frequency) decimal.Decimal {
	switch freq {
	case models.FrequencyWeekly:
		return income.Mul(four)
	case models.FrequencyBiweekly:
		return income.Mul(two)
	default:
		return income
	}
}

// Split allocates a normalized monthly income 50/30/20 across the categories.
func Split(monthlyIncome decimal.Decimal) map[models.Category]decimal.Decimal {
	return map[models.Category]decimal.Decimal{
		models.CategoryNeeds:   monthlyIncome.Mul(needsShare),
		models.CategoryWants:   monthlyIncome.Mul(wantsShare),
		models.CategorySavings: monthlyIncome.Mul(savingsShare),
	}
}
