package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement is a single recorded expense. Movements are immutable after
// insertion except for deletion by id; Fixed marks a recurring expense and
// Recurrence, when set, carries its cadence (distinct from the cycle
// frequency on the profile).
type Movement struct {
	ID          uuid.UUID       `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    Category        `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Fixed       bool            `json:"isFixed,omitempty"`
	Recurrence  *Frequency      `json:"recurrence,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
