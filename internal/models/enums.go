package models

import "fmt"

// Category is the 50/30/20 bucket a movement belongs to.
type Category string

const (
	CategoryNeeds   Category = "NEEDS"
	CategoryWants   Category = "WANTS"
	CategorySavings Category = "SAVINGS"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryNeeds, CategoryWants, CategorySavings}

// ParseCategory validates a raw category string.
func ParseCategory(raw string) (Category, error) {
	switch Category(raw) {
	case CategoryNeeds, CategoryWants, CategorySavings:
		return Category(raw), nil
	}
	return "", fmt.Errorf("invalid category %q", raw)
}

// Frequency is a pay or recurrence cadence.
type Frequency string

const (
	FrequencyWeekly   Frequency = "WEEKLY"
	FrequencyBiweekly Frequency = "BIWEEKLY"
	FrequencyMonthly  Frequency = "MONTHLY"
)

// ParseFrequency validates a raw frequency string.
func ParseFrequency(raw string) (Frequency, error) {
	switch Frequency(raw) {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return Frequency(raw), nil
	}
	return "", fmt.Errorf("invalid frequency %q", raw)
}
