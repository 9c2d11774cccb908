package util

import (
	"fmt"
	"time"
)

// maximum accepted amount: one billion units, in cents
const maxAmountCents int64 = 100_000_000_000

// ValidateAmount checks that a cent amount is positive and below the cap.
func ValidateAmount(cents int64) error {
	if cents <= 0 {
		return fmt.Errorf("amount must be positive, got %d", cents)
	}
	if cents >= maxAmountCents {
		return fmt.Errorf("amount too large, got %d", cents)
	}
	return nil
}

// ValidateDate checks a YYYY-MM-DD date string.
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	_, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateAllocationPct checks a goal's declared allocation share.
func ValidateAllocationPct(pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("allocation_pct must be between 0 and 100, got %v", pct)
	}
	return nil
}
