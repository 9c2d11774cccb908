package util

import (
	"fmt"
	"strconv"
	"strings"
)

// Money is handled in cents internally. The API accepts and returns decimal
// strings with at most two fraction digits, e.g. "400000" or "12.34".

// ParseAmount converts a decimal string to cents, rounding half-up at the
// second fraction digit.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is empty")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if f < 0 {
		return int64(f*100 - 0.5), nil
	}
	return int64(f*100 + 0.5), nil
}

// FormatAmount renders cents as a decimal string with two fraction digits.
func FormatAmount(cents int64) string {
	return strconv.FormatFloat(float64(cents)/100.0, 'f', 2, 64)
}
