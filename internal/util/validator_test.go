package util

import "testing"

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		cents   int64
		wantErr bool
	}{
		{1, false},
		{40_000_000, false},
		{99_999_999_999, false},
		{0, true},
		{-500, true},
		{100_000_000_000, true},
	}
	for _, tt := range tests {
		err := ValidateAmount(tt.cents)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAmount(%d) error = %v, wantErr %v", tt.cents, err, tt.wantErr)
		}
	}
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2025-06-15", false},
		{"2024-02-29", false},
		{"", true},
		{"15-06-2025", true},
		{"2025-13-01", true},
		{"2025-06-15T00:00:00Z", true},
	}
	for _, tt := range tests {
		err := ValidateDate(tt.date)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
		}
	}
}

func TestValidateAllocationPct(t *testing.T) {
	tests := []struct {
		pct     float64
		wantErr bool
	}{
		{0, false},
		{33.5, false},
		{100, false},
		{-0.1, true},
		{100.1, true},
	}
	for _, tt := range tests {
		err := ValidateAllocationPct(tt.pct)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateAllocationPct(%v) error = %v, wantErr %v", tt.pct, err, tt.wantErr)
		}
	}
}
