package models

import (
	"testing"
	"time"
)

func TestIsValidGstin(t *testing.T) {
	cases := []struct {
		gstin string
		valid bool
	}{
		{"08AABCU9603R1ZX", true},
		{"27AAPFU0939F1ZV", true},
		{"08AABCU9603R1YX", false}, // 14th char must be Z
		{"8AABCU9603R1ZX", false},
		{"08aabcu9603r1zx", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidGstin(tc.gstin); got != tc.valid {
			t.Fatalf("IsValidGstin(%q) expected %v, got %v", tc.gstin, tc.valid, got)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange(2, 2024)
	if err != nil {
		t.Fatalf("MonthRange error: %v", err)
	}
	if start.Day() != 1 || start.Month() != time.February {
		t.Fatalf("unexpected start %v", start)
	}
	// leap year February ends on the 29th
	if end.Day() != 29 || end.Month() != time.February {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestMonthRange_RejectsBadInput(t *testing.T) {
	if _, _, err := MonthRange(0, 2024); err == nil {
		t.Fatalf("month 0 should be rejected")
	}
	if _, _, err := MonthRange(13, 2024); err == nil {
		t.Fatalf("month 13 should be rejected")
	}
	if _, _, err := MonthRange(6, 24); err == nil {
		t.Fatalf("two-digit year should be rejected")
	}
}

func TestFiscalYearRange(t *testing.T) {
	start, end, err := FiscalYearRange(2023)
	if err != nil {
		t.Fatalf("FiscalYearRange error: %v", err)
	}
	if start.Month() != time.April || start.Year() != 2023 {
		t.Fatalf("fiscal year should start in April 2023, got %v", start)
	}
	if end.Month() != time.March || end.Year() != 2024 || end.Day() != 31 {
		t.Fatalf("fiscal year should end March 31 2024, got %v", end)
	}
}

func TestParseDateRange(t *testing.T) {
	start, end, err := ParseDateRange("2024-01-01", "2024-01-31")
	if err != nil {
		t.Fatalf("ParseDateRange error: %v", err)
	}
	if start.Day() != 1 {
		t.Fatalf("unexpected start %v", start)
	}
	if end.Day() != 31 || end.Hour() != 23 {
		t.Fatalf("end should be pushed to end of day, got %v", end)
	}

	if _, _, err := ParseDateRange("2024-02-01", "2024-01-01"); err == nil {
		t.Fatalf("inverted range should be rejected")
	}
	if _, _, err := ParseDateRange("01-01-2024", "2024-01-31"); err == nil {
		t.Fatalf("wrong date format should be rejected")
	}
}
