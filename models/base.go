package models

import (
	"errors"
	"regexp"
	"time"
)

/// GSTIN: 2-digit state code, 10-char PAN, entity code, 'Z', checksum.
var gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

func IsValidGstin(gstin string) bool {
	return gstinPattern.MatchString(gstin)
}

// MonthRange returns the inclusive UTC range for a filing period.
// Out-of-range input is rejected instead of silently producing an empty range.
func MonthRange(month int, year int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, errors.New("month must be between 1 and 12")
	}
	if year < 1000 || year > 9999 {
		return time.Time{}, time.Time{}, errors.New("year must be a four-digit number")
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// FiscalYearRange returns April 1st of year through March 31st of year+1.
func FiscalYearRange(year int) (time.Time, time.Time, error) {
	if year < 1000 || year > 9999 {
		return time.Time{}, time.Time{}, errors.New("year must be a four-digit number")
	}
	start := time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return start, end, nil
}

// ParseDateRange parses startDate/endDate query params ("2006-01-02"),
// end of range pushed to end of day.
func ParseDateRange(startDate string, endDate string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("startDate must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("endDate must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, errors.New("endDate must not be before startDate")
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}
