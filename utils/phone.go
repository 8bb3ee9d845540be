package utils

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// NormalizePhone formats a phone number to E.164 (default region IN).
// Unparseable input is stored trimmed as-is rather than rejected.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := libphonenumber.Parse(raw, "IN")
	if err != nil {
		return raw
	}
	if !libphonenumber.IsValidNumber(num) {
		return raw
	}
	return libphonenumber.Format(num, libphonenumber.E164)
}
