package utils

import "strings"

// NormalizePhone converts a Sri Lankan phone number into the form stored in
// users.phone: digits only, with the country code (+94 / 0094 / 94) or the
// trunk prefix 0 removed.  "0771234567", "+94 77 123 4567" and
// "94771234567" all become "771234567".
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "0094"):
		digits = digits[4:]
	case strings.HasPrefix(digits, "94") && len(digits) > 9:
		digits = digits[2:]
	}
	return strings.TrimLeft(digits, "0")
}

// ValidPhone reports whether raw normalizes to at least a full subscriber
// number (nine digits).
func ValidPhone(raw string) bool {
	return len(NormalizePhone(raw)) >= 9
}
