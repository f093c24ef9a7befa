package geo

import "strings"

// NormalizeZip returns the 5-digit postal code for raw input.
// Longer values ("60614-1234", "606141234") are truncated to five characters;
// anything that is not five digits after truncation is rejected.
func NormalizeZip(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) > 5 {
		s = s[:5]
	}
	if len(s) != 5 || !allDigits(s) {
		return "", false
	}
	return s, true
}

// ZipPrefix returns the leading 3-digit prefix of raw, or false when raw has
// fewer than three leading digits.
func ZipPrefix(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if len(s) < 3 || !allDigits(s[:3]) {
		return "", false
	}
	return s[:3], true
}

// NormalizeState trims and uppercases a state code.
func NormalizeState(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
