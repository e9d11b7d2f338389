package taxon

import (
	"strings"
	"unicode"
)

// ValidName reports whether s is acceptable as a family or genus
// name: non-empty after trimming, no control characters, no internal
// whitespace.
func ValidName(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// ValidEpithet reports whether s is acceptable as a specific epithet:
// letters and hyphens only, starting with a letter. Epithets are
// lowercase by convention but historical names with capitals are let
// through; comparison is always case-insensitive.
func ValidEpithet(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case unicode.IsLetter(r):
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return true
}

// ValidAuthority reports whether s is acceptable as an authority
// citation. Empty authority is allowed; line breaks, tabs, and other
// control characters are not.
func ValidAuthority(s string) bool {
	if s != strings.TrimSpace(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
