package inputx

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{2,15}$`)
)

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// ValidPhone reports whether s, with whitespace removed, is an optional '+'
// followed by 2 to 15 digits.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(stripSpace(s))
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// NormalizePhone sanitizes s and drops all whitespace.
func NormalizePhone(s string) string {
	return stripSpace(Sanitize(s))
}
