// Package inputx normalizes and validates user-supplied strings before they
// are stored or compared.
package inputx

import (
	"regexp"
	"strings"
)

var (
	scriptScheme = regexp.MustCompile(`(?i)javascript:`)
	eventHandler = regexp.MustCompile(`(?i)on\w+=`)

	entityReplacer = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&#x27;", "'",
		"&#x2F;", "/",
		"&#47;", "/",
	)
)

// Sanitize trims text, drops angle brackets, "javascript:" schemes and inline
// event-handler fragments, then un-escapes a fixed set of HTML entities.
//
// Un-escaping runs last, so "&lt;b&gt;" comes out as "<b>".
func Sanitize(text string) string {
	s := strings.TrimSpace(text)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	s = scriptScheme.ReplaceAllString(s, "")
	s = eventHandler.ReplaceAllString(s, "")
	s = entityReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// NormalizeEmail sanitizes and lower-cases an email or sign-in identifier.
func NormalizeEmail(text string) string {
	return strings.ToLower(Sanitize(text))
}
