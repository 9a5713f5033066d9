package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Search terms are truncated to this many characters after sanitization.
const maxSearchLength = 100

var (
	jsURIRe        = regexp.MustCompile(`(?i)javascript:`)
	eventHandlerRe = regexp.MustCompile(`(?i)\bon\w+\s*=`)
	quoteSemiRe    = regexp.MustCompile("[\"'`;]")
)

// SanitizeString strips markup-significant characters from untrusted text:
// angle brackets, javascript: URIs and inline event-handler attribute
// patterns. Parameterized statements remain the actual injection boundary.
func SanitizeString(value string) string {
	s := strings.ReplaceAll(value, "<", "")
	s = strings.ReplaceAll(s, ">", "")
	s = jsURIRe.ReplaceAllString(s, "")
	s = eventHandlerRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SanitizeSearchQuery sanitizes a free-text search term: everything
// SanitizeString strips, plus quotes and semicolons, truncated to 100
// characters.
func SanitizeSearchQuery(value string) string {
	s := SanitizeString(value)
	s = quoteSemiRe.ReplaceAllString(s, "")
	if utf8.RuneCountInString(s) > maxSearchLength {
		// Cut on a rune boundary so multi-byte input never ends mid-sequence.
		s = string([]rune(s)[:maxSearchLength])
	}
	return strings.TrimSpace(s)
}

// ValidateSortField reports whether field is in the allow-list. Dynamic
// ORDER BY construction must only ever use a value that passed this check.
func ValidateSortField(field string, allowed []string) bool {
	for _, a := range allowed {
		if field == a {
			return true
		}
	}
	return false
}

// ValidateSortDirection reports whether direction is ASC or DESC
// (case-insensitive).
func ValidateSortDirection(direction string) bool {
	switch strings.ToUpper(strings.TrimSpace(direction)) {
	case "ASC", "DESC":
		return true
	default:
		return false
	}
}
