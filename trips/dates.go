package trips

import (
	"regexp"
	"strings"
)

var dateOnlyPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`)

// NormalizeDateOnly canonicalizes a date-like value to YYYY-MM-DD by pure text
// slicing. ISO timestamps with a timezone (e.g. 2026-02-28T00:00:00.000Z) must
// never be parsed as time values here: interpreting UTC midnight in a local
// timezone can roll the date back a day.
func NormalizeDateOnly(value string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return ""
	}
	if len(s) >= 10 && dateOnlyPrefix.MatchString(s) {
		return s[:10]
	}
	if idx := timeSeparatorIndex(s); idx >= 0 {
		return s[:idx]
	}
	return s
}

// timeSeparatorIndex finds a T acting as a date/time separator, i.e. one that
// follows a digit. A T starting a word ("Tuesday") is ordinary text.
func timeSeparatorIndex(s string) int {
	for i := 1; i < len(s); i++ {
		if s[i] == 'T' && s[i-1] >= '0' && s[i-1] <= '9' {
			return i
		}
	}
	return -1
}
