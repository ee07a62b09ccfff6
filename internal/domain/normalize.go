package domain

import (
	"regexp"
	"strings"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// NormalizeCode trims surrounding whitespace and uppercases a trip code.
// Codes are the business key for trips and are stored uppercase.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidCode reports whether s is a well-formed (already normalized) trip
// code: non-empty, uppercase letters and digits only.
func IsValidCode(s string) bool {
	return codePattern.MatchString(s)
}

// NormalizeHumanName trims leading/trailing whitespace and collapses internal
// whitespace runs. Used for trip names, resort names, and review authors.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
