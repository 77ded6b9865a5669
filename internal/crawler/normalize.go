package crawler

import (
	"strings"
)

// isCodeChar reports whether r belongs to the normalized code alphabet.
func isCodeChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-'
}

// Normalize canonicalizes a code string for identity comparison: trim,
// collapse internal whitespace runs to a single space, uppercase, strip
// trailing characters outside the code alphabet. Two candidates with equal
// normalized forms are the same logical code regardless of surface
// formatting. Normalize is idempotent.
func Normalize(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	s = strings.ToUpper(s)

	for len(s) > 0 {
		r := rune(s[len(s)-1])
		if isCodeChar(r) {
			break
		}
		s = s[:len(s)-1]
	}

	return s
}

// HasValidShape reports whether a code has one of the lengths the game
// issues, ignoring dashes.
func HasValidShape(code string) bool {
	n := len(strings.ReplaceAll(code, "-", ""))
	return n == 16 || n == 12
}
