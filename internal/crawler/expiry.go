package crawler

import (
	"strings"
	"time"
)

// expiryWindow is the default validity period assumed when a source gives
// no usable expiry hint.
const expiryWindow = 7 * 24 * time.Hour

// NextWeek returns the default expiry timestamp, one week from now.
func NextWeek(now time.Time) time.Time {
	return now.Add(expiryWindow)
}

// ParseExpiryHint maps a free-text expiry annotation to a timestamp.
// Only the forms sources actually use are understood; anything else
// reports false and callers fall back to the one-week default.
func ParseExpiryHint(hint string, now time.Time) (time.Time, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if h == "" {
		return time.Time{}, false
	}

	if strings.Contains(h, "next week") {
		return NextWeek(now), true
	}

	return time.Time{}, false
}

// expiryHintIn extracts a candidate expiry annotation from the text that
// follows a code token on the same line.
func expiryHintIn(rest string) string {
	r := strings.ToLower(rest)
	if strings.Contains(r, "expir") || strings.Contains(r, "valid until") || strings.Contains(r, "next week") {
		return strings.TrimSpace(rest)
	}
	return ""
}
