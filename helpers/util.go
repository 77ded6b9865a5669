package helpers

import (
	"strconv"
	"time"
)

// defaultRetryAfter is used when a source rate-limits us without saying
// for how long.
const defaultRetryAfter = 5 * time.Minute

// ParseRetryAfter interprets a Retry-After header value in seconds.
func ParseRetryAfter(value string) time.Duration {
	if value == "" {
		return defaultRetryAfter
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(seconds) * time.Second
}
