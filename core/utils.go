package core

import (
	"strings"
	"time"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// DateOnly drops the time-of-day part of `t`, keeping the UTC calendar day.
// Attendance and fee records are keyed by day.
func DateOnly(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}
