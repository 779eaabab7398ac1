package match

import (
	"log/slog"
	"strings"
	"time"
)

// dateFormats are tried in order; first parse wins.
var dateFormats = []string{"2006-01-02", "01/02/2006", "01-02-2006"}

// NormalizeString trims and lowercases; absent values pass through as "".
func NormalizeString(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ParseDate parses a value using the prioritized format list and returns a
// timezone-naive calendar date. A zero time is the "no date" sentinel: parse
// failures are logged as warnings, never surfaced as errors, so normalization
// can never abort a pipeline run.
func ParseDate(v string) time.Time {
	raw := strings.TrimSpace(v)
	if raw == "" || raw == "N/A" || raw == "NaT" || strings.Contains(raw, "N/A") {
		return time.Time{}
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return DateOnly(t)
		}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return DateOnly(t)
	}
	slog.Warn("date_parse_failed", "value", raw)
	return time.Time{}
}

// DateOnly discards time-of-day and timezone, keeping calendar-date semantics.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
