package utils

import (
	"fmt"
	"time"
)

// ParseEventDate parses a YYYY-MM-DD calendar date
func ParseEventDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// NormalizeDate truncates a timestamp to midnight UTC so calendar dates
// compare by equality
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseClockTime validates an HH:MM (or HH:MM:SS) time of day and returns
// it normalized to zero-padded HH:MM. Normalized clock strings compare
// correctly as plain strings.
func ParseClockTime(s string) (string, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04"), nil
		}
	}
	return "", fmt.Errorf("invalid time %q, expected HH:MM", s)
}

// IsPastDate reports whether the date is strictly before today (UTC)
func IsPastDate(d time.Time) bool {
	today := NormalizeDate(time.Now().UTC())
	return NormalizeDate(d).Before(today)
}
