package utils

import (
	"testing"
	"time"
)

func TestParseEventDate(t *testing.T) {
	d, err := ParseEventDate("2026-03-15")
	if err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.March || d.Day() != 15 {
		t.Errorf("parsed wrong date: %v", d)
	}

	for _, bad := range []string{"", "15-03-2026", "2026/03/15", "2026-13-01", "2026-02-30", "next friday"} {
		if _, err := ParseEventDate(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseClockTime(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:30", "09:30"},
		{"18:00", "18:00"},
		{"00:00", "00:00"},
		{"23:59", "23:59"},
		{"18:00:30", "18:00"}, // seconds accepted and dropped
	}
	for _, c := range cases {
		got, err := ParseClockTime(c.in)
		if err != nil {
			t.Errorf("ParseClockTime(%q) failed: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseClockTime(%q) = %q, want %q", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "25:00", "12:60", "noon", "1800"} {
		if _, err := ParseClockTime(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	in := time.Date(2026, 8, 30, 17, 45, 12, 999, time.FixedZone("NPT", 5*3600+45*60))
	got := NormalizeDate(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Nanosecond() != 0 {
		t.Errorf("time of day not zeroed: %v", got)
	}
	if got.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", got.Location())
	}
	if got.Year() != 2026 || got.Month() != time.August || got.Day() != 30 {
		t.Errorf("calendar date changed: %v", got)
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Now().UTC()
	if !IsPastDate(now.AddDate(0, 0, -1)) {
		t.Error("yesterday should be past")
	}
	if IsPastDate(now) {
		t.Error("today should not be past")
	}
	if IsPastDate(now.AddDate(0, 0, 1)) {
		t.Error("tomorrow should not be past")
	}
}
