package models

import (
	"fmt"
	"strconv"
	"strings"
)

// GTFSTime is a stop-time clock value. Hours may exceed 23 for trips that
// run past midnight of their service day.
type GTFSTime struct {
	Hours   int
	Minutes int
	Seconds int
}

// ParseGTFSTime parses "H:MM:SS" / "HH:MM:SS" clock text.
func ParseGTFSTime(s string) (GTFSTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return GTFSTime{}, fmt.Errorf("invalid time format: %q", s)
	}

	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return GTFSTime{}, fmt.Errorf("invalid time component %q in %q: %w", p, s, err)
		}
		if v < 0 {
			return GTFSTime{}, fmt.Errorf("negative time component in %q", s)
		}
		fields[i] = v
	}

	return GTFSTime{Hours: fields[0], Minutes: fields[1], Seconds: fields[2]}, nil
}

// SinceMidnight returns the number of seconds since the service day's midnight.
func (t GTFSTime) SinceMidnight() int {
	return t.Hours*3600 + t.Minutes*60 + t.Seconds
}

// IsNextDay reports whether the clock belongs to the calendar day after its
// service day (hours >= 24).
func (t GTFSTime) IsNextDay() bool {
	return t.Hours >= 24
}

// Normalize folds the hour component into 0-23.
func (t GTFSTime) Normalize() GTFSTime {
	return GTFSTime{Hours: t.Hours % 24, Minutes: t.Minutes, Seconds: t.Seconds}
}

func (t GTFSTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hours, t.Minutes, t.Seconds)
}

// FormatClock zero-pads a raw clock keeping hours >= 24. Unparsable input is
// returned unchanged.
func FormatClock(raw string) string {
	t, err := ParseGTFSTime(raw)
	if err != nil {
		return raw
	}
	return t.String()
}

// NormalizeClock is FormatClock with the hour folded into 0-23.
func NormalizeClock(raw string) string {
	t, err := ParseGTFSTime(raw)
	if err != nil {
		return raw
	}
	return t.Normalize().String()
}
