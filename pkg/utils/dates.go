package utils

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// Date layouts
const (
	DATE_LAYOUT    = "2006-01-02"
	DISPLAY_LAYOUT = "02/01/2006"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDay parses a stored date into midnight of its calendar day in loc.
// Plain dates are taken as-is; timestamps are converted to loc first.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	if t, err := time.ParseInLocation(DATE_LAYOUT, value, loc); err == nil {
		return t, nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return StartOfDay(t, loc), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognised date %q", value)
}

// StartOfDay returns midnight of t's calendar day in loc
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// AddDays moves a day boundary by n calendar days, DST-safe
func AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// DayKey is the YYYY-MM-DD identifier of t's calendar day in loc
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DATE_LAYOUT)
}

// FormatDisplay renders a stored date as DD/MM/YYYY, or "-" when empty
// or unparseable.
func FormatDisplay(value string, loc *time.Location) string {
	day, err := ParseDay(value, loc)
	if err != nil {
		return "-"
	}
	return day.Format(DISPLAY_LAYOUT)
}
