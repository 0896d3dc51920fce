package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jerusalem(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)
	return loc
}

func TestParseDay_PlainDate(t *testing.T) {
	loc := jerusalem(t)

	day, err := ParseDay("2024-01-06", loc)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, loc), day)
}

func TestParseDay_TimestampConvertedToZone(t *testing.T) {
	loc := jerusalem(t)

	// 23:30 UTC is already the next day in Jerusalem (UTC+2 in winter)
	day, err := ParseDay("2024-01-05T23:30:00Z", loc)

	require.NoError(t, err)
	assert.Equal(t, "2024-01-06", day.Format(DATE_LAYOUT))
}

func TestParseDay_Invalid(t *testing.T) {
	loc := jerusalem(t)

	_, err := ParseDay("not a date", loc)
	assert.Error(t, err)

	_, err = ParseDay("  ", loc)
	assert.Error(t, err)
}

func TestDayKey_UsesReferenceZone(t *testing.T) {
	loc := jerusalem(t)
	instant := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-11", DayKey(instant, loc))
	assert.Equal(t, "2024-03-10", DayKey(instant, time.UTC))
}

func TestFormatDisplay(t *testing.T) {
	loc := jerusalem(t)

	assert.Equal(t, "06/01/2024", FormatDisplay("2024-01-06", loc))
	assert.Equal(t, "-", FormatDisplay("", loc))
}
