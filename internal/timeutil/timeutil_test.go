package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

func TestDayOfWeek_SundayIsZero(t *testing.T) {
	// 2026-10-18 is a Sunday
	sunday, err := ParseDate("2026-10-18")
	require.NoError(t, err)

	for offset := 0; offset < 7; offset++ {
		assert.Equal(t, offset, DayOfWeek(sunday.AddDate(0, 0, offset)))
	}
}

func TestDayOfWeek_IgnoresLocation(t *testing.T) {
	tokyo, err := LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Monday 00:30 in Tokyo is still Sunday in UTC; the calendar date wins.
	d := time.Date(2026, 10, 19, 0, 30, 0, 0, tokyo)
	assert.Equal(t, 1, DayOfWeek(d))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-28", FormatDate(d))

	_, err = ParseDate("2026-02-30")
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = ParseDate("28.02.2026")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestCombine(t *testing.T) {
	la, err := LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	date, err := ParseDate("2026-10-19")
	require.NoError(t, err)

	got, err := Combine(date, types.TimeString("09:00:00"), la)
	require.NoError(t, err)
	// PDT is UTC-7 in October
	assert.Equal(t, time.Date(2026, 10, 19, 16, 0, 0, 0, time.UTC), got.UTC())

	_, err = Combine(date, types.TimeString("9am"), la)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestCombine_AcrossDSTChange(t *testing.T) {
	la, err := LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	before, err := Combine(time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC), "09:00:00", la)
	require.NoError(t, err)
	after, err := Combine(time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), "09:00:00", la)
	require.NoError(t, err)

	// Same wall clock, different UTC offsets once daylight time ends on Nov 1.
	assert.Equal(t, 16, before.UTC().Hour())
	assert.Equal(t, 17, after.UTC().Hour())
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrUnknownTimezone)
}
