// Package timeutil holds every piece of clock arithmetic the booking core needs.
//
// Slot logic never manipulates raw clock values: weekdays, local-to-absolute
// conversion and "now" all come from here. Weekdays follow the Sunday = 0
// convention everywhere (availability storage, admin API and slot resolution).
package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-EmbedBooking/pkg/types"
)

var (
	ErrInvalidDate       = errors.New("timeutil: invalid date")
	ErrInvalidTimeFormat = errors.New("timeutil: invalid time format")
	ErrUnknownTimezone   = errors.New("timeutil: unknown timezone")
)

// DateLayout calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Clock is the source of "now". Tests substitute a fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// ParseDate parses YYYY-MM-DD into a civil date (midnight UTC).
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders the civil date part of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayOfWeek returns 0..6 with Sunday = 0 for the calendar date of d.
// Only the year/month/day fields are used, so the location of d is irrelevant.
func DayOfWeek(d time.Time) int {
	y, m, day := d.Date()
	return int(time.Date(y, m, day, 0, 0, 0, 0, time.UTC).Weekday())
}

// Combine builds the absolute instant of a local wall-clock time on a calendar date in loc.
func Combine(date time.Time, timeOfDay types.TimeString, loc *time.Location) (time.Time, error) {
	h, m, s, err := timeOfDay.Clock()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimeFormat, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	y, mon, d := date.Date()
	return time.Date(y, mon, d, h, m, s, 0, loc), nil
}

// LoadLocation resolves an IANA zone name. Empty means UTC.
func LoadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTimezone, name)
	}
	return loc, nil
}

// SameDate compares calendar dates only.
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
