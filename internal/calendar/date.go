// Package calendar provides Panchang (Hindu lunisolar calendar) calculations.
//
// Everything in this package is a pure function of its arguments. The
// values it produces come from a calibrated cyclic model anchored on the
// Purnima of 1 February 2026, not from an ephemeris, so they are only
// meaningful close to that anchor.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// DateLayout is the ISO date format used for input, output and festival keys.
const DateLayout = "2006-01-02"

// ErrInvalidDate is returned when a date, month or year cannot be used.
var ErrInvalidDate = errors.New("invalid date")

// ParseDate parses a date string in YYYY-MM-DD format.
// The result is midnight UTC on that civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: use YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD.
func FormatDate(date time.Time) string {
	return date.Format(DateLayout)
}

// CivilDate drops the clock and location of t, keeping the year, month and
// day as seen in t's own location.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart validates a year and a 1-based month and returns the first day
// of that month.
func MonthStart(year, month int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("%w: month must be between 1 and 12, got %d", ErrInvalidDate, month)
	}
	if year < 1 || year > 9999 {
		return time.Time{}, fmt.Errorf("%w: year must be between 1 and 9999, got %d", ErrInvalidDate, year)
	}
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date time.Time) string {
	return date.Weekday().String()
}

// monthIndex returns the 0-based month (January = 0).
func monthIndex(date time.Time) int {
	return int(date.Month()) - 1
}

// mod is the floored modulo, always in [0, n) for n > 0.
func mod(a, n int) int {
	r := a % n
	if r < 0 {
		r += n
	}
	return r
}
