// Package calendar holds the date arithmetic every payment-cycle
// computation composes from. All helpers are pure and clamp nominal
// days-of-month to the actual length of the target month.
package calendar

import (
	"errors"
	"time"
)

var ErrInvalidMonth = errors.New("invalid_month")

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year, month int) (int, error) {
	if month < 1 || month > 12 {
		return 0, ErrInvalidMonth
	}
	// Day zero of the following month is the last day of this one.
	last := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
	return last.Day(), nil
}

// ClampDay reduces a nominal day-of-month to the last day of shorter months.
func ClampDay(day, year, month int) (int, error) {
	last, err := LastDayOfMonth(year, month)
	if err != nil {
		return 0, err
	}
	if day > last {
		return last, nil
	}
	if day < 1 {
		return 1, nil
	}
	return day, nil
}

// DateOf builds a UTC midnight date with the day clamped to the month.
func DateOf(year, month, day int) (time.Time, error) {
	clamped, err := ClampDay(day, year, month)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), clamped, 0, 0, 0, 0, time.UTC), nil
}

// AddMonths advances t by n calendar months, clamping the day to the
// resulting month's length. Unlike time.AddDate this never rolls over
// into the following month (Jan 31 + 1 month is Feb 28, not Mar 3).
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + n
	year += total / 12
	month = time.Month(total%12 + 1)
	if month < 1 {
		month += 12
		year--
	}
	last, _ := LastDayOfMonth(year, int(month))
	if day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYears advances t by n years, clamping Feb 29 to Feb 28 off leap years.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, n*12)
}

// Midnight truncates t to UTC midnight. Payment dates are compared at
// day granularity throughout.
func Midnight(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
