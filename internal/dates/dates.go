// Package dates pins every "today" in upwell to a single civil calendar and
// provides the calendar arithmetic the rest of the app builds on.
//
// Dates travel through the app as "YYYY-MM-DD" strings. The reference date is
// always passed in explicitly; only the cmd layer reads the wall clock.
package dates

import (
	"errors"
	"fmt"
	"time"
)

// Layout is the on-disk and in-memory date format.
const Layout = "2006-01-02"

// Offset is subtracted from UTC to find the civil date. It is a fixed
// constant and intentionally ignores daylight-saving rules.
const Offset = 3 * time.Hour

// ErrInvalidDate is returned when a string is not a real YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid date")

// Today returns the civil date for now at UTC-3.
func Today(now time.Time) string {
	return now.UTC().Add(-Offset).Format(Layout)
}

// Parse strictly parses a YYYY-MM-DD string into midnight UTC.
func Parse(s string) (time.Time, error) {
	if len(s) != len(Layout) {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: expected YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// Valid reports whether s parses as a date.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// AddDays returns s shifted by n calendar days.
func AddDays(s string, n int) (string, error) {
	t, err := Parse(s)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, n).Format(Layout), nil
}

// DaysBetween returns the number of calendar days from `from` to `to`.
// The result is negative when to is before from.
func DaysBetween(from, to string) (int, error) {
	a, err := Parse(from)
	if err != nil {
		return 0, err
	}
	b, err := Parse(to)
	if err != nil {
		return 0, err
	}
	// Both are UTC midnights. Unix seconds cover the whole 0001-9999 range
	// where time.Duration would overflow.
	return int((b.Unix() - a.Unix()) / 86400), nil
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last dates of a month.
func MonthBounds(year int, month time.Month) (first, last string) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Format(Layout)
	last = time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, time.UTC).Format(Layout)
	return first, last
}

// Weekday returns the column of s in a Monday-first week: Monday is 0 and
// Sunday is 6.
func Weekday(s string) (int, error) {
	t, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return (int(t.Weekday()) + 6) % 7, nil
}

// StartOfWeek returns the Monday of the week containing s. A Sunday belongs
// to the week that started six days earlier.
func StartOfWeek(s string) (string, error) {
	col, err := Weekday(s)
	if err != nil {
		return "", err
	}
	return AddDays(s, -col)
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil || len(s) != 7 {
		return 0, 0, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return t.Year(), t.Month(), nil
}
