// Package clock supplies calendar values derived from wall-clock time: the
// current ISO date, the day before it, and the ISO week identifier. It holds
// no state beyond the time source and location, so tests swap in Fixed.
package clock

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for every stored date.
const DateLayout = "2006-01-02"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// System is the real wall clock, read in Location (time.Local when nil).
type System struct {
	Location *time.Location
}

// Now returns the current time in the configured location.
func (s System) Now() time.Time {
	if s.Location == nil {
		return time.Now()
	}
	return time.Now().In(s.Location)
}

// Fixed always reports T. Advance moves it forward for multi-day scenarios.
type Fixed struct {
	T time.Time
}

// Now returns the fixed instant.
func (f *Fixed) Now() time.Time { return f.T }

// Advance moves the fixed instant forward by the given number of days,
// keeping the wall-clock hour.
func (f *Fixed) Advance(days int) {
	f.T = f.T.AddDate(0, 0, days)
}

// Today returns the ISO date of c's current instant.
func Today(c Clock) string {
	return Date(c.Now())
}

// Date formats t as an ISO calendar date in t's own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Yesterday returns the ISO date of the calendar day before date. It works on
// calendar fields, so DST transitions never skip or repeat a day.
func Yesterday(date string) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parsing date %q: %w", date, err)
	}
	y, m, day := d.Date()
	return time.Date(y, m, day-1, 0, 0, 0, 0, time.UTC).Format(DateLayout), nil
}

// WeekID returns the ISO-8601 week identifier of t, e.g. "2026-W42". The
// year part is the ISO year, which differs from t.Year() around New Year.
func WeekID(t time.Time) string {
	y, w := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", y, w)
}

// ThisWeek returns the ISO week identifier of c's current instant.
func ThisWeek(c Clock) string {
	return WeekID(c.Now())
}
