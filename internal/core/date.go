package core

import (
	"fmt"
	"time"
)

// DateFormat is the canonical YYYY-MM-DD representation used everywhere a
// date crosses a boundary (storage, API, logs).
const DateFormat = "2006-01-02"

// Date is a calendar date with day granularity, anchored at midnight UTC.
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	y, m, d := time.Now().UTC().Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want format %q: %w", s, DateFormat, err)
	}
	return Date{Time: t}, nil
}

// String formats the date in its canonical form.
func (d Date) String() string {
	return d.Time.Format(DateFormat)
}

// OnOrBefore reports whether d is the same day as x or earlier.
func (d Date) OnOrBefore(x Date) bool {
	return !d.Time.After(x.Time)
}

// AddMonths advances the date by n calendar months, clamping to the last
// day of the target month so that Jan 31 + 1 month is Feb 29/28 rather
// than Mar 2/3.
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Time.Date()
	target := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if day > lastDay {
		day = lastDay
	}
	return NewDate(target.Year(), int(target.Month()), day)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("date cannot be zero")
	}
	return nil
}
