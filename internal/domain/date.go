package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates (PostgREST date columns).
const DateLayout = "2006-01-02"

// Date is a calendar date with day resolution. All comparisons in this
// codebase are calendar comparisons; the time-of-day component is always
// midnight UTC.
type Date struct {
	time.Time
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// AddMonths returns the date shifted by n calendar months, clamping the day
// to the target month's length (Jan 31 + 1 month = Feb 28/29, not Mar 2/3).
func (d Date) AddMonths(n int) Date {
	y, m, day := d.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return NewDate(first.Year(), first.Month(), clampDay(first.Year(), first.Month(), day))
}

// WithDay returns the date with its day-of-month replaced, clamped to the
// month's length (day 31 in February becomes the 28th/29th).
func (d Date) WithDay(day int) Date {
	return NewDate(d.Year(), d.Month(), clampDay(d.Year(), d.Month(), day))
}

// MonthStart returns the first day of the date's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), d.Month(), 1)
}

// DaysInMonth returns the number of days in the date's month.
func (d Date) DaysInMonth() int {
	return daysIn(d.Year(), d.Month())
}

// MonthKey returns the stable YYYY-MM key for the date's month.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

// String returns the YYYY-MM-DD representation.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

// UnmarshalJSON accepts both bare dates and full timestamps; PostgREST
// returns the former for date columns and the latter for timestamptz.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func clampDay(year int, month time.Month, day int) int {
	if last := daysIn(year, month); day > last {
		return last
	}
	return day
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
