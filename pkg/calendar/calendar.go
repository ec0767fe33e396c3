// Package calendar holds the local wall-clock date helpers shared by storage and streak logic.
package calendar

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Clock supplies the current local time. Tests substitute a fixed one.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now()
}

// DateOf formats t as a YYYY-MM-DD string in t's own location.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

func IsDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClockTime reports whether s is a zero-padded 24h HH:mm value.
func IsClockTime(s string) bool {
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

// DaysBetween returns the number of whole calendar days from one date to another.
// Negative when to precedes from.
func DaysBetween(from, to string) (int, error) {
	f, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parsing date %q: %w", from, err)
	}
	t, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parsing date %q: %w", to, err)
	}
	return int(t.Sub(f).Hours() / 24), nil
}

// LastDates returns n consecutive dates ending with the date of today, oldest first.
func LastDates(today time.Time, n int) []string {
	dates := make([]string, 0, n)
	for i := n - 1; i >= 0; i-- {
		dates = append(dates, DateOf(today.AddDate(0, 0, -i)))
	}
	return dates
}
