package core

import (
	"fmt"
	"strings"
	"time"
)

const (
	DayLayout   = "02/01/2006"
	ClockLayout = "03:04:05 PM"
	MonthLayout = "01/2006"
	// MonthKeyLayout keys aggregate buckets so that they sort lexically.
	MonthKeyLayout = "2006-01"
	FileDateLayout = "2006-01-02"
)

// ParseDay parses a DD/MM/YYYY date.
func ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, use DD/MM/YYYY", ErrInvalidDate, s)
	}
	return d, nil
}

// ParseMonth parses a MM/YYYY month into its first day.
func ParseMonth(s string) (time.Time, error) {
	m, err := time.ParseInLocation(MonthLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, use MM/YYYY", ErrInvalidMonth, s)
	}
	return m, nil
}

// Stamp formats now as the transaction date and time columns.
func Stamp(now time.Time) (date, clock string) {
	return now.Format(DayLayout), now.Format(ClockLayout)
}

// MonthKey returns the YYYY-MM bucket of d.
func MonthKey(d time.Time) string {
	return d.Format(MonthKeyLayout)
}

// Range is an inclusive span of days.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// DayRange parses two DD/MM/YYYY bounds.
func DayRange(start, end string) (Range, error) {
	s, err := ParseDay(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return Range{}, err
	}
	if s.After(e) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return Range{Start: s, End: e}, nil
}

// MonthRange parses two MM/YYYY bounds. The end month is covered up to its
// last day.
func MonthRange(start, end string) (Range, error) {
	s, err := ParseMonth(start)
	if err != nil {
		return Range{}, err
	}
	e, err := ParseMonth(end)
	if err != nil {
		return Range{}, err
	}
	if s.After(e) {
		return Range{}, fmt.Errorf("%w: %s > %s", ErrInvalidRange, start, end)
	}
	return Range{Start: s, End: e.AddDate(0, 1, -1)}, nil
}
