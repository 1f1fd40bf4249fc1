package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by NWSS date columns and windows.
const DateLayout = "2006-01-02"

// DateWindow is a [begin, end) range of calendar dates. The zero value is an
// empty window; use NewDateWindow or ParseDateWindow to build one.
type DateWindow struct {
	begin time.Time
	end   time.Time
}

// NewDateWindow truncates begin and end to UTC calendar dates and returns an
// *InvalidWindowError when end is before begin. Equal dates give an empty window.
func NewDateWindow(begin, end time.Time) (DateWindow, error) {
	begin, end = calendarDate(begin), calendarDate(end)
	if end.Before(begin) {
		return DateWindow{}, &InvalidWindowError{Begin: begin, End: end}
	}
	return DateWindow{begin: begin, end: end}, nil
}

// ParseDateWindow parses "YYYY-MM-DD:YYYY-MM-DD".
func ParseDateWindow(s string) (DateWindow, error) {
	beginStr, endStr, ok := strings.Cut(s, ":")
	if !ok || strings.Contains(endStr, ":") {
		return DateWindow{}, fmt.Errorf("date window %q: expected YYYY-MM-DD:YYYY-MM-DD", s)
	}
	begin, err := ParseDate("window begin", beginStr)
	if err != nil {
		return DateWindow{}, err
	}
	end, err := ParseDate("window end", endStr)
	if err != nil {
		return DateWindow{}, err
	}
	return NewDateWindow(begin, end)
}

// LastDays returns the window covering the n calendar days up to and
// including today, according to the package clock.
func LastDays(n int) (DateWindow, error) {
	if n <= 0 {
		return DateWindow{}, fmt.Errorf("last days must be positive, got %d", n)
	}
	end := calendarDate(clock.Now()).AddDate(0, 0, 1)
	return NewDateWindow(end.AddDate(0, 0, -n), end)
}

// Begin returns the inclusive lower bound.
func (w DateWindow) Begin() time.Time { return w.begin }

// End returns the exclusive upper bound.
func (w DateWindow) End() time.Time { return w.end }

// Contains reports whether begin <= d < end, comparing calendar dates.
func (w DateWindow) Contains(d time.Time) bool {
	d = calendarDate(d)
	return !d.Before(w.begin) && d.Before(w.end)
}

func (w DateWindow) String() string {
	return w.begin.Format(DateLayout) + ":" + w.end.Format(DateLayout)
}

// InWindow parses the row's date_end and reports whether it falls in w.
func InWindow(w DateWindow, raw RawRecord) (bool, error) {
	v, err := raw.Get(FieldDateEnd)
	if err != nil {
		return false, err
	}
	end, err := ParseDate(FieldDateEnd, v)
	if err != nil {
		return false, err
	}
	return w.Contains(end), nil
}

func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
