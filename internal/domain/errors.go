package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidWindow matches any *InvalidWindowError via errors.Is.
	ErrInvalidWindow = errors.New("invalid date window")

	// ErrNoMatchedRows reports that filtering left nothing to aggregate.
	// It is an expected outcome, not an internal fault.
	ErrNoMatchedRows = errors.New("no matched rows")
)

// InvalidWindowError is returned when a window's end precedes its begin.
type InvalidWindowError struct {
	Begin time.Time
	End   time.Time
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("filter begin must be before filter end: %s > %s",
		e.Begin.Format(DateLayout), e.End.Format(DateLayout))
}

func (e *InvalidWindowError) Is(target error) bool {
	return target == ErrInvalidWindow
}

// MalformedDateError is returned when a date field is not YYYY-MM-DD.
type MalformedDateError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("malformed %s %q: expected YYYY-MM-DD", e.Field, e.Value)
}

func (e *MalformedDateError) Unwrap() error {
	return e.Err
}

// MissingFieldError is returned when a row has no column with the given name.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q", e.Field)
}
