package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/nwss-report/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Options is one report run: the input, its window and filters, and how to
// render the result.
type Options struct {
	InputPath string `validate:"required"`

	// Window is "YYYY-MM-DD:YYYY-MM-DD"; LastDays replaces it with a window
	// ending today.
	Window   string `validate:"required_without=LastDays,excluded_with=LastDays"`
	LastDays int    `validate:"gte=0"`

	Jurisdiction *string
	WWTPID       *string

	Format     string `validate:"oneof=text json"`
	TotalsOnly bool
	Verbose    bool
}

// NewOptions returns options seeded from p, which may be nil.
func NewOptions(p *Profile) Options {
	o := Options{Format: "text"}
	if p == nil {
		return o
	}
	o.Jurisdiction = p.Jurisdiction
	o.WWTPID = p.WWTPID
	if p.Format != "" {
		o.Format = p.Format
	}
	o.TotalsOnly = p.TotalsOnly
	o.Verbose = p.Verbose
	o.LastDays = p.LastDays
	return o
}

// Validate checks field constraints and reports every violation at once.
func (o Options) Validate() error {
	err := validate.Struct(o)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return fmt.Errorf("invalid options: %s", strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "required_without":
		return "a date window or last days is required"
	case "excluded_with":
		return "date window and last days are mutually exclusive"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
	}
}

// DateWindow resolves Window or LastDays into a domain window.
func (o Options) DateWindow() (domain.DateWindow, error) {
	if o.LastDays > 0 {
		return domain.LastDays(o.LastDays)
	}
	return domain.ParseDateWindow(o.Window)
}

// Filters returns the row filters. Absent options are not applied.
func (o Options) Filters() domain.Filters {
	return domain.Filters{Jurisdiction: o.Jurisdiction, FacilityID: o.WWTPID}
}
