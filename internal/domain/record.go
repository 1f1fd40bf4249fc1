package domain

import (
	"fmt"
	"time"
)

// Column names in the NWSS metric export.
const (
	FieldWWTPJurisdiction      = "wwtp_jurisdiction"
	FieldWWTPID                = "wwtp_id"
	FieldReportingJurisdiction = "reporting_jurisdiction"
	FieldSampleLocation        = "sample_location"
	FieldSampleLocationSpecify = "sample_location_specify"
	FieldKeyPlotID             = "key_plot_id"
	FieldCountyNames           = "county_names"
	FieldCountyFIPS            = "county_fips"
	FieldPopulationServed      = "population_served"
	FieldDateStart             = "date_start"
	FieldDateEnd               = "date_end"
	FieldPTC15d                = "ptc_15d"
	FieldDetectProp15d         = "detect_prop_15d"
	FieldPercentile            = "percentile"
	FieldSamplingPrior         = "sampling_prior"
	FieldFirstSampleDate       = "first_sample_date"
)

// RawRecord is one input row keyed by header name, as produced by a reader.
// Line is the 1-based line of the row in its source, or 0 when unknown.
type RawRecord struct {
	Line   int
	Fields map[string]string
}

// Get returns the named column, or a *MissingFieldError when the row has none.
func (r RawRecord) Get(name string) (string, error) {
	v, ok := r.Fields[name]
	if !ok {
		return "", &MissingFieldError{Field: name}
	}
	return v, nil
}

// optional returns the named column or "" when absent.
func (r RawRecord) optional(name string) string {
	return r.Fields[name]
}

// Record is the typed form of a matched row. HasValidData is set by the
// Grouper when the record is classified and is not changed afterwards.
type Record struct {
	Line int

	ReportingJurisdiction string
	WWTPID                string
	CountyNames           string
	PopulationServed      string
	KeyPlotID             string
	DateStart             string // parsed on demand by DateSpan
	DateEnd               time.Time
	PTC15d                string
	Percentile            string

	// Informational columns, empty when the source does not carry them.
	WWTPJurisdiction      string
	SampleLocation        string
	SampleLocationSpecify string
	CountyFIPS            string
	DetectProp15d         string
	SamplingPrior         string
	FirstSampleDate       string

	HasValidData bool
}

// ParseRecord converts a raw row into a Record. Every column the site report
// reads must be present; date_end must be YYYY-MM-DD.
func ParseRecord(raw RawRecord) (Record, error) {
	var (
		rec     = Record{Line: raw.Line}
		dateEnd string
	)

	required := []struct {
		name string
		dst  *string
	}{
		{FieldReportingJurisdiction, &rec.ReportingJurisdiction},
		{FieldWWTPID, &rec.WWTPID},
		{FieldCountyNames, &rec.CountyNames},
		{FieldPopulationServed, &rec.PopulationServed},
		{FieldKeyPlotID, &rec.KeyPlotID},
		{FieldDateStart, &rec.DateStart},
		{FieldDateEnd, &dateEnd},
		{FieldPTC15d, &rec.PTC15d},
		{FieldPercentile, &rec.Percentile},
	}
	for _, f := range required {
		v, err := raw.Get(f.name)
		if err != nil {
			return Record{}, err
		}
		*f.dst = v
	}

	end, err := ParseDate(FieldDateEnd, dateEnd)
	if err != nil {
		return Record{}, err
	}
	rec.DateEnd = end

	rec.WWTPJurisdiction = raw.optional(FieldWWTPJurisdiction)
	rec.SampleLocation = raw.optional(FieldSampleLocation)
	rec.SampleLocationSpecify = raw.optional(FieldSampleLocationSpecify)
	rec.CountyFIPS = raw.optional(FieldCountyFIPS)
	rec.DetectProp15d = raw.optional(FieldDetectProp15d)
	rec.SamplingPrior = raw.optional(FieldSamplingPrior)
	rec.FirstSampleDate = raw.optional(FieldFirstSampleDate)

	return rec, nil
}

// ParseDate parses a YYYY-MM-DD value as a UTC calendar date.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, &MalformedDateError{Field: field, Value: value, Err: err}
	}
	return t, nil
}

// lineError prefixes err with the row's source line when it is known.
func lineError(line int, err error) error {
	if line <= 0 {
		return err
	}
	return fmt.Errorf("line %d: %w", line, err)
}
