package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/nwss-report/internal/domain"
)

// Write renders r in format, "text" or "json".
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case "json":
		return WriteJSON(w, r)
	case "text", "":
		return WriteText(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes r as an indented JSON document.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the plain-text report.
func WriteText(w io.Writer, r *Report) error {
	p := &printer{w: w}
	p.header(r.Input, r.WindowBegin, r.WindowEnd)

	p.printf("\n%d sites updated\n", r.UpdatedCount)
	for i := range r.Updated {
		p.site(&r.Updated[i], r.verbose)
	}

	p.printf("\n%d sites not updated\n", r.NotUpdatedCount)
	for i := range r.NotUpdated {
		p.site(&r.NotUpdated[i], r.verbose)
	}

	return p.err
}

// WriteNoMatch writes the text header for input and window followed by the
// notice that no row matched.
func WriteNoMatch(w io.Writer, input string, window domain.DateWindow) error {
	p := &printer{w: w}
	p.header(input, window.Begin().Format(domain.DateLayout), window.End().Format(domain.DateLayout))
	p.printf("no matched rows!\n")
	return p.err
}

// printer keeps the first write error so rendering reads top to bottom.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) header(input, begin, end string) {
	p.printf("input file name: %s\n", input)
	p.printf("filter dates begin: %s end: %s\n", begin, end)
}

func (p *printer) site(s *Site, verbose bool) {
	p.printf("== key_plot_ids = %s\n", strings.Join(s.PlotIDs, ", "))
	p.printf("reporting jurisdiction: %s county_names: %s\n", s.Jurisdiction, s.CountyNames)
	if !verbose {
		return
	}

	p.printf("first filtered sample period: %s - %s\n", s.FirstPeriod.Start, s.FirstPeriod.End)
	p.printf("last filtered sample period: %s - %s\n", s.LastPeriod.Start, s.LastPeriod.End)
	p.printf("%d filtered rows found. %d rows had valid data and %d rows had invalid data\n",
		s.Matched, s.Valid, s.Invalid)
	for _, row := range s.Rows {
		p.printf("\tline=%d wwtp_id=%s key_plot_id=%s date_start=%s date_end=%s ptc_15d=%q percentile=%q valid=%t",
			row.Line, row.WWTPID, row.KeyPlotID, row.DateStart, row.DateEnd, row.PTC15d, row.Percentile, row.Valid)
		p.printf(" wwtp_jurisdiction=%q sample_location=%q sample_location_specify=%q county_fips=%s detect_prop_15d=%q sampling_prior=%q first_sample_date=%s\n",
			row.WWTPJurisdiction, row.SampleLocation, row.SampleLocationSpecify, row.CountyFIPS,
			row.DetectProp15d, row.SamplingPrior, row.FirstSampleDate)
	}
}
