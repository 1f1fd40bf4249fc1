// Package report renders the result of a run as text or JSON.
package report

import (
	"fmt"
	"time"

	"github.com/couchcryptid/nwss-report/internal/domain"
	"github.com/couchcryptid/nwss-report/internal/pipeline"
)

// Options controls how much per-site detail a report carries.
type Options struct {
	Input      string
	TotalsOnly bool
	Verbose    bool
}

// Report is the rendered view of a run.
type Report struct {
	Input       string    `json:"input"`
	WindowBegin string    `json:"window_begin"`
	WindowEnd   string    `json:"window_end"`
	GeneratedAt time.Time `json:"generated_at"`
	RowsRead    int       `json:"rows_read"`
	RowsMatched int       `json:"rows_matched"`

	UpdatedCount    int    `json:"updated_count"`
	NotUpdatedCount int    `json:"not_updated_count"`
	Updated         []Site `json:"updated,omitempty"`
	NotUpdated      []Site `json:"not_updated,omitempty"`

	verbose bool
}

// Site is one site's detail. Span, periods, and rows are set in verbose mode.
type Site struct {
	Key              string   `json:"key"`
	Jurisdiction     string   `json:"reporting_jurisdiction"`
	CountyNames      string   `json:"county_names"`
	PopulationServed string   `json:"population_served"`
	PlotIDs          []string `json:"key_plot_ids"`
	Matched          int      `json:"matched_rows"`
	Valid            int      `json:"valid_rows"`
	Invalid          int      `json:"invalid_rows"`

	SpanStart   string  `json:"span_start,omitempty"`
	SpanEnd     string  `json:"span_end,omitempty"`
	FirstPeriod *Period `json:"first_period,omitempty"`
	LastPeriod  *Period `json:"last_period,omitempty"`
	Rows        []Row   `json:"rows,omitempty"`
}

// Period is one record's sampling period as written in the source.
type Period struct {
	Start string `json:"date_start"`
	End   string `json:"date_end"`
}

// Row is one matched record.
type Row struct {
	Line       int    `json:"line,omitempty"`
	WWTPID     string `json:"wwtp_id"`
	KeyPlotID  string `json:"key_plot_id"`
	DateStart  string `json:"date_start"`
	DateEnd    string `json:"date_end"`
	PTC15d     string `json:"ptc_15d"`
	Percentile string `json:"percentile"`
	Valid      bool   `json:"has_valid_data"`

	WWTPJurisdiction      string `json:"wwtp_jurisdiction,omitempty"`
	SampleLocation        string `json:"sample_location,omitempty"`
	SampleLocationSpecify string `json:"sample_location_specify,omitempty"`
	CountyFIPS            string `json:"county_fips,omitempty"`
	DetectProp15d         string `json:"detect_prop_15d,omitempty"`
	SamplingPrior         string `json:"sampling_prior,omitempty"`
	FirstSampleDate       string `json:"first_sample_date,omitempty"`
}

// Build assembles the report for res. It fails when a verbose span meets a
// malformed date_start.
func Build(res *pipeline.Result, opts Options) (*Report, error) {
	r := &Report{
		Input:           opts.Input,
		WindowBegin:     res.Window.Begin().Format(domain.DateLayout),
		WindowEnd:       res.Window.End().Format(domain.DateLayout),
		GeneratedAt:     res.GeneratedAt.UTC(),
		RowsRead:        res.RowsRead,
		RowsMatched:     res.Grouping.Matched(),
		UpdatedCount:    len(res.Sites.Updated),
		NotUpdatedCount: len(res.Sites.NotUpdated),
		verbose:         opts.Verbose,
	}
	if opts.TotalsOnly {
		return r, nil
	}

	var err error
	if r.Updated, err = buildSites(res.Grouping, res.Sites.Updated, opts.Verbose); err != nil {
		return nil, err
	}
	if r.NotUpdated, err = buildSites(res.Grouping, res.Sites.NotUpdated, opts.Verbose); err != nil {
		return nil, err
	}
	return r, nil
}

func buildSites(g *domain.Grouping, keys []domain.SiteKey, verbose bool) ([]Site, error) {
	sites := make([]Site, 0, len(keys))
	for _, key := range keys {
		grp, ok := g.Group(key)
		if !ok {
			return nil, fmt.Errorf("site %s missing from grouping", key)
		}
		site, err := buildSite(grp, verbose)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", key, err)
		}
		sites = append(sites, site)
	}
	return sites, nil
}

func buildSite(grp *domain.SiteGroup, verbose bool) (Site, error) {
	site := Site{
		Key:              grp.Key.String(),
		Jurisdiction:     grp.Key.Jurisdiction,
		CountyNames:      grp.Key.CountyNames,
		PopulationServed: grp.Key.PopulationServed,
		PlotIDs:          domain.DistinctPlotIDs(grp),
		Matched:          len(grp.Records),
		Valid:            grp.ValidCount(),
		Invalid:          grp.InvalidCount(),
	}
	if !verbose {
		return site, nil
	}

	start, end, err := domain.DateSpan(grp)
	if err != nil {
		return Site{}, err
	}
	site.SpanStart = start.Format(domain.DateLayout)
	site.SpanEnd = end.Format(domain.DateLayout)

	sorted := domain.SortedByDateEnd(grp)
	site.Rows = make([]Row, len(sorted))
	for i, rec := range sorted {
		site.Rows[i] = Row{
			Line:       rec.Line,
			WWTPID:     rec.WWTPID,
			KeyPlotID:  rec.KeyPlotID,
			DateStart:  rec.DateStart,
			DateEnd:    rec.DateEnd.Format(domain.DateLayout),
			PTC15d:     rec.PTC15d,
			Percentile: rec.Percentile,
			Valid:      rec.HasValidData,

			WWTPJurisdiction:      rec.WWTPJurisdiction,
			SampleLocation:        rec.SampleLocation,
			SampleLocationSpecify: rec.SampleLocationSpecify,
			CountyFIPS:            rec.CountyFIPS,
			DetectProp15d:         rec.DetectProp15d,
			SamplingPrior:         rec.SamplingPrior,
			FirstSampleDate:       rec.FirstSampleDate,
		}
	}
	first, last := site.Rows[0], site.Rows[len(site.Rows)-1]
	site.FirstPeriod = &Period{Start: first.DateStart, End: first.DateEnd}
	site.LastPeriod = &Period{Start: last.DateStart, End: last.DateEnd}
	return site, nil
}
