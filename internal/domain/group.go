package domain

import "strings"

// Filters narrows the rows considered by a Grouper. A nil field is not applied.
type Filters struct {
	// Jurisdiction must be a substring of reporting_jurisdiction.
	Jurisdiction *string
	// FacilityID must equal wwtp_id exactly.
	FacilityID *string
}

// Outcome describes what a Grouper did with a row.
type Outcome string

const (
	OutcomeMatched      Outcome = "matched"
	OutcomeJurisdiction Outcome = "jurisdiction"
	OutcomeFacility     Outcome = "facility"
	OutcomeWindow       Outcome = "window"
)

// SiteGroup holds the matched records of one site. It is never empty.
type SiteGroup struct {
	Key     SiteKey
	Records []Record
}

// ValidCount returns the number of records with valid data.
func (g *SiteGroup) ValidCount() int {
	n := 0
	for i := range g.Records {
		if g.Records[i].HasValidData {
			n++
		}
	}
	return n
}

// InvalidCount returns the number of records without valid data.
func (g *SiteGroup) InvalidCount() int {
	return len(g.Records) - g.ValidCount()
}

// HasValidData reports whether any record in the group has valid data.
func (g *SiteGroup) HasValidData() bool {
	for i := range g.Records {
		if g.Records[i].HasValidData {
			return true
		}
	}
	return false
}

// Grouping maps site keys to their groups, remembering first-seen key order.
type Grouping struct {
	order   []SiteKey
	groups  map[SiteKey]*SiteGroup
	matched int
}

func newGrouping() *Grouping {
	return &Grouping{groups: make(map[SiteKey]*SiteGroup)}
}

func (g *Grouping) add(rec Record) {
	key := KeyOf(rec)
	grp, ok := g.groups[key]
	if !ok {
		grp = &SiteGroup{Key: key}
		g.groups[key] = grp
		g.order = append(g.order, key)
	}
	grp.Records = append(grp.Records, rec)
	g.matched++
}

// Keys returns the site keys in the order they were first matched.
func (g *Grouping) Keys() []SiteKey {
	return append([]SiteKey(nil), g.order...)
}

// Group returns the group for key.
func (g *Grouping) Group(key SiteKey) (*SiteGroup, bool) {
	grp, ok := g.groups[key]
	return grp, ok
}

// Len returns the number of sites.
func (g *Grouping) Len() int { return len(g.order) }

// Matched returns the number of records across all groups.
func (g *Grouping) Matched() int { return g.matched }

// Grouper filters, classifies, and groups rows one at a time, so a reader can
// stream a large file through it.
type Grouper struct {
	window   DateWindow
	filters  Filters
	grouping *Grouping
}

// NewGrouper returns a Grouper for the window and filters.
func NewGrouper(window DateWindow, filters Filters) *Grouper {
	return &Grouper{
		window:   window,
		filters:  filters,
		grouping: newGrouping(),
	}
}

// Add applies the jurisdiction filter, the facility filter, and the window to
// raw, in that order. A matching row is classified and appended to its site's
// group. Missing columns and malformed dates are returned as errors and the
// row is not grouped.
func (g *Grouper) Add(raw RawRecord) (Outcome, error) {
	outcome, err := g.add(raw)
	if err != nil {
		return "", lineError(raw.Line, err)
	}
	return outcome, nil
}

func (g *Grouper) add(raw RawRecord) (Outcome, error) {
	if g.filters.Jurisdiction != nil {
		v, err := raw.Get(FieldReportingJurisdiction)
		if err != nil {
			return "", err
		}
		if !strings.Contains(v, *g.filters.Jurisdiction) {
			return OutcomeJurisdiction, nil
		}
	}

	if g.filters.FacilityID != nil {
		v, err := raw.Get(FieldWWTPID)
		if err != nil {
			return "", err
		}
		if v != *g.filters.FacilityID {
			return OutcomeFacility, nil
		}
	}

	in, err := InWindow(g.window, raw)
	if err != nil {
		return "", err
	}
	if !in {
		return OutcomeWindow, nil
	}

	rec, err := ParseRecord(raw)
	if err != nil {
		return "", err
	}
	rec.HasValidData = IsValid(rec)
	g.grouping.add(rec)
	return OutcomeMatched, nil
}

// Result returns the grouping built so far.
func (g *Grouper) Result() *Grouping {
	return g.grouping
}

// Group runs rows through a new Grouper and returns the result. It stops at
// the first error.
func Group(rows []RawRecord, window DateWindow, filters Filters) (*Grouping, error) {
	g := NewGrouper(window, filters)
	for _, raw := range rows {
		if _, err := g.Add(raw); err != nil {
			return nil, err
		}
	}
	return g.Result(), nil
}
