package domain

import "strings"

// SiteKey identifies a monitoring site across wwtp_id and key_plot_id reissues.
// It is a comparable struct, so values containing ':' cannot collide.
type SiteKey struct {
	Jurisdiction     string
	CountyNames      string
	PopulationServed string
}

// KeyOf derives the site key of a record.
func KeyOf(r Record) SiteKey {
	return SiteKey{
		Jurisdiction:     r.ReportingJurisdiction,
		CountyNames:      r.CountyNames,
		PopulationServed: r.PopulationServed,
	}
}

// String renders the key for display as "jurisdiction:counties:population".
func (k SiteKey) String() string {
	return strings.Join([]string{k.Jurisdiction, k.CountyNames, k.PopulationServed}, ":")
}
