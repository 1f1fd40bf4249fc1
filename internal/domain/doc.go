// Package domain models CDC National Wastewater Surveillance System (NWSS)
// metric records and decides, per monitoring site, whether the site reported
// usable trend data inside a sample window.
//
// # Data Source
//
// Rows come from the public "NWSS Public SARS-CoV-2 Wastewater Metric Data"
// export at https://data.cdc.gov/Public-Health-Surveillance/NWSS-Public-SARS-CoV-2-Wastewater-Metric-Data/2ew6-ywp6.
// The file is header-driven; every row is one sampling period for one
// sample location. Columns used here:
//
//	reporting_jurisdiction  state or territory name, e.g. "Washington"
//	wwtp_id                 treatment plant identifier (changes over time)
//	county_names            comma separated county list, e.g. "King"
//	population_served       integer as text, e.g. "500000"
//	key_plot_id             plot series identifier (changes over time)
//	date_start, date_end    sampling period, YYYY-MM-DD
//	ptc_15d                 percent change over 15 days
//	percentile              current level percentile
//
// # NWSS Data Conventions
//
// Missing metrics:
//
//	An empty ptc_15d or percentile means the metric was not reported.
//	A percentile of exactly "999.0" is the dataset's "not computed" marker.
//	Any other non-empty text counts as data; values are never parsed as numbers.
//
// Site identity:
//
//	CDC periodically reissues wwtp_id and key_plot_id for the same physical
//	site. Reporting jurisdiction, county names, and population served are
//	assumed stable across those reissues and together form the [SiteKey].
//	This is a heuristic; two distinct plants serving the same counties with an
//	identical population would collapse into one site.
//
// Sample window:
//
//	A [DateWindow] is [begin, end): a row matches when begin <= date_end < end.
//	Consecutive windows such as 2023-01-01:2023-01-15 and 2023-01-15:2023-02-01
//	never count the same row twice.
//
// # Pipeline
//
// A [Grouper] filters raw rows (jurisdiction substring, exact wwtp_id, window),
// classifies validity, and groups matching rows by site. [Aggregate] then
// splits the sites into updated (at least one valid row) and not updated.
package domain
