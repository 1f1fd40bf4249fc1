package domain

// PercentileNotComputed is the percentile value NWSS uses for "not computed".
const PercentileNotComputed = "999.0"

// IsValid reports whether the record carries usable trend metrics. Only
// emptiness and the not-computed marker are checked; values are not parsed.
func IsValid(r Record) bool {
	return r.PTC15d != "" && r.Percentile != "" && r.Percentile != PercentileNotComputed
}
