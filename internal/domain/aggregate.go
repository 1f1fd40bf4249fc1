package domain

import (
	"errors"
	"sort"
	"time"
)

// AggregationResult partitions the sites of a Grouping. Both slices keep the
// grouping's first-seen order.
type AggregationResult struct {
	Updated    []SiteKey
	NotUpdated []SiteKey
}

// Aggregate places each site in Updated when any of its records has valid
// data and in NotUpdated otherwise.
func Aggregate(g *Grouping) AggregationResult {
	var res AggregationResult
	for _, key := range g.order {
		if g.groups[key].HasValidData() {
			res.Updated = append(res.Updated, key)
		} else {
			res.NotUpdated = append(res.NotUpdated, key)
		}
	}
	return res
}

// DistinctPlotIDs returns the unique key_plot_id values of the group, sorted.
// More than one value means the site's plot series was reissued.
func DistinctPlotIDs(g *SiteGroup) []string {
	seen := make(map[string]struct{}, len(g.Records))
	ids := make([]string, 0, len(g.Records))
	for i := range g.Records {
		id := g.Records[i].KeyPlotID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SortedByDateEnd returns a copy of the group's records ordered by date_end.
// Records with the same date_end keep their input order.
func SortedByDateEnd(g *SiteGroup) []Record {
	recs := append([]Record(nil), g.Records...)
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].DateEnd.Before(recs[j].DateEnd)
	})
	return recs
}

// DateSpan returns the date_start of the earliest-ending record and the
// date_end of the latest-ending record.
func DateSpan(g *SiteGroup) (start, end time.Time, err error) {
	if len(g.Records) == 0 {
		return time.Time{}, time.Time{}, errors.New("date span of empty site group")
	}
	recs := SortedByDateEnd(g)
	first, last := recs[0], recs[len(recs)-1]
	start, err = ParseDate(FieldDateStart, first.DateStart)
	if err != nil {
		return time.Time{}, time.Time{}, lineError(first.Line, err)
	}
	return start, last.DateEnd, nil
}
