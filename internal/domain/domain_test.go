package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testJurisdiction = "WA"
	testCounty       = "King"
	testPopulation   = "500000"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func mustWindow(t *testing.T, s string) DateWindow {
	t.Helper()
	w, err := ParseDateWindow(s)
	require.NoError(t, err)
	return w
}

// row builds a complete raw row for the test site; overrides replace columns
// and an override value of "<absent>" deletes the column.
func row(overrides map[string]string) RawRecord {
	fields := map[string]string{
		FieldWWTPJurisdiction:      "Washington",
		FieldWWTPID:                "1398",
		FieldReportingJurisdiction: testJurisdiction,
		FieldSampleLocation:        "Treatment plant",
		FieldKeyPlotID:             "NWSS_wa_1398_Treatment plant_raw wastewater",
		FieldCountyNames:           testCounty,
		FieldCountyFIPS:            "53033",
		FieldPopulationServed:      testPopulation,
		FieldDateStart:             "2023-01-01",
		FieldDateEnd:               "2023-01-05",
		FieldPTC15d:                "-45",
		FieldDetectProp15d:         "100",
		FieldPercentile:            "32.5",
	}
	for k, v := range overrides {
		if v == "<absent>" {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}
	return RawRecord{Fields: fields}
}

func ptr(s string) *string { return &s }

func TestParseDateWindow(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		w, err := ParseDateWindow("2023-01-01:2023-01-15")
		require.NoError(t, err)
		assert.Equal(t, date("2023-01-01"), w.Begin())
		assert.Equal(t, date("2023-01-15"), w.End())
		assert.Equal(t, "2023-01-01:2023-01-15", w.String())
	})

	t.Run("equal bounds is an empty window", func(t *testing.T) {
		w, err := ParseDateWindow("2023-01-01:2023-01-01")
		require.NoError(t, err)
		assert.False(t, w.Contains(date("2023-01-01")))
	})

	t.Run("end before begin", func(t *testing.T) {
		_, err := ParseDateWindow("2023-01-15:2023-01-01")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidWindow)

		var winErr *InvalidWindowError
		require.ErrorAs(t, err, &winErr)
		assert.Equal(t, date("2023-01-15"), winErr.Begin)
	})

	t.Run("malformed date", func(t *testing.T) {
		_, err := ParseDateWindow("2023-1-01:2023-01-15")
		var dateErr *MalformedDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, "window begin", dateErr.Field)
	})

	for _, s := range []string{"2023-01-01", "2023-01-01:2023-01-02:2023-01-03", ""} {
		t.Run("bad shape "+s, func(t *testing.T) {
			_, err := ParseDateWindow(s)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "expected YYYY-MM-DD:YYYY-MM-DD")
		})
	}
}

func TestNewDateWindow_TruncatesToDates(t *testing.T) {
	w, err := NewDateWindow(
		time.Date(2023, 1, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2023, 1, 3, 1, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, date("2023-01-01"), w.Begin())
	assert.Equal(t, date("2023-01-03"), w.End())
	assert.True(t, w.Contains(time.Date(2023, 1, 2, 18, 0, 0, 0, time.UTC)))
}

func TestLastDays(t *testing.T) {
	SetClock(clockwork.NewFakeClockAt(time.Date(2023, 1, 15, 9, 30, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })

	w, err := LastDays(14)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-02:2023-01-16", w.String())
	assert.True(t, w.Contains(date("2023-01-15")), "today is included")
	assert.False(t, w.Contains(date("2023-01-01")))

	_, err = LastDays(0)
	require.Error(t, err)
}

func TestInWindow(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-01-15")

	tests := []struct {
		name    string
		dateEnd string
		want    bool
	}{
		{"begin is inclusive", "2023-01-01", true},
		{"inside", "2023-01-12", true},
		{"day before end", "2023-01-14", true},
		{"end is exclusive", "2023-01-15", false},
		{"before begin", "2022-12-31", false},
		{"after end", "2023-01-19", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := InWindow(w, row(map[string]string{FieldDateEnd: tt.dateEnd}))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed date_end", func(t *testing.T) {
		_, err := InWindow(w, row(map[string]string{FieldDateEnd: "01/05/2023"}))
		var dateErr *MalformedDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, FieldDateEnd, dateErr.Field)
		assert.Equal(t, "01/05/2023", dateErr.Value)
	})

	t.Run("missing date_end", func(t *testing.T) {
		_, err := InWindow(w, row(map[string]string{FieldDateEnd: "<absent>"}))
		var fieldErr *MissingFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, FieldDateEnd, fieldErr.Field)
	})
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name       string
		ptc15d     string
		percentile string
		want       bool
	}{
		{"both present", "-45", "32.5", true},
		{"empty ptc_15d", "", "32.5", false},
		{"empty percentile", "-45", "", false},
		{"not computed marker", "-45", "999.0", false},
		{"both empty", "", "", false},
		{"999 without decimal is data", "-45", "999", true},
		{"non-numeric text is data", "n/a", "high", true},
		{"zero is data", "0", "0.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(Record{PTC15d: tt.ptc15d, Percentile: tt.percentile}))
		})
	}
}

func TestKeyOf(t *testing.T) {
	a, err := ParseRecord(row(nil))
	require.NoError(t, err)
	b, err := ParseRecord(row(map[string]string{FieldWWTPID: "2001", FieldKeyPlotID: "NWSS_wa_2001"}))
	require.NoError(t, err)

	assert.Equal(t, KeyOf(a), KeyOf(b), "key is stable across id reissues")
	assert.Equal(t, "WA:King:500000", KeyOf(a).String())

	c, err := ParseRecord(row(map[string]string{FieldPopulationServed: "12000"}))
	require.NoError(t, err)
	assert.NotEqual(t, KeyOf(a), KeyOf(c))
}

func TestKeyOf_ColonsDoNotCollide(t *testing.T) {
	a := SiteKey{Jurisdiction: "A:B", CountyNames: "C", PopulationServed: "1"}
	b := SiteKey{Jurisdiction: "A", CountyNames: "B:C", PopulationServed: "1"}
	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, a, b)
}

func TestParseRecord(t *testing.T) {
	t.Run("all columns", func(t *testing.T) {
		raw := row(nil)
		raw.Line = 7
		rec, err := ParseRecord(raw)
		require.NoError(t, err)

		want := Record{
			Line:                  7,
			ReportingJurisdiction: testJurisdiction,
			WWTPID:                "1398",
			CountyNames:           testCounty,
			PopulationServed:      testPopulation,
			KeyPlotID:             "NWSS_wa_1398_Treatment plant_raw wastewater",
			DateStart:             "2023-01-01",
			DateEnd:               date("2023-01-05"),
			PTC15d:                "-45",
			Percentile:            "32.5",
			WWTPJurisdiction:      "Washington",
			SampleLocation:        "Treatment plant",
			CountyFIPS:            "53033",
			DetectProp15d:         "100",
		}
		if diff := cmp.Diff(want, rec); diff != "" {
			t.Errorf("ParseRecord mismatch (-want +got):\n%s", diff)
		}
	})

	for _, field := range []string{FieldCountyNames, FieldKeyPlotID, FieldPercentile, FieldDateStart} {
		t.Run("missing "+field, func(t *testing.T) {
			_, err := ParseRecord(row(map[string]string{field: "<absent>"}))
			var fieldErr *MissingFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, field, fieldErr.Field)
		})
	}
}

func TestGroup_Filters(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-01-15")
	washington := row(map[string]string{FieldReportingJurisdiction: "Washington State"})

	tests := []struct {
		name    string
		filters Filters
		want    Outcome
	}{
		{"no filters", Filters{}, OutcomeMatched},
		{"jurisdiction prefix", Filters{Jurisdiction: ptr("Washington")}, OutcomeMatched},
		{"jurisdiction infix", Filters{Jurisdiction: ptr("ashington")}, OutcomeMatched},
		{"jurisdiction suffix", Filters{Jurisdiction: ptr("State")}, OutcomeMatched},
		{"jurisdiction no match", Filters{Jurisdiction: ptr("Oregon")}, OutcomeJurisdiction},
		{"jurisdiction is case sensitive", Filters{Jurisdiction: ptr("washington")}, OutcomeJurisdiction},
		{"facility exact", Filters{FacilityID: ptr("1398")}, OutcomeMatched},
		{"facility prefix is not a match", Filters{FacilityID: ptr("139")}, OutcomeFacility},
		{"both match", Filters{Jurisdiction: ptr("Wash"), FacilityID: ptr("1398")}, OutcomeMatched},
		{"jurisdiction checked first", Filters{Jurisdiction: ptr("Oregon"), FacilityID: ptr("9")}, OutcomeJurisdiction},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrouper(w, tt.filters)
			got, err := g.Add(washington)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroup_FilteredRowsSkipDateParsing(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-01-15")
	g := NewGrouper(w, Filters{FacilityID: ptr("1398")})

	outcome, err := g.Add(row(map[string]string{FieldWWTPID: "77", FieldDateEnd: "garbage"}))
	require.NoError(t, err)
	assert.Equal(t, OutcomeFacility, outcome)
}

func TestGroup_EndToEnd(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-01-15")
	rows := []RawRecord{
		row(map[string]string{FieldDateEnd: "2023-01-05", FieldKeyPlotID: "A"}),
		row(map[string]string{FieldDateEnd: "2023-01-12", FieldKeyPlotID: "A", FieldWWTPID: "2001"}),
		row(map[string]string{FieldDateEnd: "2023-01-19", FieldKeyPlotID: "B", FieldPercentile: "999.0"}),
	}

	g, err := Group(rows, w, Filters{})
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())
	assert.Equal(t, 2, g.Matched())

	key := SiteKey{Jurisdiction: testJurisdiction, CountyNames: testCounty, PopulationServed: testPopulation}
	grp, ok := g.Group(key)
	require.True(t, ok)
	assert.Len(t, grp.Records, 2)
	assert.Equal(t, 2, grp.ValidCount())
	assert.Equal(t, 0, grp.InvalidCount())

	res := Aggregate(g)
	assert.Equal(t, []SiteKey{key}, res.Updated)
	assert.Empty(t, res.NotUpdated)
}

func TestGroup_DoesNotMutateInput(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-01-15")
	raw := row(nil)
	before := len(raw.Fields)

	_, err := Group([]RawRecord{raw}, w, Filters{})
	require.NoError(t, err)
	assert.Len(t, raw.Fields, before)
}

func TestGroup_Errors(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-01-15")

	t.Run("malformed date aborts with line", func(t *testing.T) {
		bad := row(map[string]string{FieldDateEnd: "2023-13-40"})
		bad.Line = 4
		_, err := Group([]RawRecord{row(nil), bad, row(nil)}, w, Filters{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 4")

		var dateErr *MalformedDateError
		assert.True(t, errors.As(err, &dateErr))
	})

	t.Run("missing column on matched row", func(t *testing.T) {
		_, err := Group([]RawRecord{row(map[string]string{FieldPopulationServed: "<absent>"})}, w, Filters{})
		var fieldErr *MissingFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, FieldPopulationServed, fieldErr.Field)
	})

	t.Run("missing filter column", func(t *testing.T) {
		_, err := Group([]RawRecord{row(map[string]string{FieldWWTPID: "<absent>"})}, w, Filters{FacilityID: ptr("1")})
		var fieldErr *MissingFieldError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, FieldWWTPID, fieldErr.Field)
	})
}

func TestGroup_NoMatchesIsEmpty(t *testing.T) {
	w := mustWindow(t, "2024-01-01:2024-02-01")
	g, err := Group([]RawRecord{row(nil)}, w, Filters{})
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())
	assert.Equal(t, 0, g.Matched())
}

func TestAggregate_PartitionsTotallyAndDisjointly(t *testing.T) {
	w := mustWindow(t, "2023-01-01:2023-02-01")
	rows := []RawRecord{
		row(map[string]string{FieldCountyNames: "King", FieldPercentile: ""}),
		row(map[string]string{FieldCountyNames: "Pierce"}),
		row(map[string]string{FieldCountyNames: "King", FieldPercentile: "999.0"}),
		row(map[string]string{FieldCountyNames: "Spokane", FieldPTC15d: ""}),
		row(map[string]string{FieldCountyNames: "Spokane", FieldDateEnd: "2023-01-20"}),
		row(map[string]string{FieldCountyNames: "Yakima", FieldPTC15d: ""}),
	}

	g, err := Group(rows, w, Filters{})
	require.NoError(t, err)
	res := Aggregate(g)

	county := func(keys []SiteKey) []string {
		out := make([]string, len(keys))
		for i, k := range keys {
			out[i] = k.CountyNames
		}
		return out
	}
	assert.Equal(t, []string{"Pierce", "Spokane"}, county(res.Updated))
	assert.Equal(t, []string{"King", "Yakima"}, county(res.NotUpdated))

	seen := map[SiteKey]int{}
	for _, k := range append(res.Updated, res.NotUpdated...) {
		seen[k]++
	}
	assert.Len(t, seen, g.Len())
	for _, k := range g.Keys() {
		assert.Equal(t, 1, seen[k], "site %s", k)
	}
}

func TestDistinctPlotIDs(t *testing.T) {
	grp := &SiteGroup{Records: []Record{{KeyPlotID: "B"}, {KeyPlotID: "A"}, {KeyPlotID: "A"}}}
	assert.Equal(t, []string{"A", "B"}, DistinctPlotIDs(grp))
}

func TestDateSpan(t *testing.T) {
	grp := &SiteGroup{Records: []Record{
		{DateStart: "2023-01-06", DateEnd: date("2023-01-12")},
		{DateStart: "2022-12-30", DateEnd: date("2023-01-05")},
		{DateStart: "2023-01-13", DateEnd: date("2023-01-19")},
	}}

	start, end, err := DateSpan(grp)
	require.NoError(t, err)
	assert.Equal(t, date("2022-12-30"), start)
	assert.Equal(t, date("2023-01-19"), end)

	sorted := SortedByDateEnd(grp)
	assert.Equal(t, date("2023-01-05"), sorted[0].DateEnd)
	assert.Equal(t, date("2023-01-12"), grp.Records[0].DateEnd, "input order is untouched")

	t.Run("malformed date_start", func(t *testing.T) {
		bad := &SiteGroup{Records: []Record{{DateStart: "yesterday", DateEnd: date("2023-01-05")}}}
		_, _, err := DateSpan(bad)
		var dateErr *MalformedDateError
		require.ErrorAs(t, err, &dateErr)
		assert.Equal(t, FieldDateStart, dateErr.Field)
	})

	t.Run("empty group", func(t *testing.T) {
		_, _, err := DateSpan(&SiteGroup{})
		require.Error(t, err)
	})
}
