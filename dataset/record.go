// Package dataset loads the three historical agricultural CSV tables (crop
// yield, weather, soil), left-joins them into one merged table, and exposes
// filtered views of the merged records. It is the single source of historical
// data for the trainer, the scenario generator and the yield-gap analyzer.
package dataset

import (
	"sort"
	"strings"
)

// Record is one historical observation after the merge: a crop-yield row
// joined with the weather aggregates of its state+year and the soil
// aggregates of its state.
//
// Fertilizer and pesticide units are preserved exactly as given by the source
// tables (kg or kg/ha depending on source granularity). Yield is in
// quintal/hectare and is the prediction target.
type Record struct {
	Crop   string
	State  string
	Season string
	Year   int

	Area       float64
	Fertilizer float64
	Pesticide  float64
	Yield      float64

	// Weather aggregates, joined on state+year.
	AvgTempC        float64
	TotalRainfallMM float64
	AvgHumidityPct  float64
	HasWeather      bool

	// Soil aggregates, joined on state.
	N, P, K float64
	PH      float64
	HasSoil bool
}

// Complete reports whether both joins succeeded for this record. A record
// failing this check is a data-quality defect, not a valid state: it is kept
// in the merged table but excluded from model training.
func (r *Record) Complete() bool {
	return r.HasWeather && r.HasSoil
}

// SeasonTrimmed returns the season with surrounding whitespace removed. The
// source data carries trailing-space seasons, so all season comparisons go
// through this accessor.
func (r *Record) SeasonTrimmed() string {
	return strings.TrimSpace(r.Season)
}

// Query selects a subset of the merged records. Zero values match everything.
// Season matching is whitespace-insensitive. Set Year for an exact match, or
// YearFrom and YearTo (inclusive) for a range.
type Query struct {
	Crop   string
	State  string
	Season string

	Year     int
	YearFrom int
	YearTo   int
}

// matches reports whether the record satisfies the query.
func (q Query) matches(r *Record) bool {
	if q.Crop != "" && r.Crop != q.Crop {
		return false
	}
	if q.State != "" && r.State != q.State {
		return false
	}
	if q.Season != "" && r.SeasonTrimmed() != strings.TrimSpace(q.Season) {
		return false
	}
	if q.Year != 0 && r.Year != q.Year {
		return false
	}
	if q.YearFrom != 0 || q.YearTo != 0 {
		if q.YearFrom != 0 && r.Year < q.YearFrom {
			return false
		}
		if q.YearTo != 0 && r.Year > q.YearTo {
			return false
		}
	}
	return true
}

// Provider is the read interface the advisory components consume. Filtering
// with no matching rows returns an empty slice, not an error.
type Provider interface {
	Filter(q Query) ([]Record, error)
	Crops() ([]string, error)
	States() ([]string, error)
	Seasons() ([]string, error)
}

// filterRecords applies q to records, preserving input order.
func filterRecords(records []Record, q Query) []Record {
	var out []Record
	for i := range records {
		if q.matches(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// uniqueSorted collects the distinct values produced by pick over records,
// sorted ascending.
func uniqueSorted(records []Record, pick func(*Record) string) []string {
	set := make(map[string]bool)
	for i := range records {
		set[pick(&records[i])] = true
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
