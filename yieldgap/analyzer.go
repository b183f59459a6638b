// Package yieldgap benchmarks a farmer's reported yield against the
// historical record of a crop/state/season slice: distributional statistics,
// the high-performer cohort, factor correlations, signed gaps and improvement
// tiers. Everything here is a pure function of the current slice; nothing is
// cached and no model is involved.
package yieldgap

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fasalmitra/agroadvisor/core/stats"
	"github.com/fasalmitra/agroadvisor/dataset"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
)

// highPerformerPercentile defines the cohort membership threshold.
const highPerformerPercentile = 80

// insightCorrelationFloor is the minimum correlation magnitude worth turning
// into a one-line insight.
const insightCorrelationFloor = 0.1

// Benchmarks is the descriptive statistics of one crop/state/season slice.
type Benchmarks struct {
	TotalRecords int
	YearsCovered string

	AverageYield float64
	MedianYield  float64

	Top10Percent    float64 // 90th percentile
	Top25Percent    float64 // 75th percentile
	Bottom25Percent float64 // 25th percentile
	Bottom10Percent float64 // 10th percentile

	MaxYield float64
	MinYield float64
	YieldStd float64

	HighPerformers HighPerformers
	Factors        ImprovementFactors
}

// HighPerformers describes the cohort at or above the 80th-percentile yield.
type HighPerformers struct {
	Count    int
	SharePct float64
	AvgYield float64

	Characteristics Characteristics
}

// Characteristics holds the feature means of the high-performer cohort.
// Weather and soil blocks are valid only when the corresponding Has flag is
// set: a cohort can be entirely made of rows with a failed join.
type Characteristics struct {
	AvgFertilizer   float64
	FertilizerRange string

	OptimalTempC       float64
	OptimalRainfallMM  float64
	OptimalHumidityPct float64
	HasWeather         bool

	OptimalPH          float64
	OptimalN, OptimalP float64
	OptimalK           float64
	HasSoil            bool
}

// Factor is one numeric feature's Pearson correlation against yield.
type Factor struct {
	Name        string
	Correlation float64
}

// ImprovementFactors ranks the features most correlated with yield in the
// slice, positively and negatively, with one-line insights for the strongest.
type ImprovementFactors struct {
	TopPositive []Factor
	TopNegative []Factor
	KeyInsights []string
}

// Gaps holds the signed distance from the user's yield to each benchmark.
// Positive means the benchmark is above the user.
type Gaps struct {
	VsAverage float64
	VsTop25   float64
	VsTop10   float64
	VsMaximum float64
}

// Tier is one improvement-potential scenario against a benchmark target.
type Tier struct {
	TargetYield        float64
	Improvement        float64
	ImprovementPercent float64
	Achievability      string
}

// Improvement groups the three improvement tiers.
type Improvement struct {
	Conservative Tier
	Moderate     Tier
	Aggressive   Tier
}

// GapReport is the full gap analysis of one reported yield.
type GapReport struct {
	UserYield  float64
	Benchmarks *Benchmarks

	Gaps           Gaps
	PercentileRank float64
	Improvement    Improvement

	Recommendations []string
}

// TrendPoint is the mean yield of one year, for the trend chart.
type TrendPoint struct {
	Year      int
	MeanYield float64
}

// Markers are the benchmark lines drawn over the yield distribution.
type Markers struct {
	Average float64
	Top25   float64
	Top10   float64
	Maximum float64
}

// VisualizationData feeds the report package's charts: the raw distribution,
// benchmark markers and the per-year mean trend in ascending year order.
type VisualizationData struct {
	UserYield         float64
	YieldDistribution []float64
	Markers           Markers
	YearlyTrend       []TrendPoint
	PercentileRank    float64
}

// Analyzer computes benchmarks and gap reports over a dataset provider.
type Analyzer struct {
	provider dataset.Provider
	logger   log.Logger
}

// NewAnalyzer creates an Analyzer over the given provider.
func NewAnalyzer(provider dataset.Provider) *Analyzer {
	return &Analyzer{
		provider: provider,
		logger:   log.GetLoggerWithName("yieldgap").With(log.ComponentKey, "Analyzer"),
	}
}

// Benchmarks computes the benchmark set of a crop/state/season slice. Season
// may be empty to cover all seasons.
//
// Errors:
//   - ErrDataUnavailable: if the slice is empty; the error carries the
//     seasons that do have data for crop+state (possibly none)
func (a *Analyzer) Benchmarks(crop, state, season string) (_ *Benchmarks, err error) {
	defer agroErrors.Recover(&err, "Analyzer.Benchmarks")

	records, err := a.provider.Filter(dataset.Query{Crop: crop, State: state, Season: season})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		available, availErr := a.availableSeasons(crop, state)
		if availErr != nil {
			return nil, availErr
		}
		return nil, agroErrors.NewDataUnavailableError(crop, state, season, available)
	}

	yields := make([]float64, len(records))
	minYear, maxYear := records[0].Year, records[0].Year
	for i := range records {
		yields[i] = records[i].Yield
		if records[i].Year < minYear {
			minYear = records[i].Year
		}
		if records[i].Year > maxYear {
			maxYear = records[i].Year
		}
	}

	b := &Benchmarks{
		TotalRecords: len(records),
		YearsCovered: fmt.Sprintf("%d-%d", minYear, maxYear),

		AverageYield: round2(stats.Mean(yields)),
		MedianYield:  round2(stats.Median(yields)),

		Top10Percent:    round2(stats.Percentile(yields, 90)),
		Top25Percent:    round2(stats.Percentile(yields, 75)),
		Bottom25Percent: round2(stats.Percentile(yields, 25)),
		Bottom10Percent: round2(stats.Percentile(yields, 10)),

		MaxYield: round2(maxOf(yields)),
		MinYield: round2(minOf(yields)),
		YieldStd: round2(stats.Std(yields)),

		HighPerformers: highPerformers(records, yields),
		Factors:        improvementFactors(records),
	}

	a.logger.Debug("benchmarks computed",
		log.CropKey, crop,
		log.StateKey, state,
		log.SeasonKey, season,
		log.RowsKey, b.TotalRecords,
	)

	return b, nil
}

// Gap analyzes the distance between userYield and the slice's benchmarks.
//
// Errors:
//   - ErrDataUnavailable: if the slice is empty (see Benchmarks)
func (a *Analyzer) Gap(userYield float64, crop, state, season string) (_ *GapReport, err error) {
	defer agroErrors.Recover(&err, "Analyzer.Gap")

	b, err := a.Benchmarks(crop, state, season)
	if err != nil {
		return nil, err
	}

	rank, err := a.percentileRank(userYield, crop, state, season)
	if err != nil {
		return nil, err
	}

	report := &GapReport{
		UserYield:  userYield,
		Benchmarks: b,
		Gaps: Gaps{
			VsAverage: round2(b.AverageYield - userYield),
			VsTop25:   round2(b.Top25Percent - userYield),
			VsTop10:   round2(b.Top10Percent - userYield),
			VsMaximum: round2(b.MaxYield - userYield),
		},
		PercentileRank: rank,
		Improvement: Improvement{
			Conservative: tier(userYield, b.Top25Percent, "High (75% of farmers achieve this)"),
			Moderate:     tier(userYield, b.Top10Percent, "Medium (10% of farmers achieve this)"),
			Aggressive:   tier(userYield, b.MaxYield, "Low (best case scenario)"),
		},
	}
	report.Recommendations = recommendations(userYield, b)

	return report, nil
}

// VisualizationData assembles the chart inputs for the given slice.
//
// Errors:
//   - ErrDataUnavailable: if the slice is empty
func (a *Analyzer) VisualizationData(userYield float64, crop, state, season string) (_ *VisualizationData, err error) {
	defer agroErrors.Recover(&err, "Analyzer.VisualizationData")

	records, err := a.provider.Filter(dataset.Query{Crop: crop, State: state, Season: season})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		available, availErr := a.availableSeasons(crop, state)
		if availErr != nil {
			return nil, availErr
		}
		return nil, agroErrors.NewDataUnavailableError(crop, state, season, available)
	}

	b, err := a.Benchmarks(crop, state, season)
	if err != nil {
		return nil, err
	}
	rank, err := a.percentileRank(userYield, crop, state, season)
	if err != nil {
		return nil, err
	}

	dist := make([]float64, len(records))
	yearSums := map[int]float64{}
	yearCounts := map[int]int{}
	for i := range records {
		dist[i] = records[i].Yield
		yearSums[records[i].Year] += records[i].Yield
		yearCounts[records[i].Year]++
	}

	years := make([]int, 0, len(yearSums))
	for y := range yearSums {
		years = append(years, y)
	}
	sort.Ints(years)

	trend := make([]TrendPoint, len(years))
	for i, y := range years {
		trend[i] = TrendPoint{Year: y, MeanYield: yearSums[y] / float64(yearCounts[y])}
	}

	return &VisualizationData{
		UserYield:         userYield,
		YieldDistribution: dist,
		Markers: Markers{
			Average: b.AverageYield,
			Top25:   b.Top25Percent,
			Top10:   b.Top10Percent,
			Maximum: b.MaxYield,
		},
		YearlyTrend:    trend,
		PercentileRank: rank,
	}, nil
}

// percentileRank is the share of records strictly below userYield, ×100.
func (a *Analyzer) percentileRank(userYield float64, crop, state, season string) (float64, error) {
	records, err := a.provider.Filter(dataset.Query{Crop: crop, State: state, Season: season})
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	below := 0
	for i := range records {
		if records[i].Yield < userYield {
			below++
		}
	}
	return round1(float64(below) / float64(len(records)) * 100), nil
}

// availableSeasons lists the seasons carrying data for crop+state. Never nil:
// an empty list is itself an answer.
func (a *Analyzer) availableSeasons(crop, state string) ([]string, error) {
	records, err := a.provider.Filter(dataset.Query{Crop: crop, State: state})
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	seasons := make([]string, 0)
	for i := range records {
		s := records[i].SeasonTrimmed()
		if !seen[s] {
			seen[s] = true
			seasons = append(seasons, s)
		}
	}
	sort.Strings(seasons)
	return seasons, nil
}

// highPerformers extracts the cohort at or above the 80th-percentile yield
// and its characteristic feature means.
func highPerformers(records []dataset.Record, yields []float64) HighPerformers {
	threshold := stats.Percentile(yields, highPerformerPercentile)

	var cohort []dataset.Record
	for i := range records {
		if records[i].Yield >= threshold {
			cohort = append(cohort, records[i])
		}
	}

	hp := HighPerformers{
		Count:    len(cohort),
		SharePct: round1(float64(len(cohort)) / float64(len(records)) * 100),
	}
	if len(cohort) == 0 {
		return hp
	}

	cohortYields := make([]float64, len(cohort))
	fert := make([]float64, len(cohort))
	for i := range cohort {
		cohortYields[i] = cohort[i].Yield
		fert[i] = cohort[i].Fertilizer
	}
	hp.AvgYield = round2(stats.Mean(cohortYields))

	c := Characteristics{
		AvgFertilizer: math.Round(stats.Mean(fert)),
		FertilizerRange: fmt.Sprintf("%.0f-%.0f",
			stats.Percentile(fert, 25), stats.Percentile(fert, 75)),
	}

	var temp, rain, humid []float64
	var ph, n, p, k []float64
	for i := range cohort {
		if cohort[i].HasWeather {
			temp = append(temp, cohort[i].AvgTempC)
			rain = append(rain, cohort[i].TotalRainfallMM)
			humid = append(humid, cohort[i].AvgHumidityPct)
		}
		if cohort[i].HasSoil {
			ph = append(ph, cohort[i].PH)
			n = append(n, cohort[i].N)
			p = append(p, cohort[i].P)
			k = append(k, cohort[i].K)
		}
	}
	if len(temp) > 0 {
		c.HasWeather = true
		c.OptimalTempC = round1(stats.Mean(temp))
		c.OptimalRainfallMM = math.Round(stats.Mean(rain))
		c.OptimalHumidityPct = round1(stats.Mean(humid))
	}
	if len(ph) > 0 {
		c.HasSoil = true
		c.OptimalPH = round1(stats.Mean(ph))
		c.OptimalN = math.Round(stats.Mean(n))
		c.OptimalP = math.Round(stats.Mean(p))
		c.OptimalK = math.Round(stats.Mean(k))
	}
	hp.Characteristics = c

	return hp
}

// improvementFactors computes Pearson correlations of each numeric feature
// against yield. Weather and soil features use only rows where the
// corresponding join succeeded, so a failed join never distorts a
// correlation.
func improvementFactors(records []dataset.Record) ImprovementFactors {
	type column struct {
		name      string
		value     func(*dataset.Record) float64
		available func(*dataset.Record) bool
	}

	always := func(*dataset.Record) bool { return true }
	weather := func(r *dataset.Record) bool { return r.HasWeather }
	soil := func(r *dataset.Record) bool { return r.HasSoil }

	columns := []column{
		{"fertilizer", func(r *dataset.Record) float64 { return r.Fertilizer }, always},
		{"pesticide", func(r *dataset.Record) float64 { return r.Pesticide }, always},
		{"area", func(r *dataset.Record) float64 { return r.Area }, always},
		{"avg_temp_c", func(r *dataset.Record) float64 { return r.AvgTempC }, weather},
		{"total_rainfall_mm", func(r *dataset.Record) float64 { return r.TotalRainfallMM }, weather},
		{"avg_humidity_percent", func(r *dataset.Record) float64 { return r.AvgHumidityPct }, weather},
		{"N", func(r *dataset.Record) float64 { return r.N }, soil},
		{"P", func(r *dataset.Record) float64 { return r.P }, soil},
		{"K", func(r *dataset.Record) float64 { return r.K }, soil},
		{"pH", func(r *dataset.Record) float64 { return r.PH }, soil},
	}

	var positive, negative []Factor
	for _, col := range columns {
		var xs, ys []float64
		for i := range records {
			if col.available(&records[i]) {
				xs = append(xs, col.value(&records[i]))
				ys = append(ys, records[i].Yield)
			}
		}
		if len(xs) < 2 {
			continue
		}

		r := stat.Correlation(xs, ys, nil)
		if math.IsNaN(r) {
			continue
		}
		f := Factor{Name: col.name, Correlation: r}
		if r > 0 {
			positive = append(positive, f)
		} else if r < 0 {
			negative = append(negative, f)
		}
	}

	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Correlation > positive[j].Correlation
	})
	sort.SliceStable(negative, func(i, j int) bool {
		return negative[i].Correlation < negative[j].Correlation
	})

	if len(positive) > 3 {
		positive = positive[:3]
	}
	if len(negative) > 3 {
		negative = negative[:3]
	}

	return ImprovementFactors{
		TopPositive: positive,
		TopNegative: negative,
		KeyInsights: factorInsights(positive, negative),
	}
}

// factorInsights turns the strongest correlations into one-line guidance.
// Only correlations clearing the magnitude floor are worth mentioning.
func factorInsights(positive, negative []Factor) []string {
	var insights []string

	if len(positive) > 0 && positive[0].Correlation > insightCorrelationFloor {
		insights = append(insights, fmt.Sprintf(
			"Increase %s for better yields (correlation: %.2f)",
			positive[0].Name, positive[0].Correlation))
	}
	if len(negative) > 0 && math.Abs(negative[0].Correlation) > insightCorrelationFloor {
		insights = append(insights, fmt.Sprintf(
			"Monitor %s levels (negative impact: %.2f)",
			negative[0].Name, negative[0].Correlation))
	}

	return insights
}

// tier builds one improvement tier toward the given target yield. The
// percentage is reported as 0 when userYield is 0: a relative improvement
// over nothing is undefined.
func tier(userYield, target float64, achievability string) Tier {
	t := Tier{
		TargetYield:   target,
		Improvement:   round2(target - userYield),
		Achievability: achievability,
	}
	if userYield > 0 {
		t.ImprovementPercent = round1((target - userYield) / userYield * 100)
	}
	return t
}

// recommendations assembles the band assessment, factor insights and
// high-performer pointers for the report.
func recommendations(userYield float64, b *Benchmarks) []string {
	var recs []string

	switch {
	case userYield >= b.Top10Percent:
		recs = append(recs, "Excellent! You're already in the top 10% of performers.")
	case userYield >= b.Top25Percent:
		recs = append(recs, "Good performance! You're in the top 25% range.")
	case userYield >= b.AverageYield:
		recs = append(recs, "Above average, but room for improvement.")
	default:
		recs = append(recs, "Significant improvement potential identified.")
	}

	recs = append(recs, b.Factors.KeyInsights...)

	if b.HighPerformers.Count > 0 {
		c := b.HighPerformers.Characteristics
		recs = append(recs, fmt.Sprintf(
			"Top performers use ~%.0f kg/ha fertilizer on average", c.AvgFertilizer))
		if c.HasSoil {
			recs = append(recs, fmt.Sprintf(
				"Optimal soil conditions: pH %.1f, N:%.0f, P:%.0f, K:%.0f",
				c.OptimalPH, c.OptimalN, c.OptimalP, c.OptimalK))
		}
	}

	return recs
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
