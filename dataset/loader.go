package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
	"github.com/fasalmitra/agroadvisor/pkg/telemetry"
)

// Expected CSV headers. Columns are matched by name, not position.
//
// crop table:    crop, state, season, year, area, fertilizer, pesticide, yield
// weather table: state, year, avg_temp_c, total_rainfall_mm, avg_humidity_percent
// soil table:    state, n, p, k, ph
type cropRow struct {
	Crop, State, Season                 string
	Year                                int
	Area, Fertilizer, Pesticide, Yield  float64
}

type weatherRow struct {
	State                                     string
	Year                                      int
	AvgTempC, TotalRainfallMM, AvgHumidityPct float64
}

type soilRow struct {
	State   string
	N, P, K float64
	PH      float64
}

// Loader reads the three source CSVs and produces the merged record table.
// Load and Merge are lazily triggered by any accessor, so a Loader is usable
// immediately after construction.
type Loader struct {
	cropPath    string
	weatherPath string
	soilPath    string

	cropRows    []cropRow
	weatherRows []weatherRow
	soilRows    []soilRow
	loaded      bool

	merged         []Record
	incompleteRows int

	logger log.Logger
}

// NewLoader creates a Loader for the given CSV file paths.
func NewLoader(cropPath, weatherPath, soilPath string) *Loader {
	return &Loader{
		cropPath:    cropPath,
		weatherPath: weatherPath,
		soilPath:    soilPath,
		logger:      log.GetLoggerWithName("dataset").With(log.ComponentKey, "Loader"),
	}
}

// Load reads all three source tables. A missing file is a recoverable
// data-unavailable condition, never a crash.
func (l *Loader) Load() (err error) {
	defer agroErrors.Recover(&err, "Loader.Load")

	startTime := time.Now()

	cropRows, err := readCropCSV(l.cropPath)
	if err != nil {
		return err
	}
	weatherRows, err := readWeatherCSV(l.weatherPath)
	if err != nil {
		return err
	}
	soilRows, err := readSoilCSV(l.soilPath)
	if err != nil {
		return err
	}

	l.cropRows = cropRows
	l.weatherRows = weatherRows
	l.soilRows = soilRows
	l.loaded = true

	l.logger.Info("datasets loaded",
		log.OperationKey, log.OperationLoad,
		"crop_rows", len(cropRows),
		"weather_rows", len(weatherRows),
		"soil_rows", len(soilRows),
		log.DurationMsKey, time.Since(startTime).Milliseconds(),
	)

	return nil
}

// Merge left-joins the crop table with weather on (state, year), then with
// soil on (state). Rows left with a missing joined side are flagged and
// counted, never silently dropped: downstream training applies its own
// drop-incomplete policy, while benchmark statistics still see the yield
// columns of every row.
func (l *Loader) Merge() (_ []Record, err error) {
	defer agroErrors.Recover(&err, "Loader.Merge")

	if !l.loaded {
		if err := l.Load(); err != nil {
			return nil, err
		}
	}
	if l.merged != nil {
		return l.merged, nil
	}

	weatherByKey := make(map[string]weatherRow, len(l.weatherRows))
	for _, w := range l.weatherRows {
		weatherByKey[w.State+"|"+strconv.Itoa(w.Year)] = w
	}
	soilByState := make(map[string]soilRow, len(l.soilRows))
	for _, s := range l.soilRows {
		soilByState[s.State] = s
	}

	merged := make([]Record, 0, len(l.cropRows))
	incomplete := 0

	for _, c := range l.cropRows {
		rec := Record{
			Crop:       c.Crop,
			State:      c.State,
			Season:     c.Season,
			Year:       c.Year,
			Area:       c.Area,
			Fertilizer: c.Fertilizer,
			Pesticide:  c.Pesticide,
			Yield:      c.Yield,
		}

		if w, ok := weatherByKey[c.State+"|"+strconv.Itoa(c.Year)]; ok {
			rec.AvgTempC = w.AvgTempC
			rec.TotalRainfallMM = w.TotalRainfallMM
			rec.AvgHumidityPct = w.AvgHumidityPct
			rec.HasWeather = true
		}
		if s, ok := soilByState[c.State]; ok {
			rec.N, rec.P, rec.K, rec.PH = s.N, s.P, s.K, s.PH
			rec.HasSoil = true
		}

		if !rec.Complete() {
			incomplete++
			telemetry.IncompleteJoinRowsTotal.Inc()
		}
		merged = append(merged, rec)
	}

	l.merged = merged
	l.incompleteRows = incomplete

	if incomplete > 0 {
		l.logger.Warn("merge left rows with missing joined fields",
			log.OperationKey, log.OperationMerge,
			log.RowsKey, len(merged),
			"incomplete_rows", incomplete,
		)
	} else {
		l.logger.Info("merge completed with no missing joins",
			log.OperationKey, log.OperationMerge,
			log.RowsKey, len(merged),
		)
	}

	return merged, nil
}

// IncompleteRows returns the number of merged rows with a missing weather or
// soil join. Valid after Merge.
func (l *Loader) IncompleteRows() int {
	return l.incompleteRows
}

// Filter returns the merged records matching q. No matching rows is a valid
// empty result, not an error.
func (l *Loader) Filter(q Query) ([]Record, error) {
	merged, err := l.Merge()
	if err != nil {
		return nil, err
	}
	return filterRecords(merged, q), nil
}

// Crops returns the sorted unique crop names.
func (l *Loader) Crops() ([]string, error) {
	merged, err := l.Merge()
	if err != nil {
		return nil, err
	}
	return uniqueSorted(merged, func(r *Record) string { return r.Crop }), nil
}

// States returns the sorted unique state names.
func (l *Loader) States() ([]string, error) {
	merged, err := l.Merge()
	if err != nil {
		return nil, err
	}
	return uniqueSorted(merged, func(r *Record) string { return r.State }), nil
}

// Seasons returns the sorted unique season names, whitespace-trimmed.
func (l *Loader) Seasons() ([]string, error) {
	merged, err := l.Merge()
	if err != nil {
		return nil, err
	}
	return uniqueSorted(merged, func(r *Record) string { return r.SeasonTrimmed() }), nil
}

// Summary describes the merged dataset at a glance.
type Summary struct {
	TotalRecords int
	Crops        int
	States       int
	Seasons      int
	YearSpan     string
	AvgYield     float64
	MinYield     float64
	MaxYield     float64
}

// Summary computes overview statistics of the merged dataset.
func (l *Loader) Summary() (Summary, error) {
	merged, err := l.Merge()
	if err != nil {
		return Summary{}, err
	}
	if len(merged) == 0 {
		return Summary{}, agroErrors.NewModelError("Loader.Summary", "merged dataset is empty", agroErrors.ErrEmptyData)
	}

	crops := make(map[string]bool)
	states := make(map[string]bool)
	seasons := make(map[string]bool)
	minYear, maxYear := merged[0].Year, merged[0].Year
	minYield, maxYield := merged[0].Yield, merged[0].Yield
	var yieldSum float64

	for i := range merged {
		r := &merged[i]
		crops[r.Crop] = true
		states[r.State] = true
		seasons[r.SeasonTrimmed()] = true
		if r.Year < minYear {
			minYear = r.Year
		}
		if r.Year > maxYear {
			maxYear = r.Year
		}
		if r.Yield < minYield {
			minYield = r.Yield
		}
		if r.Yield > maxYield {
			maxYield = r.Yield
		}
		yieldSum += r.Yield
	}

	return Summary{
		TotalRecords: len(merged),
		Crops:        len(crops),
		States:       len(states),
		Seasons:      len(seasons),
		YearSpan:     fmt.Sprintf("%d-%d", minYear, maxYear),
		AvgYield:     yieldSum / float64(len(merged)),
		MinYield:     minYield,
		MaxYield:     maxYield,
	}, nil
}

// readTable opens a CSV file and returns its header-indexed rows.
func readTable(path, name string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, agroErrors.NewModelError("Loader.Load",
				fmt.Sprintf("%s data not found: %s", name, path), agroErrors.ErrDataUnavailable)
		}
		return nil, agroErrors.Wrap(err, "Loader.Load: open "+name)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, agroErrors.Wrap(err, "Loader.Load: parse "+name)
	}
	if len(rows) < 1 {
		return nil, agroErrors.NewModelError("Loader.Load",
			fmt.Sprintf("%s data is empty: %s", name, path), agroErrors.ErrEmptyData)
	}

	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				m[strings.ToLower(strings.TrimSpace(col))] = row[i]
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func readCropCSV(path string) ([]cropRow, error) {
	table, err := readTable(path, "crop yield")
	if err != nil {
		return nil, err
	}

	rows := make([]cropRow, 0, len(table))
	for i, m := range table {
		var r cropRow
		r.Crop = m["crop"]
		r.State = m["state"]
		r.Season = m["season"]
		if r.Year, err = parseInt(m["year"]); err != nil {
			return nil, rowError("crop yield", i, "year", err)
		}
		if r.Area, err = parseFloat(m["area"]); err != nil {
			return nil, rowError("crop yield", i, "area", err)
		}
		if r.Fertilizer, err = parseFloat(m["fertilizer"]); err != nil {
			return nil, rowError("crop yield", i, "fertilizer", err)
		}
		if r.Pesticide, err = parseFloat(m["pesticide"]); err != nil {
			return nil, rowError("crop yield", i, "pesticide", err)
		}
		if r.Yield, err = parseFloat(m["yield"]); err != nil {
			return nil, rowError("crop yield", i, "yield", err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func readWeatherCSV(path string) ([]weatherRow, error) {
	table, err := readTable(path, "weather")
	if err != nil {
		return nil, err
	}

	rows := make([]weatherRow, 0, len(table))
	for i, m := range table {
		var r weatherRow
		r.State = m["state"]
		if r.Year, err = parseInt(m["year"]); err != nil {
			return nil, rowError("weather", i, "year", err)
		}
		if r.AvgTempC, err = parseFloat(m["avg_temp_c"]); err != nil {
			return nil, rowError("weather", i, "avg_temp_c", err)
		}
		if r.TotalRainfallMM, err = parseFloat(m["total_rainfall_mm"]); err != nil {
			return nil, rowError("weather", i, "total_rainfall_mm", err)
		}
		if r.AvgHumidityPct, err = parseFloat(m["avg_humidity_percent"]); err != nil {
			return nil, rowError("weather", i, "avg_humidity_percent", err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func readSoilCSV(path string) ([]soilRow, error) {
	table, err := readTable(path, "soil")
	if err != nil {
		return nil, err
	}

	rows := make([]soilRow, 0, len(table))
	for i, m := range table {
		var r soilRow
		r.State = m["state"]
		if r.N, err = parseFloat(m["n"]); err != nil {
			return nil, rowError("soil", i, "n", err)
		}
		if r.P, err = parseFloat(m["p"]); err != nil {
			return nil, rowError("soil", i, "p", err)
		}
		if r.K, err = parseFloat(m["k"]); err != nil {
			return nil, rowError("soil", i, "k", err)
		}
		if r.PH, err = parseFloat(m["ph"]); err != nil {
			return nil, rowError("soil", i, "ph", err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func rowError(table string, row int, column string, err error) error {
	return agroErrors.NewValueError("Loader.Load",
		fmt.Sprintf("%s row %d: bad %s value: %v", table, row+1, column, err))
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
