package report_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fasalmitra/agroadvisor/dataset"
	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/report"
	"github.com/fasalmitra/agroadvisor/scenario"
	"github.com/fasalmitra/agroadvisor/yieldgap"
)

func sliceRecords() []dataset.Record {
	var records []dataset.Record
	for i := 1; i <= 10; i++ {
		records = append(records, dataset.Record{
			Crop: "Wheat", State: "Gujarat", Season: "Rabi", Year: 2000 + i,
			Area: 1000, Fertilizer: float64(i) * 1000, Pesticide: 500,
			Yield:    float64(i) * 10,
			AvgTempC: 25, TotalRainfallMM: 1000, AvgHumidityPct: 70, HasWeather: true,
			N: 75, P: 35, K: 30, PH: 6.5, HasSoil: true,
		})
	}
	return records
}

func sampleResults() []scenario.Result {
	mk := func(name string, typ scenario.Type, yield, profit float64, risk scenario.RiskLevel) scenario.Result {
		return scenario.Result{
			Scenario: scenario.Scenario{
				FeatureVector: scenario.NewFeatureVector("Wheat", "Gujarat", "Rabi"),
				Name:          name,
				Type:          typ,
			},
			PredictedYield: yield,
			Confidence:     scenario.Interval{Lower: yield - 5, Upper: yield + 5},
			RiskLevel:      risk,
			Profit:         scenario.ProfitEstimate{Profit: profit},
		}
	}
	return []scenario.Result{
		mk("Enhanced Fertilizer", scenario.TypeYieldMaximizing, 60, 80000, scenario.RiskMedium),
		mk("Current Practice", scenario.TypeBaseline, 55, 75000, scenario.RiskLow),
	}
}

func TestWriteXLSX(t *testing.T) {
	analyzer := yieldgap.NewAnalyzer(dataset.NewMemoryProvider(sliceRecords()))
	gap, err := analyzer.Gap(50, "Wheat", "Gujarat", "Rabi")
	require.NoError(t, err)

	results := sampleResults()
	cmp, err := scenario.Compare(results)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	err = report.WriteXLSX(&report.Workbook{
		Crop: "Wheat", State: "Gujarat", Season: "Rabi",
		Gap:        gap,
		Results:    results,
		Comparison: cmp,
	}, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Benchmarks")
	assert.Contains(t, sheets, "Scenarios")
	assert.Contains(t, sheets, "Recommendations")

	reportID, err := f.GetCellValue("Benchmarks", "B1")
	require.NoError(t, err)
	assert.Len(t, reportID, 36, "report id is a uuid")

	name, err := f.GetCellValue("Scenarios", "A6")
	require.NoError(t, err)
	assert.Equal(t, "Enhanced Fertilizer", name)
}

func TestWriteXLSX_BenchmarksOnly(t *testing.T) {
	analyzer := yieldgap.NewAnalyzer(dataset.NewMemoryProvider(sliceRecords()))
	gap, err := analyzer.Gap(50, "Wheat", "Gujarat", "Rabi")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.xlsx")
	err = report.WriteXLSX(&report.Workbook{
		Crop: "Wheat", State: "Gujarat",
		Gap: gap,
	}, path)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.NotContains(t, f.GetSheetList(), "Scenarios")
}

func TestWriteYieldHistogram(t *testing.T) {
	analyzer := yieldgap.NewAnalyzer(dataset.NewMemoryProvider(sliceRecords()))
	viz, err := analyzer.VisualizationData(50, "Wheat", "Gujarat", "Rabi")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "yield.png")
	err = report.WriteYieldHistogram(viz, "Wheat in Gujarat (Rabi)", path)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

func TestWriteYieldHistogram_EmptyDistribution(t *testing.T) {
	err := report.WriteYieldHistogram(&yieldgap.VisualizationData{}, "empty", "unused.png")
	require.Error(t, err)
	assert.ErrorIs(t, err, agroErrors.ErrEmptyData)
}
