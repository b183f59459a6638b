// Package report exports advisory results for offline review: a benchmark and
// scenario-comparison workbook, and a yield-distribution chart with the
// farmer's yield marked against the slice's benchmarks.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/pkg/log"
	"github.com/fasalmitra/agroadvisor/scenario"
	"github.com/fasalmitra/agroadvisor/yieldgap"
)

const (
	benchmarkSheet = "Benchmarks"
	scenarioSheet  = "Scenarios"
	adviceSheet    = "Recommendations"
)

// Workbook bundles the sections written by WriteXLSX. Any section may be nil;
// its sheet is skipped.
type Workbook struct {
	Crop   string
	State  string
	Season string

	Gap        *yieldgap.GapReport
	Results    []scenario.Result
	Comparison *scenario.Comparison
}

// WriteXLSX writes the workbook to path, one sheet per populated section.
// Every sheet header carries a unique report id so exported files can be
// traced back through support channels.
func WriteXLSX(wb *Workbook, path string) (err error) {
	defer agroErrors.Recover(&err, "report.WriteXLSX")

	logger := log.GetLoggerWithName("report").With(log.ComponentKey, "WriteXLSX")

	f := excelize.NewFile()
	defer f.Close()

	reportID := uuid.New().String()
	stamp := time.Now().Format("2006-01-02 15:04")

	f.SetSheetName("Sheet1", benchmarkSheet)
	writeHeader(f, benchmarkSheet, wb, reportID, stamp)

	if wb.Gap != nil {
		writeBenchmarkSheet(f, wb.Gap)
	}
	if len(wb.Results) > 0 {
		f.NewSheet(scenarioSheet)
		writeHeader(f, scenarioSheet, wb, reportID, stamp)
		writeScenarioSheet(f, wb.Results)
	}
	if wb.Comparison != nil {
		f.NewSheet(adviceSheet)
		writeHeader(f, adviceSheet, wb, reportID, stamp)
		writeAdviceSheet(f, wb.Comparison)
	}

	if err := f.SaveAs(path); err != nil {
		return agroErrors.Wrap(err, "report.WriteXLSX")
	}

	logger.Info("workbook written",
		"path", path,
		"report_id", reportID,
		log.CropKey, wb.Crop,
		log.StateKey, wb.State,
	)
	return nil
}

// writeHeader puts the report identity block in the top rows of a sheet.
func writeHeader(f *excelize.File, sheet string, wb *Workbook, reportID, stamp string) {
	f.SetCellValue(sheet, "A1", "Report ID")
	f.SetCellValue(sheet, "B1", reportID)
	f.SetCellValue(sheet, "A2", "Generated")
	f.SetCellValue(sheet, "B2", stamp)
	f.SetCellValue(sheet, "A3", "Slice")
	slice := wb.Crop + " / " + wb.State
	if wb.Season != "" {
		slice += " / " + wb.Season
	}
	f.SetCellValue(sheet, "B3", slice)
}

func writeBenchmarkSheet(f *excelize.File, gap *yieldgap.GapReport) {
	b := gap.Benchmarks

	rows := []struct {
		label string
		value interface{}
	}{
		{"Your yield (quintal/ha)", gap.UserYield},
		{"Percentile rank", gap.PercentileRank},
		{"Records", b.TotalRecords},
		{"Years covered", b.YearsCovered},
		{"Average yield", b.AverageYield},
		{"Median yield", b.MedianYield},
		{"Top 10% yield", b.Top10Percent},
		{"Top 25% yield", b.Top25Percent},
		{"Bottom 25% yield", b.Bottom25Percent},
		{"Maximum yield", b.MaxYield},
		{"Minimum yield", b.MinYield},
		{"Yield std dev", b.YieldStd},
		{"Gap vs average", gap.Gaps.VsAverage},
		{"Gap vs top 25%", gap.Gaps.VsTop25},
		{"Gap vs top 10%", gap.Gaps.VsTop10},
		{"Gap vs maximum", gap.Gaps.VsMaximum},
	}

	start := 5
	for i, r := range rows {
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("A%d", start+i), r.label)
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("B%d", start+i), r.value)
	}

	row := start + len(rows) + 1
	f.SetCellValue(benchmarkSheet, fmt.Sprintf("A%d", row), "Improvement tiers")
	row++
	for _, t := range []struct {
		name string
		tier yieldgap.Tier
	}{
		{"Conservative", gap.Improvement.Conservative},
		{"Moderate", gap.Improvement.Moderate},
		{"Aggressive", gap.Improvement.Aggressive},
	} {
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("A%d", row), t.name)
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("B%d", row), t.tier.TargetYield)
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("C%d", row), t.tier.Improvement)
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("%.1f%%", t.tier.ImprovementPercent))
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("E%d", row), t.tier.Achievability)
		row++
	}

	row++
	for _, rec := range gap.Recommendations {
		f.SetCellValue(benchmarkSheet, fmt.Sprintf("A%d", row), rec)
		row++
	}
}

func writeScenarioSheet(f *excelize.File, results []scenario.Result) {
	headers := []string{
		"Scenario", "Type", "Predicted Yield", "CI Lower", "CI Upper",
		"Risk", "Revenue", "Costs", "Profit", "Profit/ha", "Description",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 5)
		f.SetCellValue(scenarioSheet, cell, h)
		f.SetColWidth(scenarioSheet, cell, cell, 16)
	}

	for i, r := range results {
		row := 6 + i
		f.SetCellValue(scenarioSheet, fmt.Sprintf("A%d", row), r.Name)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("B%d", row), string(r.Type))
		f.SetCellValue(scenarioSheet, fmt.Sprintf("C%d", row), r.PredictedYield)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("D%d", row), r.Confidence.Lower)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("E%d", row), r.Confidence.Upper)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("F%d", row), string(r.RiskLevel))
		f.SetCellValue(scenarioSheet, fmt.Sprintf("G%d", row), r.Profit.Revenue)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("H%d", row), r.Profit.Costs)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("I%d", row), r.Profit.Profit)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("J%d", row), r.Profit.ProfitPerHectare)
		f.SetCellValue(scenarioSheet, fmt.Sprintf("K%d", row), r.Description)
	}
}

func writeAdviceSheet(f *excelize.File, cmp *scenario.Comparison) {
	f.SetCellValue(adviceSheet, "A5", "Best for yield")
	f.SetCellValue(adviceSheet, "B5", cmp.BestForYield.Name)
	f.SetCellValue(adviceSheet, "C5", cmp.BestForYield.Value)
	f.SetCellValue(adviceSheet, "A6", "Best for profit")
	f.SetCellValue(adviceSheet, "B6", cmp.BestForProfit.Name)
	f.SetCellValue(adviceSheet, "C6", cmp.BestForProfit.Value)
	f.SetCellValue(adviceSheet, "A7", "Lowest risk")
	f.SetCellValue(adviceSheet, "B7", cmp.LowestRisk.Name)
	f.SetCellValue(adviceSheet, "C7", cmp.LowestRisk.Value)

	row := 9
	for _, rec := range cmp.Recommendations {
		f.SetCellValue(adviceSheet, fmt.Sprintf("A%d", row), rec)
		row++
	}
}
