package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/fasalmitra/agroadvisor/report"
	"github.com/fasalmitra/agroadvisor/scenario"
	"github.com/fasalmitra/agroadvisor/yieldgap"
)

var exportFlags struct {
	crop   string
	state  string
	season string
	yield  float64

	area       float64
	fertilizer float64
	pesticide  float64

	xlsxPath  string
	chartPath string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export benchmarks, scenarios and charts to files",
	Long: `Runs the gap analysis and the scenario prediction for the given slice and
writes an XLSX workbook and a yield-distribution chart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := newProvider()
		analyzer := yieldgap.NewAnalyzer(provider)

		gap, err := analyzer.Gap(exportFlags.yield, exportFlags.crop, exportFlags.state, exportFlags.season)
		if err != nil {
			return err
		}

		base := scenario.NewFeatureVector(exportFlags.crop, exportFlags.state, exportFlags.season)
		if cmd.Flags().Changed("area") {
			base.Area = exportFlags.area
		}
		if cmd.Flags().Changed("fertilizer") {
			base.Fertilizer = exportFlags.fertilizer
		}
		if cmd.Flags().Changed("pesticide") {
			base.Pesticide = exportFlags.pesticide
		}

		predictor := scenario.NewPredictor(provider, cfg.Economics, forestOptions()...)
		results, err := predictor.PredictScenarios(base)
		if err != nil {
			return err
		}
		cmp, err := scenario.Compare(results)
		if err != nil {
			return err
		}

		if err := report.WriteXLSX(&report.Workbook{
			Crop:       exportFlags.crop,
			State:      exportFlags.state,
			Season:     exportFlags.season,
			Gap:        gap,
			Results:    results,
			Comparison: cmp,
		}, exportFlags.xlsxPath); err != nil {
			return err
		}
		fmt.Println("wrote", exportFlags.xlsxPath)

		if exportFlags.chartPath != "" {
			viz, err := analyzer.VisualizationData(exportFlags.yield, exportFlags.crop, exportFlags.state, exportFlags.season)
			if err != nil {
				return err
			}
			title := fmt.Sprintf("%s in %s", exportFlags.crop, exportFlags.state)
			if exportFlags.season != "" {
				title += fmt.Sprintf(" (%s)", exportFlags.season)
			}
			if err := report.WriteYieldHistogram(viz, title, exportFlags.chartPath); err != nil {
				return err
			}
			fmt.Println("wrote", exportFlags.chartPath)
		}
		return nil
	},
}

func init() {
	f := exportCmd.Flags()
	f.StringVar(&exportFlags.crop, "crop", "", "crop name (required)")
	f.StringVar(&exportFlags.state, "state", "", "state name (required)")
	f.StringVar(&exportFlags.season, "season", "", "season name")
	f.Float64Var(&exportFlags.yield, "yield", 0, "your yield in quintal/ha (required)")
	f.Float64Var(&exportFlags.area, "area", math.NaN(), "cultivated area in hectares")
	f.Float64Var(&exportFlags.fertilizer, "fertilizer", math.NaN(), "fertilizer in kg")
	f.Float64Var(&exportFlags.pesticide, "pesticide", math.NaN(), "pesticide in kg")
	f.StringVar(&exportFlags.xlsxPath, "out", "advisory_report.xlsx", "workbook output path")
	f.StringVar(&exportFlags.chartPath, "chart", "", "chart output path (PNG, optional)")

	exportCmd.MarkFlagRequired("crop")
	exportCmd.MarkFlagRequired("state")
	exportCmd.MarkFlagRequired("yield")

	rootCmd.AddCommand(exportCmd)
}
