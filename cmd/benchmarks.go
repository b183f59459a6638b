package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fasalmitra/agroadvisor/yieldgap"
)

var benchmarksFlags struct {
	crop   string
	state  string
	season string
}

var benchmarksCmd = &cobra.Command{
	Use:   "benchmarks",
	Short: "Show the yield statistics of a crop/state/season slice",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer := yieldgap.NewAnalyzer(newProvider())

		b, err := analyzer.Benchmarks(benchmarksFlags.crop, benchmarksFlags.state, benchmarksFlags.season)
		if err != nil {
			return err
		}

		fmt.Printf("%s in %s", benchmarksFlags.crop, benchmarksFlags.state)
		if benchmarksFlags.season != "" {
			fmt.Printf(" (%s)", benchmarksFlags.season)
		}
		fmt.Printf(": %d records, %s\n", b.TotalRecords, b.YearsCovered)
		fmt.Printf("  yield quintal/ha: avg %.2f, median %.2f, std %.2f\n",
			b.AverageYield, b.MedianYield, b.YieldStd)
		fmt.Printf("  percentiles: p10 %.2f, p25 %.2f, p75 %.2f, p90 %.2f\n",
			b.Bottom10Percent, b.Bottom25Percent, b.Top25Percent, b.Top10Percent)
		fmt.Printf("  range: %.2f - %.2f\n", b.MinYield, b.MaxYield)

		hp := b.HighPerformers
		fmt.Printf("\nHigh performers (top 20%%): %d records (%.1f%%), avg yield %.2f\n",
			hp.Count, hp.SharePct, hp.AvgYield)
		if hp.Count > 0 {
			c := hp.Characteristics
			fmt.Printf("  fertilizer ~%.0f kg (range %s)\n", c.AvgFertilizer, c.FertilizerRange)
			if c.HasWeather {
				fmt.Printf("  weather: %.1f C, %.0f mm rain, %.1f%% humidity\n",
					c.OptimalTempC, c.OptimalRainfallMM, c.OptimalHumidityPct)
			}
			if c.HasSoil {
				fmt.Printf("  soil: pH %.1f, N %.0f, P %.0f, K %.0f\n",
					c.OptimalPH, c.OptimalN, c.OptimalP, c.OptimalK)
			}
		}

		if len(b.Factors.TopPositive) > 0 || len(b.Factors.TopNegative) > 0 {
			fmt.Println("\nYield correlations:")
			for _, f := range b.Factors.TopPositive {
				fmt.Printf("  %+.2f %s\n", f.Correlation, f.Name)
			}
			for _, f := range b.Factors.TopNegative {
				fmt.Printf("  %+.2f %s\n", f.Correlation, f.Name)
			}
		}
		for _, insight := range b.Factors.KeyInsights {
			fmt.Printf("  - %s\n", insight)
		}
		return nil
	},
}

func init() {
	f := benchmarksCmd.Flags()
	f.StringVar(&benchmarksFlags.crop, "crop", "", "crop name (required)")
	f.StringVar(&benchmarksFlags.state, "state", "", "state name (required)")
	f.StringVar(&benchmarksFlags.season, "season", "", "season name")

	benchmarksCmd.MarkFlagRequired("crop")
	benchmarksCmd.MarkFlagRequired("state")

	rootCmd.AddCommand(benchmarksCmd)
}
