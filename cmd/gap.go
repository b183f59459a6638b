package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	agroErrors "github.com/fasalmitra/agroadvisor/pkg/errors"
	"github.com/fasalmitra/agroadvisor/yieldgap"
)

var gapFlags struct {
	crop   string
	state  string
	season string
	yield  float64
}

var gapCmd = &cobra.Command{
	Use:   "gap",
	Short: "Compare your yield against regional benchmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		analyzer := yieldgap.NewAnalyzer(newProvider())

		report, err := analyzer.Gap(gapFlags.yield, gapFlags.crop, gapFlags.state, gapFlags.season)
		if err != nil {
			var unavailable *agroErrors.DataUnavailableError
			if agroErrors.As(err, &unavailable) && len(unavailable.AvailableSeasons) > 0 {
				fmt.Printf("%v\nSeasons with data: %v\n", unavailable, unavailable.AvailableSeasons)
			}
			return err
		}

		b := report.Benchmarks
		fmt.Printf("Your yield: %.2f quintal/ha (better than %.1f%% of %d records, %s)\n",
			report.UserYield, report.PercentileRank, b.TotalRecords, b.YearsCovered)
		fmt.Printf("  average %.2f | top 25%% %.2f | top 10%% %.2f | best %.2f\n",
			b.AverageYield, b.Top25Percent, b.Top10Percent, b.MaxYield)
		fmt.Printf("  gap vs average: %+.2f | vs top 10%%: %+.2f\n",
			-report.Gaps.VsAverage, -report.Gaps.VsTop10)

		fmt.Println("\nImprovement potential:")
		printTier("conservative", report.Improvement.Conservative)
		printTier("moderate", report.Improvement.Moderate)
		printTier("aggressive", report.Improvement.Aggressive)

		fmt.Println("\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

func printTier(name string, t yieldgap.Tier) {
	fmt.Printf("  %-12s target %.2f (%+.2f, %.1f%%) - %s\n",
		name, t.TargetYield, t.Improvement, t.ImprovementPercent, t.Achievability)
}

func init() {
	f := gapCmd.Flags()
	f.StringVar(&gapFlags.crop, "crop", "", "crop name (required)")
	f.StringVar(&gapFlags.state, "state", "", "state name (required)")
	f.StringVar(&gapFlags.season, "season", "", "season name")
	f.Float64Var(&gapFlags.yield, "yield", 0, "your yield in quintal/ha (required)")

	gapCmd.MarkFlagRequired("crop")
	gapCmd.MarkFlagRequired("state")
	gapCmd.MarkFlagRequired("yield")

	rootCmd.AddCommand(gapCmd)
}
