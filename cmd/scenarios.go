package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/fasalmitra/agroadvisor/scenario"
)

var scenariosFlags struct {
	crop   string
	state  string
	season string

	area       float64
	fertilizer float64
	pesticide  float64
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "Predict yield under what-if input strategies",
	Long: `Derives up to six scenarios from your current practice (reduced and
enhanced fertilizer, alternative seasons, top-performer inputs, conservative)
and predicts each one with a confidence interval, risk level and profit
estimate. Omitted numeric inputs are filled from regional history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		base := scenario.NewFeatureVector(scenariosFlags.crop, scenariosFlags.state, scenariosFlags.season)
		if cmd.Flags().Changed("area") {
			base.Area = scenariosFlags.area
		}
		if cmd.Flags().Changed("fertilizer") {
			base.Fertilizer = scenariosFlags.fertilizer
		}
		if cmd.Flags().Changed("pesticide") {
			base.Pesticide = scenariosFlags.pesticide
		}

		predictor := scenario.NewPredictor(newProvider(), cfg.Economics, forestOptions()...)
		results, err := predictor.PredictScenarios(base)
		if err != nil {
			return err
		}

		fmt.Printf("Scenarios for %s in %s", scenariosFlags.crop, scenariosFlags.state)
		if scenariosFlags.season != "" {
			fmt.Printf(" (%s)", scenariosFlags.season)
		}
		fmt.Println()
		for i, r := range results {
			fmt.Printf("%d. %s [%s risk]\n", i+1, r.Name, r.RiskLevel)
			fmt.Printf("   yield %.2f quintal/ha (95%% CI %.2f-%.2f)\n",
				r.PredictedYield, r.Confidence.Lower, r.Confidence.Upper)
			fmt.Printf("   profit %.0f (%.0f/ha)\n", r.Profit.Profit, r.Profit.ProfitPerHectare)
			if r.Description != "" {
				fmt.Printf("   %s\n", r.Description)
			}
		}

		cmp, err := scenario.Compare(results)
		if err != nil {
			return err
		}
		fmt.Println("\nRecommendations:")
		for _, rec := range cmp.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
		return nil
	},
}

func init() {
	f := scenariosCmd.Flags()
	f.StringVar(&scenariosFlags.crop, "crop", "", "crop name (required)")
	f.StringVar(&scenariosFlags.state, "state", "", "state name (required)")
	f.StringVar(&scenariosFlags.season, "season", "", "season name")
	f.Float64Var(&scenariosFlags.area, "area", math.NaN(), "cultivated area in hectares")
	f.Float64Var(&scenariosFlags.fertilizer, "fertilizer", math.NaN(), "fertilizer in kg")
	f.Float64Var(&scenariosFlags.pesticide, "pesticide", math.NaN(), "pesticide in kg")

	scenariosCmd.MarkFlagRequired("crop")
	scenariosCmd.MarkFlagRequired("state")

	rootCmd.AddCommand(scenariosCmd)
}
