package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fasalmitra/agroadvisor/config"
	"github.com/fasalmitra/agroadvisor/dataset"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the agroadvisor configuration",
}

var configInitPath string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with the defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Default().Save(configInitPath); err != nil {
			return err
		}
		fmt.Println("wrote", configInitPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration and dataset overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("dataset: %s, %s, %s\n",
			cfg.Dataset.CropPath, cfg.Dataset.WeatherPath, cfg.Dataset.SoilPath)
		fmt.Printf("model: %d trees, depth %d, min split %d, seed %d\n",
			cfg.Model.NEstimators, cfg.Model.MaxDepth, cfg.Model.MinSamplesSplit, cfg.Model.RandomState)
		fmt.Printf("economics: price %.0f/quintal, fertilizer %.2f/kg, pesticide %.2f/kg, overhead %.0f/ha\n",
			cfg.Economics.PricePerQuintal, cfg.Economics.FertilizerCostPerKg,
			cfg.Economics.PesticideCostPerKg, cfg.Economics.OverheadPerHectare)

		loader := dataset.NewLoader(cfg.Dataset.CropPath, cfg.Dataset.WeatherPath, cfg.Dataset.SoilPath)
		summary, err := loader.Summary()
		if err != nil {
			fmt.Printf("dataset not loadable: %v\n", err)
			return nil
		}
		fmt.Printf("records: %d (%d crops, %d states, %d seasons, %s)\n",
			summary.TotalRecords, summary.Crops, summary.States, summary.Seasons, summary.YearSpan)
		fmt.Printf("yield quintal/ha: avg %.2f, range %.2f-%.2f\n",
			summary.AvgYield, summary.MinYield, summary.MaxYield)
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "out", "agroadvisor.yaml", "output path")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
