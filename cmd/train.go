package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fasalmitra/agroadvisor/scenario"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the yield model and report its holdout score",
	RunE: func(cmd *cobra.Command, args []string) error {
		trainer := scenario.NewTrainer(newProvider(), forestOptions()...)

		report, err := trainer.Train()
		if err != nil {
			return err
		}

		fmt.Printf("Trained on %d samples\n", report.Samples)
		fmt.Printf("  train R2: %.3f\n", report.TrainScore)
		if report.Degenerate {
			fmt.Println("  test R2:  n/a (holdout split had no target variance)")
		} else {
			fmt.Printf("  test R2:  %.3f\n", report.TestScore)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(trainCmd)
}
