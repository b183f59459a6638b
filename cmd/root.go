// Package cmd implements the agroadvisor command line: train the yield model,
// run what-if scenarios, benchmark a reported yield, and export reports.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fasalmitra/agroadvisor/config"
	"github.com/fasalmitra/agroadvisor/dataset"
	"github.com/fasalmitra/agroadvisor/ensemble"
	"github.com/fasalmitra/agroadvisor/pkg/log"
)

var (
	cfgFile  string
	logLevel string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agroadvisor",
	Short: "Farming advisory: yield prediction, what-if scenarios and benchmarks",
	Long: `agroadvisor trains a yield model on historical crop, weather and soil data
and answers three questions: what yield to expect under different input
strategies, how a reported yield compares to the region, and which factors
drive the difference.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main().
func Execute() {
	cobra.OnInitialize(initConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
}

func initConfig() {
	c, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		c = config.Default()
	}
	cfg = c

	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	log.SetupLogger(level, os.Stderr)
}

// newProvider builds the CSV-backed dataset provider from the configuration.
func newProvider() dataset.Provider {
	return dataset.NewLoader(cfg.Dataset.CropPath, cfg.Dataset.WeatherPath, cfg.Dataset.SoilPath)
}

// forestOptions translates the model configuration into forest options.
func forestOptions() []ensemble.RandomForestOption {
	return []ensemble.RandomForestOption{
		ensemble.WithNEstimators(cfg.Model.NEstimators),
		ensemble.WithMaxDepth(cfg.Model.MaxDepth),
		ensemble.WithMinSamplesSplit(cfg.Model.MinSamplesSplit),
		ensemble.WithRandomState(cfg.Model.RandomState),
	}
}
