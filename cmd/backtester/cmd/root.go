package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "backtester",
	Short: "A moving-average crossover backtester for daily stock data",
	Long: `Backtester simulates a long-only moving-average crossover strategy
against daily closing prices and compares it with buy-and-hold.

It provides tools for:
  - Running single backtests against Yahoo Finance or local CSV data
  - Sweeping window combinations in parallel to rank parameters
  - Journaling runs, trades and equity curves to SQLite or CSV
  - Exporting org-mode run reports
  - Serving backtests over HTTP

Complete documentation is available at https://github.com/rustyeddy/backtester`,
}

var (
	cfgPath string
	verbose bool

	log *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	cobra.OnInitialize(func() {
		log = logger.Must(verbose)
	})
}

// loadConfig returns the defaults unless --config points at a file.
func loadConfig() (config.Config, error) {
	if cfgPath == "" {
		return *config.Default(), nil
	}
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}
