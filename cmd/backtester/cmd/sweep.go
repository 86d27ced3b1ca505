package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/backtest"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Backtest every window combination and rank the results",
	Long: `Sweep runs the crossover backtest for every short/long window pair and
prints a ranking by total return. Pairs where the short window is not below
the long window are skipped.

The data is fetched once and shared by all runs.

Examples:
  backtester sweep -t AAPL --shorts 5,10,20 --longs 50,100,200
  backtester sweep --csv data/aapl.csv --shorts 3,5 --longs 10,20 --top 5`,
	RunE: runSweep,
}

var (
	sweepTicker  string
	sweepShorts  []int
	sweepLongs   []int
	sweepWorkers int
	sweepCapital float64
	sweepCSVPath string
	sweepFrom    string
	sweepTo      string
	sweepTop     int
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&sweepTicker, "ticker", "t", "AAPL", "ticker symbol")
	sweepCmd.Flags().IntSliceVar(&sweepShorts, "shorts", []int{5, 10, 20, 50}, "short MA windows")
	sweepCmd.Flags().IntSliceVar(&sweepLongs, "longs", []int{50, 100, 200}, "long MA windows")
	sweepCmd.Flags().IntVarP(&sweepWorkers, "workers", "w", 0, "parallel workers (0 = one per CPU)")
	sweepCmd.Flags().Float64VarP(&sweepCapital, "capital", "c", 10_000, "starting capital")
	sweepCmd.Flags().StringVar(&sweepCSVPath, "csv", "", "load bars from a CSV file instead of Yahoo")
	sweepCmd.Flags().StringVar(&sweepFrom, "from", "", "history start date (YYYY-MM-DD)")
	sweepCmd.Flags().StringVar(&sweepTo, "to", "", "history end date (YYYY-MM-DD)")
	sweepCmd.Flags().IntVar(&sweepTop, "top", 10, "show only the best N combinations (0 = all)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("ticker") || cfg.Backtest.Ticker == "" {
		cfg.Backtest.Ticker = sweepTicker
	}
	if flags.Changed("capital") {
		cfg.Backtest.InitialCapital = sweepCapital
	}
	if flags.Changed("csv") {
		cfg.Data.Source = "csv"
		cfg.Data.CSVPath = sweepCSVPath
	}
	if flags.Changed("from") {
		cfg.Data.From = sweepFrom
	}
	if flags.Changed("to") {
		cfg.Data.To = sweepTo
	}

	series, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	base := backtest.Options{
		Ticker:         cfg.Backtest.Ticker,
		InitialCapital: cfg.Backtest.InitialCapital,
		CountOpenTrade: cfg.Backtest.CountOpenTrade,
	}

	fmt.Printf("Sweeping %s: shorts %v x longs %v over %d bars\n\n",
		cfg.Backtest.Ticker, sweepShorts, sweepLongs, len(series))

	ranked, err := backtest.Sweep(cmd.Context(), series, base, sweepShorts, sweepLongs, sweepWorkers)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	if len(ranked) == 0 {
		fmt.Println("No valid window combinations.")
		return nil
	}

	if sweepTop > 0 && len(ranked) > sweepTop {
		ranked = ranked[:sweepTop]
	}
	backtest.PrintRanking(os.Stdout, ranked)
	return nil
}
