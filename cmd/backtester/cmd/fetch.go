package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/yahoo"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download daily bars from Yahoo Finance to a CSV file",
	Long: `Fetch downloads daily OHLCV bars for one ticker and writes them to a
CSV file that run and sweep can replay with --csv.

Examples:
  backtester fetch -t AAPL -o data/aapl.csv
  backtester fetch -t MSFT --from 2024-01-02 --to 2025-01-02`,
	RunE: runFetch,
}

var (
	fetchTicker string
	fetchFrom   string
	fetchTo     string
	fetchOutput string
)

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchTicker, "ticker", "t", "AAPL", "ticker symbol")
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "history start date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "history end date (YYYY-MM-DD)")
	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "", "output CSV path (default <ticker>.csv)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("ticker") || cfg.Backtest.Ticker == "" {
		cfg.Backtest.Ticker = fetchTicker
	}
	if flags.Changed("from") {
		cfg.Data.From = fetchFrom
	}
	if flags.Changed("to") {
		cfg.Data.To = fetchTo
	}

	from, to, err := cfg.Range()
	if err != nil {
		return fmt.Errorf("date range: %w", err)
	}

	client := yahoo.NewClient(log)
	series, err := client.FetchDaily(cmd.Context(), cfg.Backtest.Ticker, from, to)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	out := fetchOutput
	if out == "" {
		out = strings.ToLower(cfg.Backtest.Ticker) + ".csv"
	}
	if err := market.SaveCSV(out, series); err != nil {
		return fmt.Errorf("save csv: %w", err)
	}

	fmt.Printf("✓ Saved %d bars for %s to %s (%s to %s)\n",
		len(series), cfg.Backtest.Ticker, out,
		series.Start().Format(market.DateLayout),
		series.End().Format(market.DateLayout))
	return nil
}
