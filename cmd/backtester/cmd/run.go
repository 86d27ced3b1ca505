package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/yahoo"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single MA crossover backtest",
	Long: `Run simulates the moving-average crossover strategy for one ticker and
prints a summary against buy-and-hold.

Data comes from Yahoo Finance by default; use --csv to replay a local file
instead.

Examples:
  backtester run -t AAPL -s 20 -l 50 -c 10000
  backtester run -t MSFT --from 2024-01-02 --to 2025-01-02 --db runs.sqlite
  backtester run --csv data/aapl.csv --org`,
	RunE: runRun,
}

var (
	runTicker    string
	runShort     int
	runLong      int
	runCapital   float64
	runCountOpen bool
	runCSVPath   string
	runFrom      string
	runTo        string
	runDBPath    string
	runOrg       bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runTicker, "ticker", "t", "AAPL", "ticker symbol")
	runCmd.Flags().IntVarP(&runShort, "short", "s", 20, "short MA window in days")
	runCmd.Flags().IntVarP(&runLong, "long", "l", 50, "long MA window in days")
	runCmd.Flags().Float64VarP(&runCapital, "capital", "c", 10_000, "starting capital")
	runCmd.Flags().BoolVar(&runCountOpen, "count-open", false, "score an open position at the end as one more trade")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "load bars from a CSV file instead of Yahoo")
	runCmd.Flags().StringVar(&runFrom, "from", "", "history start date (YYYY-MM-DD)")
	runCmd.Flags().StringVar(&runTo, "to", "", "history end date (YYYY-MM-DD)")
	runCmd.Flags().StringVarP(&runDBPath, "db", "d", "", "journal the run to this SQLite DB")
	runCmd.Flags().BoolVar(&runOrg, "org", false, "print an org-mode report after the summary")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	applyRunFlags(cmd, &cfg)

	opts := backtest.Options{
		Ticker:         cfg.Backtest.Ticker,
		ShortWindow:    cfg.Backtest.ShortWindow,
		LongWindow:     cfg.Backtest.LongWindow,
		InitialCapital: cfg.Backtest.InitialCapital,
		CountOpenTrade: cfg.Backtest.CountOpenTrade,
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	series, err := loadSeries(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("load data: %w", err)
	}

	result, err := backtest.Run(series, opts)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	backtest.PrintSummary(os.Stdout, result)

	j, err := openJournal(cfg)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if j != nil {
		defer j.Close()
		if err := backtest.Record(j, result); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		fmt.Printf("\n✓ Journaled run %s (%s)\n", result.RunID, cfg.Journal.Type)
	}

	if runOrg {
		fmt.Println()
		if err := journal.WriteOrg(os.Stdout, backtest.ToRun(result), backtest.ToTrades(result)); err != nil {
			return fmt.Errorf("org export: %w", err)
		}
	}
	return nil
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ticker") || cfg.Backtest.Ticker == "" {
		cfg.Backtest.Ticker = runTicker
	}
	if flags.Changed("short") {
		cfg.Backtest.ShortWindow = runShort
	}
	if flags.Changed("long") {
		cfg.Backtest.LongWindow = runLong
	}
	if flags.Changed("capital") {
		cfg.Backtest.InitialCapital = runCapital
	}
	if flags.Changed("count-open") {
		cfg.Backtest.CountOpenTrade = runCountOpen
	}
	if flags.Changed("csv") {
		cfg.Data.Source = "csv"
		cfg.Data.CSVPath = runCSVPath
	}
	if flags.Changed("from") {
		cfg.Data.From = runFrom
	}
	if flags.Changed("to") {
		cfg.Data.To = runTo
	}
	if flags.Changed("db") {
		cfg.Journal.Type = "sqlite"
		cfg.Journal.DBPath = runDBPath
	}
}

// loadSeries reads bars from the configured source, CSV file or Yahoo.
func loadSeries(ctx context.Context, cfg config.Config) (market.Series, error) {
	if cfg.Data.Source == "csv" {
		return market.LoadCSV(cfg.Data.CSVPath)
	}

	from, to, err := cfg.Range()
	if err != nil {
		return nil, err
	}
	client := yahoo.NewClient(log)
	return client.FetchDaily(ctx, cfg.Backtest.Ticker, from, to)
}

// openJournal returns nil when no journal is configured.
func openJournal(cfg config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	case "csv":
		return journal.NewCSV(cfg.Journal.RunsFile, cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	default:
		return nil, nil
	}
}
