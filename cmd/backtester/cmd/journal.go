package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query journaled backtest runs",
	Long: `Query and display backtest runs from a SQLite journal.

Subcommands:
  list   - List recent runs
  show   - Show one run with its trades
  export - Export one run as an org-mode report

Examples:
  backtester journal list -n 10
  backtester journal show <run-id>
  backtester journal export <run-id> > run.org`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalList,
}

var journalShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its trades",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalShow,
}

var journalExportCmd = &cobra.Command{
	Use:   "export <run-id>",
	Short: "Export one run as an org-mode report",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalExport,
}

var (
	journalDBPath string
	journalLimit  int
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	journalCmd.AddCommand(journalExportCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./backtester.sqlite", "path to SQLite journal DB")
	journalListCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "max runs to list")
}

func runJournalList(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns(journalLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs journaled yet.")
		return nil
	}

	fmt.Printf("%-28s %-8s %-9s %10s %7s  %s\n",
		"RUN ID", "TICKER", "WINDOWS", "RETURN", "TRADES", "VERDICT")
	for _, r := range runs {
		fmt.Printf("%-28s %-8s %3d/%-5d %9.2f%% %7d  %s\n",
			r.RunID, r.Ticker, r.ShortWindow, r.LongWindow,
			r.TotalReturnPct, r.Trades, r.Verdict)
	}
	return nil
}

func runJournalShow(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runID := args[0]
	run, err := j.GetRun(runID)
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	trades, err := j.ListTradesByRun(runID)
	if err != nil {
		return fmt.Errorf("list trades: %w", err)
	}

	fmt.Printf("Run:       %s\n", run.RunID)
	fmt.Printf("Ticker:    %s (MA %d/%d)\n", run.Ticker, run.ShortWindow, run.LongWindow)
	fmt.Printf("Period:    %s to %s (%d trading days)\n",
		run.Start.Format(market.DateLayout), run.End.Format(market.DateLayout), run.Days)
	fmt.Printf("Return:    %.2f%% (buy & hold %.2f%%)\n", run.TotalReturnPct, run.BenchReturnPct)
	fmt.Printf("Drawdown:  %.2f%%\n", run.MaxDrawdownPct)
	fmt.Printf("Trades:    %d (%d wins, %d losses, %.2f%% win rate)\n",
		run.Trades, run.Wins, run.Losses, run.WinRatePct)
	fmt.Printf("Final:     %.2f from %.2f\n", run.FinalValue, run.InitialCapital)
	fmt.Printf("Verdict:   %s\n", run.Verdict)

	if len(trades) > 0 {
		fmt.Println("\nTrades:")
		for _, t := range trades {
			fmt.Printf("  %-5s %s  %6d @ %10.2f",
				t.Action, t.Date.Format(market.DateLayout), t.Shares, t.Price)
			if t.Action == "SELL" {
				fmt.Printf("   P/L %.2f (%.2f%%)", t.Profit, t.ProfitPct)
			}
			fmt.Println()
		}
	}

	if len(run.Notes) > 0 {
		fmt.Println("\nNotes:")
		for _, note := range run.Notes {
			fmt.Printf("  - %s\n", note)
		}
	}
	return nil
}

func runJournalExport(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	org, err := j.ExportOrg(args[0])
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Println(org)
	return nil
}
