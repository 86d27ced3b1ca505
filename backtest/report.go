package backtest

import (
	"fmt"
	"io"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
)

// PrintSummary writes a human-readable report of one run: the trade log, any
// position still open, and the strategy's statistics next to buy and hold.
func PrintSummary(w io.Writer, r *Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, " Backtest %s\n", r.Options.Ticker)
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      ma-cross(%d/%d)\n", r.Options.ShortWindow, r.Options.LongWindow)
	fmt.Fprintf(w, "Capital:       %.2f\n", r.Options.InitialCapital)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Period")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start:         %s\n", r.Start.Format(market.DateLayout))
	fmt.Fprintf(w, "End:           %s\n", r.End.Format(market.DateLayout))
	fmt.Fprintf(w, "Trading Days:  %d\n", r.Days)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trades")
	fmt.Fprintln(w, "--------------------------------------------------")
	if len(r.Sim.Trades) == 0 {
		fmt.Fprintln(w, "No trades executed.")
	}
	for _, t := range r.Sim.Trades {
		fmt.Fprintf(w, "%-5s %s  %6d @ %10.2f", t.Action, t.Date.Format(market.DateLayout), t.Shares, t.Price)
		if t.Action == sim.Sell {
			fmt.Fprintf(w, "   P/L %.2f (%.2f%%)", t.Profit, t.ProfitPct)
		}
		fmt.Fprintln(w)
	}

	if st := r.Sim.State; st.InPosition {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Currently Holding")
		fmt.Fprintln(w, "--------------------------------------------------")
		fmt.Fprintf(w, "Shares:        %d\n", st.Shares)
		fmt.Fprintf(w, "Entry:         %.2f on %s\n", st.EntryPrice, st.EntryDate.Format(market.DateLayout))
		fmt.Fprintf(w, "Unrealized:    %.2f (%.2f%%)\n", r.Sim.Unrealized, r.Sim.UnrealizedPct)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "%-16s%14s%14s\n", "Metric", "Strategy", "Buy & Hold")
	fmt.Fprintf(w, "%-16s%13.2f%%%13.2f%%\n", "Total Return:", r.Metrics.TotalReturnPct, r.Benchmark.TotalReturnPct)
	fmt.Fprintf(w, "%-16s%13.2f%%%13.2f%%\n", "Max Drawdown:", r.Metrics.MaxDrawdownPct, r.Benchmark.MaxDrawdownPct)
	fmt.Fprintf(w, "%-16s%14.2f%14.2f\n", "Final Value:", r.Metrics.FinalValue, r.Benchmark.FinalValue)
	fmt.Fprintf(w, "%-16s%14d%14s\n", "Trades:", r.Metrics.NumTrades, "-")
	fmt.Fprintf(w, "%-16s%13.2f%%%14s\n", "Win Rate:", r.Metrics.WinRatePct, "-")

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Verdict:       %s\n", r.Verdict())
	fmt.Fprintln(w)
}

// PrintRanking writes one line per swept run, best first.
func PrintRanking(w io.Writer, ranked []*Result) {
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Parameter Sweep")
	fmt.Fprintln(w, "==================================================")
	fmt.Fprintf(w, "%-6s%-8s%-8s%12s%12s%10s\n", "Rank", "Short", "Long", "Return", "Drawdown", "Trades")
	for i, r := range ranked {
		fmt.Fprintf(w, "%-6d%-8d%-8d%11.2f%%%11.2f%%%10d\n",
			i+1, r.Options.ShortWindow, r.Options.LongWindow,
			r.Metrics.TotalReturnPct, r.Metrics.MaxDrawdownPct, r.Metrics.NumTrades)
	}
	fmt.Fprintln(w)
}
