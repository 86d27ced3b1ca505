package backtest

import (
	"fmt"

	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/sim"
)

// ToRun flattens a result into its journal form. Wins and losses follow the
// same open-trade policy the run's metrics used, so Trades == Wins + Losses
// always holds.
func ToRun(r *Result) journal.Run {
	wins, losses := 0, 0
	for _, t := range r.Sim.Trades {
		if t.Action != sim.Sell {
			continue
		}
		if t.Profit > 0 {
			wins++
		} else {
			losses++
		}
	}
	if r.Options.CountOpenTrade && r.Sim.State.InPosition {
		if r.Sim.Unrealized > 0 {
			wins++
		} else {
			losses++
		}
	}

	var notes []string
	for _, c := range r.Crossovers {
		notes = append(notes, fmt.Sprintf("%s cross on %s at %.2f",
			c.Side, c.Date.Format(market.DateLayout), c.Price))
	}
	if st := r.Sim.State; st.InPosition {
		notes = append(notes, fmt.Sprintf("open position at end: %d shares from %.2f, unrealized %.2f (%.2f%%)",
			st.Shares, st.EntryPrice, r.Sim.Unrealized, r.Sim.UnrealizedPct))
	}

	return journal.Run{
		RunID:          r.RunID,
		Created:        r.Created,
		Ticker:         r.Options.Ticker,
		ShortWindow:    r.Options.ShortWindow,
		LongWindow:     r.Options.LongWindow,
		InitialCapital: r.Options.InitialCapital,
		Start:          r.Start,
		End:            r.End,
		Days:           r.Days,
		Trades:         r.Metrics.NumTrades,
		Wins:           wins,
		Losses:         losses,
		WinRatePct:     r.Metrics.WinRatePct,
		TotalReturnPct: r.Metrics.TotalReturnPct,
		MaxDrawdownPct: r.Metrics.MaxDrawdownPct,
		FinalValue:     r.Metrics.FinalValue,
		BenchReturnPct: r.Benchmark.TotalReturnPct,
		Verdict:        r.Verdict(),
		Notes:          notes,
	}
}

// ToTrades flattens the trade log into journal records.
func ToTrades(r *Result) []journal.TradeRecord {
	recs := make([]journal.TradeRecord, len(r.Sim.Trades))
	for i, t := range r.Sim.Trades {
		recs[i] = journal.TradeRecord{
			TradeID:   t.ID,
			RunID:     r.RunID,
			Ticker:    r.Options.Ticker,
			Action:    string(t.Action),
			Date:      t.Date,
			Price:     t.Price,
			Shares:    t.Shares,
			Profit:    t.Profit,
			ProfitPct: t.ProfitPct,
		}
	}
	return recs
}

// Record writes a finished run, its trade log and its equity curve to the
// journal, run row first so readers never see orphaned trades.
func Record(j journal.Journal, r *Result) error {
	if err := j.RecordRun(ToRun(r)); err != nil {
		return err
	}

	for _, rec := range ToTrades(r) {
		if err := j.RecordTrade(rec); err != nil {
			return err
		}
	}

	for _, s := range r.Sim.Snapshots {
		p := journal.EquityPoint{RunID: r.RunID, Date: s.Date, Value: s.Value}
		if err := j.RecordEquity(p); err != nil {
			return err
		}
	}
	return nil
}
