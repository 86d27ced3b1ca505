package backtest

import (
	"github.com/rustyeddy/backtester/sim"
)

// Metrics are the summary statistics of one simulated run.
type Metrics struct {
	TotalReturnPct float64 `json:"total_return_pct"`
	NumTrades      int     `json:"num_trades"`
	WinRatePct     float64 `json:"win_rate_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	FinalValue     float64 `json:"final_value"`
	InitialCapital float64 `json:"initial_capital"`
}

// ComputeMetrics derives the run statistics from a simulation result.
//
// NumTrades counts completed round trips, one per SELL. A position still open
// at the end is normally excluded; with countOpen it is scored as one more
// trade by its unrealized P&L. WinRatePct is the share of counted trades that
// closed with a positive profit, 0 when nothing was counted.
func ComputeMetrics(res *sim.Result, capital float64, countOpen bool) Metrics {
	m := Metrics{
		InitialCapital: capital,
		FinalValue:     res.FinalValue,
		TotalReturnPct: (res.FinalValue - capital) / capital * 100,
		MaxDrawdownPct: MaxDrawdown(snapshotValues(res.Snapshots)),
	}

	wins := 0
	for _, t := range res.Trades {
		if t.Action != sim.Sell {
			continue
		}
		m.NumTrades++
		if t.Profit > 0 {
			wins++
		}
	}
	if countOpen && res.State.InPosition {
		m.NumTrades++
		if res.Unrealized > 0 {
			wins++
		}
	}
	if m.NumTrades > 0 {
		m.WinRatePct = float64(wins) / float64(m.NumTrades) * 100
	}
	return m
}

// MaxDrawdown returns the deepest decline from a running peak over the value
// sequence, as a percentage of that peak. The result is never positive; an
// empty sequence or a monotonic rise yields 0.
func MaxDrawdown(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	worst := 0.0
	for _, v := range values[1:] {
		if v > peak {
			peak = v
			continue
		}
		if peak <= 0 {
			continue
		}
		if dd := (v - peak) / peak * 100; dd < worst {
			worst = dd
		}
	}
	return worst
}

func snapshotValues(snaps []sim.Snapshot) []float64 {
	values := make([]float64, len(snaps))
	for i, s := range snaps {
		values[i] = s.Value
	}
	return values
}
