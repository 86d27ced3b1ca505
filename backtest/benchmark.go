package backtest

import (
	"github.com/rustyeddy/backtester/market"
)

// Benchmark is the buy-and-hold yardstick a run is judged against.
type Benchmark struct {
	Shares         int     `json:"shares"`
	Cash           float64 `json:"cash"`
	FinalValue     float64 `json:"final_value"`
	TotalReturnPct float64 `json:"total_return_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}

// BuyHold invests the capital in whole shares at the first close of the full
// series and holds them to the last, keeping the indivisible remainder as
// cash. The benchmark sees every bar, including the warm-up region the
// strategy cannot trade in. An empty series leaves the capital untouched.
func BuyHold(series market.Series, capital float64) Benchmark {
	b := Benchmark{Cash: capital, FinalValue: capital}
	if len(series) == 0 {
		return b
	}

	if first := series[0].Close; first > 0 {
		b.Shares = int(capital / first)
		b.Cash = capital - float64(b.Shares)*first
	}

	values := make([]float64, len(series))
	for i, bar := range series {
		values[i] = b.Cash + float64(b.Shares)*bar.Close
	}

	b.FinalValue = values[len(values)-1]
	b.TotalReturnPct = (b.FinalValue - capital) / capital * 100
	b.MaxDrawdownPct = MaxDrawdown(values)
	return b
}
