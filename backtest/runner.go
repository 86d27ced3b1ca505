// Package backtest runs the moving-average crossover strategy over a daily
// price series and reduces the outcome to summary statistics, ranked against
// a buy-and-hold benchmark on the same data.
package backtest

import (
	"fmt"
	"time"

	"github.com/rustyeddy/backtester/market"
	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/sim"
	"github.com/rustyeddy/backtester/strategies"
)

// Options control one backtest run.
type Options struct {
	Ticker         string  `json:"ticker"`
	ShortWindow    int     `json:"short_window"`
	LongWindow     int     `json:"long_window"`
	InitialCapital float64 `json:"initial_capital"`

	// CountOpenTrade scores a position still open at the end of the data as
	// one more trade, won or lost by its unrealized P&L. Off, only completed
	// round trips count.
	CountOpenTrade bool `json:"count_open_trade"`
}

// DefaultOptions returns the stock run configuration.
func DefaultOptions() Options {
	return Options{
		Ticker:         "AAPL",
		ShortWindow:    20,
		LongWindow:     50,
		InitialCapital: 10000,
	}
}

// Validate rejects options the simulation cannot run with. It is checked
// before any data is touched, so a bad window pair never starts a run.
func (o Options) Validate() error {
	if o.ShortWindow < 1 {
		return fmt.Errorf("short window must be at least 1, got %d", o.ShortWindow)
	}
	if o.LongWindow < 1 {
		return fmt.Errorf("long window must be at least 1, got %d", o.LongWindow)
	}
	if o.ShortWindow >= o.LongWindow {
		return fmt.Errorf("short window must be less than long window, got %d/%d", o.ShortWindow, o.LongWindow)
	}
	if o.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be positive, got %v", o.InitialCapital)
	}
	return nil
}

// Result is one finished backtest: the inputs, the signal table, the simulated
// account and the derived statistics, next to the benchmark.
type Result struct {
	RunID   string    `json:"run_id"`
	Created time.Time `json:"created"`
	Options Options   `json:"options"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`

	Signals    []strategies.SignalRow `json:"-"`
	Crossovers []strategies.Crossover `json:"crossovers"`
	Sim        *sim.Result            `json:"sim"`
	Metrics    Metrics                `json:"metrics"`
	Benchmark  Benchmark              `json:"benchmark"`
}

// Verdict compares the strategy's return against buy and hold.
func (r *Result) Verdict() string {
	switch {
	case r.Metrics.TotalReturnPct > r.Benchmark.TotalReturnPct:
		return "OUTPERFORMED"
	case r.Metrics.TotalReturnPct < r.Benchmark.TotalReturnPct:
		return "UNDERPERFORMED"
	default:
		return "MATCHED"
	}
}

// Run backtests the crossover strategy over the series.
//
// The options and the series are validated up front; after that the run is
// total. A series too short to ever fill the long window produces a result
// with no signals, no trades and the capital intact rather than an error.
func Run(series market.Series, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}

	rows, err := strategies.NewMACross(opts.ShortWindow, opts.LongWindow).Signals(series)
	if err != nil {
		return nil, err
	}

	res := sim.New(opts.InitialCapital).Run(rows)

	r := &Result{
		RunID:      id.New(),
		Created:    time.Now().UTC(),
		Options:    opts,
		Signals:    rows,
		Crossovers: strategies.Crossovers(rows),
		Sim:        res,
		Metrics:    ComputeMetrics(res, opts.InitialCapital, opts.CountOpenTrade),
		Benchmark:  BuyHold(series, opts.InitialCapital),
	}
	if len(series) > 0 {
		r.Start = series.Start()
		r.End = series.End()
		r.Days = len(series)
	}
	return r, nil
}
