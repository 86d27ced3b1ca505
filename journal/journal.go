// Package journal persists finished backtest runs so they can be listed,
// compared and exported later. Two backends are provided: flat CSV files for
// spreadsheet work and SQLite for querying across many runs.
package journal

import "time"

// Run is one finished backtest as the journal stores it.
type Run struct {
	RunID   string    `json:"run_id"`
	Created time.Time `json:"created"`
	Ticker  string    `json:"ticker"`

	ShortWindow    int     `json:"short_window"`
	LongWindow     int     `json:"long_window"`
	InitialCapital float64 `json:"initial_capital"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`

	Trades     int     `json:"trades"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRatePct float64 `json:"win_rate_pct"`

	TotalReturnPct float64 `json:"total_return_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	FinalValue     float64 `json:"final_value"`

	BenchReturnPct float64 `json:"bench_return_pct"`
	Verdict        string  `json:"verdict"`

	Notes       []string `json:"notes,omitempty"`
	NextActions []string `json:"next_actions,omitempty"`
}

// TradeRecord is one executed order within a run.
type TradeRecord struct {
	TradeID string    `json:"trade_id"`
	RunID   string    `json:"run_id"`
	Ticker  string    `json:"ticker"`
	Action  string    `json:"action"`
	Date    time.Time `json:"date"`
	Price   float64   `json:"price"`
	Shares  int       `json:"shares"`

	// SELL rows only
	Profit    float64 `json:"profit"`
	ProfitPct float64 `json:"profit_pct"`
}

// EquityPoint is one day of a run's portfolio value.
type EquityPoint struct {
	RunID string    `json:"run_id"`
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Journal records finished runs somewhere durable. Implementations must keep
// the three record kinds consistent: trades and equity points always belong
// to a recorded run.
type Journal interface {
	RecordRun(Run) error
	RecordTrade(TradeRecord) error
	RecordEquity(EquityPoint) error
	Close() error
}
