package journal

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteJournal stores runs in a single SQLite file, one row per run plus its
// trades and equity curve.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(r Run) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, ticker, short_window, long_window, initial_capital,
		 start_date, end_date, days, trades, wins, losses, win_rate_pct,
		 total_return_pct, max_drawdown_pct, final_value, bench_return_pct,
		 verdict, notes, next_actions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Ticker, r.ShortWindow, r.LongWindow, r.InitialCapital,
		r.Start, r.End, r.Days, r.Trades, r.Wins, r.Losses, r.WinRatePct,
		r.TotalReturnPct, r.MaxDrawdownPct, r.FinalValue, r.BenchReturnPct,
		r.Verdict, joinLines(r.Notes), joinLines(r.NextActions),
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, ticker, action, date, price, shares, profit, profit_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Ticker, t.Action, t.Date, t.Price, t.Shares, t.Profit, t.ProfitPct,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(e EquityPoint) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, date, value)
		VALUES (?, ?, ?)`,
		e.RunID, e.Date, e.Value,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
