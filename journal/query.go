package journal

import (
	"database/sql"
	"fmt"
)

const runColumns = `run_id, created, ticker, short_window, long_window, initial_capital,
	start_date, end_date, days, trades, wins, losses, win_rate_pct,
	total_return_pct, max_drawdown_pct, final_value, bench_return_pct,
	verdict, notes, next_actions`

// GetRun returns a single run by ID.
func (j *SQLiteJournal) GetRun(runID string) (Run, error) {
	row := j.db.QueryRow(`
		SELECT `+runColumns+`
		FROM runs
		WHERE run_id = ?`, runID)

	r, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return Run{}, fmt.Errorf("run %q not found", runID)
		}
		return Run{}, err
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first. A limit below 1 falls
// back to 20.
func (j *SQLiteJournal) ListRuns(limit int) ([]Run, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := j.db.Query(`
		SELECT `+runColumns+`
		FROM runs
		ORDER BY created DESC, run_id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTradesByRun returns a run's trades in execution order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, run_id, ticker, action, date, price, shares, profit, profit_pct
		FROM trades
		WHERE run_id = ?
		ORDER BY date ASC, trade_id ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		if err := rows.Scan(
			&t.TradeID,
			&t.RunID,
			&t.Ticker,
			&t.Action,
			&t.Date,
			&t.Price,
			&t.Shares,
			&t.Profit,
			&t.ProfitPct,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListEquityByRun returns a run's portfolio trajectory in date order.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]EquityPoint, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, value
		FROM equity
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquityPoint
	for rows.Next() {
		var e EquityPoint
		if err := rows.Scan(&e.RunID, &e.Date, &e.Value); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var notes, actions string

	err := row.Scan(
		&r.RunID,
		&r.Created,
		&r.Ticker,
		&r.ShortWindow,
		&r.LongWindow,
		&r.InitialCapital,
		&r.Start,
		&r.End,
		&r.Days,
		&r.Trades,
		&r.Wins,
		&r.Losses,
		&r.WinRatePct,
		&r.TotalReturnPct,
		&r.MaxDrawdownPct,
		&r.FinalValue,
		&r.BenchReturnPct,
		&r.Verdict,
		&notes,
		&actions,
	)
	if err != nil {
		return Run{}, err
	}

	r.Notes = splitLines(notes)
	r.NextActions = splitLines(actions)
	return r, nil
}
