package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/rustyeddy/backtester/market"
)

// CSVJournal appends runs, trades and equity points to three flat files, one
// header row each. Every record is flushed as it is written so a crashed
// process leaves complete rows behind.
type CSVJournal struct {
	runs   *csv.Writer
	trades *csv.Writer
	equity *csv.Writer
	rf     *os.File
	tf     *os.File
	ef     *os.File
}

func NewCSV(runsPath, tradesPath, equityPath string) (*CSVJournal, error) {
	rf, err := os.Create(runsPath)
	if err != nil {
		return nil, err
	}
	tf, err := os.Create(tradesPath)
	if err != nil {
		rf.Close()
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		rf.Close()
		tf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := rw.Write([]string{
		"run_id", "created", "ticker", "short_window", "long_window", "initial_capital",
		"start", "end", "days", "trades", "wins", "losses", "win_rate_pct",
		"total_return_pct", "max_drawdown_pct", "final_value", "bench_return_pct", "verdict",
	}); err != nil {
		return nil, err
	}
	if err := tw.Write([]string{
		"trade_id", "run_id", "ticker", "action", "date", "price", "shares", "profit", "profit_pct",
	}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "date", "value"}); err != nil {
		return nil, err
	}

	for _, w := range []*csv.Writer{rw, tw, ew} {
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
	}

	return &CSVJournal{rw, tw, ew, rf, tf, ef}, nil
}

func (j *CSVJournal) RecordRun(r Run) error {
	if err := j.runs.Write([]string{
		r.RunID,
		r.Created.Format(time.RFC3339),
		r.Ticker,
		strconv.Itoa(r.ShortWindow),
		strconv.Itoa(r.LongWindow),
		f(r.InitialCapital),
		r.Start.Format(market.DateLayout),
		r.End.Format(market.DateLayout),
		strconv.Itoa(r.Days),
		strconv.Itoa(r.Trades),
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		f(r.WinRatePct),
		f(r.TotalReturnPct),
		f(r.MaxDrawdownPct),
		f(r.FinalValue),
		f(r.BenchReturnPct),
		r.Verdict,
	}); err != nil {
		return err
	}

	j.runs.Flush()
	return j.runs.Error()
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	if err := j.trades.Write([]string{
		t.TradeID,
		t.RunID,
		t.Ticker,
		t.Action,
		t.Date.Format(market.DateLayout),
		f(t.Price),
		strconv.Itoa(t.Shares),
		f(t.Profit),
		f(t.ProfitPct),
	}); err != nil {
		return err
	}

	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquityPoint) error {
	if err := j.equity.Write([]string{
		e.RunID,
		e.Date.Format(market.DateLayout),
		f(e.Value),
	}); err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	for _, w := range []*csv.Writer{j.runs, j.trades, j.equity} {
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
	}

	var firstErr error
	for _, fh := range []*os.File{j.rf, j.tf, j.ef} {
		if err := fh.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
