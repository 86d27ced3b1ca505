// Package sim replays a crossover signal sequence against a single cash
// account. The simulator is a two-state machine, flat or long: a golden cross
// while flat invests all cash in whole shares, a death cross while long
// liquidates the position. Execution is at the close of the signal day, with
// no look-ahead, no costs and no partial fills.
package sim

import (
	"time"

	"github.com/rustyeddy/backtester/pkg/id"
	"github.com/rustyeddy/backtester/strategies"
)

// Result is everything one run produces: the ordered trade log, the daily
// portfolio trajectory and the final account state. When the run ends still
// long, Unrealized and UnrealizedPct carry the open position's mark-to-market
// P&L at the last close; no closing trade is synthesized.
type Result struct {
	Trades     []Trade    `json:"trades"`
	Snapshots  []Snapshot `json:"snapshots"`
	FinalValue float64    `json:"final_value"`
	State      State      `json:"state"`

	Unrealized    float64 `json:"unrealized"`
	UnrealizedPct float64 `json:"unrealized_pct"`
}

// Simulator runs signal sequences from a fixed starting capital.
type Simulator struct {
	capital float64
}

// New creates a simulator that starts each run with capital in cash.
func New(capital float64) *Simulator {
	return &Simulator{capital: capital}
}

// Run steps through the rows in order. Each row is applied as a transition:
//
//	Delta +2 while flat  -> buy floor(cash/close) shares at the close
//	Delta -2 while long  -> sell every share at the close
//	anything else        -> hold
//
// A buy that rounds down to zero shares, or any cross arriving in the wrong
// state, leaves the account untouched. After the transition the row's close is
// recorded as a snapshot, so a trade shows up in the equity curve on the day
// it executes.
//
// Run never fails: an empty sequence yields no trades, no snapshots and a
// final value equal to the starting capital.
func (s *Simulator) Run(rows []strategies.SignalRow) *Result {
	st := State{Cash: s.capital}
	res := &Result{FinalValue: s.capital}

	for _, row := range rows {
		switch {
		case row.Delta == 2 && !st.InPosition:
			if t, ok := openLong(&st, row); ok {
				res.Trades = append(res.Trades, t)
			}
		case row.Delta == -2 && st.InPosition:
			res.Trades = append(res.Trades, closeLong(&st, row))
		}
		res.Snapshots = append(res.Snapshots, Snapshot{
			Date:  row.Bar.Date,
			Value: st.Value(row.Bar.Close),
		})
	}

	if n := len(rows); n > 0 {
		last := rows[n-1].Bar.Close
		res.FinalValue = st.Value(last)
		if st.InPosition {
			res.Unrealized = (last - st.EntryPrice) * float64(st.Shares)
			res.UnrealizedPct = (last - st.EntryPrice) / st.EntryPrice * 100
		}
	}
	res.State = st
	return res
}

// openLong invests all cash in whole shares at the row's close. It reports
// false when the close cannot buy a single share.
func openLong(st *State, row strategies.SignalRow) (Trade, bool) {
	price := row.Bar.Close
	if price <= 0 {
		return Trade{}, false
	}
	shares := int(st.Cash / price)
	if shares < 1 {
		return Trade{}, false
	}

	st.Cash -= float64(shares) * price
	st.Shares = shares
	st.InPosition = true
	st.EntryPrice = price
	st.EntryDate = row.Bar.Date

	return Trade{
		ID:     id.New(),
		Action: Buy,
		Date:   row.Bar.Date,
		Price:  price,
		Shares: shares,
	}, true
}

// closeLong sells the whole position at the row's close and realizes P&L
// against the entry price.
func closeLong(st *State, row strategies.SignalRow) Trade {
	price := row.Bar.Close
	t := Trade{
		ID:        id.New(),
		Action:    Sell,
		Date:      row.Bar.Date,
		Price:     price,
		Shares:    st.Shares,
		Profit:    (price - st.EntryPrice) * float64(st.Shares),
		ProfitPct: (price - st.EntryPrice) / st.EntryPrice * 100,
	}

	st.Cash += float64(st.Shares) * price
	st.Shares = 0
	st.InPosition = false
	st.EntryPrice = 0
	st.EntryDate = time.Time{}
	return t
}
