// Package strategies converts indicator series into discrete trading signals.
package strategies

import (
	"time"

	"github.com/rustyeddy/backtester/market"
)

// SignalRow is one post-warmup trading day with its indicator values and the
// discrete position signal derived from them. Signal is +1 while the short
// average is strictly above the long average and -1 otherwise; a tie counts as
// -1, there is no neutral state. Delta is Signal minus the previous row's
// Signal and is 0 on the first row: +2 marks a golden cross, -2 a death cross.
type SignalRow struct {
	Bar     market.Bar
	ShortMA float64
	LongMA  float64
	Signal  int
	Delta   int
}

// Side labels the direction of a crossover.
type Side int8

const (
	// Golden marks the short average crossing above the long average.
	Golden Side = 1
	// Death marks the short average crossing below the long average.
	Death Side = -1
)

func (s Side) String() string {
	switch s {
	case Golden:
		return "golden"
	case Death:
		return "death"
	default:
		return "unknown"
	}
}

// Crossover is a moving-average crossing event. Crossings are the only points
// where the simulator may trade.
type Crossover struct {
	Index int       `json:"index"` // index into the filtered signal rows
	Date  time.Time `json:"date"`
	Price float64   `json:"price"` // the close that generated the cross
	Side  Side      `json:"side"`
}

// Crossovers extracts the crossing events from a signal sequence.
func Crossovers(rows []SignalRow) []Crossover {
	var out []Crossover
	for i, r := range rows {
		switch r.Delta {
		case +2:
			out = append(out, Crossover{Index: i, Date: r.Bar.Date, Price: r.Bar.Close, Side: Golden})
		case -2:
			out = append(out, Crossover{Index: i, Date: r.Bar.Date, Price: r.Bar.Close, Side: Death})
		}
	}
	return out
}
