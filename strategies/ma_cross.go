package strategies

import (
	"fmt"
	"math"

	"github.com/rustyeddy/backtester/indicators"
	"github.com/rustyeddy/backtester/market"
)

// MACross is the moving-average crossover strategy: a short and a long simple
// moving average over daily closes, trading the crossings between them.
type MACross struct {
	ShortWindow int
	LongWindow  int
}

// NewMACross creates the strategy for the given window pair. Windows are
// validated when Signals runs.
func NewMACross(short, long int) *MACross {
	return &MACross{ShortWindow: short, LongWindow: long}
}

// Name returns a stable identifier like "ma-cross(20/50)".
func (m *MACross) Name() string {
	return fmt.Sprintf("ma-cross(%d/%d)", m.ShortWindow, m.LongWindow)
}

// Warmup returns how many leading days produce no signal.
func (m *MACross) Warmup() int {
	return m.LongWindow
}

// Signals computes the filtered signal sequence for series. Days where either
// average is still undefined are dropped, so the first returned row is the
// first fully warmed-up day; its Delta is 0 and can never trigger a trade.
// Pure function: the same series yields an identical sequence every call.
func (m *MACross) Signals(series market.Series) ([]SignalRow, error) {
	if m.ShortWindow < 1 || m.LongWindow < 1 {
		return nil, fmt.Errorf("windows must be positive, got %d/%d", m.ShortWindow, m.LongWindow)
	}
	if m.ShortWindow >= m.LongWindow {
		return nil, fmt.Errorf("short window must be less than long window, got %d/%d",
			m.ShortWindow, m.LongWindow)
	}

	closes := series.Closes()
	short, err := indicators.SMA(closes, m.ShortWindow)
	if err != nil {
		return nil, err
	}
	long, err := indicators.SMA(closes, m.LongWindow)
	if err != nil {
		return nil, err
	}

	rows := make([]SignalRow, 0, len(series))
	last := 0
	for i, b := range series {
		if math.IsNaN(short[i]) || math.IsNaN(long[i]) {
			continue
		}

		sig := -1
		if short[i] > long[i] {
			sig = +1
		}

		delta := 0
		if last != 0 {
			delta = sig - last
		}
		last = sig

		rows = append(rows, SignalRow{
			Bar:     b,
			ShortMA: short[i],
			LongMA:  long[i],
			Signal:  sig,
			Delta:   delta,
		})
	}
	return rows, nil
}
