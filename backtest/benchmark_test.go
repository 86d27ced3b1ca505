package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/backtester/market"
)

func seriesFrom(closes []float64) market.Series {
	base := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	s := make(market.Series, len(closes))
	for i, c := range closes {
		s[i] = market.Bar{Date: base.AddDate(0, 0, i), Close: c}
	}
	return s
}

func scenarioCloses() []float64 {
	return []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 9, 8, 12, 15, 9, 8, 7, 20, 22, 25}
}

func TestBuyHold(t *testing.T) {
	t.Parallel()

	t.Run("crossover scenario", func(t *testing.T) {
		b := BuyHold(seriesFrom(scenarioCloses()), 1000)

		assert.Equal(t, 100, b.Shares)
		assert.InDelta(t, 0.0, b.Cash, 0.001)
		assert.InDelta(t, 2500.0, b.FinalValue, 0.001)
		assert.InDelta(t, 150.0, b.TotalReturnPct, 0.001)
		assert.InDelta(t, -53.333, b.MaxDrawdownPct, 0.001)
	})

	t.Run("remainder stays in cash", func(t *testing.T) {
		b := BuyHold(seriesFrom([]float64{7, 8}), 1000)

		assert.Equal(t, 142, b.Shares)
		assert.InDelta(t, 6.0, b.Cash, 0.001)
		assert.InDelta(t, 1142.0, b.FinalValue, 0.001)
		assert.InDelta(t, 14.2, b.TotalReturnPct, 0.001)
	})

	t.Run("price above capital buys nothing", func(t *testing.T) {
		b := BuyHold(seriesFrom([]float64{10, 20}), 5)

		assert.Zero(t, b.Shares)
		assert.InDelta(t, 5.0, b.Cash, 0.001)
		assert.InDelta(t, 5.0, b.FinalValue, 0.001)
		assert.Zero(t, b.TotalReturnPct)
		assert.Zero(t, b.MaxDrawdownPct)
	})

	t.Run("empty series keeps the capital", func(t *testing.T) {
		b := BuyHold(nil, 1000)

		assert.Zero(t, b.Shares)
		assert.InDelta(t, 1000.0, b.Cash, 0.001)
		assert.InDelta(t, 1000.0, b.FinalValue, 0.001)
		assert.Zero(t, b.TotalReturnPct)
	})
}
