package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Ticker:         "TEST",
		ShortWindow:    3,
		LongWindow:     5,
		InitialCapital: 1000,
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("crossover scenario end to end", func(t *testing.T) {
		series := seriesFrom(scenarioCloses())
		r, err := Run(series, testOptions())
		require.NoError(t, err)

		assert.NotEmpty(t, r.RunID)
		assert.Equal(t, series.Start(), r.Start)
		assert.Equal(t, series.End(), r.End)
		assert.Equal(t, 20, r.Days)

		require.Len(t, r.Sim.Trades, 3)
		require.Len(t, r.Crossovers, 3)
		assert.Len(t, r.Signals, 16)

		assert.InDelta(t, -46.5, r.Metrics.TotalReturnPct, 0.001)
		assert.Equal(t, 1, r.Metrics.NumTrades)
		assert.Zero(t, r.Metrics.WinRatePct)
		assert.InDelta(t, -52.8, r.Metrics.MaxDrawdownPct, 0.001)
		assert.InDelta(t, 535.0, r.Metrics.FinalValue, 0.001)
		assert.InDelta(t, 1000.0, r.Metrics.InitialCapital, 0.001)

		assert.InDelta(t, 150.0, r.Benchmark.TotalReturnPct, 0.001)
		assert.InDelta(t, 2500.0, r.Benchmark.FinalValue, 0.001)
		assert.Equal(t, "UNDERPERFORMED", r.Verdict())
	})

	t.Run("open trade policy changes the count", func(t *testing.T) {
		opts := testOptions()
		opts.CountOpenTrade = true

		r, err := Run(seriesFrom(scenarioCloses()), opts)
		require.NoError(t, err)

		assert.Equal(t, 2, r.Metrics.NumTrades)
		assert.InDelta(t, 50.0, r.Metrics.WinRatePct, 0.001)
	})

	t.Run("rising series beats the benchmark remainder", func(t *testing.T) {
		closes := []float64{10, 10, 10, 10, 10, 10, 11, 12, 13, 14, 15, 16}
		r, err := Run(seriesFrom(closes), testOptions())
		require.NoError(t, err)

		assert.Zero(t, r.Metrics.NumTrades)
		assert.True(t, r.Sim.State.InPosition)
		assert.InDelta(t, 1450.0, r.Metrics.FinalValue, 0.001)
		assert.Zero(t, r.Metrics.MaxDrawdownPct)
		assert.Equal(t, "UNDERPERFORMED", r.Verdict())

		opts := testOptions()
		opts.CountOpenTrade = true
		r, err = Run(seriesFrom(closes), opts)
		require.NoError(t, err)
		assert.Equal(t, 1, r.Metrics.NumTrades)
		assert.InDelta(t, 100.0, r.Metrics.WinRatePct, 0.001)
	})

	t.Run("series shorter than long window degenerates", func(t *testing.T) {
		r, err := Run(seriesFrom([]float64{10, 11, 12}), testOptions())
		require.NoError(t, err)

		assert.Empty(t, r.Sim.Trades)
		assert.Empty(t, r.Signals)
		assert.Equal(t, 3, r.Days)
		assert.InDelta(t, 1000.0, r.Metrics.FinalValue, 0.001)
		assert.Zero(t, r.Metrics.TotalReturnPct)
	})

	t.Run("empty series degenerates", func(t *testing.T) {
		r, err := Run(nil, testOptions())
		require.NoError(t, err)

		assert.Zero(t, r.Days)
		assert.True(t, r.Start.IsZero())
		assert.InDelta(t, 1000.0, r.Metrics.FinalValue, 0.001)
	})

	t.Run("invalid options rejected before running", func(t *testing.T) {
		opts := testOptions()
		opts.ShortWindow = 5
		_, err := Run(seriesFrom(scenarioCloses()), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "short window must be less than long window")

		opts = testOptions()
		opts.ShortWindow = 0
		_, err = Run(seriesFrom(scenarioCloses()), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "short window must be at least 1")

		opts = testOptions()
		opts.InitialCapital = 0
		_, err = Run(seriesFrom(scenarioCloses()), opts)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial capital must be positive")
	})

	t.Run("invalid series rejected", func(t *testing.T) {
		series := seriesFrom([]float64{10, 11, 12, 13, 14, 15})
		series[2].Date = series[5].Date

		_, err := Run(series, testOptions())
		require.Error(t, err)
	})
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	require.NoError(t, opts.Validate())
	assert.Equal(t, "AAPL", opts.Ticker)
	assert.Equal(t, 20, opts.ShortWindow)
	assert.Equal(t, 50, opts.LongWindow)
	assert.InDelta(t, 10000.0, opts.InitialCapital, 0.001)
	assert.False(t, opts.CountOpenTrade)
}
