package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweep(t *testing.T) {
	t.Parallel()

	t.Run("runs every valid pair and ranks by return", func(t *testing.T) {
		ranked, err := Sweep(context.Background(), seriesFrom(scenarioCloses()), testOptions(),
			[]int{2, 3}, []int{4, 5}, 4)
		require.NoError(t, err)
		require.Len(t, ranked, 4)

		pairs := map[[2]int]bool{}
		for i, r := range ranked {
			pairs[[2]int{r.Options.ShortWindow, r.Options.LongWindow}] = true
			if i > 0 {
				assert.GreaterOrEqual(t,
					ranked[i-1].Metrics.TotalReturnPct, r.Metrics.TotalReturnPct,
					"rank %d out of order", i)
			}
		}
		for _, want := range [][2]int{{2, 4}, {2, 5}, {3, 4}, {3, 5}} {
			assert.True(t, pairs[want], "missing pair %v", want)
		}
	})

	t.Run("skips invalid and duplicate pairs", func(t *testing.T) {
		ranked, err := Sweep(context.Background(), seriesFrom(scenarioCloses()), testOptions(),
			[]int{5, 3, 3, 0}, []int{5, 5}, 2)
		require.NoError(t, err)
		require.Len(t, ranked, 1)
		assert.Equal(t, 3, ranked[0].Options.ShortWindow)
		assert.Equal(t, 5, ranked[0].Options.LongWindow)
	})

	t.Run("worker count does not change the ranking", func(t *testing.T) {
		shorts, longs := []int{2, 3, 4}, []int{5, 8, 13}

		one, err := Sweep(context.Background(), seriesFrom(scenarioCloses()), testOptions(), shorts, longs, 1)
		require.NoError(t, err)
		many, err := Sweep(context.Background(), seriesFrom(scenarioCloses()), testOptions(), shorts, longs, 8)
		require.NoError(t, err)

		require.Equal(t, len(one), len(many))
		for i := range one {
			assert.Equal(t, one[i].Options.ShortWindow, many[i].Options.ShortWindow, "rank %d", i)
			assert.Equal(t, one[i].Options.LongWindow, many[i].Options.LongWindow, "rank %d", i)
			assert.InDelta(t, one[i].Metrics.TotalReturnPct, many[i].Metrics.TotalReturnPct, 0.001)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Sweep(ctx, seriesFrom(scenarioCloses()), testOptions(), []int{2, 3}, []int{5, 8}, 2)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("bad capital surfaces the run error", func(t *testing.T) {
		opts := testOptions()
		opts.InitialCapital = -1

		_, err := Sweep(context.Background(), seriesFrom(scenarioCloses()), opts, []int{3}, []int{5}, 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial capital must be positive")
	})

	t.Run("invalid series rejected up front", func(t *testing.T) {
		series := seriesFrom([]float64{10, 11})
		series[1].Close = -1

		_, err := Sweep(context.Background(), series, testOptions(), []int{3}, []int{5}, 1)
		require.Error(t, err)
	})
}
