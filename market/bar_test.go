package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid series", func(t *testing.T) {
		s := Series{
			{Date: d("2026-01-05"), Close: 10},
			{Date: d("2026-01-06"), Close: 10.5},
			{Date: d("2026-01-07"), Close: 9.8},
		}
		assert.NoError(t, s.Validate())
	})

	t.Run("close not positive", func(t *testing.T) {
		s := Series{
			{Date: d("2026-01-05"), Close: 10},
			{Date: d("2026-01-06"), Close: 0},
		}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "close must be positive")
	})

	t.Run("dates out of order", func(t *testing.T) {
		s := Series{
			{Date: d("2026-01-06"), Close: 10},
			{Date: d("2026-01-05"), Close: 11},
		}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not after previous")
	})

	t.Run("duplicate date", func(t *testing.T) {
		s := Series{
			{Date: d("2026-01-05"), Close: 10},
			{Date: d("2026-01-05"), Close: 11},
		}
		assert.Error(t, s.Validate())
	})

	t.Run("empty series is valid", func(t *testing.T) {
		assert.NoError(t, Series{}.Validate())
	})
}

func TestSeriesAccessors(t *testing.T) {
	t.Parallel()

	s := Series{
		{Date: d("2026-01-05"), Close: 10},
		{Date: d("2026-01-06"), Close: 11},
		{Date: d("2026-01-07"), Close: 12},
	}

	assert.Equal(t, []float64{10, 11, 12}, s.Closes())
	assert.Equal(t, d("2026-01-05"), s.Start())
	assert.Equal(t, d("2026-01-07"), s.End())

	var empty Series
	assert.True(t, empty.Start().IsZero())
	assert.True(t, empty.End().IsZero())
	assert.Empty(t, empty.Closes())
}
