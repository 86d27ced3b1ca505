package market

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadCSV(t *testing.T) {
	t.Parallel()

	want := Series{
		{Date: d("2026-01-05"), Open: 9.9, High: 10.2, Low: 9.7, Close: 10, Volume: 1200},
		{Date: d("2026-01-06"), Open: 10, High: 10.8, Low: 9.9, Close: 10.5, Volume: 900},
		{Date: d("2026-01-07"), Open: 10.5, High: 10.6, Low: 9.5, Close: 9.8, Volume: 1500},
	}

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, SaveCSV(path, want))

	got, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadCSVErrors(t *testing.T) {
	t.Parallel()

	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "bars.csv")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		path := write(t, "date,open,high,low,close,volume\n")
		_, err := LoadCSV(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("empty file", func(t *testing.T) {
		path := write(t, "")
		_, err := LoadCSV(path)
		assert.ErrorIs(t, err, ErrNoData)
	})

	t.Run("bad close value", func(t *testing.T) {
		path := write(t, "date,open,high,low,close,volume\n2026-01-05,10,10,10,ten,100\n")
		_, err := LoadCSV(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse close")
	})

	t.Run("bad date", func(t *testing.T) {
		path := write(t, "date,open,high,low,close,volume\n01/05/2026,10,10,10,10,100\n")
		_, err := LoadCSV(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse date")
	})

	t.Run("unordered rows rejected", func(t *testing.T) {
		path := write(t, "date,open,high,low,close,volume\n"+
			"2026-01-06,10,10,10,10,100\n"+
			"2026-01-05,11,11,11,11,100\n")
		_, err := LoadCSV(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not after previous")
	})
}
