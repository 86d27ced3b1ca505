package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/metrics"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
)

type fakeSource struct {
	series market.Series
	err    error
}

func (f *fakeSource) FetchDaily(ctx context.Context, symbol string, from, to time.Time) (market.Series, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

func seriesFrom(closes []float64) market.Series {
	base := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	s := make(market.Series, len(closes))
	for i, c := range closes {
		s[i] = market.Bar{Date: base.AddDate(0, 0, i), Open: c, High: c, Low: c, Close: c, Volume: 1000}
	}
	return s
}

func scenarioCloses() []float64 {
	return []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 9, 8, 12, 15, 9, 8, 7, 20, 22, 25}
}

func newTestRouter(t *testing.T, data DataSource, store RunStore) *gin.Engine {
	t.Helper()
	return NewServer(*config.Default(), data, store, zap.NewNop(), metrics.NewRegistry()).Router()
}

func newTestStore(t *testing.T) RunStore {
	t.Helper()
	j, err := journal.NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func errCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &er))
	return er.Error.Code
}

func TestHandleBacktest(t *testing.T) {
	source := &fakeSource{series: seriesFrom(scenarioCloses())}

	t.Run("runs a backtest and returns the result", func(t *testing.T) {
		router := newTestRouter(t, source, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest",
			`{"ticker": "TEST", "short_window": 3, "long_window": 5, "initial_capital": 1000}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			RunID   string `json:"run_id"`
			Days    int    `json:"days"`
			Metrics struct {
				TotalReturnPct float64 `json:"total_return_pct"`
				NumTrades      int     `json:"num_trades"`
				FinalValue     float64 `json:"final_value"`
			} `json:"metrics"`
			Verdict string `json:"verdict"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.NotEmpty(t, resp.RunID)
		assert.Equal(t, 20, resp.Days)
		assert.InDelta(t, -46.5, resp.Metrics.TotalReturnPct, 1e-9)
		assert.Equal(t, 1, resp.Metrics.NumTrades)
		assert.InDelta(t, 535.0, resp.Metrics.FinalValue, 1e-9)
		assert.Equal(t, "UNDERPERFORMED", resp.Verdict)
	})

	t.Run("defaults fill unset fields", func(t *testing.T) {
		router := newTestRouter(t, source, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest", `{"ticker": "TEST"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp struct {
			Options struct {
				ShortWindow    int     `json:"short_window"`
				LongWindow     int     `json:"long_window"`
				InitialCapital float64 `json:"initial_capital"`
			} `json:"options"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 20, resp.Options.ShortWindow)
		assert.Equal(t, 50, resp.Options.LongWindow)
		assert.InDelta(t, 10000.0, resp.Options.InitialCapital, 1e-9)
	})

	t.Run("missing ticker is rejected", func(t *testing.T) {
		router := newTestRouter(t, source, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest", `{"short_window": 3}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", errCode(t, w))
	})

	t.Run("inverted windows are rejected", func(t *testing.T) {
		router := newTestRouter(t, source, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest",
			`{"ticker": "TEST", "short_window": 50, "long_window": 20}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_OPTIONS", errCode(t, w))
	})

	t.Run("bad date range is rejected", func(t *testing.T) {
		router := newTestRouter(t, source, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest",
			`{"ticker": "TEST", "from": "not-a-date"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_RANGE", errCode(t, w))
	})

	t.Run("unknown symbol maps to 404", func(t *testing.T) {
		router := newTestRouter(t, &fakeSource{err: fmt.Errorf("symbol NOPE: %w", market.ErrNoData)}, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest", `{"ticker": "NOPE"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NO_DATA", errCode(t, w))
	})

	t.Run("upstream failure maps to 502", func(t *testing.T) {
		router := newTestRouter(t, &fakeSource{err: fmt.Errorf("API error (status 500): boom")}, nil)
		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest", `{"ticker": "TEST"}`)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "DATA_FETCH_ERROR", errCode(t, w))
	})
}

func TestRunsEndpoints(t *testing.T) {
	source := &fakeSource{series: seriesFrom(scenarioCloses())}

	t.Run("backtest is journaled and served back", func(t *testing.T) {
		store := newTestStore(t)
		router := newTestRouter(t, source, store)

		w := doJSON(t, router, http.MethodPost, "/api/v1/backtest",
			`{"ticker": "TEST", "short_window": 3, "long_window": 5, "initial_capital": 1000}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var posted struct {
			RunID string `json:"run_id"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posted))

		w = doJSON(t, router, http.MethodGet, "/api/v1/runs", "")
		require.Equal(t, http.StatusOK, w.Code)

		var list struct {
			Count int           `json:"count"`
			Runs  []journal.Run `json:"runs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		require.Equal(t, 1, list.Count)
		assert.Equal(t, posted.RunID, list.Runs[0].RunID)
		assert.Equal(t, "TEST", list.Runs[0].Ticker)

		w = doJSON(t, router, http.MethodGet, "/api/v1/runs/"+posted.RunID, "")
		require.Equal(t, http.StatusOK, w.Code)

		var detail struct {
			Run    journal.Run           `json:"run"`
			Trades []journal.TradeRecord `json:"trades"`
			Equity []journal.EquityPoint `json:"equity"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
		assert.Equal(t, posted.RunID, detail.Run.RunID)
		assert.Len(t, detail.Trades, 3)
		assert.Len(t, detail.Equity, 16)
	})

	t.Run("unknown run is a 404", func(t *testing.T) {
		router := newTestRouter(t, source, newTestStore(t))
		w := doJSON(t, router, http.MethodGet, "/api/v1/runs/does-not-exist", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "RUN_NOT_FOUND", errCode(t, w))
	})

	t.Run("bad limit is rejected", func(t *testing.T) {
		router := newTestRouter(t, source, newTestStore(t))
		w := doJSON(t, router, http.MethodGet, "/api/v1/runs?limit=zero", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", errCode(t, w))
	})

	t.Run("runs endpoints report a missing journal", func(t *testing.T) {
		router := newTestRouter(t, source, nil)

		w := doJSON(t, router, http.MethodGet, "/api/v1/runs", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "JOURNAL_DISABLED", errCode(t, w))

		w = doJSON(t, router, http.MethodGet, "/api/v1/runs/abc", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "JOURNAL_DISABLED", errCode(t, w))
	})
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, &fakeSource{}, nil)

	w := doJSON(t, router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())

	w = doJSON(t, router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestParseRange(t *testing.T) {
	t.Parallel()

	t.Run("explicit window", func(t *testing.T) {
		from, to, err := parseRange("2026-01-02", "2026-06-30")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC), from)
		assert.Equal(t, time.Date(2026, time.June, 30, 0, 0, 0, 0, time.UTC), to)
	})

	t.Run("from defaults to a year before to", func(t *testing.T) {
		from, to, err := parseRange("", "2026-06-30")
		require.NoError(t, err)
		assert.Equal(t, to.AddDate(-1, 0, 0), from)
	})

	t.Run("empty window ends today", func(t *testing.T) {
		from, to, err := parseRange("", "")
		require.NoError(t, err)
		assert.True(t, from.Before(to))
		assert.WithinDuration(t, time.Now().UTC(), to, 25*time.Hour)
	})

	t.Run("inverted window errors", func(t *testing.T) {
		_, _, err := parseRange("2026-06-30", "2026-01-02")
		assert.Error(t, err)
	})

	t.Run("garbage date errors", func(t *testing.T) {
		_, _, err := parseRange("soon", "")
		assert.Error(t, err)
	})
}
