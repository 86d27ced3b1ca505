package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/backtest"
	"github.com/rustyeddy/backtester/market"
)

// ErrorResponse is the body returned for every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine code plus a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// BacktestRequest is the body for POST /api/v1/backtest. Zero fields fall
// back to the defaults, so {"ticker": "MSFT"} is a complete request.
type BacktestRequest struct {
	Ticker         string  `json:"ticker" binding:"required"`
	ShortWindow    int     `json:"short_window"`
	LongWindow     int     `json:"long_window"`
	InitialCapital float64 `json:"initial_capital"`
	CountOpenTrade bool    `json:"count_open_trade"`
	From           string  `json:"from"`
	To             string  `json:"to"`
}

type backtestResponse struct {
	*backtest.Result
	Verdict string `json:"verdict"`
}

func (s *Server) handleBacktest(c *gin.Context) {
	var req BacktestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	opts := backtest.DefaultOptions()
	opts.Ticker = req.Ticker
	opts.CountOpenTrade = req.CountOpenTrade
	if req.ShortWindow > 0 {
		opts.ShortWindow = req.ShortWindow
	}
	if req.LongWindow > 0 {
		opts.LongWindow = req.LongWindow
	}
	if req.InitialCapital > 0 {
		opts.InitialCapital = req.InitialCapital
	}
	if err := opts.Validate(); err != nil {
		errJSON(c, http.StatusBadRequest, "INVALID_OPTIONS", err.Error())
		return
	}

	from, to, err := parseRange(req.From, req.To)
	if err != nil {
		errJSON(c, http.StatusBadRequest, "INVALID_RANGE", err.Error())
		return
	}

	series, err := s.data.FetchDaily(c.Request.Context(), opts.Ticker, from, to)
	if err != nil {
		s.metrics.RecordFetch(s.cfg.Data.Source, "error")
		if errors.Is(err, market.ErrNoData) {
			errJSON(c, http.StatusNotFound, "NO_DATA", err.Error())
			return
		}
		errJSON(c, http.StatusBadGateway, "DATA_FETCH_ERROR", err.Error())
		return
	}
	s.metrics.RecordFetch(s.cfg.Data.Source, "success")

	start := time.Now()
	result, err := backtest.Run(series, opts)
	if err != nil {
		s.metrics.RecordBacktest("error", time.Since(start).Seconds(), 0)
		errJSON(c, http.StatusInternalServerError, "BACKTEST_ERROR", err.Error())
		return
	}
	s.metrics.RecordBacktest("success", time.Since(start).Seconds(), len(result.Sim.Trades))

	if s.store != nil {
		if err := backtest.Record(s.store, result); err != nil {
			s.log.Warn("journal record failed",
				zap.String("run_id", result.RunID),
				zap.Error(err))
		}
	}

	s.log.Info("backtest complete",
		zap.String("run_id", result.RunID),
		zap.String("ticker", opts.Ticker),
		zap.Float64("return_pct", result.Metrics.TotalReturnPct),
		zap.Int("trades", result.Metrics.NumTrades))

	c.JSON(http.StatusOK, backtestResponse{Result: result, Verdict: result.Verdict()})
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.store == nil {
		errJSON(c, http.StatusServiceUnavailable, "JOURNAL_DISABLED", "no journal configured")
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errJSON(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(limit)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, "JOURNAL_ERROR", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.store == nil {
		errJSON(c, http.StatusServiceUnavailable, "JOURNAL_DISABLED", "no journal configured")
		return
	}

	runID := c.Param("id")
	run, err := s.store.GetRun(runID)
	if err != nil {
		errJSON(c, http.StatusNotFound, "RUN_NOT_FOUND", err.Error())
		return
	}

	trades, err := s.store.ListTradesByRun(runID)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, "JOURNAL_ERROR", err.Error())
		return
	}
	equity, err := s.store.ListEquityByRun(runID)
	if err != nil {
		errJSON(c, http.StatusInternalServerError, "JOURNAL_ERROR", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"run": run, "trades": trades, "equity": equity})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// parseRange applies the same defaults as the config layer: an empty end is
// today, an empty start is one year before the end.
func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var zero time.Time

	to := time.Now().UTC().Truncate(24 * time.Hour)
	if toStr != "" {
		var err error
		to, err = time.Parse(market.DateLayout, toStr)
		if err != nil {
			return zero, zero, err
		}
	}

	from := to.AddDate(-1, 0, 0)
	if fromStr != "" {
		var err error
		from, err = time.Parse(market.DateLayout, fromStr)
		if err != nil {
			return zero, zero, err
		}
	}

	if !from.Before(to) {
		return zero, zero, errors.New("from must be before to")
	}
	return from, to, nil
}
