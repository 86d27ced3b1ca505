// Package api exposes the backtester over HTTP. A single POST endpoint runs
// a backtest against freshly fetched data, and the runs endpoints serve the
// journal back out for dashboards.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rustyeddy/backtester/config"
	"github.com/rustyeddy/backtester/internal/metrics"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/market"
)

// DataSource provides daily price history for a symbol.
type DataSource interface {
	FetchDaily(ctx context.Context, symbol string, from, to time.Time) (market.Series, error)
}

// RunStore persists finished runs and serves them back out. The SQLite
// journal satisfies it.
type RunStore interface {
	journal.Journal
	GetRun(runID string) (journal.Run, error)
	ListRuns(limit int) ([]journal.Run, error)
	ListTradesByRun(runID string) ([]journal.TradeRecord, error)
	ListEquityByRun(runID string) ([]journal.EquityPoint, error)
}

// Server is the backtester HTTP server.
type Server struct {
	cfg     config.Config
	data    DataSource
	store   RunStore
	log     *zap.Logger
	metrics *metrics.Registry

	httpServer *http.Server
}

// NewServer wires the handlers together. store may be nil when no journal is
// configured; the runs endpoints then report the journal as disabled.
func NewServer(cfg config.Config, data DataSource, store RunStore, log *zap.Logger, reg *metrics.Registry) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Server{
		cfg:     cfg,
		data:    data,
		store:   store,
		log:     log,
		metrics: reg,
	}
}

// Router builds the gin engine with all routes and middleware attached.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(RequestLogger(s.log))
	router.Use(Recovery(s.log))
	router.Use(metrics.GinMiddleware(s.metrics))

	router.GET("/healthz", s.handleHealth)
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/backtest", s.handleBacktest)
		v1.GET("/runs", s.handleListRuns)
		v1.GET("/runs/:id", s.handleGetRun)
	}

	return router
}

// Start runs the server until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	origins := s.cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	handler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(s.Router())

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	}
}
