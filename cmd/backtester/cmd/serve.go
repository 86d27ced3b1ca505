package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backtester/internal/api"
	"github.com/rustyeddy/backtester/internal/metrics"
	"github.com/rustyeddy/backtester/journal"
	"github.com/rustyeddy/backtester/yahoo"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve backtests over HTTP",
	Long: `Serve starts the HTTP API. POST /api/v1/backtest runs a backtest against
fresh Yahoo data, GET /api/v1/runs serves the journal back out, and /metrics
exposes Prometheus metrics.

Runs are journaled when the config selects the sqlite journal.

Example:
  backtester serve --config backtester.yaml --addr :9090`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	var store api.RunStore
	if cfg.Journal.Type == "sqlite" {
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()
		store = j
	}

	srv := api.NewServer(cfg, yahoo.NewClient(log), store, log, metrics.NewRegistry())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Listening on %s (journal: %s)\n", cfg.Server.Addr, cfg.Journal.Type)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
