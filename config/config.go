// Package config holds the file-backed configuration for the backtester CLI
// and server. Files may be YAML or JSON; flags override whatever was loaded.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/backtester/market"
)

// Config represents the complete backtester configuration.
type Config struct {
	Backtest BacktestConfig `json:"backtest" yaml:"backtest"`
	Data     DataConfig     `json:"data" yaml:"data"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Server   ServerConfig   `json:"server" yaml:"server"`
}

// BacktestConfig contains the strategy parameters.
type BacktestConfig struct {
	Ticker         string  `json:"ticker" yaml:"ticker"`
	ShortWindow    int     `json:"short_window" yaml:"short_window"`
	LongWindow     int     `json:"long_window" yaml:"long_window"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	CountOpenTrade bool    `json:"count_open_trade,omitempty" yaml:"count_open_trade,omitempty"`
}

// DataConfig says where daily bars come from.
type DataConfig struct {
	Source  string `json:"source" yaml:"source"` // "yahoo" or "csv"
	CSVPath string `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	From    string `json:"from,omitempty" yaml:"from,omitempty"` // YYYY-MM-DD
	To      string `json:"to,omitempty" yaml:"to,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	RunsFile   string `json:"runs_file,omitempty" yaml:"runs_file,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ServerConfig contains the HTTP server parameters.
type ServerConfig struct {
	Addr        string   `json:"addr" yaml:"addr"`
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Backtest.Ticker == "" {
		return fmt.Errorf("backtest.ticker is required")
	}
	if c.Backtest.ShortWindow < 1 {
		return fmt.Errorf("backtest.short_window must be at least 1")
	}
	if c.Backtest.LongWindow < 1 {
		return fmt.Errorf("backtest.long_window must be at least 1")
	}
	if c.Backtest.ShortWindow >= c.Backtest.LongWindow {
		return fmt.Errorf("backtest.short_window must be less than backtest.long_window")
	}
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive")
	}

	switch c.Data.Source {
	case "yahoo":
	case "csv":
		if c.Data.CSVPath == "" {
			return fmt.Errorf("data.csv_path required for csv source")
		}
	default:
		return fmt.Errorf("data.source must be 'yahoo' or 'csv'")
	}
	if _, _, err := c.Range(); err != nil {
		return err
	}

	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.RunsFile == "" || c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal runs_file, trades_file and equity_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}

// Range resolves the configured date window. An empty To means today; an
// empty From means one year before To.
func (c *Config) Range() (from, to time.Time, err error) {
	to = time.Now().UTC().Truncate(24 * time.Hour)
	if c.Data.To != "" {
		to, err = time.Parse(market.DateLayout, c.Data.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.to: %w", err)
		}
	}

	from = to.AddDate(-1, 0, 0)
	if c.Data.From != "" {
		from, err = time.Parse(market.DateLayout, c.Data.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("data.from: %w", err)
		}
	}

	if !from.Before(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("data.from must be before data.to")
	}
	return from, to, nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Backtest: BacktestConfig{
			Ticker:         "AAPL",
			ShortWindow:    20,
			LongWindow:     50,
			InitialCapital: 10000,
		},
		Data: DataConfig{
			Source: "yahoo",
		},
		Journal: JournalConfig{
			Type: "none",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
