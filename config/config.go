// Package config loads and validates run configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/renko/signal"
	"github.com/rustyeddy/renko/strategies"
)

// Config represents the complete run configuration.
type Config struct {
	Account  AccountConfig               `json:"account" yaml:"account"`
	Strategy strategies.RenkoCrossConfig `json:"strategy" yaml:"strategy"`
	Data     DataConfig                  `json:"data" yaml:"data"`
	Journal  JournalConfig               `json:"journal" yaml:"journal"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// DataConfig selects the tick source for a backtest.
type DataConfig struct {
	// Format is "canonical" (time,instrument,bid,ask[,last]) or
	// "quote" (time,bid,ask,last with the instrument from strategy config).
	Format string `json:"format" yaml:"format"`
	Path   string `json:"path" yaml:"path"`
	From   string `json:"from,omitempty" yaml:"from,omitempty"`
	To     string `json:"to,omitempty" yaml:"to,omitempty"`
}

// JournalConfig contains journaling parameters.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv" or "sqlite"
	TradesFile  string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile  string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	SignalsFile string `json:"signals_file,omitempty" yaml:"signals_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (format chosen by extension).
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

// Normalize clamps out-of-range values onto usable defaults so a config is
// always runnable: the engine is constructible for any numeric inputs.
func (c *Config) Normalize() {
	if c.Strategy.FastPeriod < 1 {
		c.Strategy.FastPeriod = 10
	}
	if c.Strategy.SlowPeriod < 1 {
		c.Strategy.SlowPeriod = 50
	}
	if c.Strategy.BrickSize < 0 {
		c.Strategy.BrickSize = 0
	}
	if c.Strategy.VolWindow < 1 {
		c.Strategy.VolWindow = 30
	}
	if c.Data.Format == "" {
		c.Data.Format = "canonical"
	}
	if c.Journal.Type == "" {
		c.Journal.Type = "sqlite"
		if c.Journal.DBPath == "" {
			c.Journal.DBPath = "./backtest.sqlite"
		}
	}
}

// Validate checks the values Normalize cannot repair.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if _, err := signal.ParseGateMode(c.Strategy.Gate); err != nil {
		return err
	}
	if c.Data.Format != "canonical" && c.Data.Format != "quote" {
		return fmt.Errorf("data.format must be 'canonical' or 'quote'")
	}
	if c.Data.Format == "quote" && c.Strategy.Instrument == "" {
		return fmt.Errorf("strategy.instrument is required for quote data")
	}
	if c.Journal.Type != "csv" && c.Journal.Type != "sqlite" {
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	if c.Journal.Type == "csv" &&
		(c.Journal.TradesFile == "" || c.Journal.EquityFile == "" || c.Journal.SignalsFile == "") {
		return fmt.Errorf("journal trades_file, equity_file, and signals_file required for CSV type")
	}
	if c.Journal.Type == "sqlite" && c.Journal.DBPath == "" {
		return fmt.Errorf("journal db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  100_000,
		},
		Strategy: *strategies.RenkoCrossConfigDefaults(),
		Data: DataConfig{
			Format: "canonical",
			Path:   "./ticks.csv",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./backtest.sqlite",
		},
	}
}
