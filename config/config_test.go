package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	cfg.Normalize()
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
account:
  id: SIM-42
  currency: USD
  balance: 50000
strategy:
  instrument: EUR_USD
  fast-period: 12
  slow-period: 40
  brick-size: 0.001
  vol-window: 20
  vol-threshold: 0.0005
  gate: vol_gate
data:
  format: quote
  path: ./eurusd.csv
journal:
  type: sqlite
  db_path: ./run.sqlite
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "SIM-42", cfg.Account.ID)
	assert.Equal(t, 12, cfg.Strategy.FastPeriod)
	assert.Equal(t, 0.001, cfg.Strategy.BrickSize)
	assert.Equal(t, "vol_gate", cfg.Strategy.Gate)
	assert.Equal(t, "quote", cfg.Data.Format)
}

func TestLoadClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
account:
  currency: USD
  balance: 1000
strategy:
  instrument: EUR_USD
  fast-period: -3
  slow-period: 0
  brick-size: -1.5
data:
  path: ./ticks.csv
`), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	// Out-of-range values are clamped, never rejected.
	assert.Equal(t, 10, cfg.Strategy.FastPeriod)
	assert.Equal(t, 50, cfg.Strategy.SlowPeriod)
	assert.Equal(t, 0.0, cfg.Strategy.BrickSize)
	assert.Equal(t, "canonical", cfg.Data.Format)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing currency", func(c *Config) { c.Account.Currency = "" }},
		{"zero balance", func(c *Config) { c.Account.Balance = 0 }},
		{"bad gate mode", func(c *Config) { c.Strategy.Gate = "sideways" }},
		{"bad data format", func(c *Config) { c.Data.Format = "parquet" }},
		{"quote without instrument", func(c *Config) {
			c.Data.Format = "quote"
			c.Strategy.Instrument = ""
		}},
		{"bad journal type", func(c *Config) { c.Journal.Type = "kafka" }},
		{"csv journal missing files", func(c *Config) { c.Journal.Type = "csv" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, ext := range []string{"yaml", "json"} {
		path := filepath.Join(t.TempDir(), "config."+ext)
		require.NoError(t, Default().SaveToFile(path))

		cfg, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, Default().Account, cfg.Account)
		assert.Equal(t, Default().Strategy.FastPeriod, cfg.Strategy.FastPeriod)
	}
}
