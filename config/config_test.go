package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratbench/stratbench/market"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, market.TF1h, cfg.Timeframe())
	assert.InDelta(t, 0.0026, cfg.Costs.TakerFeeRate, 1e-9)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
account:
  currency: USD
  balance: 25000
data:
  timeframe: 4h
costs:
  taker_fee_rate: 0.001
  maker_fee_rate: 0.0005
  half_spread_rate: 0.0001
journal:
  type: sqlite
  db_path: runs.db
log:
  level: debug
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 25000, cfg.Account.Balance, 1e-9)
	assert.Equal(t, market.TF4h, cfg.Timeframe())
	assert.InDelta(t, 0.001, cfg.Costs.TakerFeeRate, 1e-9)
	assert.Equal(t, "sqlite", cfg.Journal.Type)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset sections keep their defaults.
	assert.Equal(t, 30, cfg.Quality.MinBars)
}

func TestLoadJSONFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"account":{"currency":"EUR","balance":5000},"data":{"timeframe":"1d"}}`,
	), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "EUR", cfg.Account.Currency)
	assert.Equal(t, market.TF1d, cfg.Timeframe())
}

func TestValidateRejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero balance", func(c *Config) { c.Account.Balance = 0 }},
		{"bad timeframe", func(c *Config) { c.Data.Timeframe = "7m" }},
		{"negative fee", func(c *Config) { c.Costs.TakerFeeRate = -1 }},
		{"csv without dir", func(c *Config) { c.Journal.Type = "csv" }},
		{"sqlite without path", func(c *Config) { c.Journal.Type = "sqlite" }},
		{"unknown journal", func(c *Config) { c.Journal.Type = "postgres" }},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }},
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
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := Default()
	cfg.Account.Balance = 42_000
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 42_000, loaded.Account.Balance, 1e-9)
}
