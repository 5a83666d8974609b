// Package config loads the runner configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stratbench/stratbench/backtest"
	"github.com/stratbench/stratbench/market"
)

// Config is the complete runner configuration.
type Config struct {
	Account AccountConfig        `json:"account" yaml:"account"`
	Data    DataConfig           `json:"data" yaml:"data"`
	Costs   backtest.CostConfig  `json:"costs" yaml:"costs"`
	Quality market.QualityConfig `json:"quality" yaml:"quality"`
	Cache   CacheConfig          `json:"cache" yaml:"cache"`
	Journal JournalConfig        `json:"journal" yaml:"journal"`
	Log     LogConfig            `json:"log" yaml:"log"`
}

// AccountConfig seeds the simulated account.
type AccountConfig struct {
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// DataConfig describes the candle input.
type DataConfig struct {
	Timeframe string `json:"timeframe" yaml:"timeframe"`
	// Retention caps the per-symbol candle window. 0 uses the default.
	Retention int `json:"retention,omitempty" yaml:"retention,omitempty"`
}

// CacheConfig sizes the shared indicator cache.
type CacheConfig struct {
	Capacity int `json:"capacity,omitempty" yaml:"capacity,omitempty"`
}

// JournalConfig selects the run sink.
type JournalConfig struct {
	Type   string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig tunes the structured logger.
type LogConfig struct {
	Level  string `json:"level,omitempty" yaml:"level,omitempty"`   // debug, info, warn, error
	Format string `json:"format,omitempty" yaml:"format,omitempty"` // json or text
}

// LoadFromFile reads a config file, trying YAML first and JSON second.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if yerr := yaml.Unmarshal(data, cfg); yerr != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the config, YAML for .yaml/.yml paths and JSON otherwise.
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
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before anything runs with it.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if _, err := market.ParseTimeframe(c.Data.Timeframe); err != nil {
		return fmt.Errorf("data.timeframe: %w", err)
	}
	if c.Data.Retention < 0 {
		return fmt.Errorf("data.retention must not be negative")
	}
	if err := c.Costs.Validate(); err != nil {
		return err
	}
	if c.Cache.Capacity < 0 {
		return fmt.Errorf("cache.capacity must not be negative")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.Dir == "" {
			return fmt.Errorf("journal.dir required for csv journal")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text")
	}
	return nil
}

// Timeframe returns the validated bar interval.
func (c *Config) Timeframe() market.Timeframe {
	tf, _ := market.ParseTimeframe(c.Data.Timeframe)
	return tf
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Currency: "USD",
			Balance:  10_000,
		},
		Data: DataConfig{
			Timeframe: "1h",
		},
		Costs:   backtest.DefaultCostConfig(),
		Quality: market.DefaultQualityConfig(),
		Journal: JournalConfig{
			Type: "none",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
