package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stratbench/stratbench/config"
	"github.com/stratbench/stratbench/internal/logx"
)

var rootCmd = &cobra.Command{
	Use:   "stratbench",
	Short: "Candle-driven strategy backtesting workbench",
	Long: `Stratbench replays historical candles through rule-based strategies.

It provides tools for:
  - Backtesting YAML strategy files against candle CSVs
  - Checking candle data quality before a run
  - Inspecting the latest indicator values for a series
  - Journaling runs, trades and equity curves to CSV or SQLite`,
}

var (
	cfgPath   string
	logLevel  string
	logFormat string
)

// Execute runs the root command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or text")
}

// loadConfig reads the config file (or defaults) and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgPath != "" {
		loaded, err := config.LoadFromFile(cfgPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logx.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)
}
