package cmd

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stratbench/stratbench/backtest"
	"github.com/stratbench/stratbench/config"
	"github.com/stratbench/stratbench/indicators"
	"github.com/stratbench/stratbench/journal"
	"github.com/stratbench/stratbench/market"
	"github.com/stratbench/stratbench/rules"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a strategy file against candle CSVs",
	Long: `Backtest replays candle CSVs through a YAML strategy file.

Each --candles entry maps a symbol to its CSV (time,open,high,low,close,volume).
Symbols run concurrently and share one indicator cache.

Example:
  stratbench backtest -s strategies/rsi.yaml --candles BTC/USD=data/btcusd-1h.csv`,
	RunE: runBacktest,
}

var (
	btStrategyPath string
	btCandles      map[string]string
	btBalance      float64
	btTimeframe    string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btStrategyPath, "strategy", "s", "", "path to YAML strategy file (required)")
	backtestCmd.Flags().StringToStringVar(&btCandles, "candles", nil, "symbol=csv-path pairs (required)")
	backtestCmd.Flags().Float64VarP(&btBalance, "balance", "b", 0, "starting balance (overrides config)")
	backtestCmd.Flags().StringVarP(&btTimeframe, "timeframe", "t", "", "bar timeframe (overrides config)")

	backtestCmd.MarkFlagRequired("strategy")
	backtestCmd.MarkFlagRequired("candles")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if btBalance > 0 {
		cfg.Account.Balance = btBalance
	}
	if btTimeframe != "" {
		cfg.Data.Timeframe = btTimeframe
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	log := newLogger(cfg)

	def, err := rules.LoadDefinition(btStrategyPath)
	if err != nil {
		return err
	}
	strat := rules.Compile(*def, log)
	if strat.BadRules > 0 {
		log.Warn("strategy has malformed rules, they evaluate false", "count", strat.BadRules)
	}

	j, err := openJournal(cfg)
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	cache := indicators.NewCache(cfg.Cache.Capacity)
	sim := &backtest.Simulator{
		Computer:        indicators.NewComputer(cache),
		Costs:           cfg.Costs,
		Quality:         cfg.Quality,
		Timeframe:       cfg.Timeframe(),
		StartingBalance: cfg.Account.Balance,
		Retention:       cfg.Data.Retention,
		Log:             log,
	}

	var (
		mu      sync.Mutex
		results []*backtest.Result
	)
	g, ctx := errgroup.WithContext(cmd.Context())
	for symbol, path := range btCandles {
		symbol, path := symbol, path
		g.Go(func() error {
			candles, stats, err := market.LoadCSV(path)
			if err != nil {
				return fmt.Errorf("%s: %w", symbol, err)
			}
			if stats.BadLines > 0 || stats.Duplicates > 0 {
				log.Warn("csv ingest dropped rows",
					"symbol", symbol,
					"bad", stats.BadLines,
					"duplicates", stats.Duplicates)
			}

			res, err := sim.Run(ctx, symbol, candles, strat)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	sort.Slice(results, func(i, k int) bool { return results[i].Symbol < results[k].Symbol })
	for _, res := range results {
		fmt.Println()
		res.Print(os.Stdout)
		if j != nil {
			if err := journal.Record(j, res); err != nil {
				return fmt.Errorf("journal %s: %w", res.RunID, err)
			}
		}
	}

	if len(results) > 1 {
		fmt.Println()
		printSummary(results)
	}
	return nil
}

func printSummary(results []*backtest.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Symbol", "Trades", "PnL", "Win Rate", "PF", "Sharpe", "Max DD")
	for _, r := range results {
		table.Append(
			r.Symbol,
			fmt.Sprintf("%d", len(r.Trades)),
			fmt.Sprintf("%+.2f", r.TotalPnL),
			fmt.Sprintf("%.1f%%", r.WinRate),
			fmt.Sprintf("%.2f", r.ProfitFactor),
			fmt.Sprintf("%.2f", r.SharpeRatio),
			fmt.Sprintf("%.1f%%", r.MaxDrawdown),
		)
	}
	table.Render()
}

func openJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return nil, nil
	case "csv":
		return journal.NewCSV(cfg.Journal.Dir)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
}
