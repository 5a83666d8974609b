// Package journal persists backtest output: a summary row per run, the
// trade ledger, and the per-bar equity curve. The simulator never writes
// here itself; callers journal a finished Result.
package journal

import (
	"time"

	"github.com/stratbench/stratbench/backtest"
)

// RunSummary is the one-row digest of a backtest run.
type RunSummary struct {
	RunID           string
	Strategy        string
	Symbol          string
	Timeframe       string
	StartingBalance float64
	EndingBalance   float64
	TotalPnL        float64
	TotalCosts      float64
	Trades          int
	WinRate         float64
	ProfitFactor    float64
	SharpeRatio     float64
	MaxDrawdown     float64
	Start           time.Time
	End             time.Time
}

func summarize(res *backtest.Result) RunSummary {
	return RunSummary{
		RunID:           res.RunID,
		Strategy:        res.Strategy,
		Symbol:          res.Symbol,
		Timeframe:       res.Timeframe.String(),
		StartingBalance: res.StartingBalance,
		EndingBalance:   res.EndingBalance,
		TotalPnL:        res.TotalPnL,
		TotalCosts:      res.TotalCosts.Total,
		Trades:          len(res.Trades),
		WinRate:         res.WinRate,
		ProfitFactor:    res.ProfitFactor,
		SharpeRatio:     res.SharpeRatio,
		MaxDrawdown:     res.MaxDrawdown,
		Start:           res.Start,
		End:             res.End,
	}
}

// Journal is a sink for finished runs.
type Journal interface {
	RecordRun(summary RunSummary) error
	RecordTrade(runID string, t backtest.Trade) error
	RecordEquity(runID string, p backtest.EquityPoint) error
	Close() error
}

// Record writes a whole result: summary, ledger, equity curve.
func Record(j Journal, res *backtest.Result) error {
	if err := j.RecordRun(summarize(res)); err != nil {
		return err
	}
	for _, t := range res.Trades {
		if err := j.RecordTrade(res.RunID, t); err != nil {
			return err
		}
	}
	for _, p := range res.Equity {
		if err := j.RecordEquity(res.RunID, p); err != nil {
			return err
		}
	}
	return nil
}
