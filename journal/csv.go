package journal

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/stratbench/stratbench/backtest"
)

// CSVJournal writes runs.csv, trades.csv and equity.csv into one directory.
type CSVJournal struct {
	runs, trades, equity *csv.Writer
	files                []*os.File
}

// NewCSV creates the directory if needed and opens the three files with
// their header rows written.
func NewCSV(dir string) (*CSVJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("journal dir: %w", err)
	}

	j := &CSVJournal{}
	open := func(name string, header []string) (*csv.Writer, error) {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		j.files = append(j.files, f)
		w := csv.NewWriter(f)
		if err := w.Write(header); err != nil {
			return nil, err
		}
		w.Flush()
		return w, w.Error()
	}

	var err error
	if j.runs, err = open("runs.csv", []string{
		"run_id", "strategy", "symbol", "timeframe",
		"starting_balance", "ending_balance", "total_pnl", "total_costs",
		"trades", "win_rate", "profit_factor", "sharpe", "max_drawdown",
		"start", "end",
	}); err != nil {
		j.Close()
		return nil, err
	}
	if j.trades, err = open("trades.csv", []string{
		"run_id", "trade_id", "symbol", "entry_time", "entry_price",
		"exit_time", "exit_price", "quantity", "costs", "realized_pnl",
		"reason", "force_closed",
	}); err != nil {
		j.Close()
		return nil, err
	}
	if j.equity, err = open("equity.csv", []string{"run_id", "time", "equity"}); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *CSVJournal) RecordRun(s RunSummary) error {
	return j.write(j.runs, []string{
		s.RunID, s.Strategy, s.Symbol, s.Timeframe,
		f(s.StartingBalance), f(s.EndingBalance), f(s.TotalPnL), f(s.TotalCosts),
		strconv.Itoa(s.Trades), f(s.WinRate), f(s.ProfitFactor),
		f(s.SharpeRatio), f(s.MaxDrawdown),
		s.Start.Format(time.RFC3339), s.End.Format(time.RFC3339),
	})
}

func (j *CSVJournal) RecordTrade(runID string, t backtest.Trade) error {
	return j.write(j.trades, []string{
		runID, t.ID, t.Symbol,
		t.EntryTime.Format(time.RFC3339), f(t.EntryPrice),
		t.ExitTime.Format(time.RFC3339), f(t.ExitPrice),
		f(t.Quantity), f(t.Costs.Total), f(t.RealizedPnL),
		t.Reason, strconv.FormatBool(t.ForceClosed),
	})
}

func (j *CSVJournal) RecordEquity(runID string, p backtest.EquityPoint) error {
	return j.write(j.equity, []string{runID, p.Time.Format(time.RFC3339), f(p.Equity)})
}

func (j *CSVJournal) write(w *csv.Writer, row []string) error {
	if err := w.Write(row); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func (j *CSVJournal) Close() error {
	var first error
	for _, w := range []*csv.Writer{j.runs, j.trades, j.equity} {
		if w == nil {
			continue
		}
		w.Flush()
		if err := w.Error(); err != nil && first == nil {
			first = err
		}
	}
	for _, f := range j.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
