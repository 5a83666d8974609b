package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stratbench/stratbench/backtest"
)

// SQLiteJournal stores runs, trades and equity points in one SQLite file.
// ULID keys keep rows time-ordered under the primary index.
type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordRun(s RunSummary) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, strategy, symbol, timeframe,
		 starting_balance, ending_balance, total_pnl, total_costs,
		 trades, win_rate, profit_factor, sharpe, max_drawdown,
		 start_time, end_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Strategy, s.Symbol, s.Timeframe,
		s.StartingBalance, s.EndingBalance, s.TotalPnL, s.TotalCosts,
		s.Trades, s.WinRate, s.ProfitFactor, s.SharpeRatio, s.MaxDrawdown,
		s.Start, s.End,
	)
	return err
}

func (j *SQLiteJournal) RecordTrade(runID string, t backtest.Trade) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, entry_time, entry_price,
		 exit_time, exit_price, quantity, fees, slippage, spread,
		 realized_pnl, reason, force_closed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, runID, t.Symbol, t.EntryTime, t.EntryPrice,
		t.ExitTime, t.ExitPrice, t.Quantity,
		t.Costs.Fees, t.Costs.Slippage, t.Costs.Spread,
		t.RealizedPnL, t.Reason, t.ForceClosed,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(runID string, p backtest.EquityPoint) error {
	_, err := j.db.Exec(
		`INSERT INTO equity (run_id, time, equity) VALUES (?, ?, ?)`,
		runID, p.Time, p.Equity,
	)
	return err
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
