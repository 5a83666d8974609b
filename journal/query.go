package journal

import (
	"fmt"

	"github.com/stratbench/stratbench/backtest"
)

// GetRun loads one run summary.
func (j *SQLiteJournal) GetRun(runID string) (RunSummary, error) {
	var s RunSummary
	err := j.db.QueryRow(`
		SELECT run_id, strategy, symbol, timeframe,
		       starting_balance, ending_balance, total_pnl, total_costs,
		       trades, win_rate, profit_factor, sharpe, max_drawdown,
		       start_time, end_time
		FROM runs WHERE run_id = ?`, runID).Scan(
		&s.RunID, &s.Strategy, &s.Symbol, &s.Timeframe,
		&s.StartingBalance, &s.EndingBalance, &s.TotalPnL, &s.TotalCosts,
		&s.Trades, &s.WinRate, &s.ProfitFactor, &s.SharpeRatio, &s.MaxDrawdown,
		&s.Start, &s.End,
	)
	if err != nil {
		return RunSummary{}, fmt.Errorf("get run %s: %w", runID, err)
	}
	return s, nil
}

// ListRuns returns every run summary, newest first.
func (j *SQLiteJournal) ListRuns() ([]RunSummary, error) {
	rows, err := j.db.Query(`
		SELECT run_id, strategy, symbol, timeframe,
		       starting_balance, ending_balance, total_pnl, total_costs,
		       trades, win_rate, profit_factor, sharpe, max_drawdown,
		       start_time, end_time
		FROM runs ORDER BY run_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(
			&s.RunID, &s.Strategy, &s.Symbol, &s.Timeframe,
			&s.StartingBalance, &s.EndingBalance, &s.TotalPnL, &s.TotalCosts,
			&s.Trades, &s.WinRate, &s.ProfitFactor, &s.SharpeRatio, &s.MaxDrawdown,
			&s.Start, &s.End,
		); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListTradesByRun returns the ledger of one run in entry order.
func (j *SQLiteJournal) ListTradesByRun(runID string) ([]backtest.Trade, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, symbol, entry_time, entry_price,
		       exit_time, exit_price, quantity, fees, slippage, spread,
		       realized_pnl, reason, force_closed
		FROM trades WHERE run_id = ? ORDER BY trade_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.Trade
	for rows.Next() {
		var t backtest.Trade
		if err := rows.Scan(
			&t.ID, &t.Symbol, &t.EntryTime, &t.EntryPrice,
			&t.ExitTime, &t.ExitPrice, &t.Quantity,
			&t.Costs.Fees, &t.Costs.Slippage, &t.Costs.Spread,
			&t.RealizedPnL, &t.Reason, &t.ForceClosed,
		); err != nil {
			return nil, err
		}
		t.Costs.Total = t.Costs.Fees + t.Costs.Slippage + t.Costs.Spread
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEquityByRun returns one run's equity curve in time order.
func (j *SQLiteJournal) ListEquityByRun(runID string) ([]backtest.EquityPoint, error) {
	rows, err := j.db.Query(
		`SELECT time, equity FROM equity WHERE run_id = ? ORDER BY time`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.EquityPoint
	for rows.Next() {
		var p backtest.EquityPoint
		if err := rows.Scan(&p.Time, &p.Equity); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
