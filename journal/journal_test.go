package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratbench/stratbench/backtest"
	"github.com/stratbench/stratbench/market"
)

func sampleResult() *backtest.Result {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return &backtest.Result{
		RunID:           "01HRUNJOURNALTEST0000000000",
		Strategy:        "rsi-reversion",
		Symbol:          "BTC/USD",
		Timeframe:       market.TF1h,
		StartingBalance: 10_000,
		EndingBalance:   10_150,
		TotalPnL:        150,
		TotalCosts:      backtest.CostBreakdown{Fees: 10, Slippage: 2, Spread: 1, Total: 13},
		Trades: []backtest.Trade{
			{
				ID:          "01HTRADEA0000000000000000A",
				Symbol:      "BTC/USD",
				EntryTime:   base.Add(2 * time.Hour),
				EntryPrice:  100.06,
				ExitTime:    base.Add(9 * time.Hour),
				ExitPrice:   112,
				Quantity:    9.99,
				Costs:       backtest.CostBreakdown{Fees: 5, Slippage: 1, Spread: 0.5, Total: 6.5},
				RealizedPnL: 112.7,
				Reason:      backtest.ReasonRule,
			},
			{
				ID:          "01HTRADEB0000000000000000B",
				Symbol:      "BTC/USD",
				EntryTime:   base.Add(20 * time.Hour),
				EntryPrice:  110.5,
				ExitTime:    base.Add(30 * time.Hour),
				ExitPrice:   108,
				Quantity:    9.1,
				Costs:       backtest.CostBreakdown{Fees: 5, Slippage: 1, Spread: 0.5, Total: 6.5},
				RealizedPnL: -29.3,
				Reason:      backtest.ReasonEndOfData,
				ForceClosed: true,
			},
		},
		Equity: []backtest.EquityPoint{
			{Time: base, Equity: 10_000},
			{Time: base.Add(time.Hour), Equity: 10_040},
			{Time: base.Add(2 * time.Hour), Equity: 10_150},
		},
		WinRate:      50,
		ProfitFactor: 3.85,
		Start:        base,
		End:          base.Add(30 * time.Hour),
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalRoundTrip(t *testing.T) {
	dir := t.TempDir()
	j, err := NewCSV(dir)
	require.NoError(t, err)

	res := sampleResult()
	require.NoError(t, Record(j, res))
	require.NoError(t, j.Close())

	runs := readCSV(t, filepath.Join(dir, "runs.csv"))
	require.Len(t, runs, 2) // header + one run
	assert.Equal(t, "run_id", runs[0][0])
	assert.Equal(t, res.RunID, runs[1][0])
	assert.Equal(t, "rsi-reversion", runs[1][1])

	trades := readCSV(t, filepath.Join(dir, "trades.csv"))
	require.Len(t, trades, 3)
	assert.Equal(t, res.RunID, trades[1][0])
	assert.Equal(t, backtest.ReasonRule, trades[1][10])
	assert.Equal(t, "true", trades[2][11])

	equity := readCSV(t, filepath.Join(dir, "equity.csv"))
	assert.Len(t, equity, 4)
}

func TestSQLiteJournalRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	res := sampleResult()
	require.NoError(t, Record(j, res))

	got, err := j.GetRun(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, res.Strategy, got.Strategy)
	assert.Equal(t, "1h", got.Timeframe)
	assert.Equal(t, 2, got.Trades)
	assert.InDelta(t, 150, got.TotalPnL, 1e-9)
	assert.WithinDuration(t, res.Start, got.Start, time.Second)

	trades, err := j.ListTradesByRun(res.RunID)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, res.Trades[0].ID, trades[0].ID)
	assert.InDelta(t, res.Trades[0].RealizedPnL, trades[0].RealizedPnL, 1e-9)
	assert.InDelta(t, 6.5, trades[0].Costs.Total, 1e-9)
	assert.True(t, trades[1].ForceClosed)

	curve, err := j.ListEquityByRun(res.RunID)
	require.NoError(t, err)
	require.Len(t, curve, 3)
	assert.InDelta(t, 10_150, curve[2].Equity, 1e-9)

	runs, err := j.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	_, err = j.GetRun("missing")
	assert.Error(t, err)
}
