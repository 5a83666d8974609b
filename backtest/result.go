package backtest

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/stratbench/stratbench/market"
)

// Exit reasons recorded on the trade ledger.
const (
	ReasonRule       = "rule_exit"
	ReasonStopLoss   = "stop_loss"
	ReasonTakeProfit = "take_profit"
	ReasonEndOfData  = "end_of_data"
)

// CostBreakdown accumulates the round-trip trading costs of one position.
type CostBreakdown struct {
	Fees     float64
	Slippage float64
	Spread   float64
	Total    float64
}

func (b *CostBreakdown) add(c Cost) {
	b.Fees += c.Fee
	b.Slippage += c.Slippage
	b.Spread += c.Spread
	b.Total += c.Total
}

// Trade is one closed round trip. EntryPrice includes the slippage and
// spread adjustment; ExitPrice is the raw trigger price, with exit costs
// carried in Costs.
type Trade struct {
	ID          string
	Symbol      string
	EntryTime   time.Time
	EntryPrice  float64
	ExitTime    time.Time
	ExitPrice   float64
	Quantity    float64
	Costs       CostBreakdown
	RealizedPnL float64
	Reason      string
	ForceClosed bool
}

// EquityPoint is one bar of the equity curve: cash balance plus the open
// position marked at the bar close.
type EquityPoint struct {
	Time   time.Time
	Equity float64
}

// Result is the write-once output of one backtest run.
type Result struct {
	RunID     string
	Strategy  string
	Symbol    string
	Timeframe market.Timeframe

	StartingBalance float64
	EndingBalance   float64
	TotalPnL        float64
	TotalCosts      CostBreakdown

	Trades []Trade
	Wins   int
	Losses int

	WinRate      float64
	ProfitFactor float64
	SharpeRatio  float64
	MaxDrawdown  float64

	Equity []EquityPoint

	BarsProcessed int
	BarsSkipped   int
	Quality       market.QualityReport

	Start time.Time
	End   time.Time
}

// Print writes a human-readable report: a summary block and the trade
// ledger as a table.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintf(w, "run      %s\n", r.RunID)
	fmt.Fprintf(w, "strategy %s  symbol %s  timeframe %s\n", r.Strategy, r.Symbol, r.Timeframe)
	fmt.Fprintf(w, "bars     %d processed, %d skipped (completeness %.1f%%)\n",
		r.BarsProcessed, r.BarsSkipped, r.Quality.CompletenessScore*100)
	fmt.Fprintf(w, "balance  %.2f -> %.2f  (pnl %+.2f, costs %.2f)\n",
		r.StartingBalance, r.EndingBalance, r.TotalPnL, r.TotalCosts.Total)
	fmt.Fprintf(w, "trades   %d (%d wins / %d losses)  win rate %.1f%%\n",
		len(r.Trades), r.Wins, r.Losses, r.WinRate)
	fmt.Fprintf(w, "profit factor %.2f  sharpe %.2f  max drawdown %.1f%%\n",
		r.ProfitFactor, r.SharpeRatio, r.MaxDrawdown)

	if len(r.Trades) == 0 {
		return
	}

	fmt.Fprintln(w)
	table := tablewriter.NewWriter(w)
	table.Header("Entry", "Exit", "Qty", "Entry Px", "Exit Px", "PnL", "Costs", "Reason")
	for _, t := range r.Trades {
		reason := t.Reason
		if t.ForceClosed {
			reason += " (forced)"
		}
		table.Append(
			t.EntryTime.Format(time.RFC3339),
			t.ExitTime.Format(time.RFC3339),
			fmt.Sprintf("%.6f", t.Quantity),
			fmt.Sprintf("%.4f", t.EntryPrice),
			fmt.Sprintf("%.4f", t.ExitPrice),
			fmt.Sprintf("%+.2f", t.RealizedPnL),
			fmt.Sprintf("%.2f", t.Costs.Total),
			reason,
		)
	}
	table.Render()
}
