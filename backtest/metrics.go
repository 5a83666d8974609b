package backtest

import (
	"math"

	"github.com/stratbench/stratbench/market"
)

// finalizeMetrics fills the derived statistics from the ledger and the
// equity curve. Trades and Equity must already be populated.
func (r *Result) finalizeMetrics() {
	var grossWin, grossLoss float64
	for _, t := range r.Trades {
		r.TotalPnL += t.RealizedPnL
		switch {
		case t.RealizedPnL > 0:
			r.Wins++
			grossWin += t.RealizedPnL
		case t.RealizedPnL < 0:
			r.Losses++
			grossLoss += -t.RealizedPnL
		}
	}

	if n := len(r.Trades); n > 0 {
		r.WinRate = float64(r.Wins) / float64(n) * 100
	}
	r.ProfitFactor = profitFactor(grossWin, grossLoss)
	r.MaxDrawdown = maxDrawdown(r.Equity)
	r.SharpeRatio = sharpe(r.Equity, r.Timeframe)
}

// profitFactor is gross profit over gross loss. With no losses it degrades
// to the gross profit itself, which keeps all-win runs comparable.
func profitFactor(grossWin, grossLoss float64) float64 {
	if grossLoss == 0 {
		return grossWin
	}
	return grossWin / grossLoss
}

// maxDrawdown is the deepest peak-to-trough fall of the equity curve, as a
// percentage of the peak.
func maxDrawdown(curve []EquityPoint) float64 {
	var peak, worst float64
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak <= 0 {
			continue
		}
		if dd := (peak - p.Equity) / peak * 100; dd > worst {
			worst = dd
		}
	}
	return worst
}

// sharpe annualizes mean over stdev of per-bar equity returns using the
// calendar period count of the timeframe. Crypto trades around the clock,
// so hourly bars annualize by 8766, daily by 365.25.
func sharpe(curve []EquityPoint, tf market.Timeframe) float64 {
	returns := make([]float64, 0, len(curve))
	for i := 1; i < len(curve); i++ {
		prev := curve[i-1].Equity
		if prev <= 0 {
			continue
		}
		returns = append(returns, (curve[i].Equity-prev)/prev)
	}
	if len(returns) < 2 {
		return 0
	}

	var mean float64
	for _, x := range returns {
		mean += x
	}
	mean /= float64(len(returns))

	var variance float64
	for _, x := range returns {
		d := x - mean
		variance += d * d
	}
	variance /= float64(len(returns))

	sd := math.Sqrt(variance)
	if sd == 0 {
		return 0
	}
	return mean / sd * math.Sqrt(tf.PeriodsPerYear())
}
