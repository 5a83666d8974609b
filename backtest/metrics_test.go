package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/stratbench/stratbench/market"
)

func curve(values ...float64) []EquityPoint {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	out := make([]EquityPoint, len(values))
	for i, v := range values {
		out[i] = EquityPoint{Time: base.Add(time.Duration(i) * time.Hour), Equity: v}
	}
	return out
}

func TestMaxDrawdown(t *testing.T) {
	// Peak 120, trough 90: 25% drawdown.
	dd := maxDrawdown(curve(100, 120, 110, 90, 115, 130))
	assert.InDelta(t, 25.0, dd, 1e-9)

	assert.Zero(t, maxDrawdown(curve(100, 110, 120)), "monotone curve never draws down")
	assert.Zero(t, maxDrawdown(nil))
}

func TestProfitFactor(t *testing.T) {
	assert.InDelta(t, 2.0, profitFactor(200, 100), 1e-9)
	assert.InDelta(t, 150.0, profitFactor(150, 0), 1e-9, "no losses degrades to gross profit")
	assert.Zero(t, profitFactor(0, 0))
}

func TestSharpeUsesCalendarAnnualization(t *testing.T) {
	c := curve(100, 101, 100.5, 102, 101.2, 103, 102.4, 104)

	hourly := sharpe(c, market.TF1h)
	daily := sharpe(c, market.TF1d)
	assert.NotZero(t, hourly)

	// Same returns, different period count: ratio is sqrt(8766/365.25) = sqrt(24).
	assert.InDelta(t, 4.898979, hourly/daily, 1e-4)
}

func TestSharpeDegenerateCurves(t *testing.T) {
	assert.Zero(t, sharpe(curve(100, 100, 100, 100), market.TF1h), "flat curve has no variance")
	assert.Zero(t, sharpe(curve(100, 101), market.TF1h), "one return is not a distribution")
	assert.Zero(t, sharpe(nil, market.TF1h))
}
