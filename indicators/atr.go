package indicators

import (
	"math"

	"github.com/stratbench/stratbench/market"
)

// ATR is Wilder's Average True Range. The seed at index period is the SMA
// of the first period true ranges; every later value uses Wilder smoothing
//
//	ATR[i] = (ATR[i-1]*(period-1) + TR[i]) / period
//
// which is NOT a plain moving average and diverges from one by several
// percent on real data.
func ATR(candles []market.Candle, period int) Series {
	out := unavailable(len(candles))
	if period <= 0 || len(candles) < period+1 {
		return out
	}

	sum := 0.0
	for i := 1; i <= period; i++ {
		sum += trueRange(candles[i], candles[i-1])
	}
	atr := sum / float64(period)
	out[period] = valid(atr)

	p := float64(period)
	for i := period + 1; i < len(candles); i++ {
		atr = (atr*(p-1) + trueRange(candles[i], candles[i-1])) / p
		out[i] = valid(atr)
	}
	return out
}

// trueRange is the largest of the bar range and the two gap-adjusted ranges
// against the previous close.
func trueRange(cur, prev market.Candle) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}
