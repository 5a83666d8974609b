package indicators

import "github.com/stratbench/stratbench/market"

// MACDLines bundles the three MACD outputs, each aligned with the input.
type MACDLines struct {
	Line      Series // EMA(fast) - EMA(slow)
	Signal    Series // EMA of Line over signalPeriod
	Histogram Series // Line - Signal
}

// MACD computes Moving Average Convergence/Divergence over closes.
// Standard parameters are 12/26/9.
func MACD(candles []market.Candle, fast, slow, signalPeriod int) MACDLines {
	n := len(candles)
	m := MACDLines{
		Line:      unavailable(n),
		Signal:    unavailable(n),
		Histogram: unavailable(n),
	}
	if fast <= 0 || slow <= 0 || signalPeriod <= 0 || fast >= slow {
		return m
	}

	emaFast := EMA(candles, fast)
	emaSlow := EMA(candles, slow)
	for i := 0; i < n; i++ {
		f, fok := emaFast.At(i)
		s, sok := emaSlow.At(i)
		if fok && sok {
			m.Line[i] = valid(f - s)
		}
	}

	m.Signal = emaSeries(m.Line, signalPeriod)
	for i := 0; i < n; i++ {
		l, lok := m.Line.At(i)
		s, sok := m.Signal.At(i)
		if lok && sok {
			m.Histogram[i] = valid(l - s)
		}
	}
	return m
}
