package indicators

import "github.com/stratbench/stratbench/market"

// SMA is the trailing-window simple moving average of closes. Unavailable
// for indexes below period-1.
func SMA(candles []market.Candle, period int) Series {
	out := unavailable(len(candles))
	if period <= 0 || len(candles) < period {
		return out
	}

	sum := 0.0
	for i, c := range candles {
		sum += c.Close
		if i >= period {
			sum -= candles[i-period].Close
		}
		if i >= period-1 {
			out[i] = valid(sum / float64(period))
		}
	}
	return out
}

// EMA is the exponential moving average of closes, seeded with the SMA of
// the first period closes at index period-1.
func EMA(candles []market.Candle, period int) Series {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return emaValues(closes, period)
}

func emaValues(values []float64, period int) Series {
	out := unavailable(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	ema := sum / float64(period)
	out[period-1] = valid(ema)

	k := 2.0 / float64(period+1)
	for i := period; i < len(values); i++ {
		ema += k * (values[i] - ema)
		out[i] = valid(ema)
	}
	return out
}

// emaSeries applies EMA over a series that may have a leading unavailable
// stretch (the MACD signal line). The seed is the SMA of the first period
// available values.
func emaSeries(s Series, period int) Series {
	out := unavailable(len(s))
	if period <= 0 {
		return out
	}

	// Find the first available index; availability is contiguous for every
	// calculator in this package.
	first := -1
	for i, v := range s {
		if v.Valid {
			first = i
			break
		}
	}
	if first < 0 || len(s)-first < period {
		return out
	}

	sum := 0.0
	for i := first; i < first+period; i++ {
		sum += s[i].V
	}
	ema := sum / float64(period)
	out[first+period-1] = valid(ema)

	k := 2.0 / float64(period+1)
	for i := first + period; i < len(s); i++ {
		ema += k * (s[i].V - ema)
		out[i] = valid(ema)
	}
	return out
}
