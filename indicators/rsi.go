package indicators

import "github.com/stratbench/stratbench/market"

// RSI is Wilder's Relative Strength Index over closes. The seed at index
// period is the simple average of the first period gains/losses; later
// values use Wilder smoothing: avg = (avg*(period-1) + value) / period.
// When the average loss is zero the RSI is 100 by convention.
func RSI(candles []market.Candle, period int) Series {
	out := unavailable(len(candles))
	if period <= 0 || len(candles) < period+1 {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := candles[i].Close - candles[i-1].Close
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = valid(rsiFrom(avgGain, avgLoss))

	p := float64(period)
	for i := period + 1; i < len(candles); i++ {
		change := candles[i].Close - candles[i-1].Close
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = valid(rsiFrom(avgGain, avgLoss))
	}
	return out
}

func rsiFrom(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
