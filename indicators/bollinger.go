package indicators

import (
	"math"

	"github.com/stratbench/stratbench/market"
)

// Bands are the Bollinger bands, aligned with the input candles.
type Bands struct {
	Middle Series
	Upper  Series
	Lower  Series
}

// Bollinger computes middle = SMA(period) and upper/lower = middle ± k
// standard deviations of the same trailing window (population stdev).
func Bollinger(candles []market.Candle, period int, k float64) Bands {
	n := len(candles)
	b := Bands{
		Middle: SMA(candles, period),
		Upper:  unavailable(n),
		Lower:  unavailable(n),
	}
	if period <= 0 || n < period {
		return b
	}

	for i := period - 1; i < n; i++ {
		mean := b.Middle[i].V
		variance := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := candles[j].Close - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period))
		b.Upper[i] = valid(mean + k*sd)
		b.Lower[i] = valid(mean - k*sd)
	}
	return b
}
