package indicators

import "github.com/stratbench/stratbench/market"

// Stoch holds the stochastic oscillator lines, aligned with the input.
type Stoch struct {
	K Series // fast %K
	D Series // SMA(%K, dPeriod)
}

// Stochastic computes %K over the kPeriod high/low range and %D as its
// dPeriod simple average. When the window range is zero (highest high equals
// lowest low) %K clamps to a neutral 50 instead of dividing by zero; the
// sample stays valid so the series remains aligned.
func Stochastic(candles []market.Candle, kPeriod, dPeriod int) Stoch {
	n := len(candles)
	st := Stoch{K: unavailable(n), D: unavailable(n)}
	if kPeriod <= 0 || dPeriod <= 0 || n < kPeriod {
		return st
	}

	for i := kPeriod - 1; i < n; i++ {
		hh := candles[i-kPeriod+1].High
		ll := candles[i-kPeriod+1].Low
		for j := i - kPeriod + 2; j <= i; j++ {
			if candles[j].High > hh {
				hh = candles[j].High
			}
			if candles[j].Low < ll {
				ll = candles[j].Low
			}
		}
		if hh == ll {
			st.K[i] = valid(50)
			continue
		}
		st.K[i] = valid((candles[i].Close - ll) / (hh - ll) * 100)
	}

	// %D: trailing mean over the valid stretch of %K.
	firstK := kPeriod - 1
	for i := firstK + dPeriod - 1; i < n; i++ {
		sum := 0.0
		for j := i - dPeriod + 1; j <= i; j++ {
			sum += st.K[j].V
		}
		st.D[i] = valid(sum / float64(dPeriod))
	}
	return st
}
