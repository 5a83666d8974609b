// Package market provides candle data types, bounded per-symbol history,
// data-quality checks and CSV ingest for the backtest core.
package market

import (
	"fmt"
	"time"
)

// genesisTime is the earliest timestamp any candle may carry. Nothing we
// backtest predates the first crypto markets.
var genesisTime = time.Date(2009, time.January, 3, 0, 0, 0, 0, time.UTC)

// clockTolerance allows candles stamped slightly ahead of the local clock
// (exchange clock skew).
const clockTolerance = 5 * time.Minute

// Candle is a single OHLCV bar. TradeCount is optional (0 when the feed
// doesn't supply it).
type Candle struct {
	Time       time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     float64
	TradeCount int
}

// Validate checks the OHLC ordering invariant, volume sign and timestamp
// range. Invalid candles are skipped by the simulator, never fatal.
func (c Candle) Validate() error {
	lo, hi := c.Open, c.Open
	if c.Close < lo {
		lo = c.Close
	}
	if c.Close > hi {
		hi = c.Close
	}
	if c.Low > lo {
		return fmt.Errorf("candle %s: low %.8f above min(open,close) %.8f", c.Time.Format(time.RFC3339), c.Low, lo)
	}
	if c.High < hi {
		return fmt.Errorf("candle %s: high %.8f below max(open,close) %.8f", c.Time.Format(time.RFC3339), c.High, hi)
	}
	if c.High < c.Low {
		return fmt.Errorf("candle %s: high %.8f below low %.8f", c.Time.Format(time.RFC3339), c.High, c.Low)
	}
	if c.Volume < 0 {
		return fmt.Errorf("candle %s: negative volume %.8f", c.Time.Format(time.RFC3339), c.Volume)
	}
	if c.Time.Before(genesisTime) {
		return fmt.Errorf("candle %s: before genesis %s", c.Time.Format(time.RFC3339), genesisTime.Format(time.RFC3339))
	}
	if c.Time.After(time.Now().Add(clockTolerance)) {
		return fmt.Errorf("candle %s: in the future", c.Time.Format(time.RFC3339))
	}
	return nil
}

// Mid returns the midpoint of the bar's range.
func (c Candle) Mid() float64 {
	return (c.High + c.Low) / 2
}

// Range returns high-low.
func (c Candle) Range() float64 {
	return c.High - c.Low
}
