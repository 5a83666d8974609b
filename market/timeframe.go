package market

import (
	"fmt"
	"time"
)

// Timeframe identifies the bar interval of a candle series.
type Timeframe string

const (
	TF1m  Timeframe = "1m"
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

var timeframeIntervals = map[Timeframe]time.Duration{
	TF1m:  time.Minute,
	TF5m:  5 * time.Minute,
	TF15m: 15 * time.Minute,
	TF1h:  time.Hour,
	TF4h:  4 * time.Hour,
	TF1d:  24 * time.Hour,
}

// secondsPerYear uses the Julian year (365.25 days). Crypto markets trade
// around the clock, so annualization is calendar-based, not the 252-day
// stock-exchange convention.
const secondsPerYear = 365.25 * 24 * 3600

// ParseTimeframe validates a timeframe string like "1h".
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(s)
	if _, ok := timeframeIntervals[tf]; !ok {
		return "", fmt.Errorf("unknown timeframe %q (supported: 1m, 5m, 15m, 1h, 4h, 1d)", s)
	}
	return tf, nil
}

// Interval returns the bar duration. Zero for unknown timeframes.
func (tf Timeframe) Interval() time.Duration {
	return timeframeIntervals[tf]
}

// PeriodsPerYear returns the number of bars in a calendar year for this
// timeframe: 8766 for "1h", 365.25 for "1d".
func (tf Timeframe) PeriodsPerYear() float64 {
	iv := tf.Interval()
	if iv <= 0 {
		return 0
	}
	return secondsPerYear / iv.Seconds()
}

func (tf Timeframe) String() string { return string(tf) }
