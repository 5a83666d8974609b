package market

import (
	"fmt"
	"time"
)

// QualityConfig tunes the pre-backtest data checks.
type QualityConfig struct {
	// MinCompleteness gates the run: actual/expected bars must reach this.
	MinCompleteness float64 `yaml:"min_completeness" json:"min_completeness"`
	// GapFactor: an inter-candle delta above GapFactor*interval is a gap.
	GapFactor float64 `yaml:"gap_factor" json:"gap_factor"`
	// AnomalyMaxRangePct flags bars whose range exceeds this percentage of
	// the bar's mid-price. Flag only; volatile bars are legitimate.
	AnomalyMaxRangePct float64 `yaml:"anomaly_max_range_pct" json:"anomaly_max_range_pct"`
	// MinBars is the minimum usable series length.
	MinBars int `yaml:"min_bars" json:"min_bars"`
}

// DefaultQualityConfig returns the thresholds used when the caller doesn't
// override them.
func DefaultQualityConfig() QualityConfig {
	return QualityConfig{
		MinCompleteness:    0.90,
		GapFactor:          1.5,
		AnomalyMaxRangePct: 20,
		MinBars:            30,
	}
}

// Gap is a missing stretch between two consecutive candles.
type Gap struct {
	After   time.Time
	Before  time.Time
	Missing int // whole bars missing between After and Before
}

// QualityReport summarizes a candle series ahead of simulation.
type QualityReport struct {
	Bars              int
	InvalidBars       int
	OutOfOrderBars    int
	CompletenessScore float64
	Gaps              []Gap
	AnomalyCount      int

	SuitableForBacktest bool
	Reason              string // set when unsuitable
}

// CheckSeries validates every candle, measures completeness against the
// timeframe grid, records gaps and flags range anomalies. Anomalies never
// make a series unsuitable on their own.
func CheckSeries(candles []Candle, tf Timeframe, cfg QualityConfig) QualityReport {
	if cfg.GapFactor <= 0 {
		cfg.GapFactor = 1.5
	}
	if cfg.AnomalyMaxRangePct <= 0 {
		cfg.AnomalyMaxRangePct = 20
	}

	r := QualityReport{Bars: len(candles)}
	if len(candles) == 0 {
		r.Reason = "empty series"
		return r
	}

	iv := tf.Interval()
	maxDelta := time.Duration(float64(iv) * cfg.GapFactor)

	for i, c := range candles {
		if err := c.Validate(); err != nil {
			r.InvalidBars++
		}
		if mid := c.Mid(); mid > 0 && c.Range()/mid*100 > cfg.AnomalyMaxRangePct {
			r.AnomalyCount++
		}
		if i == 0 {
			continue
		}
		delta := c.Time.Sub(candles[i-1].Time)
		if delta <= 0 {
			r.OutOfOrderBars++
			continue
		}
		if iv > 0 && delta > maxDelta {
			r.Gaps = append(r.Gaps, Gap{
				After:   candles[i-1].Time,
				Before:  c.Time,
				Missing: int(delta/iv) - 1,
			})
		}
	}

	// Completeness against the expected timeframe grid over the observed
	// span. Invalid bars don't count: the simulator skips them, so they are
	// as good as missing.
	usable := len(candles) - r.InvalidBars
	if iv > 0 {
		span := candles[len(candles)-1].Time.Sub(candles[0].Time)
		expected := int(span/iv) + 1
		if expected < len(candles) {
			expected = len(candles)
		}
		r.CompletenessScore = float64(usable) / float64(expected)
	} else {
		r.CompletenessScore = 1
	}

	switch {
	case usable < cfg.MinBars:
		r.Reason = fmt.Sprintf("too few usable bars: %d < %d", usable, cfg.MinBars)
	case r.OutOfOrderBars > 0:
		r.Reason = fmt.Sprintf("%d out-of-order bars", r.OutOfOrderBars)
	case r.CompletenessScore < cfg.MinCompleteness:
		r.Reason = fmt.Sprintf("completeness %.3f below %.3f", r.CompletenessScore, cfg.MinCompleteness)
	default:
		r.SuitableForBacktest = true
	}
	return r
}
