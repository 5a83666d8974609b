package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hourly(n int) []Candle {
	out := make([]Candle, n)
	for i := range out {
		out[i] = candleAt(i)
	}
	return out
}

func TestCheckSeriesCleanData(t *testing.T) {
	r := CheckSeries(hourly(48), TF1h, DefaultQualityConfig())

	assert.True(t, r.SuitableForBacktest)
	assert.Empty(t, r.Reason)
	assert.InDelta(t, 1.0, r.CompletenessScore, 1e-9)
	assert.Zero(t, r.InvalidBars)
	assert.Empty(t, r.Gaps)
}

func TestCheckSeriesDetectsGaps(t *testing.T) {
	candles := hourly(48)
	// Remove 4 bars in the middle: delta becomes 5h > 1.5x interval.
	candles = append(candles[:20], candles[24:]...)

	r := CheckSeries(candles, TF1h, DefaultQualityConfig())

	require.Len(t, r.Gaps, 1)
	assert.Equal(t, 4, r.Gaps[0].Missing)
	assert.Less(t, r.CompletenessScore, 1.0)
	// 44/48 is still above the 0.9 default floor.
	assert.True(t, r.SuitableForBacktest)
}

func TestCheckSeriesGatesOnCompleteness(t *testing.T) {
	candles := hourly(100)
	// Keep every third bar: completeness collapses.
	sparse := make([]Candle, 0, 34)
	for i := 0; i < len(candles); i += 3 {
		sparse = append(sparse, candles[i])
	}

	r := CheckSeries(sparse, TF1h, DefaultQualityConfig())
	assert.False(t, r.SuitableForBacktest)
	assert.Contains(t, r.Reason, "completeness")
}

func TestCheckSeriesAnomaliesAreFlagOnly(t *testing.T) {
	candles := hourly(48)
	// One violent bar: 60% range against mid-price.
	candles[10].High = candles[10].Mid() * 1.4
	candles[10].Low = candles[10].Open * 0.7
	candles[10].Open = candles[10].High - 1
	candles[10].Close = candles[10].Low + 1

	r := CheckSeries(candles, TF1h, DefaultQualityConfig())
	assert.Equal(t, 1, r.AnomalyCount)
	assert.True(t, r.SuitableForBacktest, "anomalies must not reject a series")
}

func TestCheckSeriesInvalidBars(t *testing.T) {
	candles := hourly(48)
	candles[3].High = candles[3].Low - 1

	// One bad bar is skippable, not fatal.
	r := CheckSeries(candles, TF1h, DefaultQualityConfig())
	assert.Equal(t, 1, r.InvalidBars)
	assert.True(t, r.SuitableForBacktest)
	assert.InDelta(t, 47.0/48.0, r.CompletenessScore, 1e-9)

	// Enough bad bars sink completeness below the floor.
	for i := 10; i < 20; i++ {
		candles[i].High = candles[i].Low - 1
	}
	r = CheckSeries(candles, TF1h, DefaultQualityConfig())
	assert.False(t, r.SuitableForBacktest)
	assert.Contains(t, r.Reason, "completeness")
}

func TestCheckSeriesTooShort(t *testing.T) {
	r := CheckSeries(hourly(5), TF1h, DefaultQualityConfig())
	assert.False(t, r.SuitableForBacktest)
	assert.Contains(t, r.Reason, "too few usable bars")

	empty := CheckSeries(nil, TF1h, DefaultQualityConfig())
	assert.False(t, empty.SuitableForBacktest)
}

func TestCheckSeriesOutOfOrder(t *testing.T) {
	candles := hourly(40)
	candles[10].Time = candles[9].Time.Add(-time.Minute)

	r := CheckSeries(candles, TF1h, DefaultQualityConfig())
	assert.Equal(t, 1, r.OutOfOrderBars)
	assert.False(t, r.SuitableForBacktest)
}
