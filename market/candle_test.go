package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandleValidate(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ok := Candle{Time: ts, Open: 100, High: 105, Low: 95, Close: 102, Volume: 10}
	assert.NoError(t, ok.Validate())

	highBelowLow := Candle{Time: ts, Open: 100, High: 90, Low: 95, Close: 102, Volume: 10}
	assert.Error(t, highBelowLow.Validate())

	lowAboveClose := Candle{Time: ts, Open: 100, High: 105, Low: 101, Close: 100.5, Volume: 10}
	assert.Error(t, lowAboveClose.Validate())

	negVolume := Candle{Time: ts, Open: 100, High: 105, Low: 95, Close: 102, Volume: -1}
	assert.Error(t, negVolume.Validate())

	preGenesis := Candle{Time: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), Open: 100, High: 105, Low: 95, Close: 102, Volume: 1}
	assert.Error(t, preGenesis.Validate())

	future := Candle{Time: time.Now().Add(time.Hour), Open: 100, High: 105, Low: 95, Close: 102, Volume: 1}
	assert.Error(t, future.Validate())
}

func TestParseTimeframe(t *testing.T) {
	tf, err := ParseTimeframe("1h")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, tf.Interval())

	_, err = ParseTimeframe("3w")
	assert.Error(t, err)
}

func TestPeriodsPerYearIsCalendarBased(t *testing.T) {
	// 24/7 market: hourly bars annualize with ~8766 periods, daily with
	// 365.25, never the stock-market 252.
	assert.InDelta(t, 8766.0, TF1h.PeriodsPerYear(), 0.5)
	assert.InDelta(t, 365.25, TF1d.PeriodsPerYear(), 0.01)
	assert.InDelta(t, 8766.0*60, TF1m.PeriodsPerYear(), 30)
}
