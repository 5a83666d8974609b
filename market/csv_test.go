package market

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := strings.Join([]string{
		"time,open,high,low,close,volume,trades",
		"2024-01-01T00:00:00Z,100,105,95,102,10,42",
		"2024-01-01T01:00:00Z,102,106,101,104,12",
		"not-a-time,1,2,3,4,5",
		"2024-01-01T01:00:00Z,102,106,101,104,12", // duplicate timestamp
		"1704074400,104,108,103,107,9",            // unix seconds
	}, "\n")

	candles, stats, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	require.Len(t, candles, 3)
	assert.Equal(t, 42, candles[0].TradeCount)
	assert.Equal(t, 104.0, candles[1].Close)
	assert.Equal(t, 107.0, candles[2].Close)

	assert.Equal(t, 1, stats.BadLines)
	assert.Equal(t, 1, stats.Duplicates)
}

func TestReadCSVEmpty(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("time,open,high,low,close,volume\n"))
	assert.Error(t, err)
}
