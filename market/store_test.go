package market

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candleAt(i int) Candle {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Hour)
	px := 100 + float64(i)
	return Candle{Time: ts, Open: px, High: px + 1, Low: px - 1, Close: px, Volume: 1}
}

func TestSeriesStoreEvictsPastRetention(t *testing.T) {
	s := NewSeriesStore(5)

	for i := 0; i < 8; i++ {
		s.Append("BTC/USD", candleAt(i))
	}

	require.Equal(t, 5, s.Len("BTC/USD"))

	recent := s.Recent("BTC/USD", 5)
	require.Len(t, recent, 5)
	// Oldest three were evicted.
	assert.Equal(t, candleAt(3).Time, recent[0].Time)
	assert.Equal(t, candleAt(7).Time, recent[4].Time)
}

func TestSeriesStoreRecentIsASnapshot(t *testing.T) {
	s := NewSeriesStore(10)
	s.Append("ETH/USD", candleAt(0))
	s.Append("ETH/USD", candleAt(1))

	snap := s.Recent("ETH/USD", 2)
	require.Len(t, snap, 2)

	s.Append("ETH/USD", candleAt(2))
	snap[0].Close = -1 // mutating the snapshot must not touch the store

	again := s.Recent("ETH/USD", 3)
	require.Len(t, again, 3)
	assert.Equal(t, candleAt(0).Close, again[0].Close)
}

func TestSeriesStoreRecentShorterThanAsked(t *testing.T) {
	s := NewSeriesStore(10)
	s.Append("X", candleAt(0))
	assert.Len(t, s.Recent("X", 50), 1)
	assert.Nil(t, s.Recent("missing", 5))
}

func TestSeriesStoreReset(t *testing.T) {
	s := NewSeriesStore(10)
	s.Append("X", candleAt(0))
	s.Reset("X")
	assert.Equal(t, 0, s.Len("X"))
	s.Append("X", candleAt(1))
	assert.Equal(t, 1, s.Len("X"))
}

func TestSeriesStoreConcurrentSymbols(t *testing.T) {
	s := NewSeriesStore(DefaultRetention)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			sym := fmt.Sprintf("SYM-%d", g)
			for i := 0; i < 300; i++ {
				s.Append(sym, candleAt(i))
				_ = s.Recent(sym, 10)
			}
		}(g)
	}
	wg.Wait()

	for g := 0; g < 8; g++ {
		assert.Equal(t, DefaultRetention, s.Len(fmt.Sprintf("SYM-%d", g)))
	}
	assert.Len(t, s.Symbols(), 8)
}
