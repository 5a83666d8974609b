package market

import (
	"sort"
	"sync"
)

// DefaultRetention is the per-symbol candle cap.
const DefaultRetention = 200

// SeriesStore keeps a bounded trailing window of candles per symbol.
// Appends for one symbol are serialized by that symbol's lock; unrelated
// symbols never contend. Reads return copies, never live views.
type SeriesStore struct {
	mu        sync.RWMutex
	retention int
	series    map[string]*symbolSeries
}

// symbolSeries is a fixed-capacity ring so appends stay O(1) once the
// retention window is full.
type symbolSeries struct {
	mu    sync.Mutex
	buf   []Candle
	start int
	count int
}

// NewSeriesStore creates a store with the given per-symbol retention.
// Non-positive retention falls back to DefaultRetention.
func NewSeriesStore(retention int) *SeriesStore {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SeriesStore{
		retention: retention,
		series:    make(map[string]*symbolSeries),
	}
}

func (s *SeriesStore) symbol(symbol string) *symbolSeries {
	s.mu.RLock()
	ss := s.series[symbol]
	s.mu.RUnlock()
	if ss != nil {
		return ss
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if ss = s.series[symbol]; ss == nil {
		ss = &symbolSeries{buf: make([]Candle, s.retention)}
		s.series[symbol] = ss
	}
	return ss
}

// Append adds a candle to the symbol's history, evicting the oldest entry
// once the retention cap is reached.
func (s *SeriesStore) Append(symbol string, c Candle) {
	ss := s.symbol(symbol)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.count < len(ss.buf) {
		ss.buf[(ss.start+ss.count)%len(ss.buf)] = c
		ss.count++
		return
	}
	ss.buf[ss.start] = c
	ss.start = (ss.start + 1) % len(ss.buf)
}

// Recent returns up to n most recent candles in chronological order.
// The returned slice is a snapshot owned by the caller.
func (s *SeriesStore) Recent(symbol string, n int) []Candle {
	s.mu.RLock()
	ss := s.series[symbol]
	s.mu.RUnlock()
	if ss == nil || n <= 0 {
		return nil
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if n > ss.count {
		n = ss.count
	}
	out := make([]Candle, n)
	first := ss.start + ss.count - n
	for i := 0; i < n; i++ {
		out[i] = ss.buf[(first+i)%len(ss.buf)]
	}
	return out
}

// Len reports how many candles are currently held for the symbol.
func (s *SeriesStore) Len(symbol string) int {
	s.mu.RLock()
	ss := s.series[symbol]
	s.mu.RUnlock()
	if ss == nil {
		return 0
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.count
}

// Reset drops all history for the symbol.
func (s *SeriesStore) Reset(symbol string) {
	s.mu.RLock()
	ss := s.series[symbol]
	s.mu.RUnlock()
	if ss == nil {
		return
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.start = 0
	ss.count = 0
}

// Symbols returns the known symbols, sorted.
func (s *SeriesStore) Symbols() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.series))
	for sym := range s.series {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}
