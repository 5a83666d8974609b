package indicators

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/stratbench/stratbench/market"
)

// Defaults for the named catalog. Rule expressions can override periods by
// suffix ("SMA_20", "RSI_7"); bare names use these.
const (
	DefaultSMAPeriod  = 50
	DefaultEMAPeriod  = 20
	DefaultRSIPeriod  = 14
	DefaultATRPeriod  = 14
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
	DefaultBBPeriod   = 20
	DefaultBBK        = 2.0
	DefaultStochK     = 14
	DefaultStochD     = 3
)

// Computer resolves indicator names to series, memoizing every computation
// through a shared Cache. One Computer may serve many concurrent backtest
// runs; it holds no per-run state.
type Computer struct {
	cache *Cache
}

// NewComputer wraps a cache. A nil cache gets a default-capacity one.
func NewComputer(cache *Cache) *Computer {
	if cache == nil {
		cache = NewCache(DefaultCacheCapacity)
	}
	return &Computer{cache: cache}
}

// SeriesFor resolves a single indicator name ("RSI", "SMA_20", "MACD_HIST",
// "BB_UPPER", "STOCH_K", ...) against the candles. PRICE and VOLUME resolve
// directly from the candles. Unknown names return ok=false.
func (cp *Computer) SeriesFor(name string, candles []market.Candle) (Series, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	fp := Fingerprint(candles)

	switch {
	case name == "PRICE":
		out := make(Series, len(candles))
		for i, c := range candles {
			out[i] = valid(c.Close)
		}
		return out, true

	case name == "VOLUME":
		out := make(Series, len(candles))
		for i, c := range candles {
			out[i] = valid(c.Volume)
		}
		return out, true

	case name == "SMA" || strings.HasPrefix(name, "SMA_"):
		p, ok := periodSuffix(name, DefaultSMAPeriod)
		if !ok {
			return nil, false
		}
		return cp.series(key("SMA", p, fp), func() Series { return SMA(candles, p) }), true

	case name == "EMA" || strings.HasPrefix(name, "EMA_"):
		p, ok := periodSuffix(name, DefaultEMAPeriod)
		if !ok {
			return nil, false
		}
		return cp.series(key("EMA", p, fp), func() Series { return EMA(candles, p) }), true

	case name == "RSI" || strings.HasPrefix(name, "RSI_"):
		p, ok := periodSuffix(name, DefaultRSIPeriod)
		if !ok {
			return nil, false
		}
		return cp.series(key("RSI", p, fp), func() Series { return RSI(candles, p) }), true

	case name == "ATR" || strings.HasPrefix(name, "ATR_"):
		p, ok := periodSuffix(name, DefaultATRPeriod)
		if !ok {
			return nil, false
		}
		return cp.series(key("ATR", p, fp), func() Series { return ATR(candles, p) }), true

	case name == "MACD" || name == "MACD_SIGNAL" || name == "MACD_HIST":
		m := cp.macd(candles, fp)
		switch name {
		case "MACD_SIGNAL":
			return m.Signal, true
		case "MACD_HIST":
			return m.Histogram, true
		}
		return m.Line, true

	case name == "BB_UPPER" || name == "BB_MIDDLE" || name == "BB_LOWER":
		b := cp.bollinger(candles, fp)
		switch name {
		case "BB_UPPER":
			return b.Upper, true
		case "BB_LOWER":
			return b.Lower, true
		}
		return b.Middle, true

	case name == "STOCH_K" || name == "STOCH_D":
		st := cp.stochastic(candles, fp)
		if name == "STOCH_D" {
			return st.D, true
		}
		return st.K, true
	}

	return nil, false
}

// SeriesSet resolves every name, skipping ones the computer doesn't know.
func (cp *Computer) SeriesSet(names []string, candles []market.Candle) map[string]Series {
	out := make(map[string]Series, len(names))
	for _, n := range names {
		n = strings.ToUpper(strings.TrimSpace(n))
		if _, dup := out[n]; dup {
			continue
		}
		if s, ok := cp.SeriesFor(n, candles); ok {
			out[n] = s
		}
	}
	return out
}

// SnapshotNames is the default display catalog.
var SnapshotNames = []string{
	"PRICE", "VOLUME", "SMA", "EMA", "RSI", "ATR",
	"MACD", "MACD_SIGNAL", "MACD_HIST",
	"BB_UPPER", "BB_MIDDLE", "BB_LOWER",
	"STOCH_K", "STOCH_D",
}

// Snapshot returns the latest available value of every catalog indicator.
// Indicators still warming up are omitted.
func (cp *Computer) Snapshot(candles []market.Candle) map[string]float64 {
	out := make(map[string]float64)
	for _, name := range SnapshotNames {
		s, ok := cp.SeriesFor(name, candles)
		if !ok {
			continue
		}
		if v, ok := s.Last(); ok {
			out[name] = v
		}
	}
	return out
}

// SortedSnapshot flattens a snapshot into name-ordered rows for display.
func SortedSnapshot(snap map[string]float64) [][2]string {
	names := make([]string, 0, len(snap))
	for n := range snap {
		names = append(names, n)
	}
	sort.Strings(names)
	rows := make([][2]string, 0, len(names))
	for _, n := range names {
		rows = append(rows, [2]string{n, strconv.FormatFloat(snap[n], 'f', 6, 64)})
	}
	return rows
}

func (cp *Computer) series(k string, compute func() Series) Series {
	v := cp.cache.GetOrCompute(k, func() any { return compute() })
	return v.(Series)
}

func (cp *Computer) macd(candles []market.Candle, fp uint64) MACDLines {
	k := fmt.Sprintf("MACD|%d,%d,%d|%016x", DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal, fp)
	v := cp.cache.GetOrCompute(k, func() any {
		return MACD(candles, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal)
	})
	return v.(MACDLines)
}

func (cp *Computer) bollinger(candles []market.Candle, fp uint64) Bands {
	k := fmt.Sprintf("BB|%d,%g|%016x", DefaultBBPeriod, DefaultBBK, fp)
	v := cp.cache.GetOrCompute(k, func() any {
		return Bollinger(candles, DefaultBBPeriod, DefaultBBK)
	})
	return v.(Bands)
}

func (cp *Computer) stochastic(candles []market.Candle, fp uint64) Stoch {
	k := fmt.Sprintf("STOCH|%d,%d|%016x", DefaultStochK, DefaultStochD, fp)
	v := cp.cache.GetOrCompute(k, func() any {
		return Stochastic(candles, DefaultStochK, DefaultStochD)
	})
	return v.(Stoch)
}

func key(name string, period int, fp uint64) string {
	return fmt.Sprintf("%s|%d|%016x", name, period, fp)
}

// periodSuffix parses the numeric suffix of names like "SMA_20".
func periodSuffix(name string, def int) (int, bool) {
	i := strings.IndexByte(name, '_')
	if i < 0 {
		return def, true
	}
	p, err := strconv.Atoi(name[i+1:])
	if err != nil || p <= 0 {
		return 0, false
	}
	return p, true
}
