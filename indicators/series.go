// Package indicators provides technical-analysis calculators, a memoizing
// cache and a named snapshot surface over candle series.
//
// Every calculator is a pure function: identical input yields an identical
// Series, and the output length always equals the input length. Leading
// entries are unavailable until the indicator's warm-up period elapses;
// insufficient data yields a fully-unavailable series, never an error.
package indicators

// Value is one indicator sample. Valid is false during warm-up, so a zero
// can never be mistaken for a computed value.
type Value struct {
	V     float64
	Valid bool
}

// Series is an indicator output aligned 1:1 with its input candles.
// Treat it as immutable once produced; cached series are shared.
type Series []Value

// unavailable returns an all-invalid series of length n.
func unavailable(n int) Series {
	return make(Series, n)
}

// At returns the value at index i and whether it is available. Out-of-range
// indexes are unavailable.
func (s Series) At(i int) (float64, bool) {
	if i < 0 || i >= len(s) {
		return 0, false
	}
	return s[i].V, s[i].Valid
}

// Last returns the most recent value, if available.
func (s Series) Last() (float64, bool) {
	return s.At(len(s) - 1)
}

// valid marks a computed sample.
func valid(v float64) Value {
	return Value{V: v, Valid: true}
}
