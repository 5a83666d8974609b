package indicators

import (
	"encoding/binary"
	"hash/fnv"
	"math"

	"github.com/stratbench/stratbench/market"
)

// Fingerprint digests a candle series for cache keying: length, endpoint
// timestamps and prices, and a running checksum of the closes. It avoids
// hashing every field of every bar but still changes whenever the data
// does in any way an indicator could observe through closes or endpoints.
func Fingerprint(candles []market.Candle) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}

	put(uint64(len(candles)))
	if len(candles) == 0 {
		return h.Sum64()
	}

	first, last := candles[0], candles[len(candles)-1]
	put(uint64(first.Time.UnixNano()))
	put(uint64(last.Time.UnixNano()))
	put(math.Float64bits(first.Close))
	put(math.Float64bits(last.Close))

	var sum uint64
	for i := range candles {
		bits := math.Float64bits(candles[i].Close)
		// Rotate by position so swapped bars change the checksum.
		sum += bits<<(uint(i)%13) | bits>>(64-uint(i)%13-1)
	}
	put(sum)

	return h.Sum64()
}
