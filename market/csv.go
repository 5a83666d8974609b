package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// IngestStats counts rows the loader could not use. Mirrors the warnings an
// exchange dump usually needs: malformed rows and duplicate timestamps.
type IngestStats struct {
	Rows       int
	BadLines   int
	Duplicates int
}

// LoadCSV reads candles from a CSV file with columns
// time,open,high,low,close,volume[,trades]. The time column accepts RFC3339
// or unix seconds. A header row is detected and skipped. Rows are returned
// in file order; bad rows are counted, not fatal.
func LoadCSV(path string) ([]Candle, IngestStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, IngestStats{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV is LoadCSV for an already-open reader.
func ReadCSV(rd io.Reader) ([]Candle, IngestStats, error) {
	r := csv.NewReader(rd)
	r.FieldsPerRecord = -1

	var (
		candles []Candle
		stats   IngestStats
		seen    = make(map[int64]bool)
		first   = true
	)

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read csv: %w", err)
		}
		if first {
			first = false
			if len(row) > 0 && !looksNumericOrTime(row[0]) {
				continue // header
			}
		}
		stats.Rows++

		c, err := parseRow(row)
		if err != nil {
			stats.BadLines++
			continue
		}
		if seen[c.Time.Unix()] {
			stats.Duplicates++
			continue // keep-first
		}
		seen[c.Time.Unix()] = true
		candles = append(candles, c)
	}

	if len(candles) == 0 {
		return nil, stats, fmt.Errorf("no usable candle rows (bad=%d)", stats.BadLines)
	}
	return candles, stats, nil
}

func parseRow(row []string) (Candle, error) {
	if len(row) < 6 {
		return Candle{}, fmt.Errorf("need at least 6 columns, got %d", len(row))
	}

	ts, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return Candle{}, err
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		vals[i], err = strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return Candle{}, fmt.Errorf("column %d: %w", i+1, err)
		}
	}

	c := Candle{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}
	if len(row) > 6 {
		if n, err := strconv.Atoi(strings.TrimSpace(row[6])); err == nil {
			c.TradeCount = n
		}
	}
	return c, nil
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("bad time %q", s)
}

func looksNumericOrTime(s string) bool {
	s = strings.TrimSpace(s)
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if _, err := time.Parse(time.RFC3339, s); err == nil {
		return true
	}
	return false
}
