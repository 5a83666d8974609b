package rules

// Point carries the two most recent samples of one indicator, which is all
// the grammar can observe (thresholds read Cur, crossovers read both).
type Point struct {
	Prev, Cur     float64
	PrevOK, CurOK bool
}

// Snapshot is the per-bar evaluation input: latest/previous indicator
// values plus raw price and volume. Snapshots are plain values; evaluation
// over an identical snapshot always yields the identical result.
type Snapshot struct {
	Values map[string]Point
	Price  float64
	Volume float64
}

// point resolves an indicator name against the snapshot. PRICE and VOLUME
// are always available.
func (s Snapshot) point(name string) Point {
	switch name {
	case "PRICE":
		return Point{Prev: s.Price, Cur: s.Price, PrevOK: true, CurOK: true}
	case "VOLUME":
		return Point{Prev: s.Volume, Cur: s.Volume, PrevOK: true, CurOK: true}
	}
	return s.Values[name]
}

// Eval evaluates one expression against a snapshot. Invalid expressions and
// sentinels evaluate false here: sentinels belong to the simulator, which
// checks them against intrabar extremes rather than snapshot values.
// Unavailable indicator values (warm-up) also yield false.
func Eval(e Expr, s Snapshot) bool {
	switch e.Kind {
	case KindThreshold:
		p := s.point(e.Indicator)
		if !p.CurOK {
			return false
		}
		switch e.Op {
		case OpLT:
			return p.Cur < e.Value
		case OpGT:
			return p.Cur > e.Value
		case OpLE:
			return p.Cur <= e.Value
		case OpGE:
			return p.Cur >= e.Value
		case OpEQ:
			return p.Cur == e.Value
		}
		return false

	case KindCrossover:
		a := operandPoint(e.A, s)
		b := operandPoint(e.B, s)
		if !a.PrevOK || !a.CurOK || !b.PrevOK || !b.CurOK {
			return false
		}
		// A cross B fires when the sign of A-B differs between the two
		// most recent points; touching zero counts as a cross.
		return sign(a.Prev-b.Prev) != sign(a.Cur-b.Cur)
	}

	return false
}

// AllTrue is the entry semantic: every rule must hold. Sentinels never
// appear in entries; if one does it evaluates false and blocks the entry,
// which is the conservative reading.
func AllTrue(exprs []Expr, s Snapshot) bool {
	if len(exprs) == 0 {
		return false
	}
	for _, e := range exprs {
		if !Eval(e, s) {
			return false
		}
	}
	return true
}

// AnyTrue is the exit semantic: the first rule that holds triggers the
// exit. Sentinels are skipped; the simulator has already checked them.
func AnyTrue(exprs []Expr, s Snapshot) bool {
	for _, e := range exprs {
		if e.Kind == KindSentinel {
			continue
		}
		if Eval(e, s) {
			return true
		}
	}
	return false
}

func operandPoint(o Operand, s Snapshot) Point {
	if o.IsConst {
		return Point{Prev: o.Const, Cur: o.Const, PrevOK: true, CurOK: true}
	}
	return s.point(o.Name)
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
