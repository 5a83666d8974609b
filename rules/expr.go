// Package rules implements the strategy condition grammar: textual entry and
// exit rules parsed once into a small AST and evaluated per bar against an
// indicator snapshot.
//
// The grammar is a stable protocol consumed by external strategy generators
// and must stay backward compatible. Three productions exist:
//
//	threshold:  "<INDICATOR> <op> <value>"   op in < > <= >= ==
//	crossover:  "<A> cross <B>"              operands: indicator or number
//	sentinel:   "StopLoss" | "TakeProfit"
//
// Sentinels are not resolved here; the simulator interprets them against
// intrabar highs and lows.
package rules

// Op is a threshold comparison operator.
type Op int

const (
	OpLT Op = iota
	OpGT
	OpLE
	OpGE
	OpEQ
)

func (o Op) String() string {
	switch o {
	case OpLT:
		return "<"
	case OpGT:
		return ">"
	case OpLE:
		return "<="
	case OpGE:
		return ">="
	case OpEQ:
		return "=="
	}
	return "?"
}

// Kind tags the expression variants.
type Kind int

const (
	// KindInvalid marks a rule that failed to parse. It is kept in the
	// rule list and always evaluates false, so one malformed rule can
	// never abort or silently skip a pass.
	KindInvalid Kind = iota
	KindThreshold
	KindCrossover
	KindSentinel
)

// SentinelKind names the pass-through conditions.
type SentinelKind int

const (
	SentinelNone SentinelKind = iota
	SentinelStopLoss
	SentinelTakeProfit
)

// Operand is either an indicator name or a numeric constant.
type Operand struct {
	Name    string
	Const   float64
	IsConst bool
}

// Expr is one parsed rule. Fields are populated according to Kind.
type Expr struct {
	Kind Kind
	Raw  string

	// KindThreshold
	Indicator string
	Op        Op
	Value     float64

	// KindCrossover
	A, B Operand

	// KindSentinel
	Sentinel SentinelKind
}

// Indicators returns the indicator names this expression reads.
func (e Expr) Indicators() []string {
	switch e.Kind {
	case KindThreshold:
		return []string{e.Indicator}
	case KindCrossover:
		var out []string
		if !e.A.IsConst {
			out = append(out, e.A.Name)
		}
		if !e.B.IsConst {
			out = append(out, e.B.Name)
		}
		return out
	}
	return nil
}
