package rules

import (
	"fmt"
	"strconv"
	"strings"
)

// ExpressionError reports a rule that doesn't match the grammar. Callers log
// it and treat the rule as false; parsing other rules continues.
type ExpressionError struct {
	Expr   string
	Reason string
}

func (e *ExpressionError) Error() string {
	return fmt.Sprintf("bad expression %q: %s", e.Expr, e.Reason)
}

var thresholdOps = map[string]Op{
	"<":  OpLT,
	">":  OpGT,
	"<=": OpLE,
	">=": OpGE,
	"==": OpEQ,
}

// Parse compiles one textual rule into an Expr. On failure it returns an
// Expr with KindInvalid (which evaluates false) alongside the
// *ExpressionError describing why.
func Parse(raw string) (Expr, error) {
	fields := strings.Fields(raw)

	switch len(fields) {
	case 1:
		return parseSentinel(raw, fields[0])
	case 3:
		if strings.EqualFold(fields[1], "cross") || strings.EqualFold(fields[1], "crosses") {
			return parseCrossover(raw, fields[0], fields[2])
		}
		return parseThreshold(raw, fields)
	}

	return Expr{Kind: KindInvalid, Raw: raw}, &ExpressionError{
		Expr:   raw,
		Reason: fmt.Sprintf("expected 1 or 3 tokens, got %d", len(fields)),
	}
}

func parseSentinel(raw, token string) (Expr, error) {
	switch strings.ToLower(strings.ReplaceAll(token, "_", "")) {
	case "stoploss":
		return Expr{Kind: KindSentinel, Raw: raw, Sentinel: SentinelStopLoss}, nil
	case "takeprofit":
		return Expr{Kind: KindSentinel, Raw: raw, Sentinel: SentinelTakeProfit}, nil
	}
	return Expr{Kind: KindInvalid, Raw: raw}, &ExpressionError{
		Expr:   raw,
		Reason: fmt.Sprintf("unknown sentinel %q", token),
	}
}

func parseThreshold(raw string, fields []string) (Expr, error) {
	op, ok := thresholdOps[fields[1]]
	if !ok {
		return Expr{Kind: KindInvalid, Raw: raw}, &ExpressionError{
			Expr:   raw,
			Reason: fmt.Sprintf("unknown operator %q", fields[1]),
		}
	}

	value, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return Expr{Kind: KindInvalid, Raw: raw}, &ExpressionError{
			Expr:   raw,
			Reason: fmt.Sprintf("threshold %q is not a number", fields[2]),
		}
	}

	name, err2 := indicatorName(raw, fields[0])
	if err2 != nil {
		return Expr{Kind: KindInvalid, Raw: raw}, err2
	}

	return Expr{
		Kind:      KindThreshold,
		Raw:       raw,
		Indicator: name,
		Op:        op,
		Value:     value,
	}, nil
}

func parseCrossover(raw, a, b string) (Expr, error) {
	opA, err := parseOperand(raw, a)
	if err != nil {
		return Expr{Kind: KindInvalid, Raw: raw}, err
	}
	opB, err := parseOperand(raw, b)
	if err != nil {
		return Expr{Kind: KindInvalid, Raw: raw}, err
	}
	if opA.IsConst && opB.IsConst {
		return Expr{Kind: KindInvalid, Raw: raw}, &ExpressionError{
			Expr:   raw,
			Reason: "crossover needs at least one indicator operand",
		}
	}
	return Expr{Kind: KindCrossover, Raw: raw, A: opA, B: opB}, nil
}

func parseOperand(raw, token string) (Operand, error) {
	if v, err := strconv.ParseFloat(token, 64); err == nil {
		return Operand{Const: v, IsConst: true}, nil
	}
	name, err := indicatorName(raw, token)
	if err != nil {
		return Operand{}, err
	}
	return Operand{Name: name}, nil
}

// indicatorName normalizes and sanity-checks an indicator token. The set of
// known indicators lives in the indicators package; here we only enforce
// lexical shape so new indicator names don't require a grammar change.
func indicatorName(raw, token string) (string, *ExpressionError) {
	name := strings.ToUpper(token)
	for _, r := range name {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return "", &ExpressionError{
				Expr:   raw,
				Reason: fmt.Sprintf("bad indicator token %q", token),
			}
		}
	}
	return name, nil
}
