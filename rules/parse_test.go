package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseThreshold(t *testing.T) {
	e, err := Parse("RSI < 30")
	require.NoError(t, err)
	assert.Equal(t, KindThreshold, e.Kind)
	assert.Equal(t, "RSI", e.Indicator)
	assert.Equal(t, OpLT, e.Op)
	assert.Equal(t, 30.0, e.Value)

	e, err = Parse("sma_50 >= 101.5")
	require.NoError(t, err)
	assert.Equal(t, "SMA_50", e.Indicator)
	assert.Equal(t, OpGE, e.Op)
	assert.Equal(t, 101.5, e.Value)

	for _, op := range []string{"<", ">", "<=", ">=", "=="} {
		_, err := Parse("RSI " + op + " 50")
		assert.NoError(t, err, op)
	}
}

func TestParseCrossover(t *testing.T) {
	e, err := Parse("EMA_20 cross SMA_50")
	require.NoError(t, err)
	assert.Equal(t, KindCrossover, e.Kind)
	assert.Equal(t, "EMA_20", e.A.Name)
	assert.Equal(t, "SMA_50", e.B.Name)

	e, err = Parse("RSI crosses 50")
	require.NoError(t, err)
	assert.True(t, e.B.IsConst)
	assert.Equal(t, 50.0, e.B.Const)

	_, err = Parse("10 cross 20")
	assert.Error(t, err, "two constants cannot cross")
}

func TestParseSentinels(t *testing.T) {
	for _, raw := range []string{"StopLoss", "stop_loss", "STOPLOSS"} {
		e, err := Parse(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, KindSentinel, e.Kind)
		assert.Equal(t, SentinelStopLoss, e.Sentinel)
	}

	e, err := Parse("TakeProfit")
	require.NoError(t, err)
	assert.Equal(t, SentinelTakeProfit, e.Sentinel)
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		"",
		"RSI",
		"RSI <",
		"RSI < banana",
		"RSI ~ 30",
		"RSI < 30 extra",
		"R$I < 30",
	}
	for _, raw := range cases {
		e, err := Parse(raw)
		require.Error(t, err, raw)

		var xerr *ExpressionError
		require.True(t, errors.As(err, &xerr), raw)
		assert.Equal(t, raw, xerr.Expr)

		// Malformed rules stay evaluable and always come up false.
		assert.Equal(t, KindInvalid, e.Kind, raw)
		assert.False(t, Eval(e, Snapshot{Price: 100}), raw)
	}
}

func TestCompileKeepsMalformedRules(t *testing.T) {
	def := Definition{
		Name:            "mixed",
		Entry:           []string{"RSI < 30", "not a rule at all"},
		Exit:            []string{"RSI > 70", "StopLoss"},
		PositionSizePct: 10,
	}

	c := Compile(def, nil)

	assert.Equal(t, 1, c.BadRules)
	require.Len(t, c.Entry, 2, "malformed rules must stay in the list")
	assert.Equal(t, KindInvalid, c.Entry[1].Kind)

	// The always-false invalid rule blocks the AND of the entry side.
	snap := Snapshot{Values: map[string]Point{"RSI": {Cur: 20, CurOK: true}}}
	assert.False(t, AllTrue(c.Entry, snap))

	assert.True(t, c.HasSentinel(SentinelStopLoss))
	assert.False(t, c.HasSentinel(SentinelTakeProfit))

	assert.Equal(t, []string{"RSI"}, c.Indicators())
}

func TestDefinitionValidate(t *testing.T) {
	ok := Definition{Name: "s", Entry: []string{"RSI < 30"}, PositionSizePct: 10}
	assert.NoError(t, ok.Validate())

	noEntry := Definition{Name: "s", PositionSizePct: 10}
	assert.Error(t, noEntry.Validate())

	badSize := Definition{Name: "s", Entry: []string{"RSI < 30"}, PositionSizePct: 150}
	assert.Error(t, badSize.Validate())

	badStop := Definition{Name: "s", Entry: []string{"RSI < 30"}, PositionSizePct: 10, StopLossPct: 100}
	assert.Error(t, badStop.Validate())
}
