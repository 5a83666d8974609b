package backtest

import "fmt"

// Default trading cost rates, modeled on Kraken-style spot fee tiers.
const (
	DefaultMakerFeeRate   = 0.0016
	DefaultTakerFeeRate   = 0.0026
	DefaultHalfSpreadRate = 0.0001
)

// Slippage steps by order size relative to account balance. Bigger orders
// eat deeper into the book.
const (
	slippageSmall  = 0.0005 // notional <= 10% of balance
	slippageMedium = 0.0015 // notional <= 50% of balance
	slippageLarge  = 0.0025
)

// CostConfig holds the fee, slippage and spread model applied to every fill.
type CostConfig struct {
	MakerFeeRate   float64 `yaml:"maker_fee_rate" json:"makerFeeRate"`
	TakerFeeRate   float64 `yaml:"taker_fee_rate" json:"takerFeeRate"`
	HalfSpreadRate float64 `yaml:"half_spread_rate" json:"halfSpreadRate"`
}

// DefaultCostConfig returns the standard taker-heavy spot cost model.
func DefaultCostConfig() CostConfig {
	return CostConfig{
		MakerFeeRate:   DefaultMakerFeeRate,
		TakerFeeRate:   DefaultTakerFeeRate,
		HalfSpreadRate: DefaultHalfSpreadRate,
	}
}

// CostConfigError rejects a cost model before any bar is simulated. A run
// with a broken cost model produces numbers nobody should trust.
type CostConfigError struct {
	Field  string
	Reason string
}

func (e *CostConfigError) Error() string {
	return fmt.Sprintf("bad cost config: %s %s", e.Field, e.Reason)
}

// Validate checks every rate is a sane fraction.
func (c CostConfig) Validate() error {
	check := func(field string, v float64) error {
		if v < 0 || v >= 1 {
			return &CostConfigError{Field: field, Reason: fmt.Sprintf("must be in [0, 1), got %g", v)}
		}
		return nil
	}
	if err := check("maker_fee_rate", c.MakerFeeRate); err != nil {
		return err
	}
	if err := check("taker_fee_rate", c.TakerFeeRate); err != nil {
		return err
	}
	return check("half_spread_rate", c.HalfSpreadRate)
}

// Cost is the absolute cost of one fill, broken down by component.
type Cost struct {
	Fee      float64
	Slippage float64
	Spread   float64
	Total    float64
}

// Cost prices one fill of the given notional against the account balance.
// Backtest fills cross the spread, so taker is the normal case.
func (c CostConfig) Cost(notional, balance float64, taker bool) Cost {
	feeRate := c.MakerFeeRate
	if taker {
		feeRate = c.TakerFeeRate
	}
	out := Cost{
		Fee:      notional * feeRate,
		Slippage: notional * slippageRate(notional, balance),
		Spread:   notional * c.HalfSpreadRate,
	}
	out.Total = out.Fee + out.Slippage + out.Spread
	return out
}

// slippageRate steps up with order size as a fraction of balance. A
// non-positive balance gets the worst tier.
func slippageRate(notional, balance float64) float64 {
	if balance <= 0 {
		return slippageLarge
	}
	switch frac := notional / balance; {
	case frac <= 0.10:
		return slippageSmall
	case frac <= 0.50:
		return slippageMedium
	}
	return slippageLarge
}
