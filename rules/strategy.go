package rules

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition is a caller-owned strategy: textual rules plus risk and sizing
// parameters. The core treats it as read-only.
type Definition struct {
	Name            string   `yaml:"name" json:"name"`
	Entry           []string `yaml:"entry" json:"entry"`
	Exit            []string `yaml:"exit" json:"exit"`
	StopLossPct     float64  `yaml:"stop_loss_pct" json:"stopLossPct"`
	TakeProfitPct   float64  `yaml:"take_profit_pct" json:"takeProfitPct"`
	PositionSizePct float64  `yaml:"position_size_pct" json:"positionSizePct"`
	Pairs           []string `yaml:"pairs" json:"pairs"`
}

// LoadDefinition reads a YAML strategy file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read strategy file: %w", err)
	}
	def := &Definition{}
	if err := yaml.Unmarshal(data, def); err != nil {
		return nil, fmt.Errorf("parse strategy file: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy: %w", err)
	}
	return def, nil
}

// Validate checks the structural parameters. Rule syntax is not checked
// here: malformed rules are a per-rule condition handled at compile time,
// not a reason to reject the whole strategy.
func (d *Definition) Validate() error {
	if len(d.Entry) == 0 {
		return fmt.Errorf("strategy needs at least one entry rule")
	}
	if d.PositionSizePct <= 0 || d.PositionSizePct > 100 {
		return fmt.Errorf("position_size_pct must be in (0, 100], got %g", d.PositionSizePct)
	}
	if d.StopLossPct < 0 || d.StopLossPct >= 100 {
		return fmt.Errorf("stop_loss_pct must be in [0, 100), got %g", d.StopLossPct)
	}
	if d.TakeProfitPct < 0 {
		return fmt.Errorf("take_profit_pct must be non-negative, got %g", d.TakeProfitPct)
	}
	return nil
}

// Compiled is a Definition with its rules parsed once. Malformed rules stay
// in the lists as KindInvalid (always false) and are counted.
type Compiled struct {
	Def      Definition
	Entry    []Expr
	Exit     []Expr
	BadRules int
}

// Compile parses every rule. Each malformed rule is logged as an
// ExpressionError and kept as an always-false expression; compilation never
// fails.
func Compile(def Definition, log *slog.Logger) *Compiled {
	if log == nil {
		log = slog.Default()
	}

	c := &Compiled{Def: def}
	c.Entry = compileRules(def.Entry, "entry", def.Name, log, &c.BadRules)
	c.Exit = compileRules(def.Exit, "exit", def.Name, log, &c.BadRules)
	return c
}

func compileRules(raw []string, side, strategy string, log *slog.Logger, bad *int) []Expr {
	out := make([]Expr, 0, len(raw))
	for _, r := range raw {
		e, err := Parse(r)
		if err != nil {
			*bad++
			log.Warn("malformed rule evaluates false",
				"strategy", strategy,
				"side", side,
				"rule", r,
				"err", err)
		}
		out = append(out, e)
	}
	return out
}

// Indicators returns the sorted, de-duplicated indicator names the compiled
// rules read, for precomputing exactly the series a run needs.
func (c *Compiled) Indicators() []string {
	seen := make(map[string]bool)
	for _, e := range append(append([]Expr{}, c.Entry...), c.Exit...) {
		for _, n := range e.Indicators() {
			if n != "PRICE" && n != "VOLUME" {
				seen[n] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// HasSentinel reports whether any exit rule names the given sentinel.
func (c *Compiled) HasSentinel(k SentinelKind) bool {
	for _, e := range c.Exit {
		if e.Kind == KindSentinel && e.Sentinel == k {
			return true
		}
	}
	return false
}
