package backtest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stratbench/stratbench/indicators"
	"github.com/stratbench/stratbench/internal/id"
	"github.com/stratbench/stratbench/market"
	"github.com/stratbench/stratbench/rules"
)

// ErrUnsuitableData aborts a run whose candle series fails the quality gate.
var ErrUnsuitableData = errors.New("data unsuitable for backtest")

// Simulator replays a candle series through a compiled strategy. It holds
// configuration only; all per-run state lives inside Run, so one Simulator
// serves concurrent runs as long as they share nothing but the Computer.
type Simulator struct {
	Computer  *indicators.Computer
	Costs     CostConfig
	Quality   market.QualityConfig
	Timeframe market.Timeframe

	StartingBalance float64
	Retention       int // candle window per symbol, 0 means market.DefaultRetention

	Log *slog.Logger
}

// openPosition is the open long, if any. The machine is FLAT or LONG;
// shorts are out of scope.
type openPosition struct {
	entryBar   int
	entryTime  time.Time
	entryPrice float64 // fill, slippage and spread included
	quantity   float64
	notional   float64
	entryCost  Cost
	stop       float64 // 0 means unarmed
	take       float64
}

// Run simulates one symbol. The candles must be in chronological order;
// the quality gate rejects series that are too short, out of order, or too
// incomplete to trust. Individual invalid bars are skipped and counted.
func (s *Simulator) Run(ctx context.Context, symbol string, candles []market.Candle, strat *rules.Compiled) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: strategy is required")
	}
	if s.Computer == nil {
		return nil, fmt.Errorf("backtest: indicator computer is required")
	}
	if s.StartingBalance <= 0 {
		return nil, fmt.Errorf("backtest: starting balance must be positive, got %g", s.StartingBalance)
	}
	if err := s.Costs.Validate(); err != nil {
		return nil, err
	}

	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	quality := market.CheckSeries(candles, s.Timeframe, s.Quality)
	if !quality.SuitableForBacktest {
		return nil, fmt.Errorf("%w: %s", ErrUnsuitableData, quality.Reason)
	}

	res := &Result{
		RunID:           id.New(),
		Strategy:        strat.Def.Name,
		Symbol:          symbol,
		Timeframe:       s.Timeframe,
		StartingBalance: s.StartingBalance,
		Quality:         quality,
	}
	log.Info("backtest start",
		"run", res.RunID,
		"strategy", res.Strategy,
		"symbol", symbol,
		"bars", len(candles))

	// Each run gets its own candle window; only the indicator cache behind
	// the Computer is shared across runs.
	store := market.NewSeriesStore(s.Retention)
	names := strat.Indicators()

	run := &runState{
		sim:     s,
		log:     log,
		res:     res,
		strat:   strat,
		symbol:  symbol,
		store:   store,
		names:   names,
		balance: s.StartingBalance,
	}

	// Cancellation is coarse: once per bar, never mid-bar.
	for i, c := range candles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("backtest %s: %w", symbol, err)
		}
		run.step(i, c)
	}

	if run.pos != nil {
		run.closePosition(run.lastClose, run.lastTime, ReasonEndOfData, true)
	}

	res.EndingBalance = run.balance
	res.finalizeMetrics()
	log.Info("backtest done",
		"run", res.RunID,
		"trades", len(res.Trades),
		"pnl", res.TotalPnL,
		"skipped", res.BarsSkipped)
	return res, nil
}

// runState is the mutable state of one run.
type runState struct {
	sim    *Simulator
	log    *slog.Logger
	res    *Result
	strat  *rules.Compiled
	symbol string
	store  *market.SeriesStore
	names  []string

	balance   float64
	pos       *openPosition
	lastClose float64
	lastTime  time.Time
}

// step advances the machine by one bar.
func (r *runState) step(i int, c market.Candle) {
	if err := c.Validate(); err != nil {
		r.res.BarsSkipped++
		r.log.Debug("skipping invalid bar", "symbol", r.symbol, "time", c.Time, "err", err)
		return
	}

	r.store.Append(r.symbol, c)
	window := r.store.Recent(r.symbol, r.storeRetention())
	r.res.BarsProcessed++
	if r.res.Start.IsZero() {
		r.res.Start = c.Time
	}
	r.res.End = c.Time
	r.lastClose = c.Close
	r.lastTime = c.Time

	wasOpen := r.pos != nil

	if wasOpen && i > r.pos.entryBar {
		// Stops fire on intrabar extremes before any rule exit. When both
		// levels sit inside one bar the stop wins, the pessimistic read.
		switch {
		case r.pos.stop > 0 && c.Low <= r.pos.stop:
			r.closePosition(r.pos.stop, c.Time, ReasonStopLoss, false)
		case r.pos.take > 0 && c.High >= r.pos.take:
			r.closePosition(r.pos.take, c.Time, ReasonTakeProfit, false)
		default:
			if rules.AnyTrue(r.strat.Exit, r.snapshot(window, c)) {
				r.closePosition(c.Close, c.Time, ReasonRule, false)
			}
		}
	}

	if !wasOpen && rules.AllTrue(r.strat.Entry, r.snapshot(window, c)) {
		r.enterPosition(i, c)
	}

	equity := r.balance
	if r.pos != nil {
		equity += r.pos.quantity * c.Close
	}
	r.res.Equity = append(r.res.Equity, EquityPoint{Time: c.Time, Equity: equity})
}

func (r *runState) storeRetention() int {
	if r.sim.Retention > 0 {
		return r.sim.Retention
	}
	return market.DefaultRetention
}

// snapshot assembles the rule inputs for the current window: the last two
// points of every indicator the strategy reads.
func (r *runState) snapshot(window []market.Candle, c market.Candle) rules.Snapshot {
	snap := rules.Snapshot{
		Values: make(map[string]rules.Point, len(r.names)),
		Price:  c.Close,
		Volume: c.Volume,
	}
	for _, name := range r.names {
		series, ok := r.sim.Computer.SeriesFor(name, window)
		if !ok || len(series) == 0 {
			continue
		}
		var p rules.Point
		cur := series[len(series)-1]
		p.Cur, p.CurOK = cur.V, cur.Valid
		if len(series) >= 2 {
			prev := series[len(series)-2]
			p.Prev, p.PrevOK = prev.V, prev.Valid
		}
		snap.Values[name] = p
	}
	return snap
}

// enterPosition buys at the bar close, adjusted up for slippage and half
// spread, with the taker fee paid from cash.
func (r *runState) enterPosition(bar int, c market.Candle) {
	def := r.strat.Def
	notional := r.balance * def.PositionSizePct / 100
	if notional <= 0 {
		return
	}

	cost := r.sim.Costs.Cost(notional, r.balance, true)
	fill := c.Close * (1 + (cost.Slippage+cost.Spread)/notional)
	qty := notional / fill

	r.balance -= notional + cost.Fee

	p := &openPosition{
		entryBar:   bar,
		entryTime:  c.Time,
		entryPrice: fill,
		quantity:   qty,
		notional:   notional,
		entryCost:  cost,
	}
	if def.StopLossPct > 0 {
		p.stop = fill * (1 - def.StopLossPct/100)
	}
	if def.TakeProfitPct > 0 {
		p.take = fill * (1 + def.TakeProfitPct/100)
	}
	r.pos = p

	r.log.Debug("position opened",
		"symbol", r.symbol,
		"time", c.Time,
		"fill", fill,
		"qty", qty)
}

// closePosition sells the whole position at the given raw price. Exit
// slippage, spread and the taker fee come out of the proceeds.
func (r *runState) closePosition(price float64, at time.Time, reason string, forced bool) {
	p := r.pos
	exitNotional := p.quantity * price
	exitCost := r.sim.Costs.Cost(exitNotional, r.balance, true)
	proceeds := exitNotional - exitCost.Total

	r.balance += proceeds
	realized := proceeds - p.notional - p.entryCost.Fee

	var costs CostBreakdown
	costs.add(p.entryCost)
	costs.add(exitCost)
	r.res.TotalCosts.add(p.entryCost)
	r.res.TotalCosts.add(exitCost)

	r.res.Trades = append(r.res.Trades, Trade{
		ID:          id.New(),
		Symbol:      r.symbol,
		EntryTime:   p.entryTime,
		EntryPrice:  p.entryPrice,
		ExitTime:    at,
		ExitPrice:   price,
		Quantity:    p.quantity,
		Costs:       costs,
		RealizedPnL: realized,
		Reason:      reason,
		ForceClosed: forced,
	})
	r.pos = nil

	r.log.Debug("position closed",
		"symbol", r.symbol,
		"reason", reason,
		"pnl", realized)
}
