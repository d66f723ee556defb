// Package backtest replays a historical window day-by-day through a
// candidate strategy to estimate its win rate. It is a coarse heuristic for
// strategy selection, not a full simulator: entries fill at the signal bar's
// close and the only exit is the close crossing back through the day's pivot.
package backtest

import (
	"fmt"
	"time"

	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/strategy"
	"intrabot/types"
)

// Replay constants: a session needs enough intraday bars to seed the slower
// indicators, and the walk starts after the divergence lookback.
const (
	minIntradayBars = 50
	warmupIndex     = 30
)

// StrategyFactory builds a fresh strategy instance per run so session-scoped
// state never leaks between concurrent replays.
type StrategyFactory func(name string) (strategy.Strategy, error)

// Evaluator replays candidates over a shared historical window.
type Evaluator struct {
	Factory StrategyFactory
	Log     logger.Logger
}

func NewEvaluator(factory StrategyFactory, log logger.Logger) *Evaluator {
	return &Evaluator{Factory: factory, Log: log}
}

type syntheticTrade struct {
	entry float64
	exit  float64
	side  types.Decision
}

func (t syntheticTrade) win() bool {
	if t.side == types.DecisionBuy {
		return t.exit > t.entry
	}
	return t.exit < t.entry
}

func sessionKey(ts time.Time) string { return ts.Format("2006-01-02") }

// groupSessions splits intraday bars into per-date groups, preserving order.
func groupSessions(intraday []types.PriceBar) map[string][]types.PriceBar {
	out := make(map[string][]types.PriceBar)
	for _, b := range intraday {
		k := sessionKey(b.Timestamp)
		out[k] = append(out[k], b)
	}
	return out
}

// Run replays one candidate. For each daily session it derives pivot levels
// from the prior session, classifies the day bias by the prior close against
// the pivot, and walks the intraday bars: while flat it opens whenever the
// strategy's decision matches the bias, while open it closes on any close
// recrossing the pivot against the position.
func (e *Evaluator) Run(name string, daily, intraday []types.PriceBar) (types.BacktestResult, error) {
	strat, err := e.Factory(name)
	if err != nil {
		return types.BacktestResult{}, err
	}
	sessions := groupSessions(intraday)

	var trades []syntheticTrade
	for i := 1; i < len(daily); i++ {
		dayBars := sessions[sessionKey(daily[i].Timestamp)]
		if len(dayBars) < minIntradayBars {
			continue
		}
		prev := daily[i-1]
		piv := indicator.CPR(prev.High, prev.Low, prev.Close)
		bias := types.Bearish
		if prev.Close > piv.Pivot {
			bias = types.Bullish
		}

		day := indicator.NewSeries(dayBars)
		var open *syntheticTrade
		for j := warmupIndex; j < day.Len(); j++ {
			close := day.Bar(j).Close
			if open != nil {
				if (open.side == types.DecisionBuy && close < piv.Pivot) ||
					(open.side == types.DecisionSell && close > piv.Pivot) {
					open.exit = close
					trades = append(trades, *open)
					open = nil
				}
			}
			if open == nil {
				if dec := strat.Evaluate(day, bias, piv, j); dec == bias.Decision() && dec != types.DecisionHold {
					open = &syntheticTrade{entry: close, side: dec}
				}
			}
		}
		// Positions still open at session end are discarded, matching the
		// coarse estimator: only pivot-recross exits count as outcomes.
	}

	res := types.BacktestResult{Strategy: name, Trades: len(trades)}
	if len(trades) > 0 {
		wins := 0
		for _, t := range trades {
			if t.win() {
				wins++
			}
		}
		res.WinRate = float64(wins) / float64(len(trades)) * 100
	}
	e.Log.Info("backtest_complete",
		logger.String("strategy", name),
		logger.Int("trades", res.Trades),
		logger.Float64("win_rate", res.WinRate),
	)
	return res, nil
}

// RunAll evaluates every candidate concurrently and merges results by
// strategy name. The runs share no mutable state: each gets its own strategy
// instance and only reads the bar slices.
func (e *Evaluator) RunAll(names []string, daily, intraday []types.PriceBar) (map[string]types.BacktestResult, error) {
	results, err := parallelMap(names, func(name string) (types.BacktestResult, error) {
		return e.Run(name, daily, intraday)
	})
	if err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}
	return results, nil
}
