// Package selector runs the pre-market setup: it gathers the day's market
// conditions and bias, asks the advisor for a candidate strategy, scores the
// candidate against the default via backtest, and activates the winner if it
// clears the configured win-rate threshold.
package selector

import (
	"fmt"
	"strings"
	"time"

	"intrabot/broker"
	"intrabot/config"
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/metrics"
	"intrabot/strategy"
	"intrabot/types"
)

// UnknownCondition is the sentinel tag that aborts setup.
const UnknownCondition = "UNKNOWN"

// NoTradeError aborts the trading day with a stated reason. It is reported
// in the end-of-day summary instead of trade statistics.
type NoTradeError struct {
	Reason string
}

func (e *NoTradeError) Error() string { return "no trading today: " + e.Reason }

// ConditionIdentifier tags a date with market-condition labels.
type ConditionIdentifier interface {
	ConditionsForDate(date time.Time) ([]string, error)
}

// SentimentSource returns the directional bias for today.
type SentimentSource interface {
	MarketSentiment() (types.Bias, error)
}

// Advisor recommends one strategy name for a set of condition tags.
type Advisor interface {
	RecommendStrategy(conditions []string) (string, error)
}

// Backtester scores candidate strategies over a historical window.
type Backtester interface {
	RunAll(names []string, daily, intraday []types.PriceBar) (map[string]types.BacktestResult, error)
}

// DayPlan is the selector's output: everything the trading loop needs.
type DayPlan struct {
	StrategyName string
	Strategy     strategy.Strategy
	Bias         types.Bias
	Pivots       indicator.PivotLevels
	WinRate      float64
}

// Selector wires the external collaborators to the backtest evaluator.
type Selector struct {
	Reg        *strategy.Registry
	Backtester Backtester
	Conditions ConditionIdentifier
	Sentiment  SentimentSource
	Advisor    Advisor
	GW         broker.Gateway
	Cfg        config.Config
	Log        logger.Logger
}

// Prepare runs the full setup sequence for one trading day.
func (s *Selector) Prepare(today time.Time) (*DayPlan, error) {
	conditions, err := s.Conditions.ConditionsForDate(today)
	if err != nil {
		return nil, &NoTradeError{Reason: fmt.Sprintf("could not determine market conditions: %v", err)}
	}
	for _, c := range conditions {
		if c == UnknownCondition {
			return nil, &NoTradeError{Reason: "could not determine today's market conditions"}
		}
	}

	bias, err := s.Sentiment.MarketSentiment()
	if err != nil {
		return nil, &NoTradeError{Reason: fmt.Sprintf("sentiment unavailable: %v", err)}
	}
	if bias != types.Bullish && bias != types.Bearish {
		return nil, &NoTradeError{Reason: fmt.Sprintf("market sentiment is neutral or invalid (%q)", bias)}
	}
	s.Log.Info("day_bias_set", logger.String("bias", string(bias)))

	recommended := s.recommendation(conditions)

	chosen := recommended
	var winRate float64
	if s.Cfg.RunStartupBacktest {
		chosen, winRate, err = s.backtestCandidates(today, recommended)
		if err != nil {
			return nil, err
		}
	} else {
		s.Log.Warn("startup_backtest_disabled",
			logger.String("strategy", recommended))
	}

	strat, err := s.Reg.Get(chosen)
	if err != nil {
		return nil, &NoTradeError{Reason: err.Error()}
	}

	pivots, err := s.sessionPivots(today)
	if err != nil {
		return nil, &NoTradeError{Reason: fmt.Sprintf("pivot derivation failed: %v", err)}
	}

	s.Log.Info("strategy_activated",
		logger.String("strategy", chosen),
		logger.Float64("win_rate", winRate),
	)
	return &DayPlan{
		StrategyName: chosen,
		Strategy:     strat,
		Bias:         bias,
		Pivots:       pivots,
		WinRate:      winRate,
	}, nil
}

// recommendation clamps the advisor's answer to the known registry, falling
// back to the default strategy on failure or an unknown name.
func (s *Selector) recommendation(conditions []string) string {
	name, err := s.Advisor.RecommendStrategy(conditions)
	if err != nil {
		s.Log.Warn("advisor_failed", logger.Err(err))
		return strategy.DefaultName
	}
	name = strings.TrimSpace(name)
	if !s.Reg.Has(name) {
		s.Log.Warn("advisor_unknown_strategy", logger.String("name", name))
		return strategy.DefaultName
	}
	return name
}

// backtestCandidates replays the default and the recommended strategy over
// the configured window and picks the higher win rate, enforcing the
// threshold.
func (s *Selector) backtestCandidates(today time.Time, recommended string) (string, float64, error) {
	underlying, err := s.GW.Instrument("NSE", s.Cfg.UnderlyingInstrument)
	if err != nil {
		return "", 0, &NoTradeError{Reason: fmt.Sprintf("underlying instrument unresolved: %v", err)}
	}
	from := today.AddDate(-s.Cfg.BacktestYears, 0, 0)
	daily, err := s.GW.Historical(underlying.Token, from, today, "day")
	if err != nil {
		return "", 0, &NoTradeError{Reason: fmt.Sprintf("daily history unavailable: %v", err)}
	}
	intraday, err := s.GW.Historical(underlying.Token, from, today, s.Cfg.ChartTimeframe)
	if err != nil {
		return "", 0, &NoTradeError{Reason: fmt.Sprintf("intraday history unavailable: %v", err)}
	}

	results, err := s.Backtester.RunAll([]string{strategy.DefaultName, recommended}, daily, intraday)
	if err != nil {
		return "", 0, &NoTradeError{Reason: fmt.Sprintf("backtesting failed: %v", err)}
	}
	if len(results) == 0 {
		return "", 0, &NoTradeError{Reason: "backtesting yielded no results"}
	}
	for name, res := range results {
		metrics.StrategyWinRate.WithLabelValues(name).Set(res.WinRate)
	}

	best := results[strategy.DefaultName]
	if rec, ok := results[recommended]; ok && rec.WinRate > best.WinRate {
		best = rec
	}
	s.Log.Info("strategy_selected",
		logger.String("strategy", best.Strategy),
		logger.Float64("win_rate", best.WinRate),
		logger.Int("trades", best.Trades),
	)
	if best.WinRate < s.Cfg.WinRateThreshold {
		return "", 0, &NoTradeError{Reason: fmt.Sprintf(
			"winning strategy %q win rate (%.2f%%) is below threshold (%.2f%%)",
			best.Strategy, best.WinRate, s.Cfg.WinRateThreshold)}
	}
	return best.Strategy, best.WinRate, nil
}

// sessionPivots derives today's pivot levels from the most recently
// completed daily session.
func (s *Selector) sessionPivots(today time.Time) (indicator.PivotLevels, error) {
	underlying, err := s.GW.Instrument("NSE", s.Cfg.UnderlyingInstrument)
	if err != nil {
		return indicator.PivotLevels{}, err
	}
	bars, err := s.GW.Historical(underlying.Token, today.AddDate(0, 0, -7), today, "day")
	if err != nil {
		return indicator.PivotLevels{}, err
	}
	if len(bars) == 0 {
		return indicator.PivotLevels{}, fmt.Errorf("no daily bars for %s", s.Cfg.UnderlyingInstrument)
	}

	last := bars[len(bars)-1]
	// A bar stamped today is the session in progress, not a completed one.
	if sameDay(last.Timestamp, today) {
		if len(bars) < 2 {
			return indicator.PivotLevels{}, fmt.Errorf("no completed session before %s", today.Format("2006-01-02"))
		}
		last = bars[len(bars)-2]
	}
	return indicator.CPR(last.High, last.Low, last.Close), nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
