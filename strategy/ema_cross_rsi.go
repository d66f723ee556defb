package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// EMACrossRSI is a fast momentum strategy: a 9/15 EMA cross on this bar,
// confirmed by the RSI side of 50 and the close relative to the fast EMA.
type EMACrossRSI struct {
	log logger.Logger
}

func NewEMACrossRSI(log logger.Logger) *EMACrossRSI { return &EMACrossRSI{log: log} }

func (e *EMACrossRSI) Name() string { return "ema_cross_rsi" }

func (e *EMACrossRSI) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 15 || bias == types.Neutral {
		return types.DecisionHold
	}

	ema9 := s.EMA(9)
	ema15 := s.EMA(15)
	rsi := s.RSI(indicator.DefaultRSIPeriod)
	cur := s.Bar(idx)

	wasBelow := ema9[idx-1] < ema15[idx-1]
	isAbove := ema9[idx] > ema15[idx]
	wasAbove := ema9[idx-1] > ema15[idx-1]
	isBelow := ema9[idx] < ema15[idx]

	if bias == types.Bullish && wasBelow && isAbove && rsi[idx] > 50 && cur.Close > ema9[idx] {
		e.log.Info("fast_golden_cross", logger.String("strategy", e.Name()))
		return types.DecisionBuy
	}
	if bias == types.Bearish && wasAbove && isBelow && rsi[idx] < 50 && cur.Close < ema9[idx] {
		e.log.Info("fast_death_cross", logger.String("strategy", e.Name()))
		return types.DecisionSell
	}
	return types.DecisionHold
}
