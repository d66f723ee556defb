package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// MACrossover is the classic fast/slow EMA cross, firing only on the bar
// where the cross happens.
type MACrossover struct {
	log logger.Logger
}

func NewMACrossover(log logger.Logger) *MACrossover { return &MACrossover{log: log} }

func (m *MACrossover) Name() string { return "ma_crossover" }

func (m *MACrossover) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 21 || bias == types.Neutral {
		return types.DecisionHold
	}

	ema9 := s.EMA(9)
	ema21 := s.EMA(21)

	if bias == types.Bullish && ema9[idx-1] <= ema21[idx-1] && ema9[idx] > ema21[idx] {
		m.log.Info("golden_cross", logger.String("strategy", m.Name()))
		return types.DecisionBuy
	}
	if bias == types.Bearish && ema9[idx-1] >= ema21[idx-1] && ema9[idx] < ema21[idx] {
		m.log.Info("death_cross", logger.String("strategy", m.Name()))
		return types.DecisionSell
	}
	return types.DecisionHold
}
