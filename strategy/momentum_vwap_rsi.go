package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// MomentumVWAPRSI uses the session VWAP as a dynamic anchor level with an RSI
// threshold as the momentum filter.
type MomentumVWAPRSI struct {
	log logger.Logger
}

func NewMomentumVWAPRSI(log logger.Logger) *MomentumVWAPRSI { return &MomentumVWAPRSI{log: log} }

func (m *MomentumVWAPRSI) Name() string { return "momentum_vwap_rsi" }

func (m *MomentumVWAPRSI) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx <= indicator.DefaultRSIPeriod || bias == types.Neutral {
		return types.DecisionHold
	}

	vwap := s.VWAP()
	rsi := s.RSI(indicator.DefaultRSIPeriod)
	close := s.Bar(idx).Close

	if bias == types.Bullish && close > vwap[idx] && rsi[idx] > 55 {
		return types.DecisionBuy
	}
	if bias == types.Bearish && close < vwap[idx] && rsi[idx] < 45 {
		return types.DecisionSell
	}
	return types.DecisionHold
}
