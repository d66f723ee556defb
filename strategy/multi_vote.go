package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// MultiVote is the default strategy: a CPR breakout in the bias direction is
// the primary signal, confirmed by at least one of close-vs-EMA-50 and an RSI
// threshold.
type MultiVote struct {
	log logger.Logger
}

func NewMultiVote(log logger.Logger) *MultiVote { return &MultiVote{log: log} }

func (m *MultiVote) Name() string { return DefaultName }

func (m *MultiVote) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 1 || bias == types.Neutral {
		return types.DecisionHold
	}

	if s.CPRBreakoutVote(idx, piv) != biasVote(bias) {
		return types.DecisionHold
	}

	ema50 := s.EMA(50)
	rsi := s.RSI(indicator.DefaultRSIPeriod)
	close := s.Bar(idx).Close

	confirmations := 0
	if bias == types.Bullish {
		if idx >= 50 && close > ema50[idx] {
			confirmations++
		}
		if idx > indicator.DefaultRSIPeriod && rsi[idx] > 55 {
			confirmations++
		}
	} else {
		if idx >= 50 && close < ema50[idx] {
			confirmations++
		}
		if idx > indicator.DefaultRSIPeriod && rsi[idx] < 45 {
			confirmations++
		}
	}

	if confirmations >= 1 {
		m.log.Info("signal_confirmed",
			logger.String("strategy", m.Name()),
			logger.Int("confirmations", confirmations),
		)
		return bias.Decision()
	}
	return types.DecisionHold
}
