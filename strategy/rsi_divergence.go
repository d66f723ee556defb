package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// RSIDivergence is a pure reversal strategy: it trades only on bullish or
// bearish divergence between price extremes and the RSI.
type RSIDivergence struct {
	log logger.Logger
}

func NewRSIDivergence(log logger.Logger) *RSIDivergence { return &RSIDivergence{log: log} }

func (r *RSIDivergence) Name() string { return "rsi_divergence" }

func (r *RSIDivergence) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	if bias == types.Neutral {
		return types.DecisionHold
	}
	divergence := s.DivergenceVote(s.LastIndex(index))
	if bias == types.Bullish && divergence == types.VoteBullish {
		r.log.Info("bullish_divergence", logger.String("strategy", r.Name()))
		return types.DecisionBuy
	}
	if bias == types.Bearish && divergence == types.VoteBearish {
		r.log.Info("bearish_divergence", logger.String("strategy", r.Name()))
		return types.DecisionSell
	}
	return types.DecisionHold
}
