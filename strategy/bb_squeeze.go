package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// BBSqueeze waits for low volatility (band width below its own average) and
// trades the close breaking through the band in the bias direction.
type BBSqueeze struct {
	log logger.Logger
}

func NewBBSqueeze(log logger.Logger) *BBSqueeze { return &BBSqueeze{log: log} }

func (b *BBSqueeze) Name() string { return "bb_squeeze" }

func (b *BBSqueeze) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	// width MA needs a second 20-bar window on top of the bands themselves.
	if idx < 39 || bias == types.Neutral {
		return types.DecisionHold
	}

	upper, lower, width, widthMA := s.Bollinger(20, 2)
	if widthMA[idx] <= 0 {
		return types.DecisionHold
	}
	if width[idx] >= widthMA[idx] {
		return types.DecisionHold // no squeeze
	}

	cur, last := s.Bar(idx), s.Bar(idx-1)
	if bias == types.Bullish && last.Close < upper[idx-1] && cur.Close > upper[idx] {
		b.log.Info("squeeze_breakout_up", logger.Float64("band", upper[idx]))
		return types.DecisionBuy
	}
	if bias == types.Bearish && last.Close > lower[idx-1] && cur.Close < lower[idx] {
		b.log.Info("squeeze_breakout_down", logger.Float64("band", lower[idx]))
		return types.DecisionSell
	}
	return types.DecisionHold
}
