package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// PrevDayBreakout triggers when the close crosses the previous session's high
// or low on elevated volume.
type PrevDayBreakout struct {
	log logger.Logger
}

func NewPrevDayBreakout(log logger.Logger) *PrevDayBreakout { return &PrevDayBreakout{log: log} }

func (p *PrevDayBreakout) Name() string { return "prev_day_breakout" }

func (p *PrevDayBreakout) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 20 || bias == types.Neutral {
		return types.DecisionHold
	}
	if !piv.Valid() || piv.PrevHigh == 0 || piv.PrevLow == 0 {
		return types.DecisionHold
	}

	volMA := s.VolumeSMA(20)
	cur, last := s.Bar(idx), s.Bar(idx-1)

	if bias == types.Bullish &&
		last.Close < piv.PrevHigh && cur.Close > piv.PrevHigh &&
		cur.Volume > volMA[idx]*1.2 {
		p.log.Info("prev_day_high_breakout", logger.Float64("level", piv.PrevHigh))
		return types.DecisionBuy
	}
	if bias == types.Bearish &&
		last.Close > piv.PrevLow && cur.Close < piv.PrevLow &&
		cur.Volume > volMA[idx]*1.2 {
		p.log.Info("prev_day_low_breakdown", logger.Float64("level", piv.PrevLow))
		return types.DecisionSell
	}
	return types.DecisionHold
}
