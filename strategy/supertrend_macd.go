package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// SupertrendMACD is a trend-following strategy: the Supertrend direction must
// agree with the bias and MACD must sit on the matching side of its signal.
type SupertrendMACD struct {
	log logger.Logger
}

func NewSupertrendMACD(log logger.Logger) *SupertrendMACD { return &SupertrendMACD{log: log} }

func (st *SupertrendMACD) Name() string { return "supertrend_macd" }

// minIndex covers the MACD slow+signal warm-up.
const supertrendMACDMinIndex = 35

func (st *SupertrendMACD) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < supertrendMACDMinIndex || bias == types.Neutral {
		return types.DecisionHold
	}

	dir := s.Supertrend(7, 3.0)
	macd, signal := s.MACD()

	var trendOK, macdOK bool
	if bias == types.Bullish {
		trendOK = dir[idx] == 1
		macdOK = macd[idx] > signal[idx]
	} else {
		trendOK = dir[idx] == -1
		macdOK = macd[idx] < signal[idx]
	}

	if trendOK && macdOK {
		st.log.Info("signal_confirmed", logger.String("strategy", st.Name()))
		return bias.Decision()
	}
	return types.DecisionHold
}
