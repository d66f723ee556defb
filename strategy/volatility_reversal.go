package strategy

import (
	"math"

	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// VolatilityReversal trades reversals after large, exhaustive moves: ATR above
// its 20-bar average, a last move larger than 1.5x ATR, and a candle body
// against the bias direction.
type VolatilityReversal struct {
	log logger.Logger
}

func NewVolatilityReversal(log logger.Logger) *VolatilityReversal {
	return &VolatilityReversal{log: log}
}

func (v *VolatilityReversal) Name() string { return "volatility_reversal" }

func (v *VolatilityReversal) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 20 || bias == types.Neutral {
		return types.DecisionHold
	}

	atr := s.ATR(indicator.DefaultRSIPeriod)
	atrMA := s.ATRSMA(indicator.DefaultRSIPeriod, 20)
	last := s.Bar(idx - 1)

	if atr[idx-1] <= 0 || atrMA[idx-1] <= 0 {
		return types.DecisionHold // warm-up
	}

	highVolatility := atr[idx-1] > atrMA[idx-1]
	largeMove := math.Abs(last.Open-last.Close) > atr[idx-1]*1.5

	if bias == types.Bullish {
		reversalCandle := last.Close < last.Open
		if highVolatility && largeMove && reversalCandle {
			v.log.Info("reversal_buy_signal", logger.String("strategy", v.Name()))
			return types.DecisionBuy
		}
	} else {
		reversalCandle := last.Close > last.Open
		if highVolatility && largeMove && reversalCandle {
			v.log.Info("reversal_sell_signal", logger.String("strategy", v.Name()))
			return types.DecisionSell
		}
	}
	return types.DecisionHold
}
