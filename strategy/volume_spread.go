package strategy

import (
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// VolumeSpread reads effort-versus-result in the last completed candle: high
// volume on a wide-spread bar closing against its direction suggests
// absorption by the other side.
type VolumeSpread struct {
	log logger.Logger
}

func NewVolumeSpread(log logger.Logger) *VolumeSpread { return &VolumeSpread{log: log} }

func (v *VolumeSpread) Name() string { return "volume_spread" }

func (v *VolumeSpread) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 20 || bias == types.Neutral {
		return types.DecisionHold
	}

	volMA := s.VolumeSMA(20)
	spread := s.Spread()
	spreadMA := s.SpreadSMA(20)
	last := s.Bar(idx - 1)

	if volMA[idx-1] <= 0 {
		return types.DecisionHold
	}

	highVolume := last.Volume > volMA[idx-1]*1.3
	wideSpread := spread[idx-1] > spreadMA[idx-1]

	if bias == types.Bullish {
		downBar := last.Close < last.Open
		highClose := last.Close > last.Low+spread[idx-1]*0.5
		if downBar && highVolume && wideSpread && highClose {
			v.log.Info("sign_of_strength", logger.String("strategy", v.Name()))
			return types.DecisionBuy
		}
	} else {
		upBar := last.Close > last.Open
		lowClose := last.Close < last.Low+spread[idx-1]*0.5
		if upBar && highVolume && wideSpread && lowClose {
			v.log.Info("sign_of_weakness", logger.String("strategy", v.Name()))
			return types.DecisionSell
		}
	}
	return types.DecisionHold
}
