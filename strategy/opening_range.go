package strategy

import (
	"time"

	"intrabot/config"
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// orbMinRangePoints is the narrowest tradeable opening range; the natural
// stop for an ORB trade is the far side of the range, so a range tighter
// than this gives no room.
const orbMinRangePoints = 10.0

// OpeningRangeBreakout trades breaks of the first-N-minute high/low on strong
// volume. The computed range is scoped to one trading session: a bar from a
// newer session discards the previous range.
type OpeningRangeBreakout struct {
	log         logger.Logger
	openMinute  int
	orbMinutes  int
	sessionDate string
	rangeHigh   float64
	rangeLow    float64
	rangeSet    bool
}

func NewOpeningRangeBreakout(cfg config.Config, log logger.Logger) *OpeningRangeBreakout {
	openMin, err := config.ParseClock(cfg.SessionOpen)
	if err != nil {
		openMin = 9*60 + 15
	}
	return &OpeningRangeBreakout{
		log:        log,
		openMinute: openMin,
		orbMinutes: cfg.ORBMinutes,
	}
}

func (o *OpeningRangeBreakout) Name() string { return "opening_range_breakout" }

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

func (o *OpeningRangeBreakout) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	idx := s.LastIndex(index)
	if idx < 1 || bias == types.Neutral {
		return types.DecisionHold
	}

	bar := s.Bar(idx)
	day := bar.Timestamp.Format("2006-01-02")
	if day != o.sessionDate {
		o.sessionDate = day
		o.rangeSet = false
		o.rangeHigh, o.rangeLow = 0, 0
	}

	rangeEnd := o.openMinute + o.orbMinutes
	if !o.rangeSet && minuteOfDay(bar.Timestamp) >= rangeEnd {
		found := false
		for i := 0; i <= idx; i++ {
			b := s.Bar(i)
			if b.Timestamp.Format("2006-01-02") != day {
				continue
			}
			m := minuteOfDay(b.Timestamp)
			if m < o.openMinute || m > rangeEnd {
				continue
			}
			if !found || b.High > o.rangeHigh {
				o.rangeHigh = b.High
			}
			if !found || b.Low < o.rangeLow {
				o.rangeLow = b.Low
			}
			found = true
		}
		if found {
			o.rangeSet = true
			o.log.Info("orb_set",
				logger.Float64("high", o.rangeHigh),
				logger.Float64("low", o.rangeLow),
				logger.Float64("range", o.rangeHigh-o.rangeLow),
			)
		}
	}

	if !o.rangeSet || o.rangeHigh-o.rangeLow < orbMinRangePoints {
		return types.DecisionHold
	}

	volMA := s.VolumeSMA(20)
	if idx < 20 {
		return types.DecisionHold
	}
	cur, last := s.Bar(idx), s.Bar(idx-1)

	if bias == types.Bullish &&
		last.Close < o.rangeHigh && cur.Close > o.rangeHigh &&
		cur.Volume > volMA[idx]*1.5 {
		o.log.Info("orb_high_breakout", logger.Float64("level", o.rangeHigh))
		return types.DecisionBuy
	}
	if bias == types.Bearish &&
		last.Close > o.rangeLow && cur.Close < o.rangeLow &&
		cur.Volume > volMA[idx]*1.5 {
		o.log.Info("orb_low_breakdown", logger.Float64("level", o.rangeLow))
		return types.DecisionSell
	}
	return types.DecisionHold
}
