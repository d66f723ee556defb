package strategy

import (
	"testing"
	"time"

	"intrabot/config"
	"intrabot/indicator"
	"intrabot/testutils"
	"intrabot/types"
)

// orbSeries builds a session whose first 30 minutes oscillate wide enough to
// set a tradeable range, then drifts inside it until the breakout bar.
func orbSeries(breakoutClose float64) *indicator.Series {
	closes := []float64{100, 112, 100, 112, 100, 112, 100} // 09:15-09:45
	closes = append(closes, testutils.Flat(105, 18)...)    // drift inside
	closes = append(closes, breakoutClose)                 // index 25
	bars := testutils.IntradayBars(closes...)
	bars = testutils.WithVolume(bars, 25, 2000)
	return indicator.NewSeries(bars)
}

func TestOpeningRangeBreakout_HighBreakBuys(t *testing.T) {
	log := testutils.NewMockLogger()
	st := NewOpeningRangeBreakout(config.Default(), log)
	s := orbSeries(115) // range high is 113

	if got := st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, 25); got != types.DecisionBuy {
		t.Fatalf("decision = %v, want BUY", got)
	}
	if !log.Logged("orb_set") {
		t.Error("opening range was never derived")
	}
}

func TestOpeningRangeBreakout_InsideRangeHolds(t *testing.T) {
	st := NewOpeningRangeBreakout(config.Default(), nopLog())
	s := orbSeries(110) // still under the range high

	if got := st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, 25); got != types.DecisionHold {
		t.Errorf("decision = %v, want HOLD inside the range", got)
	}
}

// Ordinary volume on the breakout bar is not enough.
func TestOpeningRangeBreakout_WeakVolumeHolds(t *testing.T) {
	st := NewOpeningRangeBreakout(config.Default(), nopLog())
	closes := []float64{100, 112, 100, 112, 100, 112, 100}
	closes = append(closes, testutils.Flat(105, 18)...)
	closes = append(closes, 115)
	s := indicator.NewSeries(testutils.IntradayBars(closes...))

	if got := st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, 25); got != types.DecisionHold {
		t.Errorf("decision = %v, want HOLD on flat volume", got)
	}
}

// A range narrower than the minimum gives the stop no room.
func TestOpeningRangeBreakout_NarrowRangeHolds(t *testing.T) {
	st := NewOpeningRangeBreakout(config.Default(), nopLog())
	closes := testutils.Flat(100, 25) // range collapses to ~2 points
	closes = append(closes, 104)
	bars := testutils.WithVolume(testutils.IntradayBars(closes...), 25, 2000)
	s := indicator.NewSeries(bars)

	if got := st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, 25); got != types.DecisionHold {
		t.Errorf("decision = %v, want HOLD on a narrow range", got)
	}
}

/*
   -----------------------------------------------------------------------
   The computed range belongs to one session. Evaluating a bar from the
   next trading day must discard yesterday's range and start over.
   -----------------------------------------------------------------------
*/
func TestOpeningRangeBreakout_SessionReset(t *testing.T) {
	st := NewOpeningRangeBreakout(config.Default(), nopLog())
	if got := st.Evaluate(orbSeries(115), types.Bullish, indicator.PivotLevels{}, 25); got != types.DecisionBuy {
		t.Fatalf("day-one breakout = %v, want BUY", got)
	}

	// Next day, second bar of the session: the old range must be gone and no
	// new one derivable yet.
	nextDay := testutils.Bars(testutils.SessionOpen.AddDate(0, 0, 1), 5*time.Minute, 120, 125)
	if got := st.Evaluate(indicator.NewSeries(nextDay), types.Bullish, indicator.PivotLevels{}, -1); got != types.DecisionHold {
		t.Errorf("next-day early bar = %v, want HOLD with the range reset", got)
	}
}

func nopLog() *testutils.MockLogger { return testutils.NewMockLogger() }
