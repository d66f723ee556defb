package strategy

import (
	"testing"

	"intrabot/indicator"
	"intrabot/testutils"
	"intrabot/types"
)

// vShape is a decline into a sharp recovery; somewhere on the recovery the
// fast EMA crosses the slow one.
func vShape() *indicator.Series {
	closes := append(testutils.Ramp(120, -0.5, 30), testutils.Ramp(100, 2, 30)...)
	return indicator.NewSeries(testutils.IntradayBars(closes...))
}

// invertedV mirrors it for the bearish cross.
func invertedV() *indicator.Series {
	closes := append(testutils.Ramp(100, 0.5, 30), testutils.Ramp(120, -2, 30)...)
	return indicator.NewSeries(testutils.IntradayBars(closes...))
}

/*
   -----------------------------------------------------------------------
   The cross only fires on the bar where it happens, so the tests sweep
   every index and assert the signal occurred exactly where expected in
   kind: at least one BUY on the recovery, and never a SELL against a
   bullish bias.
   -----------------------------------------------------------------------
*/
func TestMACrossover_GoldenCrossFiresOnce(t *testing.T) {
	st := NewMACrossover(testutils.NewMockLogger())
	s := vShape()

	buys := 0
	for idx := 21; idx < s.Len(); idx++ {
		switch st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, idx) {
		case types.DecisionBuy:
			buys++
		case types.DecisionSell:
			t.Fatalf("SELL under a bullish bias at index %d", idx)
		}
	}
	if buys != 1 {
		t.Errorf("golden cross fired %d times, want exactly 1", buys)
	}
}

func TestMACrossover_DeathCrossFiresOnce(t *testing.T) {
	st := NewMACrossover(testutils.NewMockLogger())
	s := invertedV()

	sells := 0
	for idx := 21; idx < s.Len(); idx++ {
		switch st.Evaluate(s, types.Bearish, indicator.PivotLevels{}, idx) {
		case types.DecisionSell:
			sells++
		case types.DecisionBuy:
			t.Fatalf("BUY under a bearish bias at index %d", idx)
		}
	}
	if sells != 1 {
		t.Errorf("death cross fired %d times, want exactly 1", sells)
	}
}

// A cross against the bias direction is not traded.
func TestMACrossover_BiasFilters(t *testing.T) {
	st := NewMACrossover(testutils.NewMockLogger())
	s := vShape()

	for idx := 21; idx < s.Len(); idx++ {
		if got := st.Evaluate(s, types.Bearish, indicator.PivotLevels{}, idx); got != types.DecisionHold {
			t.Fatalf("decision = %v at index %d, want HOLD on a rising cross", got, idx)
		}
	}
}
