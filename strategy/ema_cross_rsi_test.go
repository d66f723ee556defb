package strategy

import (
	"testing"

	"intrabot/indicator"
	"intrabot/testutils"
	"intrabot/types"
)

// The fast cross needs the RSI and price filters to agree; on a steep
// recovery all three line up on the crossing bar.
func TestEMACrossRSI_RecoveryBuys(t *testing.T) {
	st := NewEMACrossRSI(testutils.NewMockLogger())
	closes := append(testutils.Ramp(115, -0.5, 30), testutils.Ramp(100, 2, 30)...)
	s := indicator.NewSeries(testutils.IntradayBars(closes...))

	buys := 0
	for idx := 15; idx < s.Len(); idx++ {
		switch st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, idx) {
		case types.DecisionBuy:
			buys++
		case types.DecisionSell:
			t.Fatalf("SELL under a bullish bias at index %d", idx)
		}
	}
	if buys == 0 {
		t.Error("no BUY fired across the recovery leg")
	}
}

func TestEMACrossRSI_BreakdownSells(t *testing.T) {
	st := NewEMACrossRSI(testutils.NewMockLogger())
	closes := append(testutils.Ramp(100, 0.5, 30), testutils.Ramp(115, -2, 30)...)
	s := indicator.NewSeries(testutils.IntradayBars(closes...))

	sells := 0
	for idx := 15; idx < s.Len(); idx++ {
		switch st.Evaluate(s, types.Bearish, indicator.PivotLevels{}, idx) {
		case types.DecisionSell:
			sells++
		case types.DecisionBuy:
			t.Fatalf("BUY under a bearish bias at index %d", idx)
		}
	}
	if sells == 0 {
		t.Error("no SELL fired across the breakdown leg")
	}
}

// A flat tape never crosses, so every index holds.
func TestEMACrossRSI_FlatHolds(t *testing.T) {
	st := NewEMACrossRSI(testutils.NewMockLogger())
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Flat(100, 40)...))

	for idx := 15; idx < s.Len(); idx++ {
		if got := st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, idx); got != types.DecisionHold {
			t.Fatalf("decision = %v at index %d on a flat tape", got, idx)
		}
	}
}
