package strategy

import (
	"testing"

	"intrabot/indicator"
	"intrabot/testutils"
	"intrabot/types"
)

/*
   -----------------------------------------------------------------------
   The default strategy needs the CPR breakout as primary signal plus at
   least one confirmation. A steady rise clearing the pivot range gives
   both: closes above TC on consecutive bars, close above the EMA-50, and
   an RSI pinned high.
   -----------------------------------------------------------------------
*/
func TestMultiVote_BullishBreakoutBuys(t *testing.T) {
	log := testutils.NewMockLogger()
	st := NewMultiVote(log)
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Ramp(90, 0.5, 60)...))
	piv := indicator.CPR(100, 90, 95) // TC = 95, well under the late closes

	if got := st.Evaluate(s, types.Bullish, piv, -1); got != types.DecisionBuy {
		t.Fatalf("decision = %v, want BUY", got)
	}
	if !log.Logged("signal_confirmed") {
		t.Error("confirmation was not logged")
	}
}

func TestMultiVote_BearishBreakdownSells(t *testing.T) {
	st := NewMultiVote(testutils.NewMockLogger())
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Ramp(100, -0.5, 60)...))
	piv := indicator.CPR(100, 90, 95) // BC = 95, above the late closes

	if got := st.Evaluate(s, types.Bearish, piv, -1); got != types.DecisionSell {
		t.Fatalf("decision = %v, want SELL", got)
	}
}

// The primary breakout must agree with the bias; a bullish breakout under a
// bearish bias is not tradeable.
func TestMultiVote_BiasMismatchHolds(t *testing.T) {
	st := NewMultiVote(testutils.NewMockLogger())
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Ramp(90, 0.5, 60)...))
	piv := indicator.CPR(100, 90, 95)

	if got := st.Evaluate(s, types.Bearish, piv, -1); got != types.DecisionHold {
		t.Errorf("decision = %v, want HOLD", got)
	}
}

// Without derived pivot levels there is no primary signal.
func TestMultiVote_InvalidPivotsHold(t *testing.T) {
	st := NewMultiVote(testutils.NewMockLogger())
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Ramp(90, 0.5, 60)...))

	if got := st.Evaluate(s, types.Bullish, indicator.PivotLevels{}, -1); got != types.DecisionHold {
		t.Errorf("decision = %v, want HOLD", got)
	}
}
