package strategy

import (
	"errors"
	"testing"

	"intrabot/config"
	"intrabot/indicator"
	"intrabot/testutils"
	"intrabot/types"
)

func testRegistry() *Registry {
	return NewRegistry(config.Default(), testutils.NewMockLogger())
}

func TestRegistry_Lookup(t *testing.T) {
	reg := testRegistry()

	names := reg.Names()
	if len(names) != 11 {
		t.Fatalf("registry holds %d strategies, want 11", len(names))
	}

	st, err := reg.Get(DefaultName)
	if err != nil {
		t.Fatalf("Get(default): %v", err)
	}
	if st.Name() != DefaultName {
		t.Errorf("default strategy reports name %q", st.Name())
	}

	for _, name := range names {
		if !reg.Has(name) {
			t.Errorf("Has(%q) = false for a listed name", name)
		}
		st, err := reg.Get(name)
		if err != nil {
			t.Errorf("Get(%q): %v", name, err)
			continue
		}
		if st.Name() != name {
			t.Errorf("strategy registered as %q reports name %q", name, st.Name())
		}
	}
}

func TestRegistry_UnknownName(t *testing.T) {
	reg := testRegistry()

	if reg.Has("warp_drive") {
		t.Error("Has reported an unregistered name")
	}
	if _, err := reg.Get("warp_drive"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) error = %v, want ErrNotFound", err)
	}
}

/*
   -----------------------------------------------------------------------
   Two guards every strategy shares: a Neutral bias and a series shorter
   than any lookback must both produce HOLD, whatever the price action.
   -----------------------------------------------------------------------
*/
func TestAllStrategies_NeutralBiasHolds(t *testing.T) {
	reg := testRegistry()
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Ramp(100, 1, 60)...))
	piv := indicator.CPR(104, 96, 102)

	for _, name := range reg.Names() {
		st, _ := reg.Get(name)
		if got := st.Evaluate(s, types.Neutral, piv, -1); got != types.DecisionHold {
			t.Errorf("%s with Neutral bias = %v, want HOLD", name, got)
		}
	}
}

func TestAllStrategies_ShortSeriesHolds(t *testing.T) {
	reg := testRegistry()
	s := indicator.NewSeries(testutils.IntradayBars(testutils.Flat(100, 5)...))

	for _, name := range reg.Names() {
		st, _ := reg.Get(name)
		for _, bias := range []types.Bias{types.Bullish, types.Bearish} {
			if got := st.Evaluate(s, bias, indicator.PivotLevels{}, -1); got != types.DecisionHold {
				t.Errorf("%s on 5 bars (%s) = %v, want HOLD", name, bias, got)
			}
		}
	}
}
