package backtest

import (
	"errors"
	"testing"
	"time"

	"intrabot/indicator"
	"intrabot/strategy"
	"intrabot/testutils"
	"intrabot/types"
)

// fireAt signals in the bias direction at exactly one intraday index and
// holds everywhere else, making the replay outcome fully deterministic.
type fireAt struct {
	idx int
}

func (f *fireAt) Name() string { return "fire_at" }

func (f *fireAt) Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision {
	if s.LastIndex(index) == f.idx {
		return bias.Decision()
	}
	return types.DecisionHold
}

func dailyBar(day time.Time, h, l, c float64) types.PriceBar {
	return types.PriceBar{Timestamp: day, Open: c, High: h, Low: l, Close: c, Volume: 1}
}

/*
   -----------------------------------------------------------------------
   Fixture: prior sessions close at 102 against a pivot of ~100.67, so
   every replay day is Bullish. Each session has 50 bars; the strategy
   fires at index 35 and the exit is the first close back under the pivot.

     win session:  enter 95, next close 100 (under pivot, above entry)
     loss session: enter 95, next close 94
   -----------------------------------------------------------------------
*/
func session(day time.Time, closes35, closes36 float64) []types.PriceBar {
	closes := testutils.Flat(102, 35)
	closes = append(closes, closes35, closes36)
	closes = append(closes, testutils.Flat(102, 13)...)
	return testutils.Bars(day.Add(9*time.Hour+15*time.Minute), 5*time.Minute, closes...)
}

func replayFixture() (daily, intraday []types.PriceBar) {
	d0 := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 1)
	d2 := d0.AddDate(0, 0, 2)

	daily = []types.PriceBar{
		dailyBar(d0, 104, 96, 102),
		dailyBar(d1, 104, 96, 102),
		dailyBar(d2, 104, 96, 102),
	}
	intraday = append(intraday, session(d1, 95, 100)...) // win
	intraday = append(intraday, session(d2, 95, 94)...)  // loss
	return daily, intraday
}

func newTestEvaluator() *Evaluator {
	return NewEvaluator(func(name string) (strategy.Strategy, error) {
		if name == "fire_at" {
			return &fireAt{idx: 35}, nil
		}
		return nil, strategy.ErrNotFound
	}, testutils.NewMockLogger())
}

func TestRun_WinRateMath(t *testing.T) {
	daily, intraday := replayFixture()

	res, err := newTestEvaluator().Run("fire_at", daily, intraday)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Trades != 2 {
		t.Fatalf("trades = %d, want 2 (one win, one loss)", res.Trades)
	}
	if res.WinRate != 50 {
		t.Errorf("win rate = %v, want 50", res.WinRate)
	}
	if res.Strategy != "fire_at" {
		t.Errorf("result strategy = %q", res.Strategy)
	}
}

// Sessions with fewer than the minimum intraday bars contribute nothing.
func TestRun_SkipsThinSessions(t *testing.T) {
	daily, intraday := replayFixture()

	d3 := time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC)
	daily = append(daily, dailyBar(d3, 104, 96, 102))
	thin := testutils.Bars(d3.Add(9*time.Hour+15*time.Minute), 5*time.Minute, testutils.Flat(95, 10)...)
	intraday = append(intraday, thin...)

	res, err := newTestEvaluator().Run("fire_at", daily, intraday)
	if err != nil {
		t.Fatal(err)
	}
	if res.Trades != 2 {
		t.Errorf("trades = %d, thin session should be skipped", res.Trades)
	}
}

// A position still open when the session runs out is discarded, not scored.
func TestRun_DiscardsOpenPositionAtSessionEnd(t *testing.T) {
	d0 := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	d1 := d0.AddDate(0, 0, 1)
	daily := []types.PriceBar{
		dailyBar(d0, 104, 96, 102),
		dailyBar(d1, 104, 96, 102),
	}
	// Entry at 35 but every later close stays above the pivot.
	closes := append(testutils.Flat(102, 35), testutils.Flat(103, 15)...)
	intraday := testutils.Bars(d1.Add(9*time.Hour+15*time.Minute), 5*time.Minute, closes...)

	res, err := newTestEvaluator().Run("fire_at", daily, intraday)
	if err != nil {
		t.Fatal(err)
	}
	if res.Trades != 0 {
		t.Errorf("trades = %d, want 0 for a never-exited position", res.Trades)
	}
}

func TestRunAll_MergesByName(t *testing.T) {
	daily, intraday := replayFixture()
	e := NewEvaluator(func(name string) (strategy.Strategy, error) {
		return &fireAt{idx: 35}, nil
	}, testutils.NewMockLogger())

	results, err := e.RunAll([]string{"a", "b", "a"}, daily, intraday)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d entries, want 2 (duplicates collapse)", len(results))
	}
	for _, name := range []string{"a", "b"} {
		if results[name].WinRate != 50 {
			t.Errorf("win rate for %q = %v, want 50", name, results[name].WinRate)
		}
	}
}

func TestRunAll_PropagatesFactoryError(t *testing.T) {
	daily, intraday := replayFixture()

	_, err := newTestEvaluator().RunAll([]string{"fire_at", "unknown"}, daily, intraday)
	if !errors.Is(err, strategy.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
