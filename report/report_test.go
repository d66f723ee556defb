package report

import (
	"math"
	"testing"
	"time"

	"intrabot/types"
)

func closedTrade(closedAt time.Time, pnl float64) types.CompletedTrade {
	return types.CompletedTrade{
		ActiveTrade: types.ActiveTrade{
			Symbol: "NIFTY22050CE", Direction: types.Buy,
			Quantity: 50, EntryPrice: 100, Strategy: "default",
		},
		ExitPrice:  100 + pnl/50,
		ProfitLoss: pnl,
		ClosedAt:   closedAt,
		Status:     types.StatusClosed,
		ExitReason: "trailing_stop",
	}
}

func TestBuildDailySummary(t *testing.T) {
	day := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)
	trades := []types.CompletedTrade{
		closedTrade(day.Add(-2*time.Hour), 500),                  // today, win
		closedTrade(day.Add(-1*time.Hour), -200),                 // today, loss
		closedTrade(day.AddDate(0, 0, -3), 100),                  // earlier this month
		closedTrade(time.Date(2025, 2, 20, 14, 0, 0, 0, time.UTC), 900), // prior month
	}

	sum := BuildDailySummary(trades, day, "")
	if sum.Wins != 1 || sum.Losses != 1 {
		t.Errorf("wins/losses = %d/%d, want 1/1", sum.Wins, sum.Losses)
	}
	if sum.TotalPnL != 300 {
		t.Errorf("pnl = %v, want 300", sum.TotalPnL)
	}
	if sum.MonthWins != 2 || sum.MonthLosses != 1 {
		t.Errorf("month wins/losses = %d/%d, want 2/1", sum.MonthWins, sum.MonthLosses)
	}
}

func TestBuildDailySummary_NoTradeReason(t *testing.T) {
	day := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	sum := BuildDailySummary(nil, day, "market sentiment is neutral")

	if sum.NoTradeReason != "market sentiment is neutral" {
		t.Errorf("reason = %q", sum.NoTradeReason)
	}
	if sum.Wins != 0 || sum.Losses != 0 || sum.TotalPnL != 0 {
		t.Error("empty day must carry zero statistics")
	}
}

func TestBuildMonthlySummary(t *testing.T) {
	month := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)
	trades := []types.CompletedTrade{
		closedTrade(time.Date(2025, 3, 5, 14, 0, 0, 0, time.UTC), 500),
		closedTrade(time.Date(2025, 3, 12, 14, 0, 0, 0, time.UTC), 300),
		closedTrade(time.Date(2025, 3, 20, 14, 0, 0, 0, time.UTC), -100),
		closedTrade(time.Date(2025, 2, 20, 14, 0, 0, 0, time.UTC), 900), // out of month
	}

	sum := BuildMonthlySummary(trades, month)
	if sum.Wins != 2 || sum.Losses != 1 {
		t.Errorf("wins/losses = %d/%d, want 2/1", sum.Wins, sum.Losses)
	}
	if sum.TotalPnL != 700 {
		t.Errorf("pnl = %v, want 700", sum.TotalPnL)
	}
	if math.Abs(sum.WinRate-200.0/3) > 1e-9 {
		t.Errorf("win rate = %v, want 66.67", sum.WinRate)
	}
}

func TestIsMonthEnd(t *testing.T) {
	cases := []struct {
		day  time.Time
		want bool
	}{
		{time.Date(2025, time.March, 31, 10, 0, 0, 0, time.UTC), true},
		{time.Date(2025, time.March, 30, 10, 0, 0, 0, time.UTC), false},
		{time.Date(2024, time.February, 29, 10, 0, 0, 0, time.UTC), true},
		{time.Date(2025, time.February, 28, 10, 0, 0, 0, time.UTC), true},
	}
	for _, c := range cases {
		if got := IsMonthEnd(c.day); got != c.want {
			t.Errorf("IsMonthEnd(%s) = %v, want %v", c.day.Format("2006-01-02"), got, c.want)
		}
	}
}
