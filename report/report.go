// Package report aggregates completed trades into daily and monthly
// summaries and persists them to a trade log. Delivery (mail, chat) is the
// notifier's concern, not ours.
package report

import (
	"time"

	"intrabot/types"
)

// TradeLog accepts one record per completed trade and returns everything
// recorded so far.
type TradeLog interface {
	Append(types.CompletedTrade) error
	All() ([]types.CompletedTrade, error)
}

// DailySummary is the end-of-day aggregate, including month-to-date counts.
type DailySummary struct {
	Date          time.Time
	Wins          int
	Losses        int
	TotalPnL      float64
	MonthWins     int
	MonthLosses   int
	NoTradeReason string
}

// MonthlySummary is the end-of-month aggregate.
type MonthlySummary struct {
	Month    time.Time
	Wins     int
	Losses   int
	TotalPnL float64
	WinRate  float64 // percent
}

// Notifier receives rendered summaries. Implementations live outside the
// core (mail, chat, stdout).
type Notifier interface {
	DailyReport(DailySummary) error
	MonthlyReport(MonthlySummary) error
}

// BuildDailySummary aggregates the day's trades plus month-to-date counts.
// A non-empty noTradeReason is carried through for days setup aborted.
func BuildDailySummary(trades []types.CompletedTrade, day time.Time, noTradeReason string) DailySummary {
	sum := DailySummary{Date: day, NoTradeReason: noTradeReason}
	for _, t := range trades {
		if t.ClosedAt.Year() == day.Year() && t.ClosedAt.Month() == day.Month() {
			if t.ProfitLoss > 0 {
				sum.MonthWins++
			} else {
				sum.MonthLosses++
			}
		}
		if sameDate(t.ClosedAt, day) {
			if t.ProfitLoss > 0 {
				sum.Wins++
			} else {
				sum.Losses++
			}
			sum.TotalPnL += t.ProfitLoss
		}
	}
	return sum
}

// BuildMonthlySummary aggregates every trade closed in the month of the
// given date.
func BuildMonthlySummary(trades []types.CompletedTrade, month time.Time) MonthlySummary {
	sum := MonthlySummary{Month: month}
	for _, t := range trades {
		if t.ClosedAt.Year() != month.Year() || t.ClosedAt.Month() != month.Month() {
			continue
		}
		if t.ProfitLoss > 0 {
			sum.Wins++
		} else {
			sum.Losses++
		}
		sum.TotalPnL += t.ProfitLoss
	}
	if total := sum.Wins + sum.Losses; total > 0 {
		sum.WinRate = float64(sum.Wins) / float64(total) * 100
	}
	return sum
}

// IsMonthEnd reports whether t falls on the last day of its month.
func IsMonthEnd(t time.Time) bool {
	return t.AddDate(0, 0, 1).Month() != t.Month()
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
