// Package bot is the live trading orchestrator: a single-threaded polling
// loop that runs the pre-market selection once, then alternates between
// asking the active strategy for a decision and polling the position
// manager until the session closes.
package bot

import (
	"context"
	"errors"
	"time"

	"intrabot/broker"
	"intrabot/config"
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/metrics"
	"intrabot/position"
	"intrabot/report"
	"intrabot/risk"
	"intrabot/selector"
	"intrabot/types"
)

const (
	pollInterval  = 30 * time.Second
	retryInterval = 60 * time.Second
	vixSymbol     = "INDIA VIX"
)

// Bot wires every component for one trading day.
type Bot struct {
	Cfg      config.Config
	Log      logger.Logger
	GW       broker.Gateway
	Sel      *selector.Selector
	Pos      *position.Manager
	Sizer    *risk.Sizer
	TradeLog report.TradeLog
	Notifier report.Notifier

	// Overridable in tests.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration)

	plan        *selector.DayPlan
	tradesToday int
}

// New fills in the real clock.
func New(cfg config.Config, log logger.Logger, gw broker.Gateway,
	sel *selector.Selector, pos *position.Manager, sizer *risk.Sizer,
	tradeLog report.TradeLog, notifier report.Notifier) *Bot {

	return &Bot{
		Cfg:      cfg,
		Log:      log,
		GW:       gw,
		Sel:      sel,
		Pos:      pos,
		Sizer:    sizer,
		TradeLog: tradeLog,
		Notifier: notifier,
		Now:      time.Now,
		Sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func minuteOfDay(t time.Time) int { return t.Hour()*60 + t.Minute() }

// Run executes one full trading day: setup, the polling loop, and the
// end-of-day (and possibly end-of-month) reports.
func (b *Bot) Run(ctx context.Context) error {
	today := b.Now()

	plan, err := b.Sel.Prepare(today)
	if err != nil {
		reason := err.Error()
		var nt *selector.NoTradeError
		if errors.As(err, &nt) {
			reason = nt.Reason
		}
		b.Log.Warn("setup_aborted", logger.String("reason", reason))
		b.endOfDay(today, reason)
		return nil
	}
	b.plan = plan
	b.Log.Info("bot_running",
		logger.String("strategy", plan.StrategyName),
		logger.String("bias", string(plan.Bias)),
	)

	warmupMin, _ := config.ParseClock(b.Cfg.WarmupUntil)
	closeMin, _ := config.ParseClock(b.Cfg.SessionClose)

	for ctx.Err() == nil && minuteOfDay(b.Now()) < closeMin {
		if minuteOfDay(b.Now()) < warmupMin {
			b.Sleep(ctx, retryInterval)
			continue
		}
		if err := b.cycle(); err != nil {
			// A failed external call degrades to a skipped cycle, never a
			// retry of the same order.
			b.Log.Error("cycle_error", logger.Err(err))
			b.Sleep(ctx, retryInterval)
			continue
		}
		b.Sleep(ctx, pollInterval)
	}

	b.closeAtSessionEnd()
	b.endOfDay(today, "")
	if report.IsMonthEnd(today) {
		b.endOfMonth(today)
	}
	return ctx.Err()
}

// cycle is one poll: look for an entry while flat, manage the open trade
// otherwise.
func (b *Bot) cycle() error {
	if b.Pos.Active() == nil {
		if b.tradesToday >= b.Cfg.MaxTradesPerDay {
			return nil
		}
		return b.tryEntry()
	}
	return b.managePosition()
}

func (b *Bot) tryEntry() error {
	vix, err := b.GW.LTP("NSE", vixSymbol)
	if err != nil {
		return err
	}
	if vix > b.Cfg.MaxVIXLevel {
		b.Log.Warn("vix_above_limit", logger.Float64("vix", vix))
		return nil
	}

	series, err := b.underlyingSeries()
	if err != nil {
		return err
	}
	if series.Len() == 0 {
		return nil
	}

	decision := b.plan.Strategy.Evaluate(series, b.plan.Bias, b.plan.Pivots, -1)
	if decision == types.DecisionHold {
		return nil
	}

	intent, err := b.Sizer.Size(types.Side(decision), b.Now())
	if err != nil {
		if errors.Is(err, risk.ErrNoTrade) {
			b.Log.Warn("sizing_no_trade", logger.Err(err))
			return nil
		}
		return err
	}

	if !b.Cfg.PaperTrading {
		filled, err := b.placeEntry(intent)
		if err != nil {
			// Dropped for this cycle; never re-placed for the same signal.
			b.Log.Error("entry_order_failed", logger.Err(err))
			return nil
		}
		intent = filled
	}

	if err := b.Pos.StartTrade(intent, b.plan.StrategyName, b.Now()); err != nil {
		return err
	}
	metrics.OrdersSubmitted.WithLabelValues(b.plan.StrategyName).Inc()
	b.tradesToday++
	return nil
}

// placeEntry submits the entry order and confirms the fill price. Option
// entries are always a buy of the contract (calls for BUY, puts for SELL).
func (b *Bot) placeEntry(intent types.TradeIntent) (types.TradeIntent, error) {
	orderID, err := b.GW.PlaceMarketOrder(intent.Symbol, types.Buy, intent.Quantity, b.Cfg.ProductType)
	if err != nil {
		return types.TradeIntent{}, err
	}
	status, err := b.GW.OrderStatus(orderID)
	if err != nil {
		return types.TradeIntent{}, err
	}
	if status.Status != broker.OrderStatusComplete || status.AvgPrice <= 0 {
		return types.TradeIntent{}, errors.New("order did not execute or fill price is zero")
	}
	intent.EntryPrice = status.AvgPrice
	return intent, nil
}

func (b *Bot) managePosition() error {
	t := b.Pos.Active()
	price, err := b.GW.LTP("NFO", t.Symbol)
	if err != nil {
		return err
	}

	var underlying *indicator.Series
	if b.Cfg.TrailingStop.UseIndicatorExit {
		if s, err := b.underlyingSeries(); err == nil {
			underlying = s
		}
	}

	done, err := b.Pos.Manage(price, underlying, b.Now())
	if err != nil {
		// Exit order failed: trade stays open, retried next cycle.
		return err
	}
	if done != nil {
		if err := b.TradeLog.Append(*done); err != nil {
			b.Log.Error("trade_log_failed", logger.Err(err))
		}
	}
	return nil
}

// underlyingSeries fetches the recent intraday bars for the underlying.
func (b *Bot) underlyingSeries() (*indicator.Series, error) {
	in, err := b.GW.Instrument("NSE", b.Cfg.UnderlyingInstrument)
	if err != nil {
		return nil, err
	}
	now := b.Now()
	bars, err := b.GW.Historical(in.Token, now.AddDate(0, 0, -5), now, b.Cfg.ChartTimeframe)
	if err != nil {
		return nil, err
	}
	return indicator.NewSeries(bars), nil
}

// closeAtSessionEnd flattens any position still open when the session ends.
func (b *Bot) closeAtSessionEnd() {
	t := b.Pos.Active()
	if t == nil {
		return
	}
	price, err := b.GW.LTP("NFO", t.Symbol)
	if err != nil {
		b.Log.Error("session_end_quote_failed", logger.Err(err))
		return
	}
	done, err := b.Pos.ExitTrade(price, position.ExitSessionEnd, b.Now())
	if err != nil {
		b.Log.Error("session_end_exit_failed", logger.Err(err))
		return
	}
	if err := b.TradeLog.Append(*done); err != nil {
		b.Log.Error("trade_log_failed", logger.Err(err))
	}
}

func (b *Bot) endOfDay(day time.Time, noTradeReason string) {
	trades, err := b.TradeLog.All()
	if err != nil {
		b.Log.Error("trade_log_read_failed", logger.Err(err))
	}
	sum := report.BuildDailySummary(trades, day, noTradeReason)
	if err := b.Notifier.DailyReport(sum); err != nil {
		b.Log.Error("daily_report_failed", logger.Err(err))
	}
}

func (b *Bot) endOfMonth(day time.Time) {
	trades, err := b.TradeLog.All()
	if err != nil {
		b.Log.Error("trade_log_read_failed", logger.Err(err))
		return
	}
	if err := b.Notifier.MonthlyReport(report.BuildMonthlySummary(trades, day)); err != nil {
		b.Log.Error("monthly_report_failed", logger.Err(err))
	}
}
