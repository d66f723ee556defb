// Package position owns the lifecycle of the single open trade: stop-loss
// and trailing-stop state across repeated polls, and the exit decision.
package position

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"intrabot/broker"
	"intrabot/config"
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/metrics"
	"intrabot/types"
)

// Exit reasons recorded on the completed trade.
const (
	ExitHardStop     = "hard_stop"
	ExitTrailingStop = "trailing_stop"
	ExitIndicator    = "indicator_exit"
	ExitSessionEnd   = "session_end"
)

// ErrNoActiveTrade is returned when Manage or ExitTrade is called while Idle.
var ErrNoActiveTrade = errors.New("position: no active trade")

// ErrTradeOpen is returned when StartTrade is called while a trade is open.
var ErrTradeOpen = errors.New("position: a trade is already open")

// Manager is the per-trade state machine: Idle -> Open -> Closed, returning
// to Idle after each completed trade. A single control loop owns it; no
// locking is required.
type Manager struct {
	cfg config.Config
	gw  broker.Gateway
	log logger.Logger

	trade *types.ActiveTrade
}

func NewManager(cfg config.Config, gw broker.Gateway, log logger.Logger) *Manager {
	return &Manager{cfg: cfg, gw: gw, log: log}
}

// Active returns the open trade, or nil while Idle.
func (m *Manager) Active() *types.ActiveTrade { return m.trade }

// StartTrade transitions Idle -> Open. The initial stop is the larger of the
// percentage stop and the minimum point stop below entry; the trailing stop
// starts at the initial stop and the high-water mark at entry.
func (m *Manager) StartTrade(intent types.TradeIntent, strategyName string, now time.Time) error {
	if m.trade != nil {
		return ErrTradeOpen
	}
	stopDistance := intent.EntryPrice * m.cfg.StopLossPercent / 100
	if stopDistance < m.cfg.MinStopLossPoints {
		stopDistance = m.cfg.MinStopLossPoints
	}
	initialStop := intent.EntryPrice - stopDistance

	m.trade = &types.ActiveTrade{
		ID:            uuid.NewString(),
		Symbol:        intent.Symbol,
		Quantity:      intent.Quantity,
		EntryPrice:    intent.EntryPrice,
		Direction:     intent.Direction,
		InitialStop:   initialStop,
		TrailingStop:  initialStop,
		HighWaterMark: intent.EntryPrice,
		Strategy:      strategyName,
		OpenedAt:      now,
	}
	metrics.OpenPosition.Set(1)
	m.log.Info("trade_opened",
		logger.String("symbol", intent.Symbol),
		logger.String("direction", string(intent.Direction)),
		logger.Int("quantity", intent.Quantity),
		logger.Float64("entry", intent.EntryPrice),
		logger.Float64("initial_stop", initialStop),
	)
	return nil
}

// Manage polls the open trade against the current option price. It ratchets
// the high-water mark and trailing stop (both monotonically non-decreasing),
// then checks the hard stop, the trailing stop, and the optional
// indicator-based exit on the underlying series. A nil result with nil error
// means the trade is still active.
func (m *Manager) Manage(currentPrice float64, underlying *indicator.Series, now time.Time) (*types.CompletedTrade, error) {
	if m.trade == nil {
		return nil, ErrNoActiveTrade
	}
	t := m.trade

	if currentPrice > t.HighWaterMark {
		t.HighWaterMark = currentPrice
	}
	if m.cfg.TrailingStop.Type == config.TrailingPercentage {
		candidate := t.HighWaterMark * (1 - m.cfg.TrailingStop.Percentage/100)
		if candidate > t.TrailingStop {
			t.TrailingStop = candidate
			m.log.Info("trailing_stop_raised",
				logger.String("symbol", t.Symbol),
				logger.Float64("trailing_stop", t.TrailingStop),
			)
		}
	}

	switch {
	case currentPrice <= t.InitialStop:
		return m.ExitTrade(currentPrice, ExitHardStop, now)
	case currentPrice <= t.TrailingStop:
		return m.ExitTrade(currentPrice, ExitTrailingStop, now)
	}

	if m.cfg.TrailingStop.UseIndicatorExit && underlying != nil && m.indicatorExit(underlying) {
		return m.ExitTrade(currentPrice, ExitIndicator, now)
	}
	return nil, nil
}

// indicatorExit checks the configured signal on the underlying series: price
// crossing the moving average against the trade, or a parabolic-stop flip.
func (m *Manager) indicatorExit(s *indicator.Series) bool {
	idx := s.LastIndex(-1)
	if idx < 1 {
		return false
	}
	close := s.Bar(idx).Close

	switch m.cfg.TrailingStop.IndicatorExitType {
	case config.IndicatorExitMA:
		period := m.cfg.TrailingStop.MAPeriod
		if idx < period {
			return false
		}
		ma := s.EMA(period)
		if m.trade.Direction == types.Buy {
			return close < ma[idx]
		}
		return close > ma[idx]
	case config.IndicatorExitPSAR:
		sar := s.SAR()
		if sar[idx] == 0 {
			return false
		}
		if m.trade.Direction == types.Buy {
			return sar[idx] > close
		}
		return sar[idx] < close
	}
	return false
}

// ExitTrade transitions Open -> Closed: it places the closing market order,
// realizes P&L, and clears the slot. If the closing order cannot be placed
// the trade stays Open and the caller may retry next cycle.
func (m *Manager) ExitTrade(exitPrice float64, reason string, now time.Time) (*types.CompletedTrade, error) {
	if m.trade == nil {
		return nil, ErrNoActiveTrade
	}
	t := m.trade

	// Positions are always long an option, so the closing leg is a sell of
	// the contract regardless of trade direction.
	if _, err := m.gw.PlaceMarketOrder(t.Symbol, types.Sell, t.Quantity, m.cfg.ProductType); err != nil {
		m.log.Error("exit_order_failed",
			logger.String("symbol", t.Symbol),
			logger.Err(err),
		)
		return nil, fmt.Errorf("exit order: %w", err)
	}

	pnl := (exitPrice - t.EntryPrice) * float64(t.Quantity)
	if t.Direction == types.Sell {
		pnl = -pnl
	}

	done := &types.CompletedTrade{
		ActiveTrade: *t,
		ExitPrice:   exitPrice,
		ProfitLoss:  pnl,
		ClosedAt:    now,
		Status:      types.StatusClosed,
		ExitReason:  reason,
	}
	m.trade = nil

	metrics.OpenPosition.Set(0)
	metrics.RealizedPnL.Add(pnl)
	outcome := "loss"
	if pnl > 0 {
		outcome = "win"
	}
	metrics.TradesClosed.WithLabelValues(outcome).Inc()

	m.log.Info("trade_closed",
		logger.String("symbol", t.Symbol),
		logger.String("reason", reason),
		logger.Float64("exit", exitPrice),
		logger.Float64("pnl", pnl),
	)
	return done, nil
}
