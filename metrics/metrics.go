package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intrabot_orders_submitted_total",
			Help: "Total number of orders submitted (by strategy).",
		},
		[]string{"strategy"},
	)

	TradesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "intrabot_trades_closed_total",
			Help: "Completed trades by outcome (win or loss).",
		},
		[]string{"outcome"},
	)

	OpenPosition = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intrabot_open_position",
			Help: "1 while a trade is open, 0 otherwise.",
		},
	)

	StrategyWinRate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "intrabot_strategy_win_rate",
			Help: "Backtested win rate (percent) per candidate strategy.",
		},
		[]string{"strategy"},
	)

	RealizedPnL = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "intrabot_realized_pnl",
			Help: "Cumulative realized profit and loss for the run.",
		},
	)
)

func init() {
	prometheus.MustRegister(OrdersSubmitted, TradesClosed, OpenPosition, StrategyWinRate, RealizedPnL)
}
