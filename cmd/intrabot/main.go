// Command intrabot runs one trading session: pre-market strategy selection,
// the polling trade loop, and the end-of-day reports. Only the paper gateway
// is bundled; live brokerage, sentiment, and advisor integrations plug in
// through the broker and selector interfaces.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"intrabot/backtest"
	"intrabot/bot"
	"intrabot/broker"
	"intrabot/config"
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/position"
	"intrabot/report"
	"intrabot/risk"
	"intrabot/selector"
	"intrabot/strategy"
	"intrabot/types"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config (defaults apply when empty)")
		capital    = flag.Float64("capital", 500_000, "paper trading starting capital")
	)
	flag.Parse()

	if err := run(*configPath, *capital); err != nil {
		fmt.Fprintln(os.Stderr, "intrabot:", err)
		os.Exit(1)
	}
}

func run(configPath string, capital float64) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	}
	if !cfg.PaperTrading {
		return fmt.Errorf("no live gateway is bundled; set paper_trading: true")
	}

	log, err := logger.NewZapLogger()
	if err != nil {
		return err
	}

	go func() {
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			log.Error("metrics_listener_failed", logger.Err(err))
		}
	}()

	gw := broker.NewPaperGateway(capital)
	reg := strategy.NewRegistry(cfg, log)

	eval := backtest.NewEvaluator(func(name string) (strategy.Strategy, error) {
		return strategy.NewRegistry(cfg, log).Get(name)
	}, log)

	sel := &selector.Selector{
		Reg:        reg,
		Backtester: eval,
		Conditions: conditionsFunc(func(time.Time) ([]string, error) {
			return []string{"NORMAL"}, nil
		}),
		Sentiment: &pivotSentiment{gw: gw, cfg: cfg},
		Advisor: advisorFunc(func([]string) (string, error) {
			return strategy.DefaultName, nil
		}),
		GW:  gw,
		Cfg: cfg,
		Log: log,
	}

	tradeLog, err := report.NewCSVLog(cfg.TradeLogPath)
	if err != nil {
		return err
	}

	b := bot.New(cfg, log, gw, sel,
		position.NewManager(cfg, gw, log),
		risk.NewSizer(gw, cfg, log),
		tradeLog,
		&logNotifier{log: log},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return b.Run(ctx)
}

// conditionsFunc and advisorFunc adapt plain functions to the selector's
// collaborator interfaces.
type conditionsFunc func(time.Time) ([]string, error)

func (f conditionsFunc) ConditionsForDate(d time.Time) ([]string, error) { return f(d) }

type advisorFunc func([]string) (string, error)

func (f advisorFunc) RecommendStrategy(c []string) (string, error) { return f(c) }

// pivotSentiment derives the day bias from the last completed session's close
// against its pivot, the same rule the backtest replay applies.
type pivotSentiment struct {
	gw  broker.Gateway
	cfg config.Config
}

func (p *pivotSentiment) MarketSentiment() (types.Bias, error) {
	in, err := p.gw.Instrument("NSE", p.cfg.UnderlyingInstrument)
	if err != nil {
		return types.Neutral, err
	}
	now := time.Now()
	bars, err := p.gw.Historical(in.Token, now.AddDate(0, 0, -7), now, "day")
	if err != nil {
		return types.Neutral, err
	}
	if len(bars) < 2 {
		return types.Neutral, fmt.Errorf("need two daily bars, have %d", len(bars))
	}
	prev := bars[len(bars)-2]
	piv := indicator.CPR(prev.High, prev.Low, prev.Close)
	last := bars[len(bars)-1]
	switch {
	case last.Close > piv.Pivot:
		return types.Bullish, nil
	case last.Close < piv.Pivot:
		return types.Bearish, nil
	}
	return types.Neutral, nil
}

// logNotifier renders summaries to the structured log.
type logNotifier struct {
	log logger.Logger
}

func (n *logNotifier) DailyReport(s report.DailySummary) error {
	n.log.Info("daily_summary",
		logger.String("date", s.Date.Format("2006-01-02")),
		logger.Int("wins", s.Wins),
		logger.Int("losses", s.Losses),
		logger.Float64("pnl", s.TotalPnL),
		logger.Int("month_wins", s.MonthWins),
		logger.Int("month_losses", s.MonthLosses),
		logger.String("no_trade_reason", s.NoTradeReason),
	)
	return nil
}

func (n *logNotifier) MonthlyReport(s report.MonthlySummary) error {
	n.log.Info("monthly_summary",
		logger.String("month", s.Month.Format("2006-01")),
		logger.Int("wins", s.Wins),
		logger.Int("losses", s.Losses),
		logger.Float64("pnl", s.TotalPnL),
		logger.Float64("win_rate", s.WinRate),
	)
	return nil
}
