// Package config holds the single validated configuration structure for the
// bot. All recognised options live here; defaults are resolved centrally in
// Load so no call site ever falls back to its own magic value.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TrailingMode selects how the trailing stop advances.
type TrailingMode string

const (
	TrailingNone       TrailingMode = "NONE"
	TrailingPercentage TrailingMode = "PERCENTAGE"
)

// IndicatorExitType selects the optional indicator-based exit signal.
type IndicatorExitType string

const (
	IndicatorExitNone IndicatorExitType = "NONE"
	IndicatorExitMA   IndicatorExitType = "MA"
	IndicatorExitPSAR IndicatorExitType = "PSAR"
)

// TrailingStop groups every exit-management knob for an open position.
type TrailingStop struct {
	Type              TrailingMode      `yaml:"type"`
	Percentage        float64           `yaml:"percentage"`
	UseIndicatorExit  bool              `yaml:"use_indicator_exit"`
	IndicatorExitType IndicatorExitType `yaml:"indicator_exit_type"`
	MAPeriod          int               `yaml:"ma_period"`
}

// Config is the complete runtime configuration.
type Config struct {
	RiskPerTradePercent  float64 `yaml:"risk_per_trade_percent"`
	StopLossPercent      float64 `yaml:"stop_loss_percent"`
	MinStopLossPoints    float64 `yaml:"min_stop_loss_points"`
	RiskRewardRatio      float64 `yaml:"risk_reward_ratio"`
	MaxTradesPerDay      int     `yaml:"max_trades_per_day"`
	MaxVIXLevel          float64 `yaml:"max_vix_level"`
	ChartTimeframe       string  `yaml:"chart_timeframe"`
	UnderlyingInstrument string  `yaml:"underlying_instrument"`
	ORBMinutes           int     `yaml:"orb_minutes"`
	WinRateThreshold     float64 `yaml:"win_rate_threshold"` // percent
	BacktestYears        int     `yaml:"backtest_years"`

	TrailingStop TrailingStop `yaml:"trailing_stop"`

	// Derivative contract parameters for sizing.
	StrikeStep    float64 `yaml:"strike_step"`
	ExpiryWeekday int     `yaml:"expiry_weekday"` // time.Weekday numbering, Thursday = 4
	ProductType   string  `yaml:"product_type"`

	// Operational flags.
	RunStartupBacktest bool   `yaml:"run_startup_backtest"`
	PaperTrading       bool   `yaml:"paper_trading"`
	MetricsAddr        string `yaml:"metrics_addr"`
	TradeLogPath       string `yaml:"trade_log_path"`

	// Session boundaries, wall-clock "HH:MM".
	SessionOpen  string `yaml:"session_open"`
	WarmupUntil  string `yaml:"warmup_until"`
	SessionClose string `yaml:"session_close"`
}

// Default returns the configuration with every default resolved.
func Default() Config {
	return Config{
		RiskPerTradePercent:  2,
		StopLossPercent:      10,
		MinStopLossPoints:    2,
		RiskRewardRatio:      2,
		MaxTradesPerDay:      3,
		MaxVIXLevel:          25,
		ChartTimeframe:       "5minute",
		UnderlyingInstrument: "NIFTY 50",
		ORBMinutes:           30,
		WinRateThreshold:     50,
		BacktestYears:        1,
		TrailingStop: TrailingStop{
			Type:              TrailingPercentage,
			Percentage:        15,
			IndicatorExitType: IndicatorExitNone,
			MAPeriod:          20,
		},
		StrikeStep:         50,
		ExpiryWeekday:      int(time.Thursday),
		ProductType:        "MIS",
		RunStartupBacktest: true,
		PaperTrading:       true,
		MetricsAddr:        ":9480",
		TradeLogPath:       "output/trade_log.csv",
		SessionOpen:        "09:15",
		WarmupUntil:        "09:45",
		SessionClose:       "15:30",
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that all numeric fields are within sensible bounds. It
// returns the first encountered error so a configuration problem surfaces
// before any trading starts.
func (c *Config) Validate() error {
	if c.RiskPerTradePercent <= 0 || c.RiskPerTradePercent > 50 {
		return fmt.Errorf("risk_per_trade_percent (%v) must be >0 and <=50", c.RiskPerTradePercent)
	}
	if c.StopLossPercent <= 0 || c.StopLossPercent > 50 {
		return fmt.Errorf("stop_loss_percent (%v) must be >0 and <=50", c.StopLossPercent)
	}
	if c.MinStopLossPoints < 0 {
		return errors.New("min_stop_loss_points cannot be negative")
	}
	if c.MaxTradesPerDay <= 0 {
		return errors.New("max_trades_per_day must be positive")
	}
	if c.ORBMinutes <= 0 {
		return errors.New("orb_minutes must be positive")
	}
	if c.WinRateThreshold < 0 || c.WinRateThreshold > 100 {
		return fmt.Errorf("win_rate_threshold (%v) must be between 0 and 100", c.WinRateThreshold)
	}
	if c.BacktestYears <= 0 {
		return errors.New("backtest_years must be positive")
	}
	if c.StrikeStep <= 0 {
		return errors.New("strike_step must be positive")
	}
	if c.ExpiryWeekday < 0 || c.ExpiryWeekday > 6 {
		return fmt.Errorf("expiry_weekday (%d) must be 0..6", c.ExpiryWeekday)
	}
	if c.UnderlyingInstrument == "" {
		return errors.New("underlying_instrument is required")
	}
	switch c.TrailingStop.Type {
	case TrailingNone, TrailingPercentage:
	default:
		return fmt.Errorf("trailing_stop.type %q unknown", c.TrailingStop.Type)
	}
	if c.TrailingStop.Type == TrailingPercentage &&
		(c.TrailingStop.Percentage <= 0 || c.TrailingStop.Percentage >= 100) {
		return fmt.Errorf("trailing_stop.percentage (%v) must be >0 and <100", c.TrailingStop.Percentage)
	}
	switch c.TrailingStop.IndicatorExitType {
	case IndicatorExitNone, IndicatorExitMA, IndicatorExitPSAR:
	default:
		return fmt.Errorf("trailing_stop.indicator_exit_type %q unknown", c.TrailingStop.IndicatorExitType)
	}
	if c.TrailingStop.UseIndicatorExit && c.TrailingStop.IndicatorExitType == IndicatorExitMA && c.TrailingStop.MAPeriod <= 0 {
		return errors.New("trailing_stop.ma_period must be positive for MA exits")
	}
	for _, tm := range []string{c.SessionOpen, c.WarmupUntil, c.SessionClose} {
		if _, err := ParseClock(tm); err != nil {
			return err
		}
	}
	return nil
}

// ParseClock parses an "HH:MM" wall-clock string into minutes after midnight.
func ParseClock(s string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("bad clock value %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad clock value %q", s)
	}
	return h*60 + m, nil
}
