// Package risk turns a directional decision into a sized option trade:
// strike selection, weekly expiry resolution, and lot-multiple quantity.
package risk

import (
	"errors"
	"fmt"
	"math"
	"time"

	"intrabot/broker"
	"intrabot/config"
	"intrabot/logger"
	"intrabot/types"
)

// ErrNoTrade is returned when sizing cannot produce a valid trade (missing
// instrument, zero option price). The cycle continues without a trade.
var ErrNoTrade = errors.New("no trade")

// OptionTypeCall and OptionTypePut are the contract type codes.
const (
	OptionTypeCall = "CE"
	OptionTypePut  = "PE"
)

// ATMStrike rounds a reference price to the nearest strike increment.
func ATMStrike(price, step float64) float64 {
	return math.Round(price/step) * step
}

// OTMStrike moves one increment out-of-the-money in the direction's favour.
func OTMStrike(atm float64, direction types.Side, step float64) float64 {
	if direction == types.Buy {
		return atm + step
	}
	return atm - step
}

// OptionType returns the call-equivalent for BUY and the put-equivalent for
// SELL.
func OptionType(direction types.Side) string {
	if direction == types.Buy {
		return OptionTypeCall
	}
	return OptionTypePut
}

// NextWeeklyExpiry returns the next occurrence of the expiry weekday. On the
// expiry weekday itself it returns the same day (zero days ahead), not the
// following week.
func NextWeeklyExpiry(today time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(today.Weekday()) + 7) % 7
	return today.AddDate(0, 0, days)
}

// Quantity sizes a trade: risk amount divided by the cost of one lot, floored
// to whole lots with a minimum of one, expressed in units.
func Quantity(capital, riskPerTradePercent, optionPrice float64, lotSize int) int {
	if optionPrice <= 0 || lotSize <= 0 {
		return 0
	}
	riskAmount := capital * riskPerTradePercent / 100
	lots := int(riskAmount / (optionPrice * float64(lotSize)))
	if lots < 1 {
		lots = 1
	}
	return lots * lotSize
}

// Sizer resolves the concrete option contract and quantity for a decision.
type Sizer struct {
	GW  broker.Gateway
	Cfg config.Config
	Log logger.Logger
}

func NewSizer(gw broker.Gateway, cfg config.Config, log logger.Logger) *Sizer {
	return &Sizer{GW: gw, Cfg: cfg, Log: log}
}

// underlyingName strips the index suffix, "NIFTY 50" -> "NIFTY".
func underlyingName(instrument string) string {
	for i, r := range instrument {
		if r == ' ' {
			return instrument[:i]
		}
	}
	return instrument
}

// Size picks the one-step OTM weekly option for the direction and returns a
// sized intent. Failures wrap ErrNoTrade.
func (sz *Sizer) Size(direction types.Side, now time.Time) (types.TradeIntent, error) {
	ltp, err := sz.GW.LTP("NSE", sz.Cfg.UnderlyingInstrument)
	if err != nil {
		return types.TradeIntent{}, fmt.Errorf("%w: underlying quote: %v", ErrNoTrade, err)
	}

	atm := ATMStrike(ltp, sz.Cfg.StrikeStep)
	strike := OTMStrike(atm, direction, sz.Cfg.StrikeStep)
	optType := OptionType(direction)
	expiry := NextWeeklyExpiry(now, time.Weekday(sz.Cfg.ExpiryWeekday))

	contract, err := sz.GW.ResolveOption(underlyingName(sz.Cfg.UnderlyingInstrument), strike, optType, expiry)
	if err != nil {
		return types.TradeIntent{}, fmt.Errorf("%w: resolve %v%s %s: %v",
			ErrNoTrade, strike, optType, expiry.Format("2006-01-02"), err)
	}

	optionPrice, err := sz.GW.LTP("NFO", contract.Symbol)
	if err != nil {
		return types.TradeIntent{}, fmt.Errorf("%w: option quote: %v", ErrNoTrade, err)
	}
	if optionPrice <= 0 {
		return types.TradeIntent{}, fmt.Errorf("%w: option price is zero for %s", ErrNoTrade, contract.Symbol)
	}

	capital, err := sz.GW.AvailableCapital()
	if err != nil {
		return types.TradeIntent{}, fmt.Errorf("%w: margins: %v", ErrNoTrade, err)
	}

	qty := Quantity(capital, sz.Cfg.RiskPerTradePercent, optionPrice, contract.LotSize)
	if qty <= 0 {
		return types.TradeIntent{}, fmt.Errorf("%w: zero quantity for %s", ErrNoTrade, contract.Symbol)
	}

	sz.Log.Info("trade_sized",
		logger.String("symbol", contract.Symbol),
		logger.String("direction", string(direction)),
		logger.Int("quantity", qty),
		logger.Float64("option_price", optionPrice),
	)
	return types.TradeIntent{
		Direction:  direction,
		Symbol:     contract.Symbol,
		Quantity:   qty,
		EntryPrice: optionPrice,
	}, nil
}
