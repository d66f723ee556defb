// Package broker defines the narrow interface through which the core talks to
// a brokerage. The core never performs I/O itself; every external call goes
// through a Gateway and a failed call degrades to a skipped cycle.
package broker

import (
	"errors"
	"time"

	"intrabot/types"
)

// ErrNotFound is returned when an instrument, quote, or order cannot be
// resolved.
var ErrNotFound = errors.New("broker: not found")

// Instrument describes one tradeable contract.
type Instrument struct {
	Token          uint32
	Symbol         string
	Exchange       string
	Name           string // underlying name, e.g. "NIFTY"
	Strike         float64
	InstrumentType string // "CE", "PE", or "" for cash instruments
	Expiry         time.Time
	LotSize        int
}

// Order is the broker-side view of a placed order.
type Order struct {
	ID       string
	Symbol   string
	Side     types.Side
	Quantity int
	AvgPrice float64
	Status   string
}

// OrderStatusComplete is the terminal fill status reported by OrderStatus.
const OrderStatusComplete = "COMPLETE"

// Gateway is the full surface the bot consumes from a brokerage.
type Gateway interface {
	// Instrument resolves a cash instrument by exchange and trading symbol.
	Instrument(exchange, symbol string) (Instrument, error)
	// ResolveOption finds the option contract for an underlying name,
	// strike, option type and expiry date.
	ResolveOption(name string, strike float64, optionType string, expiry time.Time) (Instrument, error)
	// LTP returns the last traded price for a symbol on an exchange.
	LTP(exchange, symbol string) (float64, error)
	// Historical returns bars for a token over [from, to] at the given
	// interval ("day", "5minute", ...).
	Historical(token uint32, from, to time.Time, interval string) ([]types.PriceBar, error)
	// AvailableCapital returns the free margin usable for new trades.
	AvailableCapital() (float64, error)
	// PlaceMarketOrder submits a market order and returns its identifier.
	PlaceMarketOrder(symbol string, side types.Side, quantity int, product string) (string, error)
	// OrderStatus reports the current status and fill price of an order.
	OrderStatus(orderID string) (Order, error)
}
