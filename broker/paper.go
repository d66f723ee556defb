package broker

import (
	"fmt"
	"sync"
	"time"

	"intrabot/types"
)

// PaperGateway is an in-memory Gateway with perfect fills and no slippage.
// It backs paper-trading mode and the test suite.
type PaperGateway struct {
	mu          sync.RWMutex
	capital     float64
	instruments []Instrument
	prices      map[string]float64          // "EXCHANGE:SYMBOL" -> LTP
	bars        map[string][]types.PriceBar // token/interval key -> bars
	orders      map[string]Order
	nextOrderID int
}

// NewPaperGateway creates a gateway with the supplied starting capital.
func NewPaperGateway(capital float64) *PaperGateway {
	return &PaperGateway{
		capital: capital,
		prices:  make(map[string]float64),
		bars:    make(map[string][]types.PriceBar),
		orders:  make(map[string]Order),
	}
}

// AddInstrument registers a tradeable contract.
func (p *PaperGateway) AddInstrument(in Instrument) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instruments = append(p.instruments, in)
}

// SetPrice sets the last traded price for an exchange:symbol pair.
func (p *PaperGateway) SetPrice(exchange, symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[exchange+":"+symbol] = price
}

// SetHistorical seeds the bar store for a token and interval.
func (p *PaperGateway) SetHistorical(token uint32, interval string, bars []types.PriceBar) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bars[barKey(token, interval)] = bars
}

func barKey(token uint32, interval string) string {
	return fmt.Sprintf("%d/%s", token, interval)
}

func (p *PaperGateway) Instrument(exchange, symbol string) (Instrument, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, in := range p.instruments {
		if in.Exchange == exchange && in.Symbol == symbol {
			return in, nil
		}
	}
	return Instrument{}, fmt.Errorf("%w: %s:%s", ErrNotFound, exchange, symbol)
}

func (p *PaperGateway) ResolveOption(name string, strike float64, optionType string, expiry time.Time) (Instrument, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, in := range p.instruments {
		if in.Name == name && in.Strike == strike && in.InstrumentType == optionType && sameDate(in.Expiry, expiry) {
			return in, nil
		}
	}
	return Instrument{}, fmt.Errorf("%w: %s %v%s %s", ErrNotFound, name, strike, optionType, expiry.Format("2006-01-02"))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (p *PaperGateway) LTP(exchange, symbol string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	price, ok := p.prices[exchange+":"+symbol]
	if !ok {
		return 0, fmt.Errorf("%w: no quote for %s:%s", ErrNotFound, exchange, symbol)
	}
	return price, nil
}

func (p *PaperGateway) Historical(token uint32, from, to time.Time, interval string) ([]types.PriceBar, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	all, ok := p.bars[barKey(token, interval)]
	if !ok {
		return nil, fmt.Errorf("%w: no bars for token %d interval %s", ErrNotFound, token, interval)
	}
	out := make([]types.PriceBar, 0, len(all))
	for _, b := range all {
		if !b.Timestamp.Before(from) && !b.Timestamp.After(to) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (p *PaperGateway) AvailableCapital() (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.capital, nil
}

// PlaceMarketOrder fills immediately at the current quote for the symbol.
func (p *PaperGateway) PlaceMarketOrder(symbol string, side types.Side, quantity int, product string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	price, ok := p.prices["NFO:"+symbol]
	if !ok {
		return "", fmt.Errorf("%w: no quote for NFO:%s", ErrNotFound, symbol)
	}
	p.nextOrderID++
	id := fmt.Sprintf("paper-%d", p.nextOrderID)
	p.orders[id] = Order{
		ID:       id,
		Symbol:   symbol,
		Side:     side,
		Quantity: quantity,
		AvgPrice: price,
		Status:   OrderStatusComplete,
	}
	return id, nil
}

func (p *PaperGateway) OrderStatus(orderID string) (Order, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	o, ok := p.orders[orderID]
	if !ok {
		return Order{}, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	return o, nil
}

// Orders returns every order placed so far, for assertions.
func (p *PaperGateway) Orders() []Order {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Order, 0, len(p.orders))
	for _, o := range p.orders {
		out = append(out, o)
	}
	return out
}
