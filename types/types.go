package types

import "time"

// Side is the direction of a trade intent. BUY maps to a long call, SELL to a
// long put (a synthetic short on the underlying).
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Decision is the output of a strategy evaluation.
type Decision string

const (
	DecisionBuy  Decision = "BUY"
	DecisionSell Decision = "SELL"
	DecisionHold Decision = "HOLD"
)

// Bias is the directional view for the day, set once during pre-market setup.
// Neutral halts trading for the day.
type Bias string

const (
	Bullish Bias = "Bullish"
	Bearish Bias = "Bearish"
	Neutral Bias = "Neutral"
)

// Decision maps a directional bias to the entry decision it would authorise.
func (b Bias) Decision() Decision {
	switch b {
	case Bullish:
		return DecisionBuy
	case Bearish:
		return DecisionSell
	}
	return DecisionHold
}

// Side maps a bias to the trade side it would open.
func (b Bias) Side() Side {
	if b == Bearish {
		return Sell
	}
	return Buy
}

// Vote is a single indicator's opinion, aggregated by the multi-vote strategy.
type Vote string

const (
	VoteBullish Vote = "Bullish"
	VoteBearish Vote = "Bearish"
	VoteNone    Vote = "None"
)

// PriceBar is one OHLCV bar. Sequences are strictly increasing in Timestamp
// with no duplicates.
type PriceBar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// TradeIntent is a fully sized, ready-to-place order request.
type TradeIntent struct {
	Direction  Side
	Symbol     string
	Quantity   int // positive, multiple of the instrument lot size
	EntryPrice float64
}

// ActiveTrade is the single open position. Owned exclusively by the position
// manager; at most one instance is live at any time.
type ActiveTrade struct {
	ID            string
	Symbol        string
	Quantity      int
	EntryPrice    float64
	Direction     Side
	InitialStop   float64
	TrailingStop  float64
	HighWaterMark float64
	Strategy      string
	OpenedAt      time.Time
}

// StatusClosed marks the terminal state of a completed trade.
const StatusClosed = "CLOSED"

// CompletedTrade is produced exactly once per exit.
type CompletedTrade struct {
	ActiveTrade
	ExitPrice  float64
	ProfitLoss float64
	ClosedAt   time.Time
	Status     string
	ExitReason string
}

// BacktestResult scores one candidate strategy over a replay window.
type BacktestResult struct {
	Strategy string
	WinRate  float64 // percent, 0..100
	Trades   int
}
