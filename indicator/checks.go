package indicator

import "intrabot/types"

// DefaultRSIPeriod is the oscillator period used by the vote checks.
const DefaultRSIPeriod = 14

// DivergenceLookback is the window the divergence check compares against.
const DivergenceLookback = 30

// EMACrossoverVote reports Bullish when the close sits above the EMA for the
// current and previous bar (sustained above), Bearish for the mirror case.
func (s *Series) EMACrossoverVote(index, period int) types.Vote {
	index = s.LastIndex(index)
	// EMA needs a full seed window before values are meaningful.
	if index < period {
		return types.VoteNone
	}
	ema := s.EMA(period)
	price, lastPrice := s.bars[index].Close, s.bars[index-1].Close
	if price > ema[index] && lastPrice > ema[index-1] {
		return types.VoteBullish
	}
	if price < ema[index] && lastPrice < ema[index-1] {
		return types.VoteBearish
	}
	return types.VoteNone
}

// CPRBreakoutVote reports Bullish when the current and previous close both
// exceed the top of the central pivot range, Bearish when both sit below the
// bottom.
func (s *Series) CPRBreakoutVote(index int, piv PivotLevels) types.Vote {
	index = s.LastIndex(index)
	if !piv.Valid() || index < 1 {
		return types.VoteNone
	}
	price, lastPrice := s.bars[index].Close, s.bars[index-1].Close
	if price > piv.TC && lastPrice > piv.TC {
		return types.VoteBullish
	}
	if price < piv.BC && lastPrice < piv.BC {
		return types.VoteBearish
	}
	return types.VoteNone
}

// DivergenceVote compares the last bar's extreme against the preceding
// lookback window: Bullish when price makes a new low while the RSI holds
// above its own trailing minimum, Bearish on the mirror for highs. It
// requires at least two usable oscillator values.
func (s *Series) DivergenceVote(index int) types.Vote {
	index = s.LastIndex(index)
	if index < 1 {
		return types.VoteNone
	}
	rsi := s.RSI(DefaultRSIPeriod)

	start := index - DivergenceLookback + 1
	if start < 0 {
		start = 0
	}

	// RSI values inside the seed window are absent; collect only usable ones.
	var trailingRSIMin, trailingRSIMax float64
	usable := 0
	for i := start; i < index; i++ {
		if i <= DefaultRSIPeriod {
			continue
		}
		if usable == 0 {
			trailingRSIMin, trailingRSIMax = rsi[i], rsi[i]
		} else {
			if rsi[i] < trailingRSIMin {
				trailingRSIMin = rsi[i]
			}
			if rsi[i] > trailingRSIMax {
				trailingRSIMax = rsi[i]
			}
		}
		usable++
	}
	if usable < 1 || index <= DefaultRSIPeriod {
		return types.VoteNone
	}

	trailingLow, trailingHigh := s.bars[start].Low, s.bars[start].High
	for i := start; i < index; i++ {
		if s.bars[i].Low < trailingLow {
			trailingLow = s.bars[i].Low
		}
		if s.bars[i].High > trailingHigh {
			trailingHigh = s.bars[i].High
		}
	}

	last := s.bars[index]
	if last.Low < trailingLow && rsi[index] > trailingRSIMin {
		return types.VoteBullish
	}
	if last.High > trailingHigh && rsi[index] < trailingRSIMax {
		return types.VoteBearish
	}
	return types.VoteNone
}
