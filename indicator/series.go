// Package indicator provides pure transforms over an ordered price-bar
// sequence: pivot levels, moving averages, oscillators, and the two-candle
// checks the strategies vote with.
//
// Derived columns are memoized per Series keyed by indicator name and
// parameters, so repeated strategy evaluations in one cycle never recompute.
// A Series is read-only from the caller's perspective; strategies must not
// assume another strategy already populated a column.
package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"intrabot/types"
)

// Series wraps an immutable bar slice plus the indicator memo.
type Series struct {
	bars []types.PriceBar
	memo map[string][]float64
}

// NewSeries builds a Series over bars. The slice is not copied; callers hand
// over ownership and must not append to it afterwards.
func NewSeries(bars []types.PriceBar) *Series {
	return &Series{bars: bars, memo: make(map[string][]float64)}
}

func (s *Series) Len() int                 { return len(s.bars) }
func (s *Series) Bar(i int) types.PriceBar { return s.bars[i] }

// LastIndex resolves an evaluation index: negative selects the last bar.
func (s *Series) LastIndex(index int) int {
	if index < 0 {
		return len(s.bars) - 1
	}
	return index
}

// column memoizes one derived float64 column under key.
func (s *Series) column(key string, compute func() []float64) []float64 {
	if v, ok := s.memo[key]; ok {
		return v
	}
	v := compute()
	s.memo[key] = v
	return v
}

func (s *Series) Closes() []float64 {
	return s.column("close", func() []float64 {
		out := make([]float64, len(s.bars))
		for i, b := range s.bars {
			out[i] = b.Close
		}
		return out
	})
}

func (s *Series) Highs() []float64 {
	return s.column("high", func() []float64 {
		out := make([]float64, len(s.bars))
		for i, b := range s.bars {
			out[i] = b.High
		}
		return out
	})
}

func (s *Series) Lows() []float64 {
	return s.column("low", func() []float64 {
		out := make([]float64, len(s.bars))
		for i, b := range s.bars {
			out[i] = b.Low
		}
		return out
	})
}

func (s *Series) Volumes() []float64 {
	return s.column("volume", func() []float64 {
		out := make([]float64, len(s.bars))
		for i, b := range s.bars {
			out[i] = b.Volume
		}
		return out
	})
}

// EMA returns the exponential moving average column. Entries before the seed
// window are zero and must be treated as absent.
func (s *Series) EMA(period int) []float64 {
	return s.column(fmt.Sprintf("ema_%d", period), func() []float64 {
		if len(s.bars) < period {
			return make([]float64, len(s.bars))
		}
		return talib.Ema(s.Closes(), period)
	})
}

// RSI returns Wilder's relative strength index.
func (s *Series) RSI(period int) []float64 {
	return s.column(fmt.Sprintf("rsi_%d", period), func() []float64 {
		if len(s.bars) <= period {
			return make([]float64, len(s.bars))
		}
		return talib.Rsi(s.Closes(), period)
	})
}

// MACD returns the MACD line and its signal line (12/26/9).
func (s *Series) MACD() (macd, signal []float64) {
	const key = "macd_12_26_9"
	if v, ok := s.memo[key]; ok {
		return v, s.memo[key+"_signal"]
	}
	if len(s.bars) < 35 {
		z := make([]float64, len(s.bars))
		s.memo[key], s.memo[key+"_signal"] = z, z
		return z, z
	}
	m, sig, _ := talib.Macd(s.Closes(), 12, 26, 9)
	s.memo[key] = m
	s.memo[key+"_signal"] = sig
	return m, sig
}

// ATR returns the average true range column.
func (s *Series) ATR(period int) []float64 {
	return s.column(fmt.Sprintf("atr_%d", period), func() []float64 {
		if len(s.bars) <= period {
			return make([]float64, len(s.bars))
		}
		return talib.Atr(s.Highs(), s.Lows(), s.Closes(), period)
	})
}

// SMAOf returns a rolling mean of an already-derived column. The src key must
// name the column so the memo entry is stable.
func (s *Series) smaOf(srcKey string, src []float64, window int) []float64 {
	return s.column(fmt.Sprintf("sma_%d_of_%s", window, srcKey), func() []float64 {
		if len(src) < window {
			return make([]float64, len(src))
		}
		return talib.Sma(src, window)
	})
}

// VolumeSMA returns the rolling mean of volume.
func (s *Series) VolumeSMA(window int) []float64 {
	return s.smaOf("volume", s.Volumes(), window)
}

// Spread returns the high-low range per bar.
func (s *Series) Spread() []float64 {
	return s.column("spread", func() []float64 {
		out := make([]float64, len(s.bars))
		for i, b := range s.bars {
			out[i] = b.High - b.Low
		}
		return out
	})
}

// SpreadSMA returns the rolling mean of the high-low spread.
func (s *Series) SpreadSMA(window int) []float64 {
	return s.smaOf("spread", s.Spread(), window)
}

// ATRSMA returns the rolling mean of the ATR column.
func (s *Series) ATRSMA(period, window int) []float64 {
	return s.smaOf(fmt.Sprintf("atr_%d", period), s.ATR(period), window)
}

// Bollinger returns the upper band, lower band, band width and the rolling
// mean of the width (20-period, 2 standard deviations).
func (s *Series) Bollinger(period int, dev float64) (upper, lower, width, widthMA []float64) {
	key := fmt.Sprintf("bb_%d_%.1f", period, dev)
	if v, ok := s.memo[key+"_upper"]; ok {
		return v, s.memo[key+"_lower"], s.memo[key+"_width"], s.memo[key+"_width_ma"]
	}
	n := len(s.bars)
	if n < period {
		z := make([]float64, n)
		s.memo[key+"_upper"], s.memo[key+"_lower"] = z, z
		s.memo[key+"_width"], s.memo[key+"_width_ma"] = z, z
		return z, z, z, z
	}
	up, _, lo := talib.BBands(s.Closes(), period, dev, dev, talib.SMA)
	w := make([]float64, n)
	for i := range w {
		w[i] = up[i] - lo[i]
	}
	wma := make([]float64, n)
	if n >= period {
		wma = talib.Sma(w, period)
	}
	s.memo[key+"_upper"], s.memo[key+"_lower"] = up, lo
	s.memo[key+"_width"], s.memo[key+"_width_ma"] = w, wma
	return up, lo, w, wma
}

// SAR returns the parabolic stop-and-reverse column (0.02 step, 0.2 max).
func (s *Series) SAR() []float64 {
	return s.column("psar", func() []float64 {
		if len(s.bars) < 2 {
			return make([]float64, len(s.bars))
		}
		return talib.Sar(s.Highs(), s.Lows(), 0.02, 0.2)
	})
}

// VWAP returns the session volume-weighted average price. The cumulative sums
// reset whenever the bar's calendar date changes, so a multi-day series keeps
// each session's anchor independent.
func (s *Series) VWAP() []float64 {
	return s.column("vwap", func() []float64 {
		out := make([]float64, len(s.bars))
		var pvSum, volSum float64
		var curY, curD int
		for i, b := range s.bars {
			y, yd := b.Timestamp.Year(), b.Timestamp.YearDay()
			if i == 0 || y != curY || yd != curD {
				pvSum, volSum = 0, 0
				curY, curD = y, yd
			}
			typical := (b.High + b.Low + b.Close) / 3
			pvSum += typical * b.Volume
			volSum += b.Volume
			if volSum > 0 {
				out[i] = pvSum / volSum
			} else {
				out[i] = b.Close
			}
		}
		return out
	})
}
