package testutils

import (
	"time"

	"intrabot/types"
)

// SessionOpen is the reference session start used by the builders.
var SessionOpen = time.Date(2025, time.March, 3, 9, 15, 0, 0, time.UTC)

// Bars builds one bar per close, spaced by interval starting at start. Each
// bar opens at the previous close, with high/low one point either side and a
// flat volume of 1000.
func Bars(start time.Time, interval time.Duration, closes ...float64) []types.PriceBar {
	out := make([]types.PriceBar, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		hi, lo := c, c
		if open > hi {
			hi = open
		}
		if open < lo {
			lo = open
		}
		out[i] = types.PriceBar{
			Timestamp: start.Add(time.Duration(i) * interval),
			Open:      open,
			High:      hi + 1,
			Low:       lo - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

// IntradayBars is Bars with a five-minute spacing from SessionOpen.
func IntradayBars(closes ...float64) []types.PriceBar {
	return Bars(SessionOpen, 5*time.Minute, closes...)
}

// Ramp returns n closes walking from start in equal steps.
func Ramp(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// Flat returns n identical closes.
func Flat(value float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = value
	}
	return out
}

// WithVolume sets one bar's volume in place and returns the slice for
// chaining.
func WithVolume(bars []types.PriceBar, index int, volume float64) []types.PriceBar {
	bars[index].Volume = volume
	return bars
}
