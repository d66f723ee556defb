package indicator

import "fmt"

// Supertrend returns the trend direction column for the given ATR period and
// band multiplier: +1 in an uptrend, -1 in a downtrend, 0 during warm-up.
func (s *Series) Supertrend(period int, multiplier float64) []float64 {
	key := fmt.Sprintf("supertrend_dir_%d_%.1f", period, multiplier)
	return s.column(key, func() []float64 {
		n := len(s.bars)
		dir := make([]float64, n)
		if n <= period {
			return dir
		}
		atr := s.ATR(period)
		upper := make([]float64, n)
		lower := make([]float64, n)
		for i := period; i < n; i++ {
			mid := (s.bars[i].High + s.bars[i].Low) / 2
			basicUpper := mid + multiplier*atr[i]
			basicLower := mid - multiplier*atr[i]

			// Final bands only loosen when price closes through them.
			if i == period {
				upper[i], lower[i] = basicUpper, basicLower
				dir[i] = 1
				if s.bars[i].Close < lower[i] {
					dir[i] = -1
				}
				continue
			}
			if basicUpper < upper[i-1] || s.bars[i-1].Close > upper[i-1] {
				upper[i] = basicUpper
			} else {
				upper[i] = upper[i-1]
			}
			if basicLower > lower[i-1] || s.bars[i-1].Close < lower[i-1] {
				lower[i] = basicLower
			} else {
				lower[i] = lower[i-1]
			}

			switch {
			case dir[i-1] >= 0 && s.bars[i].Close < lower[i]:
				dir[i] = -1
			case dir[i-1] < 0 && s.bars[i].Close > upper[i]:
				dir[i] = 1
			default:
				dir[i] = dir[i-1]
			}
		}
		return dir
	})
}
