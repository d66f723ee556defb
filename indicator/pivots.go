package indicator

// PivotLevels is the central pivot range plus the standard floor pivots,
// derived once per session from the prior completed session's OHLC.
// Invariant: TC >= BC after the swap rule.
type PivotLevels struct {
	Pivot float64
	BC    float64
	TC    float64
	R1    float64
	R2    float64
	R3    float64
	S1    float64
	S2    float64
	S3    float64

	PrevHigh float64
	PrevLow  float64

	valid bool
}

// Valid reports whether the levels were actually derived.
func (p PivotLevels) Valid() bool { return p.valid }

// CPR computes the central pivot range and floor pivots from the prior
// session's high, low and close. If the raw formula inverts TC below BC the
// two are swapped.
func CPR(high, low, close float64) PivotLevels {
	pivot := (high + low + close) / 3
	bc := (high + low) / 2
	tc := (pivot - bc) + pivot

	p := PivotLevels{
		Pivot:    pivot,
		BC:       bc,
		TC:       tc,
		R1:       2*pivot - low,
		S1:       2*pivot - high,
		R2:       pivot + (high - low),
		S2:       pivot - (high - low),
		R3:       high + 2*(pivot-low),
		S3:       low - 2*(high-pivot),
		PrevHigh: high,
		PrevLow:  low,
		valid:    true,
	}
	if p.TC < p.BC {
		p.TC, p.BC = p.BC, p.TC
	}
	return p
}
