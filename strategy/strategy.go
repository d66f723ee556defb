// Package strategy contains the fixed set of rule-based trading strategies
// and the name registry the selector draws from. Every strategy maps a bar
// series plus the day's directional bias to a BUY/SELL/HOLD decision and
// holds no mutable state, except the opening-range strategy which scopes its
// computed range to one trading session.
package strategy

import (
	"errors"
	"fmt"
	"sort"

	"intrabot/config"
	"intrabot/indicator"
	"intrabot/logger"
	"intrabot/types"
)

// DefaultName is the strategy backtested against every recommendation and
// the fallback when an advisor returns an unknown name.
const DefaultName = "default"

// ErrNotFound is returned by Registry.Get for unknown strategy names.
var ErrNotFound = errors.New("strategy not found")

// Strategy evaluates one bar of a series. A negative index selects the last
// bar. Implementations only read the series and pivot levels; they return
// HOLD when the bias does not match the side they would signal or when the
// series is shorter than their minimum lookback.
type Strategy interface {
	Name() string
	Evaluate(s *indicator.Series, bias types.Bias, piv indicator.PivotLevels, index int) types.Decision
}

// Registry is the explicit name-to-instance mapping built at startup.
type Registry struct {
	m map[string]Strategy
}

// NewRegistry constructs every known strategy.
func NewRegistry(cfg config.Config, log logger.Logger) *Registry {
	r := &Registry{m: make(map[string]Strategy)}
	for _, st := range []Strategy{
		NewMultiVote(log),
		NewSupertrendMACD(log),
		NewVolatilityReversal(log),
		NewVolumeSpread(log),
		NewMomentumVWAPRSI(log),
		NewPrevDayBreakout(log),
		NewOpeningRangeBreakout(cfg, log),
		NewBBSqueeze(log),
		NewMACrossover(log),
		NewRSIDivergence(log),
		NewEMACrossRSI(log),
	} {
		r.m[st.Name()] = st
	}
	return r
}

// Get looks a strategy up by name.
func (r *Registry) Get(name string) (Strategy, error) {
	st, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return st, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.m[name]
	return ok
}

// Names returns every registered name, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.m))
	for name := range r.m {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// biasVote converts a bias to the vote value it must match.
func biasVote(b types.Bias) types.Vote {
	switch b {
	case types.Bullish:
		return types.VoteBullish
	case types.Bearish:
		return types.VoteBearish
	}
	return types.VoteNone
}
