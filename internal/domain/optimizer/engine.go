// Package optimizer assigns decorations to towns.
//
// Every town accumulates green, blue and red hearts and may hold at most
// Capacity of each. Two greedy strategies are provided:
//
//	maximum:  towns in request order; each town takes the candidates that
//	          best balance its current totals until nothing more fits, then
//	          may receive a topper (Meadow, Snowflake) near capacity.
//	balanced: each decoration is dealt round-robin across all towns with a
//	          cursor shared between decorations.
//
// With ValhallaOnly set, Valhalla decorations may only go to Evergarden and
// Evergarden accepts nothing else.
//
// The engine is deterministic and holds no state between runs. It is a
// heuristic: it does not search for the best possible assignment.
package optimizer

import (
	"fmt"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// Options tunes engine behavior.
type Options struct {
	// TopperRespectsCap applies the capacity check to toppers as well.
	// When false a topper may push a channel up to one item past Capacity.
	TopperRespectsCap bool
}

// Engine runs allocation strategies against a catalog.
type Engine struct {
	catalog *catalog.Catalog
	opts    Options
}

// New creates an engine.
func New(c *catalog.Catalog, opts Options) *Engine {
	return &Engine{catalog: c, opts: opts}
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Optimize runs the requested strategy on a private copy of the request
// quantities. Names not in the catalog are carried through Remaining
// untouched and never assigned.
func (e *Engine) Optimize(req Request) (*Result, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = StrategyMaximum
	}

	pool := NewPool(req.Quantities)

	switch strategy {
	case StrategyMaximum:
		return e.Maximum(req.Towns, pool, req.ValhallaOnly), nil
	case StrategyBalanced:
		return e.Balanced(req.Towns, pool, req.ValhallaOnly), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// allowed applies category gating. Without valhallaOnly everything goes
// everywhere; with it, Valhalla decorations belong to Evergarden exclusively.
func allowed(town string, d catalog.Decoration, valhallaOnly bool) bool {
	if !valhallaOnly {
		return true
	}
	return (town == Evergarden) == d.IsValhalla()
}
