package optimizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// Capacity is the per-channel limit for every town.
const Capacity = 1000

// Evergarden is the town reserved for Valhalla decorations when
// ValhallaOnly is set.
const Evergarden = "evergarden"

// Topper decoration names.
const (
	Meadow    = "Meadow"
	Snowflake = "Snowflake"
)

// ErrUnknownStrategy is returned for a strategy tag other than maximum or balanced.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Strategy selects the allocation algorithm.
type Strategy string

const (
	// StrategyMaximum fills each town near capacity before the next.
	StrategyMaximum Strategy = "maximum"
	// StrategyBalanced spreads each decoration round-robin over all towns.
	StrategyBalanced Strategy = "balanced"
)

// ParseStrategy parses a strategy tag, case-insensitively.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyMaximum:
		return StrategyMaximum, nil
	case StrategyBalanced:
		return StrategyBalanced, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
	}
}

// Request is one allocation request.
type Request struct {
	Towns        []string       // Processing order matters for StrategyMaximum
	Quantities   map[string]int // Requested units per decoration name; missing = 0
	ValhallaOnly bool
	Strategy     Strategy // Empty means StrategyMaximum
}

// Assignment is a single assignment event. Quantity is always 1 as produced
// by the engine; callers aggregate with TownResult.Summary.
type Assignment struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TownResult is a town's running channel totals and its assignment events in
// assignment order.
type TownResult struct {
	catalog.Hearts
	Decorations []Assignment `json:"decorations"`
}

// place records one unit of d in the town and takes it from the pool.
func (t *TownResult) place(d catalog.Decoration, pool Pool) {
	t.Hearts = t.Add(d.Hearts)
	t.Decorations = append(t.Decorations, Assignment{Name: d.Name, Quantity: 1})
	pool[d.Name]--
}

// DecorationTotal is an aggregated count of one decoration in a town.
type DecorationTotal struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Summary aggregates the town's events per decoration. Names listed in order
// come first in that order; any others follow in first-seen order.
func (t *TownResult) Summary(order []string) []DecorationTotal {
	counts := make(map[string]int)
	var seen []string
	for _, a := range t.Decorations {
		if _, ok := counts[a.Name]; !ok {
			seen = append(seen, a.Name)
		}
		counts[a.Name] += a.Quantity
	}

	out := make([]DecorationTotal, 0, len(counts))
	for _, name := range order {
		if n, ok := counts[name]; ok {
			out = append(out, DecorationTotal{Name: name, Quantity: n})
			delete(counts, name)
		}
	}
	for _, name := range seen {
		if n, ok := counts[name]; ok {
			out = append(out, DecorationTotal{Name: name, Quantity: n})
		}
	}
	return out
}

// Result is the outcome of one allocation run.
type Result struct {
	Strategy Strategy               `json:"strategy"`
	Towns    map[string]*TownResult `json:"towns"`

	// Remaining is the pool after allocation; it includes the Unassignable
	// units.
	Remaining Pool `json:"remaining"`

	// Unassignable holds units the balanced strategy abandoned after a full
	// rotation in which no town could accept them.
	Unassignable map[string]int `json:"unassignable,omitempty"`
}

func newResult(strategy Strategy, towns []string, pool Pool) *Result {
	r := &Result{
		Strategy:     strategy,
		Towns:        make(map[string]*TownResult, len(towns)),
		Remaining:    pool,
		Unassignable: make(map[string]int),
	}
	for _, town := range towns {
		r.Towns[town] = &TownResult{Decorations: []Assignment{}}
	}
	return r
}

// Assigned returns the number of units placed per decoration across all towns.
func (r *Result) Assigned() map[string]int {
	assigned := make(map[string]int)
	for _, tr := range r.Towns {
		for _, a := range tr.Decorations {
			assigned[a.Name] += a.Quantity
		}
	}
	return assigned
}

// Unused returns requested minus assigned for every decoration with a
// positive difference.
func (r *Result) Unused(requested map[string]int) map[string]int {
	assigned := r.Assigned()
	unused := make(map[string]int)
	for name, qty := range requested {
		if left := qty - assigned[name]; left > 0 {
			unused[name] = left
		}
	}
	return unused
}
