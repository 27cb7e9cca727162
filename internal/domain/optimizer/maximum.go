package optimizer

import (
	"sort"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// topper is a near-capacity rule: when channel lands in [low, high] and the
// named decoration is still available, one unit is added.
type topper struct {
	name    string
	channel func(catalog.Hearts) int
	low     int
	high    int
}

// Rules are evaluated in order against the totals left by the previous rule,
// so a town can take two Meadows (green, then red).
var toppers = []topper{
	{name: Meadow, channel: func(h catalog.Hearts) int { return h.Green }, low: 997, high: 999},
	{name: Meadow, channel: func(h catalog.Hearts) int { return h.Red }, low: 997, high: 999},
	{name: Snowflake, channel: func(h catalog.Hearts) int { return h.Blue }, low: 996, high: 999},
}

// Maximum visits towns in order and saturates each before moving on. Towns
// are never revisited, so earlier towns have priority on the pool.
//
// pool is consumed in place and becomes Result.Remaining.
func (e *Engine) Maximum(towns []string, pool Pool, valhallaOnly bool) *Result {
	result := newResult(StrategyMaximum, towns, pool)

	for _, town := range towns {
		tr := result.Towns[town]

		// The ranking is fixed for the whole town; it is not recomputed as
		// units are added.
		for _, d := range e.rank(tr.Hearts, town, pool, valhallaOnly) {
			for pool[d.Name] > 0 && tr.Add(d.Hearts).Within(Capacity) {
				tr.place(d, pool)
			}
		}

		e.top(town, tr, pool, valhallaOnly)
	}

	return result
}

// rank orders the town's candidates by the imbalance they would leave when
// added to current. Equal scores keep catalog order.
func (e *Engine) rank(current catalog.Hearts, town string, pool Pool, valhallaOnly bool) []catalog.Decoration {
	type scored struct {
		decoration catalog.Decoration
		score      int
	}

	var candidates []scored
	for _, d := range e.catalog.All() {
		if pool[d.Name] <= 0 || !allowed(town, d, valhallaOnly) {
			continue
		}
		candidates = append(candidates, scored{
			decoration: d,
			score:      current.Add(d.Hearts).Imbalance(),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	ranked := make([]catalog.Decoration, len(candidates))
	for i, c := range candidates {
		ranked[i] = c.decoration
	}
	return ranked
}

// top applies the topper rules to a town after ordinary assignment.
func (e *Engine) top(town string, tr *TownResult, pool Pool, valhallaOnly bool) {
	for _, rule := range toppers {
		d, ok := e.catalog.Lookup(rule.name)
		if !ok || pool[d.Name] <= 0 || !allowed(town, d, valhallaOnly) {
			continue
		}
		if v := rule.channel(tr.Hearts); v < rule.low || v > rule.high {
			continue
		}
		if e.opts.TopperRespectsCap && !tr.Add(d.Hearts).Within(Capacity) {
			continue
		}
		tr.place(d, pool)
	}
}
