package optimizer

import (
	"slices"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// Balanced deals each decoration one unit at a time across the towns with a
// single rotating cursor that carries over from one decoration to the next.
//
// With valhallaOnly, Valhalla decorations first go to Evergarden alone (if it
// is among the towns) until one no longer fits; whatever is left of them
// stays in the pool. Evergarden is then skipped while the rest is dealt.
//
// A decoration is abandoned once every town has been tried since its last
// successful placement; the remainder stays in the pool and is reported in
// Result.Unassignable.
func (e *Engine) Balanced(towns []string, pool Pool, valhallaOnly bool) *Result {
	result := newResult(StrategyBalanced, towns, pool)

	var valhalla, others []catalog.Decoration
	for _, d := range e.catalog.All() {
		if d.IsValhalla() {
			valhalla = append(valhalla, d)
			continue
		}
		if pool[d.Name] > 0 {
			others = append(others, d)
		}
	}

	if valhallaOnly && slices.Contains(towns, Evergarden) {
		tr := result.Towns[Evergarden]
		for _, d := range valhalla {
			for pool[d.Name] > 0 && tr.Add(d.Hearts).Within(Capacity) {
				tr.place(d, pool)
			}
		}
	}

	queue := others
	if !valhallaOnly {
		queue = append(slices.Clip(valhalla), others...)
	}

	if len(towns) == 0 {
		return result
	}

	cursor := 0
	for _, d := range queue {
		misses := 0
		for pool[d.Name] > 0 {
			if misses >= len(towns) {
				result.Unassignable[d.Name] += pool[d.Name]
				break
			}

			town := towns[cursor]
			cursor = (cursor + 1) % len(towns)

			tr := result.Towns[town]
			if (valhallaOnly && town == Evergarden) || !tr.Add(d.Hearts).Within(Capacity) {
				misses++
				continue
			}

			tr.place(d, pool)
			misses = 0
		}
	}

	return result
}
