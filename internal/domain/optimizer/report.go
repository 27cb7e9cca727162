package optimizer

import (
	"sort"

	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// Report is a result arranged for display: towns in request order with
// display names, decorations aggregated in catalog order.
type Report struct {
	Strategy     Strategy          `json:"strategy"`
	Towns        []TownReport      `json:"towns"`
	Unused       []DecorationTotal `json:"unused"`
	Unassignable []DecorationTotal `json:"unassignable,omitempty"`
}

// TownReport is one town's aggregated allocation.
type TownReport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	catalog.Hearts
	Decorations []DecorationTotal `json:"decorations"`
}

// NewReport builds a report for r. Towns whose totals are all zero are
// omitted. requested is used to compute the unused quantities.
func NewReport(c *catalog.Catalog, towns []string, r *Result, requested map[string]int) *Report {
	order := c.Names()

	rep := &Report{
		Strategy: r.Strategy,
		Towns:    []TownReport{},
		Unused:   orderedTotals(r.Unused(requested), order),
	}
	if len(r.Unassignable) > 0 {
		rep.Unassignable = orderedTotals(r.Unassignable, order)
	}

	for _, id := range towns {
		tr, ok := r.Towns[id]
		if !ok || tr.IsZero() {
			continue
		}
		rep.Towns = append(rep.Towns, TownReport{
			ID:          id,
			Name:        c.TownName(id),
			Hearts:      tr.Hearts,
			Decorations: tr.Summary(order),
		})
	}
	return rep
}

// orderedTotals lists the positive counts in m, names in order first and
// the rest alphabetically.
func orderedTotals(m map[string]int, order []string) []DecorationTotal {
	out := []DecorationTotal{}
	listed := make(map[string]bool, len(order))
	for _, name := range order {
		listed[name] = true
		if n := m[name]; n > 0 {
			out = append(out, DecorationTotal{Name: name, Quantity: n})
		}
	}

	var extra []string
	for name, n := range m {
		if !listed[name] && n > 0 {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		out = append(out, DecorationTotal{Name: name, Quantity: m[name]})
	}
	return out
}
