package catalog

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// MatchKind describes how an input name was resolved.
type MatchKind string

const (
	MatchExact     MatchKind = "exact"
	MatchFolded    MatchKind = "folded"
	MatchFuzzy     MatchKind = "fuzzy"
	MatchNone      MatchKind = "none"
	MatchAmbiguous MatchKind = "ambiguous"
)

// Resolution is the outcome of resolving a user-supplied decoration name.
type Resolution struct {
	Input    string
	Name     string // Catalog name, empty unless Kind is exact, folded or fuzzy
	Kind     MatchKind
	Distance int
}

// Resolved reports whether the input mapped to exactly one decoration.
func (r Resolution) Resolved() bool {
	return r.Name != ""
}

// Resolve maps free-form input (spreadsheet cells, pasted lists) to a catalog
// name. It tries an exact match, then a case and punctuation folded match,
// then the closest name by edit distance within a length-scaled limit.
func (c *Catalog) Resolve(input string) Resolution {
	res := Resolution{Input: input, Kind: MatchNone}

	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return res
	}
	if _, ok := c.byName[trimmed]; ok {
		res.Name, res.Kind = trimmed, MatchExact
		return res
	}

	folded := fold(trimmed)
	for _, d := range c.decorations {
		if fold(d.Name) == folded {
			res.Name, res.Kind = d.Name, MatchFolded
			return res
		}
	}

	type scored struct {
		name string
		dist int
	}
	var candidates []scored
	for _, d := range c.decorations {
		target := fold(d.Name)
		dist := levenshtein.ComputeDistance(folded, target)
		if dist > distanceLimit(len(target)) {
			continue
		}
		candidates = append(candidates, scored{name: d.Name, dist: dist})
	}
	if len(candidates) == 0 {
		return res
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})
	if len(candidates) > 1 && candidates[0].dist == candidates[1].dist {
		res.Kind = MatchAmbiguous
		res.Distance = candidates[0].dist
		return res
	}

	res.Name = candidates[0].name
	res.Kind = MatchFuzzy
	res.Distance = candidates[0].dist
	return res
}

// fold lowercases and drops everything but letters and digits, so
// "Wizards staff" and "Wizard's Staff" compare equal.
func fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func distanceLimit(n int) int {
	switch {
	case n <= 4:
		return 1
	case n <= 10:
		return 2
	default:
		return 3
	}
}
