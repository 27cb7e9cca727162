package optimizer

// Pool is the remaining quantity per decoration for one allocation run.
// Strategies decrement it in place as units are placed, so towns processed
// earlier can exhaust a decoration before later towns see it.
type Pool map[string]int

// NewPool copies quantities into a fresh pool. Negative quantities are
// treated as zero.
func NewPool(quantities map[string]int) Pool {
	p := make(Pool, len(quantities))
	for name, qty := range quantities {
		if qty < 0 {
			qty = 0
		}
		p[name] = qty
	}
	return p
}

// Total returns the sum of all remaining units.
func (p Pool) Total() int {
	total := 0
	for _, qty := range p {
		total += qty
	}
	return total
}
