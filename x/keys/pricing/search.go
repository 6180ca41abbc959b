package pricing

// CostFunc prices n units. It must be non-decreasing in n.
type CostFunc func(n uint64) (uint64, error)

// MaxAffordable returns the largest n in [0, limit] with cost(n) <= budget and the
// number of cost evaluations spent. An evaluation error counts as unaffordable.
func MaxAffordable(limit, budget uint64, cost CostFunc) (uint64, int) {
	lo, hi := uint64(0), limit
	evaluations := 0
	for lo < hi {
		mid := lo + (hi-lo)/2 + (hi-lo)%2
		evaluations++
		value, err := cost(mid)
		if err == nil && value <= budget {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, evaluations
}

// TokensForBudget returns the largest n with BuyCost(s, n) <= budget.
func (c Curve) TokensForBudget(s, budget uint64) uint64 {
	if s >= c.params.MaxSupply {
		return 0
	}
	n, _ := MaxAffordable(c.params.MaxSupply-s, budget, func(n uint64) (uint64, error) {
		return c.BuyCost(s, n)
	})
	return n
}
