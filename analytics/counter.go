package analytics

// Counter is a multiset that remembers first-insertion order. MostCommon
// resolves ties by that order: among keys sharing the maximum count, the
// key first added wins. The whale lookup relies on this rule; given a
// fixed input order the detected whale is always the same.
type Counter[K comparable] struct {
	counts map[K]int
	order  []K
}

// NewCounter creates an empty counter
func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

// Add increments the count for key
func (c *Counter[K]) Add(key K) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// Count returns the count for key, 0 when never added
func (c *Counter[K]) Count(key K) int {
	return c.counts[key]
}

// Len returns the number of distinct keys
func (c *Counter[K]) Len() int {
	return len(c.order)
}

// Keys returns the distinct keys in first-insertion order
func (c *Counter[K]) Keys() []K {
	return c.order
}

// MostCommon returns the key with the highest count, its count, and whether
// the counter is non-empty. Ties keep the first-inserted key.
func (c *Counter[K]) MostCommon() (K, int, bool) {
	var best K
	if len(c.order) == 0 {
		return best, 0, false
	}
	bestCount := -1
	for _, key := range c.order {
		if c.counts[key] > bestCount {
			best = key
			bestCount = c.counts[key]
		}
	}
	return best, bestCount, true
}
