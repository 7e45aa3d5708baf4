package models

// Criterion is a single parsed search criterion: a free-text key and the
// ordered list of values supplied for it.
type Criterion struct {
	Key    string
	Values []string
}

// CriteriaSet holds parsed criteria keyed by criterion name. Keys are unique;
// the first occurrence of a key wins and insertion order is preserved.
type CriteriaSet struct {
	order []string
	items map[string]Criterion
}

// NewCriteriaSet creates an empty criteria set.
func NewCriteriaSet() *CriteriaSet {
	return &CriteriaSet{items: make(map[string]Criterion)}
}

// Add inserts a criterion unless its key is already present.
func (cs *CriteriaSet) Add(key string, values []string) {
	if _, ok := cs.items[key]; ok {
		return
	}
	cs.order = append(cs.order, key)
	cs.items[key] = Criterion{Key: key, Values: values}
}

// Get returns the criterion for key and whether it exists.
func (cs *CriteriaSet) Get(key string) (Criterion, bool) {
	c, ok := cs.items[key]
	return c, ok
}

// Values returns the value list for key, or nil when absent.
func (cs *CriteriaSet) Values(key string) []string {
	return cs.items[key].Values
}

// Keys returns the criterion keys in first-occurrence order.
func (cs *CriteriaSet) Keys() []string {
	out := make([]string, len(cs.order))
	copy(out, cs.order)
	return out
}

// Len returns the number of criteria.
func (cs *CriteriaSet) Len() int {
	return len(cs.order)
}
