package search

// OrderedSet keeps a sequence and a membership set together: O(1) lookups
// with stable first-seen order. Order determines downstream processing
// sequence, so it matters.
type OrderedSet struct {
	values []string
	seen   map[string]struct{}
}

// NewOrderedSet creates an empty OrderedSet.
func NewOrderedSet() *OrderedSet {
	return &OrderedSet{seen: make(map[string]struct{})}
}

// Add inserts v unless already present. Reports whether v was new.
func (s *OrderedSet) Add(v string) bool {
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
	return true
}

// Contains reports membership.
func (s *OrderedSet) Contains(v string) bool {
	_, ok := s.seen[v]
	return ok
}

// Values returns the members in insertion order.
func (s *OrderedSet) Values() []string {
	return s.values
}

// Len returns the member count.
func (s *OrderedSet) Len() int {
	return len(s.values)
}
