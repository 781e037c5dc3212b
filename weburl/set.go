package weburl

// Set is an insertion-ordered set of strings. The first occurrence of a
// value wins; later duplicates are ignored.
type Set struct {
	items []string
	seen  map[string]bool
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{
		seen: make(map[string]bool),
	}
}

// Add inserts s if it hasn't been seen before. It reports whether s was new.
func (q *Set) Add(s string) bool {
	if s == "" || q.seen[s] {
		return false
	}
	q.seen[s] = true
	q.items = append(q.items, s)
	return true
}

// Has reports whether s is in the set.
func (q *Set) Has(s string) bool {
	return q.seen[s]
}

// Len returns the number of unique values.
func (q *Set) Len() int {
	return len(q.items)
}

// All returns the values in first-seen order.
func (q *Set) All() []string {
	out := make([]string, len(q.items))
	copy(out, q.items)
	return out
}
