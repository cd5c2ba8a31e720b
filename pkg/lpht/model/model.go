// Package model is a pure in-memory reference implementation of
// pkg/lpht's externally observable semantics, used by the package's
// property-based tests.
package model

// Table is a map-backed reference hash table with no capacity limit and
// no Robin Hood bookkeeping; it exists purely to be compared against.
type Table struct {
	valueSize int
	entries   map[string][]byte
}

// New returns an empty reference table.
func New(valueSize int) *Table {
	return &Table{valueSize: valueSize, entries: make(map[string][]byte)}
}

// Insert returns the value for key, creating a zeroed one if absent.
func (t *Table) Insert(key []byte) []byte {
	k := string(key)

	v, ok := t.entries[k]
	if !ok {
		v = make([]byte, t.valueSize)
		t.entries[k] = v
	}

	return v
}

// Lookup returns the value bound to key, or (nil, false).
func (t *Table) Lookup(key []byte) ([]byte, bool) {
	v, ok := t.entries[string(key)]

	return v, ok
}

// Remove deletes key's entry and reports whether it was present.
func (t *Table) Remove(key []byte) bool {
	k := string(key)

	if _, ok := t.entries[k]; !ok {
		return false
	}

	delete(t.entries, k)

	return true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Keys returns every live key.
func (t *Table) Keys() [][]byte {
	out := make([][]byte, 0, len(t.entries))
	for k := range t.entries {
		out = append(out, []byte(k))
	}

	return out
}
