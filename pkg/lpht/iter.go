package lpht

// Iterator walks every occupied bucket in a Table. Mutating the table
// while an Iterator is live yields undefined results, mirroring the
// original library's single free-running cursor.
type Iterator struct {
	t       *Table
	pos     uint32
	lastIdx uint32
}

// Iter returns a fresh Iterator positioned before the first bucket.
func (t *Table) Iter() *Iterator {
	return &Iterator{t: t}
}

// Next advances the iterator and reports whether a further entry exists.
func (it *Iterator) Next() bool {
	for it.pos < it.t.bucketCount {
		i := it.pos
		it.pos++

		if it.t.occupied(i) {
			it.lastIdx = i

			return true
		}
	}

	return false
}

// Key returns the current entry's key. Valid only after Next returned
// true.
func (it *Iterator) Key() []byte {
	return it.t.keyAt(it.lastIdx)
}

// Value returns the current entry's value. Valid only after Next
// returned true.
func (it *Iterator) Value() []byte {
	return it.t.values.bytes(it.t.vref[it.lastIdx])
}
