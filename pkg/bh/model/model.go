// Package model is a pure in-memory reference implementation of
// pkg/bh's semantics, used by the package's property-based tests to check
// the real implementation against a trivially-correct one.
package model

// Entry is one heap record as understood by the model: a key, a payload,
// and an opaque handle the test harness uses to address it across
// ChangeKey/Remove calls, since the model has no notion of a stable
// []byte pointer.
type Entry struct {
	Key    int64
	Value  []byte
	Handle int
}

// Heap is a slice-backed reference heap. Unlike pkg/bh it has no capacity
// limit and no pointer-stability machinery; it exists purely to be
// compared against.
type Heap struct {
	entries []Entry
	nextID  int
}

// New returns an empty reference heap.
func New() *Heap {
	return &Heap{}
}

// Insert appends an entry and returns its handle.
func (h *Heap) Insert(key int64, value []byte) int {
	cp := make([]byte, len(value))
	copy(cp, value)

	handle := h.nextID
	h.nextID++

	h.entries = append(h.entries, Entry{Key: key, Value: cp, Handle: handle})

	return handle
}

// FindMin returns the entry with the smallest key.
func (h *Heap) FindMin() (Entry, bool) {
	if len(h.entries) == 0 {
		return Entry{}, false
	}

	min := 0

	for i, e := range h.entries {
		if e.Key < h.entries[min].Key {
			min = i
		}
	}

	return h.entries[min], true
}

// DeleteMin removes and returns the entry with the smallest key.
func (h *Heap) DeleteMin() (Entry, bool) {
	e, ok := h.FindMin()
	if !ok {
		return Entry{}, false
	}

	h.removeHandle(e.Handle)

	return e, true
}

// Remove deletes the entry identified by handle.
func (h *Heap) Remove(handle int) bool {
	return h.removeHandle(handle)
}

// ChangeKey updates the key of the entry identified by handle.
func (h *Heap) ChangeKey(handle int, newKey int64) bool {
	for i := range h.entries {
		if h.entries[i].Handle == handle {
			h.entries[i].Key = newKey

			return true
		}
	}

	return false
}

// Len returns the number of live entries.
func (h *Heap) Len() int {
	return len(h.entries)
}

// Entries returns a copy of every live entry, for order-independent
// comparison against the real heap's contents.
func (h *Heap) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)

	return out
}

func (h *Heap) removeHandle(handle int) bool {
	for i, e := range h.entries {
		if e.Handle == handle {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)

			return true
		}
	}

	return false
}
