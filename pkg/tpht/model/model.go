// Package model is a pure in-memory reference implementation of
// pkg/tpht's externally observable semantics, used by the package's
// scenario and property-based tests.
package model

// entry is one stored record.
type entry struct {
	value []byte
	slot  uint8
	ts    int64
	hasTS bool
}

// Table is a map-backed reference implementation with no capacity limits
// and a linear sweep, used purely as an oracle.
type Table struct {
	entries       map[string]*entry
	slotTimeouts  []int64
	lastTimestamp int64
}

// New returns an empty reference table.
func New() *Table {
	return &Table{entries: make(map[string]*entry)}
}

// AddTimeoutSlot registers a new slot and returns its one-based id.
func (t *Table) AddTimeoutSlot(timeout int64) uint8 {
	t.slotTimeouts = append(t.slotTimeouts, timeout)

	return uint8(len(t.slotTimeouts))
}

// IncreaseGlobalTime advances the table's clock.
func (t *Table) IncreaseGlobalTime(ts int64) bool {
	if ts < t.lastTimestamp {
		return false
	}

	t.lastTimestamp = ts

	return true
}

// Insert mirrors Table.Insert's idempotent semantics.
func (t *Table) Insert(key string, value []byte, slotID uint8) []byte {
	if e, ok := t.entries[key]; ok {
		return e.value
	}

	e := &entry{value: append([]byte(nil), value...), slot: slotID}

	if slotID > 0 {
		e.ts = t.lastTimestamp
		e.hasTS = true
	}

	t.entries[key] = e

	return e.value
}

// Lookup returns the value bound to key.
func (t *Table) Lookup(key string) ([]byte, bool) {
	e, ok := t.entries[key]
	if !ok {
		return nil, false
	}

	return e.value, true
}

// Remove deletes key's entry.
func (t *Table) Remove(key string) ([]byte, bool) {
	e, ok := t.entries[key]
	if !ok {
		return nil, false
	}

	delete(t.entries, key)

	return e.value, true
}

// UpdateTimeForEntry updates key's timestamp, if enrolled in a slot.
func (t *Table) UpdateTimeForEntry(key string, ts int64) bool {
	e, ok := t.entries[key]
	if !ok || e.slot == 0 {
		return false
	}

	e.ts = ts

	return true
}

// SetTimeoutSlot moves key to a new slot.
func (t *Table) SetTimeoutSlot(key string, newSlotID uint8) bool {
	e, ok := t.entries[key]
	if !ok {
		return false
	}

	if e.slot == newSlotID {
		return true
	}

	if newSlotID > 0 && e.slot == 0 {
		e.ts = t.lastTimestamp
	}

	e.slot = newSlotID

	return true
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// NextTimeoutEntries sweeps slots in registration order, as the real
// implementation does.
func (t *Table) NextTimeoutEntries(maxEntries int) []string {
	var out []string

	for slot := 1; slot <= len(t.slotTimeouts); slot++ {
		timeout := t.slotTimeouts[slot-1]

		for {
			if len(out) == maxEntries {
				return out
			}

			key, ok := t.findRipest(uint8(slot), timeout)
			if !ok {
				break
			}

			delete(t.entries, key)
			out = append(out, key)
		}
	}

	return out
}

func (t *Table) findRipest(slot uint8, timeout int64) (string, bool) {
	best := ""
	bestTS := int64(0)
	found := false

	for k, e := range t.entries {
		if e.slot != slot {
			continue
		}

		if !found || e.ts < bestTS {
			best, bestTS, found = k, e.ts, true
		}
	}

	if !found || t.lastTimestamp < bestTS+timeout {
		return "", false
	}

	return best, true
}
