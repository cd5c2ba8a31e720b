package tpht

import "fmt"

// Insert returns the user-payload slot for key, creating it with the
// given value and timeout-slot enrollment if absent. slotID 0 means the
// entry never expires on its own; a nonzero slotID must have been
// returned by a prior AddTimeoutSlot call.
//
// Insert is idempotent: calling it again for a key already present
// returns that entry's existing value unchanged and does not touch its
// timeout enrollment, even if slotID differs from the original call.
func (t *Table) Insert(key, value []byte, slotID uint8) ([]byte, error) {
	if err := t.checkKeySize(key); err != nil {
		return nil, err
	}

	if err := t.checkValueSize(value); err != nil {
		return nil, err
	}

	if err := t.checkSlotID(slotID); err != nil {
		return nil, err
	}

	if existing, ok := t.lpht.Lookup(key); ok {
		return userPayload(existing), nil
	}

	internal, err := t.lpht.Insert(key)
	if err != nil {
		return nil, err
	}

	internal[0] = slotID
	copy(userPayload(internal), value)

	if slotID > 0 {
		// BUG FIX (see DESIGN.md): the original C implementation always
		// inserts into the LAST registered slot's heap here
		// (tpht->slots[tpht->num_timeout_slots - 1].bh) regardless of
		// which slot the caller asked for. This uses the caller-supplied
		// slotID, as oha_tpht_insert's signature promises.
		heapBuf, err := t.slots[slotID-1].heap.Insert(t.lastTimestamp, key)
		if err != nil {
			t.lpht.Remove(key)

			return nil, err
		}

		t.handles[string(key)] = &handle{slot: slotID, buf: heapBuf, ts: t.lastTimestamp}
	}

	return userPayload(internal), nil
}

// Lookup returns the user payload bound to key, or (nil, false).
func (t *Table) Lookup(key []byte) ([]byte, bool) {
	internal, ok := t.lpht.Lookup(key)
	if !ok {
		return nil, false
	}

	return userPayload(internal), true
}

// Remove deletes key's entry, evicting it from its timeout slot if
// enrolled, and returns its user payload and true. It returns (nil,
// false) if key was not present.
func (t *Table) Remove(key []byte) ([]byte, bool) {
	internal, ok := t.lpht.Lookup(key)
	if !ok {
		return nil, false
	}

	slotID := internal[0]

	out := make([]byte, len(userPayload(internal)))
	copy(out, userPayload(internal))

	t.lpht.Remove(key)
	t.evictFromSlot(key, slotID)

	return out, true
}

// UpdateTimeForEntry changes the timestamp of key's entry within its
// current timeout slot. It returns false if key is absent, not enrolled
// in any timeout slot (slot id 0), or if timestamp precedes the table's
// current global time.
func (t *Table) UpdateTimeForEntry(key []byte, timestamp int64) bool {
	if timestamp < t.lastTimestamp {
		return false
	}

	h, ok := t.handles[string(key)]
	if !ok {
		return false
	}

	if !t.slots[h.slot-1].heap.ChangeKey(timestamp, h.buf) {
		return false
	}

	h.ts = timestamp

	return true
}

// SetTimeoutSlot moves key's entry into newSlotID, which must be a slot
// id returned by AddTimeoutSlot (0 is not accepted: an entry cannot be
// pulled out of timeout tracking once enrolled). Moving between two
// nonzero slots preserves the entry's current timestamp; moving from
// slot 0 into a nonzero slot stamps it with the table's current global
// time, the same origin Insert would use. It returns false if key is
// absent.
func (t *Table) SetTimeoutSlot(key []byte, newSlotID uint8) (bool, error) {
	if newSlotID == 0 {
		return false, fmt.Errorf("new slot id must be >= 1: %w", ErrUnknownSlot)
	}

	if err := t.checkSlotID(newSlotID); err != nil {
		return false, err
	}

	internal, ok := t.lpht.Lookup(key)
	if !ok {
		return false, nil
	}

	oldSlotID := internal[0]
	if oldSlotID == newSlotID {
		return true, nil
	}

	origin := t.lastTimestamp

	if oldSlotID > 0 {
		if h, ok := t.handles[string(key)]; ok {
			origin = h.ts
		}

		t.evictFromSlot(key, oldSlotID)
	}

	internal[0] = newSlotID

	if newSlotID > 0 {
		heapBuf, err := t.slots[newSlotID-1].heap.Insert(origin, key)
		if err != nil {
			return false, err
		}

		t.handles[string(key)] = &handle{slot: newSlotID, buf: heapBuf, ts: origin}
	}

	return true, nil
}

// Entry is one expired entry returned by NextTimeoutEntries.
type Entry struct {
	Key   []byte
	Value []byte
}

// NextTimeoutEntries sweeps every timeout slot, in registration order,
// evicting and returning entries whose timeout has elapsed against the
// table's current global time, up to maxEntries. It never reports more
// than one slot's worth of entries out of order: a slot is drained
// before the sweep moves to the next one, matching the original
// library's per-slot sweep loop.
func (t *Table) NextTimeoutEntries(maxEntries int) []Entry {
	var out []Entry

	for slotIdx := range t.slots {
		slot := &t.slots[slotIdx]

		for {
			if len(out) == maxEntries {
				return out
			}

			minTS, _, ok := slot.heap.FindMin()
			if !ok {
				break
			}

			if t.lastTimestamp < minTS+slot.timeout {
				break
			}

			_, keyBuf, _ := slot.heap.DeleteMin()

			internal, found := t.lpht.Lookup(keyBuf)
			if !found {
				// Matches the original's assertion that this cannot
				// happen outside of a coupling bug: every live heap
				// entry has a matching lpht entry by construction.
				panic(fmt.Sprintf("tpht: timeout slot entry for key %x has no matching table entry", keyBuf))
			}

			value := append([]byte(nil), userPayload(internal)...)
			key := append([]byte(nil), keyBuf...)

			t.lpht.Remove(keyBuf)
			delete(t.handles, string(keyBuf))

			out = append(out, Entry{Key: key, Value: value})
		}
	}

	return out
}

func (t *Table) evictFromSlot(key []byte, slotID uint8) {
	if slotID == 0 {
		return
	}

	h, ok := t.handles[string(key)]
	if !ok {
		return
	}

	t.slots[slotID-1].heap.Remove(h.ts, h.buf)
	delete(t.handles, string(key))
}

func userPayload(internal []byte) []byte {
	return internal[1:]
}

func (t *Table) checkKeySize(key []byte) error {
	if len(key) != t.cfg.KeySize {
		return fmt.Errorf("key has length %d, want %d: %w", len(key), t.cfg.KeySize, ErrKeySize)
	}

	return nil
}

func (t *Table) checkValueSize(value []byte) error {
	if len(value) != t.cfg.ValueSize {
		return fmt.Errorf("value has length %d, want %d: %w", len(value), t.cfg.ValueSize, ErrValueSize)
	}

	return nil
}
