package lpht

import "fmt"

// Lookup returns the value bound to key, or (nil, false) if absent.
func (t *Table) Lookup(key []byte) ([]byte, bool) {
	if err := t.checkKeySize(key); err != nil {
		return nil, false
	}

	i, ok := t.find(key)
	if !ok {
		return nil, false
	}

	return t.values.bytes(t.vref[i]), true
}

// Insert returns the value slot for key, creating it (zeroed) if absent.
// The returned []byte remains valid for as long as key stays in the
// table, surviving Robin Hood displacement, removals of other keys and
// Reserve growth.
//
// If the table is at capacity: a resizable table grows (doubling); a
// non-resizable table returns a wrapped [ErrFull] unless key is already
// present.
func (t *Table) Insert(key []byte) ([]byte, error) {
	if err := t.checkKeySize(key); err != nil {
		return nil, err
	}

	if t.elems >= t.cfg.MaxElems {
		if i, ok := t.find(key); ok {
			return t.values.bytes(t.vref[i]), nil
		}

		if !t.cfg.Resizable {
			return nil, fmt.Errorf("insert into table at capacity %d: %w", t.cfg.MaxElems, ErrFull)
		}

		if err := t.resize(2 * t.cfg.MaxElems); err != nil {
			return nil, err
		}
	}

	ref, err := t.values.alloc(t.bucketCount)
	if err != nil {
		return nil, fmt.Errorf("allocate value slot: %w", ErrOOM)
	}

	clear(t.values.bytes(ref))

	i := t.startBucket(t.hash(key))

	for psl := int32(0); ; psl, i = psl+1, t.nextBucket(i) {
		if !t.occupied(i) {
			copy(t.keyAt(i), key)
			t.psl[i] = psl
			t.vref[i] = ref
			t.bumpMaxPSL(psl)

			break
		}

		if bytesEqual(t.keyAt(i), key) {
			// Key raced in between the full-check above and here is
			// impossible in a single-goroutine table; this only
			// triggers when MaxElems has headroom and find() above was
			// never consulted.
			t.values.release(ref)

			return t.values.bytes(t.vref[i]), nil
		}

		if psl > t.psl[i] {
			displacedKey := make([]byte, t.cfg.KeySize)
			copy(displacedKey, t.keyAt(i))
			displacedRef := t.vref[i]

			psl, t.psl[i] = t.psl[i], psl
			copy(t.keyAt(i), key)
			t.vref[i] = ref

			t.bumpMaxPSL(t.psl[i])
			t.robinHoodEmplace(psl, displacedKey, displacedRef, i)

			break
		}
	}

	t.elems++

	return t.values.bytes(ref), nil
}

// robinHoodEmplace walks forward from iter, inserting (key, ref) at psl,
// swapping with any bucket that has a strictly smaller psl (the Robin
// Hood creed: the poorer entry - larger psl - keeps its spot).
func (t *Table) robinHoodEmplace(psl int32, key []byte, ref valueRef, iter uint32) {
	for {
		psl++
		iter = t.nextBucket(iter)

		if !t.occupied(iter) {
			t.bumpMaxPSL(psl)
			copy(t.keyAt(iter), key)
			t.psl[iter] = psl
			t.vref[iter] = ref

			return
		}

		if psl > t.psl[iter] {
			t.bumpMaxPSL(psl)

			tmpKey := make([]byte, t.cfg.KeySize)
			copy(tmpKey, t.keyAt(iter))
			copy(t.keyAt(iter), key)
			copy(key, tmpKey)

			psl, t.psl[iter] = t.psl[iter], psl
			ref, t.vref[iter] = t.vref[iter], ref
		}
	}
}

// Remove deletes key's entry, restoring the Robin Hood invariant via
// back-shift deletion, and returns true if key was present.
//
// Unlike spec.md §4.3's C contract, Remove does not return the vacated
// value pointer: the freed slot is immediately eligible for reuse by the
// pool's free list (see pool.go), so handing back a []byte into it would
// invite a caller to read or write a slot a subsequent Insert may already
// have reassigned. A caller that needs the removed value must read it via
// Lookup before calling Remove, as pkg/tpht.Remove does.
func (t *Table) Remove(key []byte) bool {
	if err := t.checkKeySize(key); err != nil {
		return false
	}

	i, ok := t.find(key)
	if !ok {
		return false
	}

	ref := t.vref[i]
	t.psl[i] = emptyBucket

	cur := i
	next := t.nextBucket(cur)

	for {
		if !t.occupied(next) || t.psl[next] == 0 {
			break
		}

		copy(t.keyAt(cur), t.keyAt(next))
		t.vref[cur] = t.vref[next]
		t.psl[cur] = t.psl[next] - 1
		t.psl[next] = emptyBucket

		cur = next
		next = t.nextBucket(cur)
	}

	t.values.release(ref)
	t.elems--

	return true
}

// Reserve grows the table, if needed, so it can hold at least n elements
// without a further implicit resize. It is a no-op if the table already
// has that capacity, and always succeeds on a non-resizable table when
// n <= Config.MaxElems.
func (t *Table) Reserve(n uint32) error {
	if n <= t.cfg.MaxElems {
		return nil
	}

	wasResizable := t.cfg.Resizable
	t.cfg.Resizable = true

	err := t.resize(n)

	t.cfg.Resizable = wasResizable
	if !wasResizable {
		t.cfg.MaxElems = n
	}

	return err
}

// find returns the bucket index holding key, or (0, false).
func (t *Table) find(key []byte) (uint32, bool) {
	i := t.startBucket(t.hash(key))

	for psl := int32(0); psl <= int32(t.maxPSL)+1; psl, i = psl+1, t.nextBucket(i) {
		if !t.occupied(i) {
			return 0, false
		}

		if bytesEqual(t.keyAt(i), key) {
			return i, true
		}
	}

	return 0, false
}

func (t *Table) bumpMaxPSL(psl int32) {
	if psl >= 0 && uint32(psl) > t.maxPSL {
		t.maxPSL = uint32(psl)
	}
}

func (t *Table) checkKeySize(key []byte) error {
	if len(key) != t.cfg.KeySize {
		return fmt.Errorf("key has length %d, want %d: %w", len(key), t.cfg.KeySize, ErrKeySize)
	}

	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
