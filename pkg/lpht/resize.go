package lpht

import (
	"fmt"

	"github.com/EinfachAndy/oha/internal/bitutil"
)

// resize grows the table to hold at least maxElems entries.
//
// Key buckets are fully rehashed into a fresh, larger bucket array - Robin
// Hood displacement depends on bucket adjacency, so buckets cannot be
// grown in place the way pkg/bh grows its key-position array. Value
// bytes, however, are never touched: each surviving bucket carries its
// existing valueRef into the new table, so every []byte previously
// returned by Insert or Lookup remains valid after a resize, matching the
// stability this package documents.
func (t *Table) resize(maxElems uint32) error {
	if maxElems <= t.cfg.MaxElems {
		return nil
	}

	oldBucketCount := t.bucketCount
	oldKeyStorage := t.keyStorage
	oldPSL := t.psl
	oldVref := t.vref
	oldMaxElems := t.cfg.MaxElems

	newBucketCount := uint32(bitutil.CeilDiv(uint64(maxElems), t.cfg.MaxLoadFactor) + 1)

	t.cfg.MaxElems = maxElems

	if err := t.allocateBuckets(newBucketCount); err != nil {
		t.keyStorage, t.psl, t.vref, t.bucketCount = oldKeyStorage, oldPSL, oldVref, oldBucketCount
		t.cfg.MaxElems = oldMaxElems

		return fmt.Errorf("resize to %d elements: %w", maxElems, err)
	}

	t.elems = 0

	keySize := t.cfg.KeySize

	for i := uint32(0); i < oldBucketCount; i++ {
		if oldPSL[i] == emptyBucket {
			continue
		}

		key := oldKeyStorage[int(i)*keySize : int(i+1)*keySize]
		t.reinsertExisting(key, oldVref[i])
	}

	return nil
}

// reinsertExisting places a surviving (key, valueRef) pair from a
// previous table generation via ordinary Robin Hood insertion, without
// allocating a new value slot.
func (t *Table) reinsertExisting(key []byte, ref valueRef) {
	i := t.startBucket(t.hash(key))

	for psl := int32(0); ; psl, i = psl+1, t.nextBucket(i) {
		if !t.occupied(i) {
			copy(t.keyAt(i), key)
			t.psl[i] = psl
			t.vref[i] = ref
			t.bumpMaxPSL(psl)

			break
		}

		if psl > t.psl[i] {
			displacedKey := make([]byte, keyLen(key))
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
}

func keyLen(key []byte) int {
	return len(key)
}
