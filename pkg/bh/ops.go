package bh

import (
	"fmt"
	"unsafe"
)

// Insert adds key with the given payload and returns a stable []byte view
// onto the copied payload bytes. value must be exactly cfg.ValueSize long.
//
// If the heap is at capacity: a resizable heap grows (see resize.go); a
// non-resizable heap returns a wrapped [ErrFull].
func (h *Heap) Insert(key int64, value []byte) ([]byte, error) {
	if len(value) != h.cfg.ValueSize {
		return nil, fmt.Errorf("insert: value has length %d, want %d: %w", len(value), h.cfg.ValueSize, ErrInvalidConfig)
	}

	if h.elems == h.capacity {
		if !h.cfg.Resizable {
			return nil, fmt.Errorf("insert key %d into heap of capacity %d: %w", key, h.capacity, ErrFull)
		}

		if err := h.grow(); err != nil {
			return nil, err
		}
	}

	pos := h.elems
	h.elems++

	chunk, idx := h.keys[pos].chunk, h.keys[pos].idx
	h.keys[pos].key = key
	dst := h.valueBytes(h.keys[pos])
	copy(dst, value)

	h.siftUp(pos)

	// The entry's payload never moves; chunk/idx still identify it no
	// matter where siftUp left it.
	return h.valueBytes(keyRecord{chunk: chunk, idx: idx}), nil
}

// FindMin returns the minimum key, its payload, and true, or (NotFound,
// nil, false) if the heap is empty.
func (h *Heap) FindMin() (int64, []byte, bool) {
	if h.elems == 0 {
		return NotFound, nil, false
	}

	return h.keys[0].key, h.valueBytes(h.keys[0]), true
}

// DeleteMin removes and returns the minimum entry, or (NotFound, nil,
// false) if the heap is empty.
func (h *Heap) DeleteMin() (int64, []byte, bool) {
	if h.elems == 0 {
		return NotFound, nil, false
	}

	key, buf, _ := h.FindMin()

	out := make([]byte, len(buf))
	copy(out, buf)

	h.deleteAt(0)

	return key, out, true
}

// Remove deletes the entry holding key, starting the search at fromValue,
// a []byte previously returned for that entry. The search mirrors the
// original library's approach of locating the entry via its value pointer
// rather than a full key scan, which would not disambiguate duplicate
// keys. It returns false if fromValue is not a live entry of this heap.
func (h *Heap) Remove(key int64, fromValue []byte) bool {
	pos, ok := h.positionOfValue(fromValue)
	if !ok || h.keys[pos].key != key {
		return false
	}

	h.deleteAt(pos)

	return true
}

// ChangeKey updates the key of the entry currently holding fromValue and
// restores the heap property. It returns false if fromValue is not a live
// entry.
func (h *Heap) ChangeKey(newKey int64, fromValue []byte) bool {
	pos, ok := h.positionOfValue(fromValue)
	if !ok {
		return false
	}

	old := h.keys[pos].key
	h.keys[pos].key = newKey

	switch {
	case newKey < old:
		h.siftUp(pos)
	case newKey > old:
		h.siftDown(pos)
	}

	return true
}

// positionOfValue finds the heap position whose bound payload is the same
// backing array as buf. Payload addresses are stable for the lifetime of
// an entry, so pointer identity (chunk, idx) - not key equality - is the
// correct way to relocate it; the back index then yields its current heap
// position in O(1), mirroring the key->value_bucket back-pointer of the
// original C heap.
func (h *Heap) positionOfValue(buf []byte) (uint32, bool) {
	chunk, idx, ok := h.locate(buf)
	if !ok {
		return 0, false
	}

	pos := h.back[chunk][idx]
	if pos >= h.elems {
		return 0, false
	}

	return pos, true
}

// locate maps a []byte previously handed out by this heap back to its
// (chunk, idx) pool coordinates via pointer arithmetic against each pool
// chunk's backing array.
func (h *Heap) locate(buf []byte) (chunk, idx uint32, ok bool) {
	if len(buf) != h.cfg.ValueSize {
		return 0, 0, false
	}

	bufStart := uintptr(unsafe.Pointer(&buf[:1][0]))

	for c, chunkBuf := range h.pool {
		if len(chunkBuf) == 0 {
			continue
		}

		chunkStart := uintptr(unsafe.Pointer(&chunkBuf[:1][0]))
		chunkEnd := chunkStart + uintptr(len(chunkBuf))

		if bufStart < chunkStart || bufStart >= chunkEnd {
			continue
		}

		off := int(bufStart - chunkStart)
		if off%h.cfg.ValueSize != 0 {
			continue
		}

		i := uint32(off / h.cfg.ValueSize)
		if i >= h.chunkCap[c] {
			continue
		}

		return uint32(c), i, true
	}

	return 0, 0, false
}

func (h *Heap) deleteAt(pos uint32) {
	last := h.elems - 1

	if pos != last {
		h.swapKeys(pos, last)
	}

	h.elems--

	if pos != last && h.elems > 0 {
		parentKey := NotFound
		if pos > 0 {
			parentKey = h.keys[parent(pos)].key
		}

		if pos > 0 && h.keys[pos].key < parentKey {
			h.siftUp(pos)
		} else {
			h.siftDown(pos)
		}
	}
}

// siftUp restores heap order upward from pos and returns the entry's final
// position.
func (h *Heap) siftUp(pos uint32) uint32 {
	for pos > 0 {
		p := parent(pos)
		if h.keys[p].key <= h.keys[pos].key {
			break
		}

		h.swapKeys(p, pos)
		pos = p
	}

	return pos
}

// siftDown restores heap order downward from pos and returns the entry's
// final position.
//
// This is also where the original library's increase-key bug lived: after
// picking which child to swap with, it must descend into that same child,
// not unconditionally the left one.
func (h *Heap) siftDown(pos uint32) uint32 {
	for {
		l, r := left(pos), right(pos)
		smallest := pos

		if l < h.elems && h.keys[l].key < h.keys[smallest].key {
			smallest = l
		}

		if r < h.elems && h.keys[r].key < h.keys[smallest].key {
			smallest = r
		}

		if smallest == pos {
			return pos
		}

		h.swapKeys(pos, smallest)
		pos = smallest
	}
}
