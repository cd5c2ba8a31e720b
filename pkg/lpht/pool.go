package lpht

import "github.com/EinfachAndy/oha/internal/alloc"

// valueRef identifies one payload slot inside a valuePool.
type valueRef struct {
	chunk uint32
	idx   uint32
}

// valuePool is the growable, never-reallocating-in-place payload arena
// shared by every bucket's value bytes. Unlike pkg/bh's heap (whose free
// slots are always the contiguous tail past elems), key buckets here are
// removed and reinserted in arbitrary order, so reclaimed slots are
// tracked on an explicit free list and reused before the pool grows.
type valuePool struct {
	valueSize int
	allocator alloc.Allocator

	chunks [][]byte
	free   []valueRef
}

func newValuePool(valueSize int, allocator alloc.Allocator) *valuePool {
	return &valuePool{valueSize: valueSize, allocator: allocator}
}

func (p *valuePool) bytes(r valueRef) []byte {
	size := p.valueSize

	return p.chunks[r.chunk][int(r.idx)*size : (int(r.idx)+1)*size]
}

// alloc returns a fresh or reclaimed value slot, growing the pool by
// growBy slots if none are free.
func (p *valuePool) alloc(growBy uint32) (valueRef, error) {
	if len(p.free) == 0 {
		if err := p.grow(growBy); err != nil {
			return valueRef{}, err
		}
	}

	r := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	return r, nil
}

func (p *valuePool) release(r valueRef) {
	p.free = append(p.free, r)
}

// grow allocates a fresh chunk of n slots and pushes every one of them,
// addressed by chunk-local index, onto the free list. Indices are always
// local to their own chunk - bytes() and every other consumer of a
// valueRef index into chunks[r.chunk] directly - so a freshly grown
// chunk's slots start at local index 0 regardless of how many slots
// earlier chunks hold.
func (p *valuePool) grow(n uint32) error {
	if n == 0 {
		n = 1
	}

	buf, err := p.allocator.AllocZeroed(int(n) * p.valueSize)
	if err != nil {
		return err
	}

	chunkIdx := uint32(len(p.chunks))
	p.chunks = append(p.chunks, buf)

	for i := uint32(0); i < n; i++ {
		p.free = append(p.free, valueRef{chunk: chunkIdx, idx: i})
	}

	return nil
}
