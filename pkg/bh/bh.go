package bh

import (
	"fmt"
	"math"

	"github.com/EinfachAndy/oha/internal/alloc"
)

// NotFound is the key returned by FindMin and DeleteMin when the heap is
// empty.
const NotFound int64 = math.MinInt64

// MinValue is the smallest legal user-supplied key, one above the
// reserved NotFound sentinel.
const MinValue int64 = NotFound + 1

// Config configures a Heap.
type Config struct {
	// ValueSize is the fixed size, in bytes, of every entry's payload.
	// Must be > 0.
	ValueSize int
	// MaxElems is the initial capacity. Must be > 0.
	MaxElems uint32
	// Resizable allows the heap to double its capacity instead of
	// rejecting Insert once MaxElems entries are present.
	Resizable bool
	// Allocator backs chunk growth. A nil Allocator uses alloc.Default().
	Allocator alloc.Allocator
}

// keyRecord is one heap-position entry: the ordering key plus the identity
// of the payload bound to this position. Only keyRecord values are ever
// swapped during sift-up/sift-down; the payload bytes they point at never
// move.
type keyRecord struct {
	key   int64
	chunk uint32
	idx   uint32
}

// Heap is an indirect binary min-heap with pointer-stable payloads.
//
// A Heap must be obtained via [New]; the zero value is not usable. Heap is
// not safe for concurrent use.
type Heap struct {
	cfg       Config
	allocator alloc.Allocator

	keys     []keyRecord
	elems    uint32
	capacity uint32

	pool     [][]byte // pool[c] holds chunkCap[c]*ValueSize bytes
	chunkCap []uint32
	back     [][]uint32 // back[c][idx] = heap position currently bound to (c, idx)
}

// New creates a heap per config, or returns a wrapped [ErrInvalidConfig] /
// [ErrOOM].
func New(cfg Config) (*Heap, error) {
	if cfg.ValueSize <= 0 {
		return nil, fmt.Errorf("value_size must be > 0, got %d: %w", cfg.ValueSize, ErrInvalidConfig)
	}

	if cfg.MaxElems == 0 {
		return nil, fmt.Errorf("max_elems must be > 0: %w", ErrInvalidConfig)
	}

	h := &Heap{
		cfg:       cfg,
		allocator: alloc.Or(cfg.Allocator),
	}

	if err := h.appendChunk(cfg.MaxElems); err != nil {
		return nil, err
	}

	return h, nil
}

// Close releases the heap's internal storage. After Close, h must not be
// used again.
func (h *Heap) Close() {
	h.keys = nil
	h.pool = nil
	h.chunkCap = nil
	h.back = nil
	h.elems = 0
	h.capacity = 0
}

// Len returns the number of entries currently in the heap.
func (h *Heap) Len() int {
	return int(h.elems)
}

func (h *Heap) appendChunk(n uint32) error {
	buf, err := h.allocator.AllocZeroed(int(n) * h.cfg.ValueSize)
	if err != nil {
		return fmt.Errorf("grow heap by %d elements: %w", n, ErrOOM)
	}

	chunkIdx := uint32(len(h.pool))
	h.pool = append(h.pool, buf)
	h.chunkCap = append(h.chunkCap, n)

	newKeys := make([]keyRecord, h.capacity+n)
	copy(newKeys, h.keys)

	backChunk := make([]uint32, n)

	for i := uint32(0); i < n; i++ {
		pos := h.capacity + i
		newKeys[pos] = keyRecord{chunk: chunkIdx, idx: i}
		backChunk[i] = pos
	}

	h.back = append(h.back, backChunk)
	h.keys = newKeys
	h.capacity += n

	return nil
}

func (h *Heap) valueBytes(r keyRecord) []byte {
	size := h.cfg.ValueSize

	return h.pool[r.chunk][int(r.idx)*size : (int(r.idx)+1)*size]
}

func parent(i uint32) uint32 { return (i - 1) / 2 }
func left(i uint32) uint32   { return 2*i + 1 }
func right(i uint32) uint32  { return 2*i + 2 }

// swapKeys exchanges the key records at heap positions i and j. The
// payloads they point at are untouched; only which heap position
// references which payload changes. back is updated to keep
// positionOfValue O(1).
func (h *Heap) swapKeys(i, j uint32) {
	h.keys[i], h.keys[j] = h.keys[j], h.keys[i]

	h.back[h.keys[i].chunk][h.keys[i].idx] = i
	h.back[h.keys[j].chunk][h.keys[j].idx] = j
}
