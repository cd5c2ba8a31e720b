package lpht

import (
	"fmt"

	"github.com/EinfachAndy/oha/internal/alloc"
	"github.com/EinfachAndy/oha/internal/bitutil"
	"github.com/zeebo/xxh3"
)

// emptyBucket marks a key bucket as unoccupied. Go's signed psl lets us
// use a friendlier sentinel than the original's UINT32_MAX.
const emptyBucket int32 = -1

// Config configures a Table.
type Config struct {
	// KeySize is the fixed size, in bytes, of every key. Must be > 0.
	KeySize int
	// ValueSize is the fixed size, in bytes, of every value. Must be > 0.
	ValueSize int
	// MaxElems is the initial capacity. Must be > 0.
	MaxElems uint32
	// MaxLoadFactor bounds elems/bucketCount before a resize is forced.
	// Must be in (0, 1). Defaults to 0.8 when zero.
	MaxLoadFactor float64
	// Resizable allows the table to double its bucket count instead of
	// rejecting Insert once MaxElems entries are present.
	Resizable bool
	// Allocator backs chunk growth. A nil Allocator uses alloc.Default().
	Allocator alloc.Allocator
}

// Status reports a Table's current sizing, mirroring oha_lpht_status.
type Status struct {
	MaxElems         uint32
	ElemsInUse       uint32
	SizeInBytes      uint64
	CurrentLoadFactor float64
}

// Table is a Robin Hood linear-probing hash table. A Table must be
// obtained via [New]; the zero value is not usable. Table is not safe for
// concurrent use.
type Table struct {
	cfg       Config
	allocator alloc.Allocator

	bucketCount uint32
	keyStorage  []byte
	psl         []int32
	vref        []valueRef

	values *valuePool
	elems  uint32
	maxPSL uint32

	iterPos int
}

// New creates a table per config, or returns a wrapped [ErrInvalidConfig]
// / [ErrOOM].
func New(cfg Config) (*Table, error) {
	if cfg.KeySize <= 0 {
		return nil, fmt.Errorf("key_size must be > 0: %w", ErrInvalidConfig)
	}

	if cfg.ValueSize <= 0 {
		return nil, fmt.Errorf("value_size must be > 0: %w", ErrInvalidConfig)
	}

	if cfg.MaxElems == 0 {
		return nil, fmt.Errorf("max_elems must be > 0: %w", ErrInvalidConfig)
	}

	if cfg.MaxLoadFactor == 0 {
		cfg.MaxLoadFactor = 0.8
	}

	if cfg.MaxLoadFactor <= 0 || cfg.MaxLoadFactor >= 1 {
		return nil, fmt.Errorf("max_load_factor must be in (0, 1), got %v: %w", cfg.MaxLoadFactor, ErrInvalidConfig)
	}

	t := &Table{
		cfg:       cfg,
		allocator: alloc.Or(cfg.Allocator),
	}

	bucketCount := bitutil.CeilDiv(uint64(cfg.MaxElems), cfg.MaxLoadFactor) + 1
	t.values = newValuePool(cfg.ValueSize, t.allocator)

	if err := t.allocateBuckets(uint32(bucketCount)); err != nil {
		return nil, err
	}

	return t, nil
}

// Close releases the table's internal storage. After Close, t must not be
// used again.
func (t *Table) Close() {
	t.keyStorage = nil
	t.psl = nil
	t.vref = nil
	t.values = nil
	t.elems = 0
	t.bucketCount = 0
}

// Len returns the number of entries currently stored.
func (t *Table) Len() int {
	return int(t.elems)
}

// Status reports the table's current sizing.
func (t *Table) Status() Status {
	sizeInBytes := uint64(len(t.keyStorage)) + uint64(len(t.psl))*4 + uint64(len(t.vref))*8

	for _, c := range t.values.chunks {
		sizeInBytes += uint64(len(c))
	}

	return Status{
		MaxElems:          t.cfg.MaxElems,
		ElemsInUse:        t.elems,
		SizeInBytes:       sizeInBytes,
		CurrentLoadFactor: float64(t.elems) / float64(t.bucketCount),
	}
}

func (t *Table) allocateBuckets(bucketCount uint32) error {
	keyStorage, err := t.allocator.AllocZeroed(int(bucketCount) * t.cfg.KeySize)
	if err != nil {
		return fmt.Errorf("allocate %d buckets: %w", bucketCount, ErrOOM)
	}

	psl := make([]int32, bucketCount)
	for i := range psl {
		psl[i] = emptyBucket
	}

	t.keyStorage = keyStorage
	t.psl = psl
	t.vref = make([]valueRef, bucketCount)
	t.bucketCount = bucketCount
	t.maxPSL = 0

	return nil
}

func (t *Table) keyAt(i uint32) []byte {
	size := t.cfg.KeySize

	return t.keyStorage[int(i)*size : (int(i)+1)*size]
}

func (t *Table) hash(key []byte) uint64 {
	return xxh3.Hash(key)
}

func (t *Table) startBucket(hash uint64) uint32 {
	return uint32(hash % uint64(t.bucketCount))
}

func (t *Table) nextBucket(i uint32) uint32 {
	i++
	if i >= t.bucketCount {
		i = 0
	}

	return i
}

func (t *Table) occupied(i uint32) bool {
	return t.psl[i] != emptyBucket
}
