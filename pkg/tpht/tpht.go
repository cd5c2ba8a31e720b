package tpht

import (
	"fmt"

	"github.com/EinfachAndy/oha/internal/alloc"
	"github.com/EinfachAndy/oha/pkg/bh"
	"github.com/EinfachAndy/oha/pkg/lpht"
)

// maxTimeoutSlots mirrors the original library's SCHAR_MAX cap: slot ids
// are one-based uint8 values, and slot id 0 is reserved to mean "not
// enrolled in any timeout slot".
const maxTimeoutSlots = 127

// Config configures a Table.
type Config struct {
	// KeySize is the fixed size, in bytes, of every key. Must be > 0.
	KeySize int
	// ValueSize is the fixed size, in bytes, of every user payload. Must
	// be > 0.
	ValueSize int
	// MaxElems is the initial capacity of the underlying hash table.
	// Must be > 0.
	MaxElems uint32
	// MaxLoadFactor bounds the underlying hash table's load factor.
	// Defaults to 0.8 when zero.
	MaxLoadFactor float64
	// Resizable allows the underlying hash table to grow past MaxElems.
	Resizable bool
	// Allocator backs every chunk growth across the table and every
	// timeout slot's heap. A nil Allocator uses alloc.Default().
	Allocator alloc.Allocator
}

type timeoutSlot struct {
	heap    *bh.Heap
	timeout int64
}

// handle is the bookkeeping tpht keeps, outside of lpht's fixed-size
// value bytes, to relate a key enrolled in a timeout slot back to its
// live entry in that slot's heap. Go has no way to serialize a []byte
// slice header into a fixed-size byte buffer without unsafe, so rather
// than embed a raw pointer inside the lpht value bytes the way the
// original C layout does, tpht keeps this association in an ordinary map
// keyed by the entry's key bytes - the same identity lpht itself already
// keys entries by.
type handle struct {
	slot uint8 // 1-based
	buf  []byte
	ts   int64
}

// Table couples an [lpht.Table] with one or more [bh.Heap] timeout
// slots. A Table must be obtained via [New]; the zero value is not
// usable. Table is not safe for concurrent use.
type Table struct {
	cfg       Config
	allocator alloc.Allocator

	lpht *lpht.Table

	slots         []timeoutSlot
	lastTimestamp int64

	handles map[string]*handle
}

// New creates a table per config, or returns a wrapped [ErrInvalidConfig]
// / an error from the underlying lpht.Table.
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

	allocator := alloc.Or(cfg.Allocator)

	// Every lpht value carries a one-byte slot id ahead of the caller's
	// payload, the direct translation of oha_tpht_value_bucket.slot_id.
	underlying, err := lpht.New(lpht.Config{
		KeySize:       cfg.KeySize,
		ValueSize:     1 + cfg.ValueSize,
		MaxElems:      cfg.MaxElems,
		MaxLoadFactor: cfg.MaxLoadFactor,
		Resizable:     cfg.Resizable,
		Allocator:     allocator,
	})
	if err != nil {
		return nil, err
	}

	return &Table{
		cfg:       cfg,
		allocator: allocator,
		lpht:      underlying,
		handles:   make(map[string]*handle),
	}, nil
}

// Close releases the table's internal storage, including every timeout
// slot's heap. After Close, t must not be used again.
func (t *Table) Close() {
	t.lpht.Close()

	for _, s := range t.slots {
		s.heap.Close()
	}

	t.slots = nil
	t.handles = nil
}

// Len returns the number of entries currently stored.
func (t *Table) Len() int {
	return t.lpht.Len()
}

// AddTimeoutSlot registers a new timeout slot with the given timeout
// duration (in the same time unit as IncreaseGlobalTime's argument) and
// returns its one-based slot id, for use with Insert and SetTimeoutSlot.
// A table may hold at most 127 timeout slots.
func (t *Table) AddTimeoutSlot(timeout int64, maxElems uint32, resizable bool) (uint8, error) {
	if len(t.slots) >= maxTimeoutSlots {
		return 0, ErrTooManySlots
	}

	heap, err := bh.New(bh.Config{
		ValueSize: t.cfg.KeySize,
		MaxElems:  maxElems,
		Resizable: resizable,
		Allocator: t.allocator,
	})
	if err != nil {
		return 0, err
	}

	t.slots = append(t.slots, timeoutSlot{heap: heap, timeout: timeout})

	return uint8(len(t.slots)), nil
}

// IncreaseGlobalTime advances the table's notion of the current time.
// Timestamps must be non-decreasing; a regression returns a wrapped
// [ErrTimeWentBackwards].
func (t *Table) IncreaseGlobalTime(timestamp int64) error {
	if timestamp < t.lastTimestamp {
		return fmt.Errorf("new time %d precedes current time %d: %w", timestamp, t.lastTimestamp, ErrTimeWentBackwards)
	}

	t.lastTimestamp = timestamp

	return nil
}

func (t *Table) checkSlotID(slotID uint8) error {
	if int(slotID) > len(t.slots) {
		return fmt.Errorf("slot %d was never registered: %w", slotID, ErrUnknownSlot)
	}

	return nil
}
