package lpht

import "errors"

var (
	// ErrInvalidConfig indicates New was called with an illegal Config.
	ErrInvalidConfig = errors.New("lpht: invalid config")
	// ErrFull indicates insert into a non-resizable, at-capacity table
	// with a key not already present.
	ErrFull = errors.New("lpht: full")
	// ErrOOM indicates the configured allocator failed to grow the table.
	ErrOOM = errors.New("lpht: out of memory")
	// ErrKeySize indicates a caller passed a key whose length does not
	// match Config.KeySize.
	ErrKeySize = errors.New("lpht: wrong key size")
	// ErrValueSize indicates a caller passed a value whose length does
	// not match Config.ValueSize.
	ErrValueSize = errors.New("lpht: wrong value size")
)
