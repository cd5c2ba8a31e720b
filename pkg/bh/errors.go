package bh

import "errors"

// Error classification codes.
//
// Implementations MAY wrap these errors with additional context via
// fmt.Errorf("...: %w", ErrXxx). Callers MUST classify errors using
// errors.Is.
var (
	// ErrInvalidConfig indicates New was called with an illegal Config.
	ErrInvalidConfig = errors.New("bh: invalid config")
	// ErrFull indicates insert into a non-resizable, at-capacity heap.
	ErrFull = errors.New("bh: full")
	// ErrOOM indicates the configured allocator failed to grow the heap.
	ErrOOM = errors.New("bh: out of memory")
)
