package tpht

import "errors"

var (
	// ErrInvalidConfig indicates New was called with an illegal Config.
	ErrInvalidConfig = errors.New("tpht: invalid config")
	// ErrTooManySlots indicates AddTimeoutSlot was called after the
	// table already holds the maximum of 127 timeout slots.
	ErrTooManySlots = errors.New("tpht: too many timeout slots")
	// ErrUnknownSlot indicates an operation referenced a timeout slot id
	// that was never returned by AddTimeoutSlot.
	ErrUnknownSlot = errors.New("tpht: unknown timeout slot")
	// ErrTimeWentBackwards indicates IncreaseGlobalTime was called with
	// a timestamp older than the table's current global time.
	ErrTimeWentBackwards = errors.New("tpht: time went backwards")
	// ErrKeySize indicates a caller passed a key whose length does not
	// match Config.KeySize.
	ErrKeySize = errors.New("tpht: wrong key size")
	// ErrValueSize indicates a caller passed a value whose length does
	// not match Config.ValueSize.
	ErrValueSize = errors.New("tpht: wrong value size")
	// ErrNotFound indicates the referenced key has no entry.
	ErrNotFound = errors.New("tpht: not found")
)
