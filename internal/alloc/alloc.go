// Package alloc provides the allocation shim shared by pkg/bh, pkg/lpht and
// pkg/tpht.
//
// The original C library (oha) routes every allocation through a
// user-supplied { malloc, realloc, calloc, free } quartet plus an opaque
// cookie, so callers can plug in an arena or a pool allocator. Go has no
// manual free and no void* cookie, so the shim collapses to a small
// interface that returns freshly allocated byte slices; a closure plays the
// role the cookie used to play. The default implementation is backed by the
// runtime allocator and never fails; any other Allocator can be supplied
// through a container's Config, and an error it returns surfaces as that
// container's wrapped ErrOOM.
package alloc

import "errors"

// ErrOOM is returned by an Allocator that cannot satisfy a request.
var ErrOOM = errors.New("alloc: out of memory")

// Allocator is the Go-native replacement for oha_memory_fp.
type Allocator interface {
	// Alloc returns a slice of length n. Contents are unspecified.
	Alloc(n int) ([]byte, error)
	// AllocZeroed returns a slice of length n with every byte zeroed.
	AllocZeroed(n int) ([]byte, error)
}

type defaultAllocator struct{}

func (defaultAllocator) Alloc(n int) ([]byte, error) {
	return make([]byte, n), nil
}

func (defaultAllocator) AllocZeroed(n int) ([]byte, error) {
	// make([]byte, n) is always zeroed by the Go runtime.
	return make([]byte, n), nil
}

// Default returns the process-heap-backed Allocator used when a Config
// leaves its Allocator field nil.
func Default() Allocator {
	return defaultAllocator{}
}

// Or returns a if it is non-nil, else the default allocator. Every
// container config funnels its (possibly nil) Allocator field through
// this helper.
func Or(a Allocator) Allocator {
	if a == nil {
		return Default()
	}

	return a
}
