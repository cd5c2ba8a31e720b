// Package bh implements an indirect binary min-heap keyed by signed 64-bit
// integers whose entries carry fixed-size opaque payloads.
//
// Every payload returned by [Heap.Insert] is a stable []byte: its backing
// array never moves for as long as that entry stays in the heap, no matter
// how many other inserts, deletes or key changes happen in between.
// [Heap.DeleteMin] returns a copy of the removed entry's payload, and
// [Heap.Remove] returns no payload. The heap achieves this by
// permuting only the key records during sift-up/sift-down; payload bytes
// live in a pool of fixed-capacity chunks that only ever grows, never
// reallocates in place.
//
// Heap is not safe for concurrent use by multiple goroutines.
package bh
