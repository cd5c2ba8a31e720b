// Package tpht implements a temporal, prioritized hash table: an
// [lpht.Table] whose entries may additionally be enrolled in one of
// several timeout slots, each an [bh.Heap] keyed by a monotonically
// increasing timestamp. NextTimeoutEntries sweeps slots in registration
// order and evicts every entry whose configured timeout has elapsed
// against the table's current global time.
//
// Table is not safe for concurrent use by multiple goroutines.
package tpht
