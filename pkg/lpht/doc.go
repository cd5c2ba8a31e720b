// Package lpht implements a Robin Hood linear-probing hash table over
// fixed-size byte-slice keys and values.
//
// Every value returned by [Table.Insert] or [Table.Lookup] is a stable
// []byte that survives future inserts, removes and even [Table.Reserve]
// growth: key buckets are free to move during Robin Hood displacement and
// rehashing, but the bytes a value points at never do. Only the (chunk,
// index) binding a key bucket holds changes; the payload itself lives in
// a pool of fixed-capacity chunks that only ever grows.
//
// Table is not safe for concurrent use by multiple goroutines.
package lpht
