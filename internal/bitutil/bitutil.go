// Package bitutil provides the small sizing-arithmetic helper shared by
// pkg/lpht's initial and resize bucket-count computation, grounded on
// pkg/slotcache's format.go (computeBucketCount).
package bitutil

// CeilDiv returns ceil(numerator / denominator) for a float denominator in
// (0, 1], matching oha_lpht's `ceil((1 / load_factor) * max_elems)` sizing.
func CeilDiv(numerator uint64, loadFactor float64) uint64 {
	needed := float64(numerator)/loadFactor + 0.999999999

	return uint64(needed)
}
