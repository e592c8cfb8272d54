// Package pivot implements the partitioning binary search used by the
// split kernel: given a sorted code range and a bit mask, find where the
// bit flips from 0 to 1.
package pivot

import "radixtree/types"

// Find returns the smallest index p in [begin, end] such that
// codes[p]&mask != 0, assuming codes[begin:end] is sorted by that bit (all
// 0s before all 1s). Returns end if no element has the bit set, begin if
// every element does. Pure, O(log n), no allocation.
//
//go:nosplit
//go:inline
func Find(codes []types.Code, begin, end int, mask uint32) int {
	lo, hi := begin, end
	for lo < hi {
		mid := lo + (hi-lo)/2
		if codes[mid]&mask != 0 {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}
