// Package addrrange provides the half-open range primitive shared by the
// address-window logic (margins, the registry's range query) and the
// free-region scanner's saturating page-step arithmetic.
package addrrange

import "cmp"

// Range is a half-open interval [Lo, Hi) over an ordered scalar type.
// It is the sole abstraction for "is v inside this interval" used
// throughout the allocator: address windows, the sentinel valid-address
// range, and the scanner's bookkeeping all share it.
type Range[T cmp.Ordered] struct {
	Lo, Hi T
}

// Contains reports whether v falls in [Lo, Hi).
func (r Range[T]) Contains(v T) bool {
	return r.Lo <= v && v < r.Hi
}

// Empty reports whether the range contains no values.
func (r Range[T]) Empty() bool {
	return r.Lo >= r.Hi
}
