/*package sort provides in-place sorting of uint64 slices without the
overhead of Go's interfaces. It is used to put coverage words into their
canonical order.
*/
package sort

// IsSorted returns true if xs is in non-decreasing order.
func IsSorted(xs []uint64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return false
		}
	}
	return true
}

// Reverse reverses a slice in place (and returns it for convenience).
func Reverse(xs []uint64) []uint64 {
	n1, n2 := len(xs)-1, len(xs)/2
	for i := 0; i < n2; i++ {
		xs[i], xs[n1-i] = xs[n1-i], xs[i]
	}
	return xs
}

// Unique removes adjacent duplicates from a sorted slice in place and
// returns the shortened slice.
func Unique(xs []uint64) []uint64 {
	if len(xs) < 2 {
		return xs
	}
	n := 1
	for i := 1; i < len(xs); i++ {
		if xs[i] != xs[n-1] {
			xs[n] = xs[i]
			n++
		}
	}
	return xs[:n]
}
