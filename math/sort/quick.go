package sort

const (
	manualLen = 25
)

// sort3 sorts three values from largest to smallest.
func sort3(x, y, z uint64) (max, mid, min uint64) {
	if x > y {
		if x > z {
			if y > z {
				return x, y, z
			}
			return x, z, y
		}
		return z, x, y
	}
	if y > z {
		if x > z {
			return y, x, z
		}
		return y, z, x
	}
	return z, y, x
}

// Uint64s sorts a slice in place via quicksort (and returns the result for
// convenience). Short slices are handed to Shell.
func Uint64s(xs []uint64) []uint64 {
	out := xs
	for len(xs) >= manualLen {
		pivIdx := partition(xs)
		// Recurse on the smaller half so the stack stays logarithmic.
		if pivIdx < len(xs)-pivIdx {
			Uint64s(xs[:pivIdx])
			xs = xs[pivIdx:]
		} else {
			Uint64s(xs[pivIdx:])
			xs = xs[:pivIdx]
		}
	}
	Shell(xs)
	return out
}

// partition rearranges the elements of a slice, xs, into two contiguous
// groups, such that every element of the first group is no larger than every
// element of the second. partition then returns the length of the first
// group.
func partition(xs []uint64) int {
	n, n2 := len(xs), len(xs)/2
	// The median of three values is the pivot; the other two are sentinels
	// so that the scans below need no bounds checks.
	max, mid, min := sort3(xs[0], xs[n2], xs[n-1])
	xs[0], xs[n2], xs[n-1] = min, mid, max
	xs[1], xs[n2] = xs[n2], xs[1]

	lo, hi := 1, n-1
	for {
		lo++
		for xs[lo] < mid {
			lo++
		}
		hi--
		for xs[hi] > mid {
			hi--
		}
		if hi < lo {
			break
		}
		xs[lo], xs[hi] = xs[hi], xs[lo]
	}

	// Swap the pivot into the middle
	xs[1], xs[hi] = xs[hi], xs[1]

	return hi
}
