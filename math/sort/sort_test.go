package sort

import (
	"math/rand"
	"sort"
	"testing"
)

func sliceEq(xs, ys []uint64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}

	return true
}

func randSlice(n int, max uint64) []uint64 {
	xs := make([]uint64, n)
	for i := range xs {
		xs[i] = rand.Uint64() % max
	}
	return xs
}

func goSorted(xs []uint64) []uint64 {
	out := append([]uint64{}, xs...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestReverse(t *testing.T) {
	if !sliceEq([]uint64{1, 2, 3, 4, 5}, Reverse([]uint64{5, 4, 3, 2, 1})) ||
		!sliceEq([]uint64{2, 3, 4, 5}, Reverse([]uint64{5, 4, 3, 2})) {
		t.Errorf("Welp, I hope you're proud of yourself.")
	}
}

func TestUnique(t *testing.T) {
	tests := []struct {
		xs, out []uint64
	}{
		{[]uint64{}, []uint64{}},
		{[]uint64{7}, []uint64{7}},
		{[]uint64{1, 1, 1}, []uint64{1}},
		{[]uint64{1, 2, 2, 3, 4, 4}, []uint64{1, 2, 3, 4}},
	}

	for i := range tests {
		out := Unique(tests[i].xs)
		if !sliceEq(out, tests[i].out) {
			t.Errorf("%d) Expected Unique() = %v, got %v.",
				i+1, tests[i].out, out)
		}
	}
}

func TestShell(t *testing.T) {
	for _, n := range []int{0, 1, 2, 10, 1000} {
		xs := randSlice(n, 1<<62)
		exp := goSorted(xs)
		if !sliceEq(Shell(xs), exp) {
			t.Errorf("Failed to sort %d elements.", n)
		}
	}
}

func TestUint64s(t *testing.T) {
	for _, n := range []int{0, 1, 24, 25, 26, 1000, 10000} {
		// Small ranges produce many duplicates, large ones almost none.
		for _, max := range []uint64{3, 100, 1 << 62} {
			xs := randSlice(n, max)
			exp := goSorted(xs)
			out := Uint64s(xs)
			if !sliceEq(out, exp) || !IsSorted(xs) {
				t.Errorf("Failed to sort %d elements in [0, %d).", n, max)
			}
		}
	}
}

func TestUint64sOrdered(t *testing.T) {
	xs := make([]uint64, 5000)
	for i := range xs {
		xs[i] = uint64(i)
	}
	if !IsSorted(Uint64s(xs)) {
		t.Errorf("Failed to sort an already sorted slice.")
	}
	Reverse(xs)
	if !IsSorted(Uint64s(xs)) {
		t.Errorf("Failed to sort a reversed slice.")
	}
}

func benchmarkUint64s(b *testing.B, n int) {
	xs := randSlice(n, 1<<62)
	buf := make([]uint64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(buf, xs)
		Uint64s(buf)
	}
}

func benchmarkGo(b *testing.B, n int) {
	xs := randSlice(n, 1<<62)
	buf := make([]uint64, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(buf, xs)
		sort.Slice(buf, func(i, j int) bool { return buf[i] < buf[j] })
	}
}

func BenchmarkUint64s100(b *testing.B)   { benchmarkUint64s(b, 100) }
func BenchmarkUint64s10000(b *testing.B) { benchmarkUint64s(b, 10000) }
func BenchmarkGo100(b *testing.B)        { benchmarkGo(b, 100) }
func BenchmarkGo10000(b *testing.B)      { benchmarkGo(b, 10000) }
