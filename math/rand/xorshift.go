package rand

import (
	"math"
)

var (
	xorshiftMaxUint = float64(math.MaxUint32)
)

// xorshiftGenerator is Marsaglia's xor128 generator.
type xorshiftGenerator struct {
	w, x, y, z uint32
}

func (gen *xorshiftGenerator) Init(seed uint64) {
	gen.x = 123456789 ^ uint32(seed>>32)
	gen.y = 362436069
	gen.z = 521288629
	gen.w = uint32(seed)
	if gen.x == 0 {
		gen.x = 123456789
	}
}

func (gen *xorshiftGenerator) step() uint32 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	return gen.w
}

func (gen *xorshiftGenerator) Next() float64 {
	for {
		// Outputs are in (0, 1]; 1 is rejected to keep the range [0, 1).
		res := float64(math.MaxUint32-gen.step()) / xorshiftMaxUint
		if res != 1.0 {
			return res
		}
	}
}

func (gen *xorshiftGenerator) NextSequence(target []float64) {
	for i := range target {
		target[i] = gen.Next()
	}
}
