package healpix

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/healcone/geom"
)

func TestBaseCenters(t *testing.T) {
	latN := math.Asin(2.0 / 3)
	tests := []struct {
		hash     uint64
		lon, lat float64
	}{
		{0, math.Pi / 4, latN},
		{3, 7 * math.Pi / 4, latN},
		{4, 0, 0},
		{5, math.Pi / 2, 0},
		{7, 3 * math.Pi / 2, 0},
		{8, math.Pi / 4, -latN},
		{11, 7 * math.Pi / 4, -latN},
	}

	l := Get(0)
	for i := range tests {
		lon, lat := l.Center(tests[i].hash)
		if math.Abs(lon-tests[i].lon) > 1e-12 ||
			math.Abs(lat-tests[i].lat) > 1e-12 {
			t.Errorf("%d) Expected Center(%d) = (%g, %g), got (%g, %g).",
				i+1, tests[i].hash, tests[i].lon, tests[i].lat, lon, lat)
		}
	}
}

func TestIndexBitOrder(t *testing.T) {
	// At depth 1, ix is the low bit: cell 4*4 + 1 is the east child of the
	// base cell centered on (0, 0), cell 4*4 + 2 the west one.
	l := Get(1)
	lon, lat := l.Center(17)
	assert.InDelta(t, math.Pi/8, lon, 1e-12)
	assert.InDelta(t, 0, lat, 1e-12)

	lon, lat = l.Center(18)
	assert.InDelta(t, 2*math.Pi-math.Pi/8, lon, 1e-12)
	assert.InDelta(t, 0, lat, 1e-12)
}

func TestHashCenterRoundTrip(t *testing.T) {
	for d := 0; d <= 5; d++ {
		l := Get(d)
		for h := uint64(0); h < l.NCells(); h++ {
			lon, lat := l.Center(h)
			if out := l.Hash(lon, lat); out != h {
				t.Errorf("depth %d: Hash(Center(%d)) = %d.", d, h, out)
			}
		}
	}

	for _, d := range []int{12, 20, MaxDepth} {
		l := Get(d)
		for i := 0; i < 1000; i++ {
			h := rand.Uint64() % l.NCells()
			lon, lat := l.Center(h)
			if out := l.Hash(lon, lat); out != h {
				t.Errorf("depth %d: Hash(Center(%d)) = %d.", d, h, out)
			}
		}
	}
}

func TestHashPoles(t *testing.T) {
	l := Get(3)
	n := l.NSide() * l.NSide()
	for _, lon := range []float64{0, 1, 3, 5} {
		h := l.Hash(lon, math.Pi/2)
		assert.Equal(t, n-1, h&(n-1), "north pole, lon = %g", lon)
		assert.Less(t, l.BaseCellOf(h), uint64(4))

		h = l.Hash(lon, -math.Pi/2)
		assert.Equal(t, uint64(0), h&(n-1), "south pole, lon = %g", lon)
		assert.GreaterOrEqual(t, l.BaseCellOf(h), uint64(8))
	}
}

func TestHashSeam(t *testing.T) {
	l := Get(8)
	for _, lat := range []float64{-1.2, -0.5, 0, 0.3, 1.1} {
		assert.Equal(t, l.Hash(0, lat), l.Hash(2*math.Pi, lat))
		assert.Equal(t, l.Hash(-1e-3, lat), l.Hash(2*math.Pi-1e-3, lat))
	}
}

func TestHashUniform(t *testing.T) {
	// Every depth-1 cell has the same area, so uniform points should land
	// in each of them about equally often.
	l := Get(1)
	counts := make([]int, l.NCells())
	n := 480000
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < n; i++ {
		lon := 2 * math.Pi * rng.Float64()
		lat := math.Asin(2*rng.Float64() - 1)
		counts[l.Hash(lon, lat)]++
	}

	mean := float64(n) / float64(l.NCells())
	for h, c := range counts {
		if math.Abs(float64(c)-mean) > 5*math.Sqrt(mean) {
			t.Errorf("Cell %d received %d points, expected ~%.0f.", h, c, mean)
		}
	}
}

func TestVerticesShared(t *testing.T) {
	// The east vertex of a cell is the south vertex of its ix+1 neighbor
	// inside the same base cell.
	l := Get(4)
	for face := uint64(0); face < BaseCells; face++ {
		for ix := uint64(0); ix+1 < l.NSide(); ix++ {
			iy := ix / 2
			h := face<<l.twiceDepth | interleave(ix, iy)
			next := face<<l.twiceDepth | interleave(ix+1, iy)
			e, s := l.Vertices(h)[1], l.Vertices(next)[0]
			d := geom.AngularDistance(e.Lon, e.Lat, s.Lon, s.Lat)
			if d > 1e-12 {
				t.Errorf("cell %d: east vertex is %g from neighbor.", h, d)
			}
		}
	}
}

func TestPathAlongCellEdge(t *testing.T) {
	l := Get(6)
	for _, h := range []uint64{0, 1000, 20000, l.NCells() - 1} {
		verts := l.Vertices(h)
		path := l.PathAlongCellEdge(h, 3, nil)
		require.Len(t, path, 12)
		for i := 0; i < 4; i++ {
			assert.InDelta(t, verts[i].Lat, path[3*i].Lat, 1e-12)
		}

		c := l.CenterCoo(h)
		r := geom.MaxDistance(c, path)
		assert.Less(t, r, 2*AngularScale(6))
		assert.Greater(t, r, AngularScale(6)/4)
	}

	assert.Len(t, l.PathAlongCellEdge(0, 0, nil), 4)
}

func TestHierarchy(t *testing.T) {
	for _, h := range []uint64{0, 5, 11, 123456} {
		ch := Children(h)
		for i := range ch {
			assert.Equal(t, h, Parent(ch[i]))
		}
		assert.Equal(t, 4*h+3, ch[3])
	}

	l := Get(10)
	for i := 0; i < 100; i++ {
		lon, lat := 2*math.Pi*rand.Float64(), math.Asin(2*rand.Float64()-1)
		assert.Equal(t, Get(9).Hash(lon, lat), Parent(l.Hash(lon, lat)))
		assert.Equal(t, Get(0).Hash(lon, lat), l.BaseCellOf(l.Hash(lon, lat)))
	}

	assert.True(t, l.Valid(l.NCells()-1))
	assert.False(t, l.Valid(l.NCells()))
}

func TestCellArea(t *testing.T) {
	for d := 0; d <= MaxDepth; d++ {
		total := CellArea(d) * float64(Get(d).NCells())
		assert.InDelta(t, 4*math.Pi, total, 1e-9)
	}
	assert.Equal(t, CellArea(7), Get(7).CellArea())
}

func TestDepthChecks(t *testing.T) {
	assert.NoError(t, CheckDepth(0))
	assert.NoError(t, CheckDepth(MaxDepth))
	assert.True(t, errors.Is(CheckDepth(-1), geom.ErrInvalidArgument))
	assert.True(t, errors.Is(CheckDepth(MaxDepth+1), geom.ErrInvalidArgument))
	assert.Panics(t, func() { Get(MaxDepth + 1) })
}

func TestConeCandidates(t *testing.T) {
	tests := []struct {
		lon, lat, r float64
		depth       int
	}{
		{0, 0, 0.01, 10},
		{0, math.Pi / 2, 0.3, 4},
		{3, -1.5, 0.05, 8},
		{2*math.Pi - 1e-9, 0.4, 0.2, 5},
		{1, 0.7297, 0.02, 9},
		{4, 0, 1.8, 2},
	}

	rng := rand.New(rand.NewSource(11))
	for i := range tests {
		tt := tests[i]
		c, err := geom.NewCone(tt.lon, tt.lat, tt.r)
		require.NoError(t, err)
		l := Get(tt.depth)
		cand := l.ConeCandidates(c, 1.02, nil)
		set := map[uint64]bool{}
		for _, h := range cand {
			set[h] = true
		}
		require.Len(t, set, len(cand), "%d) duplicate candidates", i+1)

		for j := 0; j < 2000; j++ {
			dist := tt.r * math.Sqrt(rng.Float64())
			lon, lat := geom.Destination(tt.lon, tt.lat, dist,
				2*math.Pi*rng.Float64())
			if h := l.Hash(lon, lat); !set[h] {
				t.Errorf("%d) Cell %d of point (%g, %g) is not a candidate.",
					i+1, h, lon, lat)
				break
			}
		}

		// Far fewer candidates than cells.
		if tt.depth >= 8 {
			assert.Less(t, uint64(len(cand)), l.NCells()/100)
		}
	}
}

func TestShape(t *testing.T) {
	s := &Shape{}
	l := Get(3)
	l.Shape(17, s)
	assert.Equal(t, 3, s.Depth)
	assert.Equal(t, uint64(17), s.Hash)
	assert.Len(t, s.Boundary, 4*EdgeSegments(3))
	assert.InDelta(t, s.Radius*1.5, s.BoundingRadius(1.5), 1e-15)

	// The boundary buffer is reused.
	old := &s.Boundary[0]
	l.Shape(18, s)
	assert.Equal(t, old, &s.Boundary[0])
}

func BenchmarkHash(b *testing.B) {
	l := Get(12)
	for i := 0; i < b.N; i++ {
		l.Hash(1.2, 0.9)
	}
}

func BenchmarkConeCandidates(b *testing.B) {
	c, _ := geom.NewCone(1, 0.3, 0.01)
	l := Get(12)
	buf := []uint64{}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf = l.ConeCandidates(c, 1.02, buf[:0])
	}
}
