package healpix

import (
	"github.com/phil-mansfield/healcone/geom"
)

// Shape is the sampled geometry of a single cell. A Shape can be reused
// between cells to avoid allocating boundary buffers.
type Shape struct {
	Depth    int
	Hash     uint64
	Center   geom.Coo
	Boundary []geom.Coo
	// Radius is the largest distance between Center and a point of Boundary.
	Radius float64
}

// EdgeSegments returns the number of segments each cell edge is cut into
// when sampling the boundary of a cell at the given depth. Coarse cells have
// visibly curved edges and need more samples.
func EdgeSegments(depth int) int {
	switch {
	case depth <= 2:
		return 8
	case depth <= 6:
		return 4
	default:
		return 2
	}
}

// Shape fills s with the geometry of the given cell.
func (l *Layer) Shape(hash uint64, s *Shape) {
	s.Depth, s.Hash = l.depth, hash
	s.Center = l.CenterCoo(hash)
	s.Boundary = l.PathAlongCellEdge(hash, EdgeSegments(l.depth),
		s.Boundary[:0])
	s.Radius = geom.MaxDistance(s.Center, s.Boundary)
}

// BoundingRadius returns the radius of a cap around the center of the cell
// which contains its sampled boundary, enlarged by the factor slack.
func (s *Shape) BoundingRadius(slack float64) float64 {
	return s.Radius * slack
}

// ConeCandidates appends to buf every cell of the layer whose bounding cap,
// enlarged by the factor slack, may touch the cone, and returns the result.
// The search descends from the base cells and prunes every cell rejected by
// the bounding cap test, so its cost scales with the depth and the number of
// candidates rather than with the number of cells in the layer.
func (l *Layer) ConeCandidates(
	c *geom.Cone, slack float64, buf []uint64,
) []uint64 {
	type item struct {
		depth int
		hash  uint64
	}

	stack := make([]item, 0, 4*(l.depth+BaseCells))
	for h := BaseCells - 1; h >= 0; h-- {
		stack = append(stack, item{0, uint64(h)})
	}

	s := &Shape{}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		Get(it.depth).Shape(it.hash, s)
		br := s.BoundingRadius(slack)
		if !c.MayIntersect(s.Center.Lon, s.Center.Lat, br) {
			continue
		}
		if it.depth == l.depth {
			buf = append(buf, it.hash)
			continue
		}

		ch := Children(it.hash)
		for i := 3; i >= 0; i-- {
			stack = append(stack, item{it.depth + 1, ch[i]})
		}
	}

	return buf
}
