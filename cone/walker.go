package cone

import (
	"math"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phil-mansfield/healcone/bmoc"
	"github.com/phil-mansfield/healcone/geom"
	"github.com/phil-mansfield/healcone/healpix"
	"github.com/phil-mansfield/healcone/logging"
)

// denseEdgeSegments is the number of segments per edge used to settle
// cells whose sampled boundary only touches the cone within the margin.
const denseEdgeSegments = 64

type item struct {
	depth int
	hash  uint64
}

// walker holds the scratch space of a single computer.
type walker struct {
	p       *params
	stack   []item
	cand    []uint64
	builder *bmoc.Builder
	shape   healpix.Shape
	dense   []geom.Coo

	// Per-query state.
	cone       *geom.Cone
	hole       *geom.Cone
	centerHash uint64
	antiHash   []uint64
	visited    int
}

func newWalker(p *params) *walker {
	return &walker{
		p:        p,
		stack:    make([]item, 0, 64),
		builder:  bmoc.NewBuilder(p.depth, 64),
		antiHash: make([]uint64, p.depth+1),
	}
}

// walk refines the cells around c and returns those selected by mode. The
// search starts from the candidates at the start depth and goes through an
// explicit stack. Each cell is either discarded, accepted as fully inside
// the cone, split into its children, or, at the deepest depth, decided by
// mode.
func (w *walker) walk(c *geom.Cone, mode ReturnedCells) (*bmoc.BMOC, error) {
	w.builder.Reset()
	w.visited = 0

	if c.WholeSphere() {
		for h := uint64(0); h < healpix.BaseCells; h++ {
			w.builder.Push(0, h, true)
		}
		return w.build(c, mode)
	}

	w.setup(c)
	sd := w.p.startDepth
	w.cand = healpix.Get(sd).ConeCandidates(c, w.p.slack, w.cand[:0])
	w.stack = w.stack[:0]
	for i := len(w.cand) - 1; i >= 0; i-- {
		w.stack = append(w.stack, item{sd, w.cand[i]})
	}

	for len(w.stack) > 0 {
		it := w.stack[len(w.stack)-1]
		w.stack = w.stack[:len(w.stack)-1]
		w.visit(it, mode)
	}

	return w.build(c, mode)
}

func (w *walker) setup(c *geom.Cone) {
	w.cone = c
	w.hole = nil
	w.centerHash = healpix.Get(w.p.depth).Hash(c.Lon(), c.Lat())

	if c.Radius() > geom.HalfPi {
		// Wider than a hemisphere, the cone is no longer convex. The part of
		// the sphere it misses is the smaller cap around its antipode.
		anti := c.Antipode()
		w.hole, _ = geom.NewCone(anti.Lon, anti.Lat, math.Pi-c.Radius())
		h := healpix.Get(w.p.depth).Hash(anti.Lon, anti.Lat)
		for d := w.p.depth; d >= 0; d-- {
			w.antiHash[d] = h
			h = healpix.Parent(h)
		}
	}
}

func (w *walker) visit(it item, mode ReturnedCells) {
	w.visited++
	l := healpix.Get(it.depth)
	s := &w.shape
	l.Shape(it.hash, s)

	c := w.cone
	br := s.BoundingRadius(w.p.slack)
	if !c.MayIntersect(s.Center.Lon, s.Center.Lat, br) {
		return
	}

	// Sampled edges are chords of the true, slightly curved, cell edges.
	// margin bounds how far the two can be apart.
	segs := float64(healpix.EdgeSegments(it.depth))
	margin := 2 * (s.Radius / segs) * (s.Radius / segs)

	if w.fullyInside(it, br, margin) {
		w.builder.Push(it.depth, it.hash, true)
		return
	}

	if it.depth < w.p.depth {
		ch := healpix.Children(it.hash)
		for i := 3; i >= 0; i-- {
			w.stack = append(w.stack, item{it.depth + 1, ch[i]})
		}
		return
	}

	switch mode {
	case Overlapping:
		if w.overlaps(l, it.hash, margin) {
			w.builder.Push(it.depth, it.hash, false)
		}
	case CenterIn:
		if c.ContainsPoint(s.Center.Lon, s.Center.Lat) {
			w.builder.Push(it.depth, it.hash, false)
		}
	}
}

// overlaps decides whether the deepest-depth cell in w.shape shares area
// with the cone. Boundary samples lie on the true edges, so a sample inside
// the cone settles it. Only the chords between samples are approximate: a
// cell whose chords reach the cone only within margin is resampled densely.
func (w *walker) overlaps(
	l *healpix.Layer, hash uint64, margin float64,
) bool {
	s, c := &w.shape, w.cone
	switch {
	case hash == w.centerHash, c.ContainsAny(s.Boundary):
		return true
	case !c.IntersectsBoundaryWithin(s.Boundary, margin):
		return false
	}

	w.dense = l.PathAlongCellEdge(hash, denseEdgeSegments, w.dense[:0])
	return c.IntersectsBoundary(w.dense)
}

// fullyInside returns true if the cell in w.shape is certainly inside the
// cone.
func (w *walker) fullyInside(it item, br, margin float64) bool {
	s, c := &w.shape, w.cone
	if c.ContainsCap(s.Center.Lon, s.Center.Lat, br) {
		return true
	}
	if w.hole != nil {
		return w.antiHash[it.depth] != it.hash &&
			!w.hole.IntersectsBoundaryWithin(s.Boundary, margin)
	}
	return c.ContainsAllWithin(s.Boundary, margin)
}

func (w *walker) build(c *geom.Cone, mode ReturnedCells) (*bmoc.BMOC, error) {
	m, err := w.builder.Build()
	if err != nil {
		return nil, err
	}

	if ce := logging.L().Check(zapcore.DebugLevel, "cone query"); ce != nil {
		ce.Write(
			zap.Float64("lon", c.Lon()),
			zap.Float64("lat", c.Lat()),
			zap.Float64("radius", c.Radius()),
			zap.Stringer("mode", mode),
			zap.Int("visited", w.visited),
			zap.Int("cells", m.Size()),
		)
	}
	return m, nil
}
