/*package cone computes the HEALPix cells covered by cones of a fixed radius.

A FixedRadiusComputer is built once for a depth and a radius and can then be
queried for any number of cone centers:

    c, err := cone.NewFixedRadiusComputer(12, 0.01)
    m, err := c.OverlappingCells(lon, lat)

Each query returns a BMOC. The cells it contains depend on the requested
ReturnedCells mode, but in every mode a cell lying entirely inside the cone
is returned at the coarsest depth possible with its full flag set.

A computer reuses internal buffers between queries, so it must not be used
by more than one goroutine at a time. Concurrent use is detected and causes
a panic. Use Clone to get an independent computer for each goroutine;
clones share everything which doesn't change between queries.
*/
package cone

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/phil-mansfield/healcone/bmoc"
	"github.com/phil-mansfield/healcone/geom"
	"github.com/phil-mansfield/healcone/healpix"
)

// ErrInvalidArgument is returned (wrapped) for out of range depths, radii
// and coordinates, and for unknown modes.
var ErrInvalidArgument = geom.ErrInvalidArgument

const (
	// StartDepthFactor is the ratio between the cone radius and the size of
	// the cells at which the search starts.
	StartDepthFactor = 1.0
	// DefaultBoundarySlack is the default factor by which the distance
	// between a cell's center and its sampled boundary is enlarged.
	DefaultBoundarySlack = 1.02
)

// ReturnedCells selects which cells a query returns.
type ReturnedCells int

const (
	// FullyIn returns only the cells lying entirely inside the cone.
	FullyIn ReturnedCells = iota
	// Overlapping returns every cell which shares some area with the cone.
	Overlapping
	// CenterIn returns full cells plus the deepest cells whose center is in
	// the cone.
	CenterIn
)

var modeNames = []string{"fully-in", "overlapping", "center-in"}

func (m ReturnedCells) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("ReturnedCells(%d)", int(m))
	}
	return modeNames[m]
}

func (m ReturnedCells) valid() bool { return m >= FullyIn && m <= CenterIn }

// ParseReturnedCells converts a mode name, as given by ReturnedCells.String,
// into a ReturnedCells value.
func ParseReturnedCells(s string) (ReturnedCells, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i := range modeNames {
		if s == modeNames[i] {
			return ReturnedCells(i), nil
		}
	}
	return 0, fmt.Errorf("%w: the mode '%s' is not one of %s",
		ErrInvalidArgument, s, strings.Join(modeNames, ", "))
}

// StartDepth returns the depth at which the search for the cells of a cone
// with the given radius starts: the shallowest depth whose cells are no
// larger than StartDepthFactor*radius, clamped to [0, maxDepth].
func StartDepth(radius float64, maxDepth int) int {
	for d := 0; d < maxDepth; d++ {
		if healpix.AngularScale(d) <= StartDepthFactor*radius {
			return d
		}
	}
	if maxDepth < 0 {
		return 0
	}
	return maxDepth
}

// params holds the parts of a computer which never change. It is shared
// between clones.
type params struct {
	depth, startDepth int
	radius, slack     float64
}

// Option configures a FixedRadiusComputer.
type Option func(*params) error

// WithBoundarySlack sets the factor by which cell bounding radii are
// enlarged before they are compared against the cone. It must be at least 1.
// Larger values visit more cells but make the rejection test more robust
// against the approximation of cell edges by sampled points.
func WithBoundarySlack(f float64) Option {
	return func(p *params) error {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 1 {
			return fmt.Errorf("%w: boundary slack %g must be finite and at "+
				"least 1", ErrInvalidArgument, f)
		}
		p.slack = f
		return nil
	}
}

// FixedRadiusComputer answers cone queries at a fixed depth and radius.
type FixedRadiusComputer struct {
	p    *params
	w    *walker
	busy atomic.Bool
}

// NewFixedRadiusComputer returns a computer for cones of the given radius
// whose results are refined down to depth. Radii of pi or more describe the
// whole sphere.
func NewFixedRadiusComputer(
	depth int, radius float64, opts ...Option,
) (*FixedRadiusComputer, error) {
	if err := healpix.CheckDepth(depth); err != nil {
		return nil, err
	}
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius <= 0 {
		return nil, fmt.Errorf("%w: cone radius %g must be finite and "+
			"positive", ErrInvalidArgument, radius)
	}

	p := &params{
		depth:      depth,
		startDepth: StartDepth(radius, depth),
		radius:     radius,
		slack:      DefaultBoundarySlack,
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	return &FixedRadiusComputer{p: p, w: newWalker(p)}, nil
}

// Radius returns the radius of the cones, in radians.
func (c *FixedRadiusComputer) Radius() float64 { return c.p.radius }

// Depth returns the depth of the deepest cells in the results.
func (c *FixedRadiusComputer) Depth() int { return c.p.depth }

// StartDepth returns the depth at which searches start.
func (c *FixedRadiusComputer) StartDepth() int { return c.p.startDepth }

// BoundarySlack returns the factor applied to cell bounding radii.
func (c *FixedRadiusComputer) BoundarySlack() float64 { return c.p.slack }

// OverlappingCells returns the cells which overlap the cone centered on
// (lon, lat).
func (c *FixedRadiusComputer) OverlappingCells(
	lon, lat float64,
) (*bmoc.BMOC, error) {
	return c.Query(lon, lat, Overlapping)
}

// OverlappingCenters returns the cells lying entirely inside the cone
// centered on (lon, lat), and the cells at the computer's depth whose
// centers are inside it.
func (c *FixedRadiusComputer) OverlappingCenters(
	lon, lat float64,
) (*bmoc.BMOC, error) {
	return c.Query(lon, lat, CenterIn)
}

// FullyInCells returns the cells lying entirely inside the cone centered on
// (lon, lat).
func (c *FixedRadiusComputer) FullyInCells(
	lon, lat float64,
) (*bmoc.BMOC, error) {
	return c.Query(lon, lat, FullyIn)
}

// Query returns the cells selected by mode for the cone centered on
// (lon, lat). lon is taken modulo 2 pi.
func (c *FixedRadiusComputer) Query(
	lon, lat float64, mode ReturnedCells,
) (*bmoc.BMOC, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%w: unknown mode %s", ErrInvalidArgument, mode)
	}
	cone, err := geom.NewCone(lon, lat, c.p.radius)
	if err != nil {
		return nil, err
	}

	c.acquire()
	defer c.release()

	m, err := c.w.walk(cone, mode)
	if err != nil {
		panic(fmt.Sprintf("cone: internal error for %s in mode %s: %s",
			cone, mode, err.Error()))
	}
	return m, nil
}

// Clone returns a computer with the same depth, radius and options which
// can be used concurrently with c.
func (c *FixedRadiusComputer) Clone() *FixedRadiusComputer {
	return &FixedRadiusComputer{p: c.p, w: newWalker(c.p)}
}

func (c *FixedRadiusComputer) acquire() {
	if !c.busy.CompareAndSwap(false, true) {
		panic("cone: a FixedRadiusComputer was used by several goroutines " +
			"at once; use Clone to give each goroutine its own computer")
	}
}

func (c *FixedRadiusComputer) release() { c.busy.Store(false) }
