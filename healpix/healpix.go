/*package healpix implements the parts of the nested HEALPix pixelization
needed by cone queries: hashing positions, cell centers and boundaries, the
cell hierarchy, and enumeration of the cells near a cone.

Everything is expressed through the HEALPix projection plane of Calabretta &
Roukema (2007), in which each cell is a square rotated by 45 degrees and cell
edges are straight lines. The plane spans x in [0, 8) and y in [-2, 2]; the
twelve base cells are centered on (1, 1), (3, 1), (5, 1), (7, 1) (north),
(0, 0), (2, 0), (4, 0), (6, 0) (equator) and (1, -1), (3, -1), (5, -1),
(7, -1) (south). Within a base cell, ix runs from the south vertex towards the
east vertex and iy from the south vertex towards the west vertex. ix is stored
in the even bits of the z-order index, iy in the odd bits.

Usage:

    layer := healpix.Get(10)
    h := layer.Hash(lon, lat)
    cLon, cLat := layer.Center(h)
    verts := layer.Vertices(h)
*/
package healpix

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/healcone/geom"
)

const (
	// MaxDepth is the deepest supported depth: 12*4^29 cells still fit in
	// the 62 bits left over by the BMOC word encoding.
	MaxDepth = 29
	// BaseCells is the number of cells at depth 0.
	BaseCells = 12

	fourOverPi   = 4 / math.Pi
	piOverFour   = math.Pi / 4
	transitionZ  = 2.0 / 3.0
	sqrt3        = 1.7320508075688772
	largestScale = 0.8410686705679303 // acos(2/3)
)

// Layer holds the constants of a single depth. Layers are immutable and
// shared; obtain them through Get.
type Layer struct {
	depth      int
	nside      uint64
	nHash      uint64
	xyMask     uint64
	twiceDepth uint
	invNside   float64
}

var layers [MaxDepth + 1]*Layer

func init() {
	for d := 0; d <= MaxDepth; d++ {
		nside := uint64(1) << uint(d)
		layers[d] = &Layer{
			depth:      d,
			nside:      nside,
			nHash:      BaseCells * nside * nside,
			xyMask:     nside*nside - 1,
			twiceDepth: uint(2 * d),
			invNside:   1 / float64(nside),
		}
	}
}

// Get returns the Layer at the given depth. It panics if depth is outside
// [0, MaxDepth].
func Get(depth int) *Layer {
	if depth < 0 || depth > MaxDepth {
		panic(fmt.Sprintf("healpix: depth %d is outside [0, %d]",
			depth, MaxDepth))
	}
	return layers[depth]
}

// CheckDepth returns an error if depth is not a supported depth.
func CheckDepth(depth int) error {
	if depth < 0 || depth > MaxDepth {
		return fmt.Errorf("%w: depth %d is outside [0, %d]",
			geom.ErrInvalidArgument, depth, MaxDepth)
	}
	return nil
}

func (l *Layer) Depth() int     { return l.depth }
func (l *Layer) NSide() uint64  { return l.nside }
func (l *Layer) NCells() uint64 { return l.nHash }

// CellArea returns the area of a single cell at this depth in steradians.
func (l *Layer) CellArea() float64 { return CellArea(l.depth) }

// CellArea returns the area of a cell at the given depth in steradians. All
// cells at a given depth have the same area.
func CellArea(depth int) float64 {
	return math.Pi / (3 * float64(uint64(1)<<uint(2*depth)))
}

// AngularScale returns the characteristic angular size of the cells at the
// given depth: the center-to-vertex distance of the polar base cells, halved
// at each depth.
func AngularScale(depth int) float64 {
	return math.Ldexp(largestScale, -depth)
}

// Hash returns the index of the cell containing (lon, lat).
func (l *Layer) Hash(lon, lat float64) uint64 {
	x, y := project(lon, lat)
	face := baseCell(x, y)
	fx, fy := baseCenter(face)

	dx, dy := x-fx, y-fy
	if dx > 4 {
		dx -= 8
	} else if dx < -4 {
		dx += 8
	}

	a := (dx + dy + 1) / 2
	b := (dy + 1 - dx) / 2
	ix, iy := l.clampIndex(a), l.clampIndex(b)

	return face<<l.twiceDepth | interleave(ix, iy)
}

func (l *Layer) clampIndex(frac float64) uint64 {
	v := math.Floor(frac * float64(l.nside))
	if v < 0 {
		return 0
	} else if v >= float64(l.nside) {
		return l.nside - 1
	}
	return uint64(v)
}

// Center returns the position of the center of a cell.
func (l *Layer) Center(hash uint64) (lon, lat float64) {
	x, y := l.centerXY(hash)
	return unproject(x, y)
}

// CenterCoo is a convenience wrapper around Center.
func (l *Layer) CenterCoo(hash uint64) geom.Coo {
	lon, lat := l.Center(hash)
	return geom.Coo{Lon: lon, Lat: lat}
}

// Vertices returns the south, east, north and west vertices of a cell, in
// that order.
func (l *Layer) Vertices(hash uint64) [4]geom.Coo {
	x, y := l.centerXY(hash)
	d := l.invNside
	out := [4]geom.Coo{}
	out[0].Lon, out[0].Lat = unproject(x, y-d)
	out[1].Lon, out[1].Lat = unproject(x+d, y)
	out[2].Lon, out[2].Lat = unproject(x, y+d)
	out[3].Lon, out[3].Lat = unproject(x-d, y)
	return out
}

// PathAlongCellEdge appends the boundary of a cell to buf and returns the
// result. The boundary runs S -> E -> N -> W and each edge is cut into
// segments pieces which are uniform in the projection plane, so the path has
// 4*segments points and starts with the south vertex. The path is closed
// implicitly.
func (l *Layer) PathAlongCellEdge(
	hash uint64, segments int, buf []geom.Coo,
) []geom.Coo {
	if segments < 1 {
		segments = 1
	}
	x, y := l.centerXY(hash)
	d := l.invNside
	corners := [5][2]float64{
		{x, y - d}, {x + d, y}, {x, y + d}, {x - d, y}, {x, y - d},
	}

	step := 1 / float64(segments)
	for e := 0; e < 4; e++ {
		x0, y0 := corners[e][0], corners[e][1]
		dx, dy := corners[e+1][0]-x0, corners[e+1][1]-y0
		for i := 0; i < segments; i++ {
			t := float64(i) * step
			var c geom.Coo
			c.Lon, c.Lat = unproject(x0+t*dx, y0+t*dy)
			buf = append(buf, c)
		}
	}
	return buf
}

// Children returns the four cells at depth+1 contained in hash.
func Children(hash uint64) [4]uint64 {
	h := hash << 2
	return [4]uint64{h, h | 1, h | 2, h | 3}
}

// Parent returns the cell at depth-1 which contains hash.
func Parent(hash uint64) uint64 { return hash >> 2 }

// BaseCellOf returns the depth-0 ancestor of a cell at this depth.
func (l *Layer) BaseCellOf(hash uint64) uint64 { return hash >> l.twiceDepth }

// Valid returns true if hash is a cell index at this depth.
func (l *Layer) Valid(hash uint64) bool { return hash < l.nHash }

// centerXY returns the projection-plane coordinates of a cell's center.
func (l *Layer) centerXY(hash uint64) (x, y float64) {
	face := hash >> l.twiceDepth
	ix, iy := deinterleave(hash & l.xyMask)
	fx, fy := baseCenter(face)
	x = fx + (float64(ix)-float64(iy))*l.invNside
	y = fy - 1 + float64(ix+iy+1)*l.invNside
	return x, y
}

// baseCenter returns the projection-plane center of a base cell.
func baseCenter(face uint64) (x, y float64) {
	switch face / 4 {
	case 0:
		return float64(2*face + 1), 1
	case 1:
		return float64(2 * (face - 4)), 0
	default:
		return float64(2*(face-8) + 1), -1
	}
}

// baseCell returns the base cell containing the projection-plane point
// (x, y), where x is in [0, 8).
func baseCell(x, y float64) uint64 {
	if y > 1 {
		return uint64(x/2) & 3
	} else if y < -1 {
		return 8 + uint64(x/2)&3
	}

	// Diagonal coordinates: every base cell covers a unit range in both.
	fs := math.Floor((x + y + 1) / 2)
	fd := math.Floor((x - y + 1) / 2)
	switch {
	case fs == fd:
		return 4 + uint64(fs)&3
	case fs > fd:
		return uint64(fd) & 3
	default:
		return 8 + uint64(fs)&3
	}
}

// project maps a position onto the projection plane.
func project(lon, lat float64) (x, y float64) {
	x0 := geom.NormalizeLon(lon) * fourOverPi
	if x0 >= 8 {
		x0 = 0
	}

	sinLat := math.Sin(lat)
	absSin := math.Abs(sinLat)
	if absSin <= transitionZ {
		return x0, 1.5 * sinLat
	}

	// sigma^2 = 3(1 - |sin(lat)|), written to stay accurate at the poles.
	sigma := sqrt3 * math.Cos(lat) / math.Sqrt(1+absSin)
	if sigma < 0 {
		sigma = 0
	}
	xc := 2*math.Floor(x0/2) + 1
	x = xc + (x0-xc)*sigma
	y = 2 - sigma
	if sinLat < 0 {
		y = -y
	}
	return x, y
}

// unproject maps a projection-plane point back onto the sphere. x may lie
// outside [0, 8).
func unproject(x, y float64) (lon, lat float64) {
	x = math.Mod(x, 8)
	if x < 0 {
		x += 8
	}

	absY := math.Abs(y)
	if absY <= 1 {
		return geom.NormalizeLon(x * piOverFour), math.Asin(y / 1.5)
	}
	if absY > 2 {
		absY = 2
	}

	sigma := 2 - absY
	xc := 2*math.Floor(x/2) + 1
	x0 := xc
	if sigma > 0 {
		x0 = xc + (x-xc)/sigma
		if x0 < xc-1 {
			x0 = xc - 1
		} else if x0 > xc+1 {
			x0 = xc + 1
		}
	}

	// z = 1 - sigma^2/3 and cos(lat) = sigma*sqrt(6 - sigma^2)/3.
	s2 := sigma * sigma
	lat = math.Atan2(1-s2/3, sigma*math.Sqrt(6-s2)/3)
	if y < 0 {
		lat = -lat
	}
	return geom.NormalizeLon(x0 * piOverFour), lat
}

// interleave places the bits of ix in the even positions and the bits of iy
// in the odd positions of the result.
func interleave(ix, iy uint64) uint64 {
	return spread(ix) | spread(iy)<<1
}

// deinterleave is the inverse of interleave.
func deinterleave(v uint64) (ix, iy uint64) {
	return compact(v), compact(v >> 1)
}

func spread(v uint64) uint64 {
	v &= 0x00000000FFFFFFFF
	v = (v | v<<16) & 0x0000FFFF0000FFFF
	v = (v | v<<8) & 0x00FF00FF00FF00FF
	v = (v | v<<4) & 0x0F0F0F0F0F0F0F0F
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}

func compact(v uint64) uint64 {
	v &= 0x5555555555555555
	v = (v | v>>1) & 0x3333333333333333
	v = (v | v>>2) & 0x0F0F0F0F0F0F0F0F
	v = (v | v>>4) & 0x00FF00FF00FF00FF
	v = (v | v>>8) & 0x0000FFFF0000FFFF
	v = (v | v>>16) & 0x00000000FFFFFFFF
	return v
}
