/*package bmoc implements BMOCs: sorted, multi-depth coverage maps of the
nested HEALPix grid in which every cell carries a flag telling whether it is
fully covered by the region it describes.

A BMOC is stored as a single sorted []uint64. Each entry (depth, hash, full)
is packed relative to the deepest depth of the map, depthMax, as

    ((hash << 1 | full) << 1 | 1) << 2*(depthMax - depth)

The trailing sentinel bit makes the depth recoverable from the number of
trailing zeros, and sorting the words in ascending order gives the
depth-first (z-order) traversal of the grid.

BMOCs are immutable and safe to share between goroutines. They are built
with a Builder.
*/
package bmoc

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/gonum/floats"

	"github.com/phil-mansfield/healcone/healpix"
)

// ErrInvariantViolation is returned by Builder.Build when the cells pushed
// into it overlap or are outside the grid. It signals a defect in the
// caller.
var ErrInvariantViolation = errors.New("bmoc invariant violation")

// Status is the result of testing a cell or point against a BMOC.
type Status int

const (
	// Out means that there is no overlap with the BMOC.
	Out Status = iota
	// Partial means that there is some overlap, but the tested cell is not
	// contained in a single full entry.
	Partial
	// In means that the tested cell is inside a full entry.
	In
)

func (s Status) String() string {
	switch s {
	case Out:
		return "out"
	case Partial:
		return "partial"
	case In:
		return "in"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Cell is a single decoded BMOC entry.
type Cell struct {
	Depth int
	Hash  uint64
	Full  bool
}

// BMOC is an immutable multi-depth coverage map.
type BMOC struct {
	depthMax int
	words    []uint64
}

func encode(depthMax, depth int, hash uint64, full bool) uint64 {
	w := hash << 1
	if full {
		w |= 1
	}
	w = w<<1 | 1
	return w << uint(2*(depthMax-depth))
}

func decode(depthMax int, w uint64) Cell {
	tz := bits.TrailingZeros64(w)
	v := w >> uint(tz)
	return Cell{
		Depth: depthMax - tz/2,
		Hash:  v >> 2,
		Full:  v&2 != 0,
	}
}

// rangeOf returns the half-open range of depthMax cells covered by w.
func rangeOf(w uint64) (lo, hi uint64) {
	tz := uint(bits.TrailingZeros64(w))
	hash := w >> (tz + 2)
	return hash << tz, (hash + 1) << tz
}

// DepthMax returns the depth of the finest cells the BMOC can hold.
func (m *BMOC) DepthMax() int { return m.depthMax }

// Size returns the number of entries.
func (m *BMOC) Size() int { return len(m.words) }

// Cell returns the i-th entry in z-order.
func (m *BMOC) Cell(i int) Cell { return decode(m.depthMax, m.words[i]) }

// Cells returns every entry in z-order.
func (m *BMOC) Cells() []Cell {
	out := make([]Cell, len(m.words))
	for i, w := range m.words {
		out[i] = decode(m.depthMax, w)
	}
	return out
}

// Equal returns true if both BMOCs have the same depthMax and entries.
func (m *BMOC) Equal(o *BMOC) bool {
	if m.depthMax != o.depthMax || len(m.words) != len(o.words) {
		return false
	}
	for i := range m.words {
		if m.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// cellRange returns the range of depthMax cells covered by (depth, hash).
// Cells deeper than depthMax are replaced by their ancestor at depthMax.
func (m *BMOC) cellRange(depth int, hash uint64) (lo, hi uint64) {
	if depth > m.depthMax {
		hash >>= uint(2 * (depth - m.depthMax))
		depth = m.depthMax
	}
	s := uint(2 * (m.depthMax - depth))
	return hash << s, (hash + 1) << s
}

// first returns the index of the first entry which ends after lo.
func (m *BMOC) first(lo uint64) int {
	return sort.Search(len(m.words), func(i int) bool {
		_, hi := rangeOf(m.words[i])
		return hi > lo
	})
}

// Covers returns true if every point of the cell (depth, hash) is inside
// some entry of the BMOC, whatever its flag.
func (m *BMOC) Covers(depth int, hash uint64) bool {
	lo, hi := m.cellRange(depth, hash)
	next := lo
	for i := m.first(lo); i < len(m.words); i++ {
		wlo, whi := rangeOf(m.words[i])
		if wlo > next || wlo >= hi {
			break
		}
		next = whi
		if next >= hi {
			return true
		}
	}
	return false
}

// Test compares the cell (depth, hash) against the BMOC.
func (m *BMOC) Test(depth int, hash uint64) Status {
	lo, hi := m.cellRange(depth, hash)
	i := m.first(lo)
	if i == len(m.words) {
		return Out
	}
	wlo, whi := rangeOf(m.words[i])
	if wlo >= hi {
		return Out
	}
	if wlo <= lo && whi >= hi && decode(m.depthMax, m.words[i]).Full {
		return In
	}
	return Partial
}

// TestPoint compares the depthMax cell containing (lon, lat) against the
// BMOC. The result is In or Partial depending on the flag of the entry
// containing the point, and Out if there is no such entry.
func (m *BMOC) TestPoint(lon, lat float64) Status {
	h := healpix.Get(m.depthMax).Hash(lon, lat)
	return m.Test(m.depthMax, h)
}

// ContainsPoint returns true if (lon, lat) is inside an entry of the BMOC.
func (m *BMOC) ContainsPoint(lon, lat float64) bool {
	return m.TestPoint(lon, lat) != Out
}

// Area returns the total area of all entries in steradians.
func (m *BMOC) Area() float64 { return m.area(false) }

// FullArea returns the total area of the full entries in steradians.
func (m *BMOC) FullArea() float64 { return m.area(true) }

func (m *BMOC) area(fullOnly bool) float64 {
	counts := make([]float64, m.depthMax+1)
	for _, w := range m.words {
		c := decode(m.depthMax, w)
		if !fullOnly || c.Full {
			counts[c.Depth]++
		}
	}
	for d := range counts {
		counts[d] *= healpix.CellArea(d)
	}
	return floats.Sum(counts)
}

// String implements fmt.Stringer. Entries are written as depth/hash, with a
// trailing '*' for full cells.
func (m *BMOC) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "BMOC{depthMax: %d, cells: [", m.depthMax)
	for i, w := range m.words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		c := decode(m.depthMax, w)
		fmt.Fprintf(sb, "%d/%d", c.Depth, c.Hash)
		if c.Full {
			sb.WriteByte('*')
		}
	}
	sb.WriteString("]}")
	return sb.String()
}
