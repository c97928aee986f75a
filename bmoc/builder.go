package bmoc

import (
	"fmt"

	"github.com/phil-mansfield/healcone/healpix"
	"github.com/phil-mansfield/healcone/math/sort"
)

// Builder accumulates cells in any order and turns them into a canonical
// BMOC. A Builder can be reused after Reset, which keeps its buffer.
type Builder struct {
	depthMax int
	words    []uint64
	err      error
}

// NewBuilder returns a Builder for BMOCs whose finest depth is depthMax,
// with room for capacity cells before it needs to grow. It panics if
// depthMax is not a valid depth.
func NewBuilder(depthMax, capacity int) *Builder {
	if err := healpix.CheckDepth(depthMax); err != nil {
		panic(err.Error())
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Builder{depthMax: depthMax, words: make([]uint64, 0, capacity)}
}

// DepthMax returns the finest depth the Builder accepts.
func (b *Builder) DepthMax() int { return b.depthMax }

// Len returns the number of cells pushed since the last Reset.
func (b *Builder) Len() int { return len(b.words) }

// Reset empties the Builder.
func (b *Builder) Reset() {
	b.words = b.words[:0]
	b.err = nil
}

// Push adds a cell. Invalid cells are reported by the next call to Build.
func (b *Builder) Push(depth int, hash uint64, full bool) {
	if b.err != nil {
		return
	}
	if depth < 0 || depth > b.depthMax {
		b.err = fmt.Errorf("%w: depth %d is outside [0, %d]",
			ErrInvariantViolation, depth, b.depthMax)
		return
	} else if !healpix.Get(depth).Valid(hash) {
		b.err = fmt.Errorf("%w: hash %d is not a cell at depth %d",
			ErrInvariantViolation, hash, depth)
		return
	}
	b.words = append(b.words, encode(b.depthMax, depth, hash, full))
}

// Build sorts the pushed cells, checks that none of them overlap, merges
// every group of four sibling cells which share a flag into their parent,
// and returns the result. The Builder can be reused after Build returns.
func (b *Builder) Build() (*BMOC, error) {
	if b.err != nil {
		return nil, b.err
	}

	words := sort.Uint64s(b.words)
	if err := b.checkOverlaps(words); err != nil {
		return nil, err
	}
	words = b.merge(words)

	out := make([]uint64, len(words))
	copy(out, words)
	return &BMOC{depthMax: b.depthMax, words: out}, nil
}

func (b *Builder) checkOverlaps(words []uint64) error {
	end := uint64(0)
	for i, w := range words {
		lo, hi := rangeOf(w)
		if i > 0 && lo < end {
			prev := decode(b.depthMax, words[i-1])
			c := decode(b.depthMax, w)
			return fmt.Errorf("%w: cell %d/%d overlaps cell %d/%d",
				ErrInvariantViolation, c.Depth, c.Hash, prev.Depth, prev.Hash)
		}
		if hi > end {
			end = hi
		}
	}
	return nil
}

// merge collapses sibling groups in place. words must be sorted and free of
// overlaps. Each word is pushed onto a stack held in the front of words;
// whenever the top four entries are the complete set of children of a cell
// with a shared flag, they are replaced by that cell, which can cascade up
// to depth 1.
func (b *Builder) merge(words []uint64) []uint64 {
	n := 0
	for _, w := range words {
		words[n] = w
		n++

		for n >= 4 {
			c := decode(b.depthMax, words[n-1])
			if c.Depth == 0 || c.Hash&3 != 3 {
				break
			}
			if !b.siblings(words[n-4:n], c) {
				break
			}
			n -= 4
			words[n] = encode(b.depthMax, c.Depth-1, healpix.Parent(c.Hash),
				c.Full)
			n++
		}
	}
	return words[:n]
}

// siblings returns true if group holds the four children of last's parent,
// in order and with last's flag. last is the decoded form of group[3].
func (b *Builder) siblings(group []uint64, last Cell) bool {
	for i := 0; i < 3; i++ {
		c := decode(b.depthMax, group[i])
		if c.Depth != last.Depth || c.Full != last.Full ||
			c.Hash != last.Hash-3+uint64(i) {
			return false
		}
	}
	return true
}
