// Package sparse implements the compressed column backing: a logical
// vector in which positions holding a designated fill value are not
// stored. Two index encodings describe the stored positions: explicit
// sorted integers, or contiguous (start, length) block runs. The
// binary operation engine aligns arrays across either encoding.
package sparse

import (
	"fmt"
	"sort"

	"github.com/paveg/tundra/internal/errors"
)

// Kind selects the physical index encoding.
type Kind string

const (
	// KindInteger stores one int32 per stored position.
	KindInteger Kind = "integer"
	// KindBlock stores (start, length) pairs for contiguous runs.
	// It is the better encoding when stored values clump together.
	KindBlock Kind = "block"
)

// Index describes the stored positions of a sparse vector. Both
// encodings are immutable after construction; all derived indexes are
// new values.
type Index interface {
	// Length is the decompressed logical vector length.
	Length() int
	// Npoints is the number of stored positions.
	Npoints() int
	// Ngaps is the number of fill positions.
	Ngaps() int
	// Lookup returns the payload offset for a logical position, or -1
	// for a fill position.
	Lookup(pos int) int
	// LookupArray is the vectorized Lookup; out-of-range query
	// positions also map to -1 for the caller to handle.
	LookupArray(positions []int) []int
	// Equals reports structural equality of the position sets,
	// regardless of encoding.
	Equals(other Index) bool
	ToIntIndex() *IntIndex
	ToBlockIndex() *BlockIndex
	Kind() Kind
}

// IntIndex is the explicit encoding: strictly increasing stored
// positions, each in [0, length).
type IntIndex struct {
	length  int
	indices []int32
}

// NewIntIndex builds an IntIndex, validating ordering and bounds.
func NewIntIndex(length int, indices []int32) (*IntIndex, error) {
	if length < 0 {
		return nil, errors.NewValidationError("IntIndex", "length must be non-negative")
	}
	for i, ix := range indices {
		if ix < 0 || int(ix) >= length {
			return nil, errors.NewValidationError("IntIndex",
				fmt.Sprintf("index %d out of range [0, %d)", ix, length))
		}
		if i > 0 && indices[i-1] >= ix {
			return nil, errors.NewValidationError("IntIndex",
				"indices must be strictly increasing")
		}
	}
	return &IntIndex{length: length, indices: indices}, nil
}

func (ix *IntIndex) Length() int  { return ix.length }
func (ix *IntIndex) Npoints() int { return len(ix.indices) }
func (ix *IntIndex) Ngaps() int   { return ix.length - len(ix.indices) }
func (ix *IntIndex) Kind() Kind   { return KindInteger }

// Indices exposes the stored positions. Callers must not mutate.
func (ix *IntIndex) Indices() []int32 { return ix.indices }

func (ix *IntIndex) Lookup(pos int) int {
	n := len(ix.indices)
	i := sort.Search(n, func(i int) bool { return int(ix.indices[i]) >= pos })
	if i < n && int(ix.indices[i]) == pos {
		return i
	}
	return -1
}

func (ix *IntIndex) LookupArray(positions []int) []int {
	out := make([]int, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= ix.length {
			out[i] = -1
			continue
		}
		out[i] = ix.Lookup(pos)
	}
	return out
}

func (ix *IntIndex) Equals(other Index) bool {
	if other == nil || ix.length != other.Length() {
		return false
	}
	oi := other.ToIntIndex()
	if len(ix.indices) != len(oi.indices) {
		return false
	}
	for i := range ix.indices {
		if ix.indices[i] != oi.indices[i] {
			return false
		}
	}
	return true
}

func (ix *IntIndex) ToIntIndex() *IntIndex { return ix }

func (ix *IntIndex) ToBlockIndex() *BlockIndex {
	locs, lens := runsFromIndices(ix.indices)
	return &BlockIndex{length: ix.length, blocs: locs, blengths: lens, npoints: len(ix.indices)}
}

func (ix *IntIndex) String() string {
	return fmt.Sprintf("IntIndex(length=%d, npoints=%d)", ix.length, len(ix.indices))
}

// BlockIndex is the run-length encoding: increasing, non-overlapping
// block starts with per-block lengths of at least one.
type BlockIndex struct {
	length   int
	blocs    []int32
	blengths []int32
	npoints  int
}

// NewBlockIndex builds a BlockIndex, validating that blocks are
// ordered, non-overlapping, non-empty and in range.
func NewBlockIndex(length int, blocs, blengths []int32) (*BlockIndex, error) {
	if length < 0 {
		return nil, errors.NewValidationError("BlockIndex", "length must be non-negative")
	}
	if len(blocs) != len(blengths) {
		return nil, errors.NewValidationError("BlockIndex",
			fmt.Sprintf("locations and lengths differ: %d vs. %d", len(blocs), len(blengths)))
	}
	npoints := 0
	for i := range blocs {
		if blengths[i] < 1 {
			return nil, errors.NewValidationError("BlockIndex",
				fmt.Sprintf("block %d has length %d; must be at least 1", i, blengths[i]))
		}
		if blocs[i] < 0 || int(blocs[i])+int(blengths[i]) > length {
			return nil, errors.NewValidationError("BlockIndex",
				fmt.Sprintf("block %d [%d, %d) out of range [0, %d)",
					i, blocs[i], int(blocs[i])+int(blengths[i]), length))
		}
		if i > 0 && blocs[i] < blocs[i-1]+blengths[i-1] {
			return nil, errors.NewValidationError("BlockIndex",
				fmt.Sprintf("block %d overlaps or precedes block %d", i, i-1))
		}
		npoints += int(blengths[i])
	}
	return &BlockIndex{length: length, blocs: blocs, blengths: blengths, npoints: npoints}, nil
}

func (bx *BlockIndex) Length() int  { return bx.length }
func (bx *BlockIndex) Npoints() int { return bx.npoints }
func (bx *BlockIndex) Ngaps() int   { return bx.length - bx.npoints }
func (bx *BlockIndex) Kind() Kind   { return KindBlock }

// Blocs exposes the block start positions. Callers must not mutate.
func (bx *BlockIndex) Blocs() []int32 { return bx.blocs }

// Blengths exposes the block lengths. Callers must not mutate.
func (bx *BlockIndex) Blengths() []int32 { return bx.blengths }

func (bx *BlockIndex) Lookup(pos int) int {
	acc := 0
	for i := range bx.blocs {
		start := int(bx.blocs[i])
		if pos < start {
			return -1
		}
		if pos < start+int(bx.blengths[i]) {
			return acc + pos - start
		}
		acc += int(bx.blengths[i])
	}
	return -1
}

func (bx *BlockIndex) LookupArray(positions []int) []int {
	out := make([]int, len(positions))
	for i, pos := range positions {
		if pos < 0 || pos >= bx.length {
			out[i] = -1
			continue
		}
		out[i] = bx.Lookup(pos)
	}
	return out
}

func (bx *BlockIndex) Equals(other Index) bool {
	if other == nil {
		return false
	}
	return bx.ToIntIndex().Equals(other)
}

func (bx *BlockIndex) ToIntIndex() *IntIndex {
	indices := make([]int32, 0, bx.npoints)
	for i := range bx.blocs {
		for j := int32(0); j < bx.blengths[i]; j++ {
			indices = append(indices, bx.blocs[i]+j)
		}
	}
	return &IntIndex{length: bx.length, indices: indices}
}

func (bx *BlockIndex) ToBlockIndex() *BlockIndex { return bx }

func (bx *BlockIndex) String() string {
	return fmt.Sprintf("BlockIndex(length=%d, nblocks=%d, npoints=%d)",
		bx.length, len(bx.blocs), bx.npoints)
}

// runsFromIndices collapses sorted positions into (start, length) runs.
func runsFromIndices(indices []int32) (locs, lens []int32) {
	for i := 0; i < len(indices); {
		j := i + 1
		for j < len(indices) && indices[j] == indices[j-1]+1 {
			j++
		}
		locs = append(locs, indices[i])
		lens = append(lens, int32(j-i))
		i = j
	}
	return locs, lens
}

// MakeIndex builds an index of the requested kind from sorted stored
// positions.
func MakeIndex(length int, indices []int32, kind Kind) (Index, error) {
	switch kind {
	case KindBlock:
		locs, lens := runsFromIndices(indices)
		return NewBlockIndex(length, locs, lens)
	case KindInteger:
		return NewIntIndex(length, indices)
	default:
		return nil, errors.NewValidationError("MakeIndex",
			fmt.Sprintf("kind must be 'integer' or 'block', got %q", kind))
	}
}
