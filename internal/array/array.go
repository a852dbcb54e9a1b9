// Package array defines the closed set of column backings the engine
// operates over. Each backing stores the same logical vector in a
// different physical representation: Dense (plain buffer), Masked
// (buffer plus validity mask) and String; the sparse backing lives in
// its own package and implements the same interface.
//
// The generic operator dispatch treats any Array that additionally
// implements ArithMethoder or CmpMethoder as owning its operator
// semantics and delegates to it instead of densifying.
package array

import (
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/vector"
)

// Array is the shared contract of every column backing.
type Array interface {
	Len() int
	Dtype() dtypes.Dtype
	IsNA(i int) bool
	// ToDense materializes the full-length dense vector.
	ToDense() *vector.Vector
	// Take gathers elements by position. With allowFill, index -1
	// inserts fillValue; without it, negative indices count from the
	// end. Out-of-range indices are an error in both modes.
	Take(indices []int, allowFill bool, fillValue any) (Array, error)
	// Astype casts the backing to another element dtype without
	// changing its physical representation.
	Astype(dt dtypes.Dtype) (Array, error)
}

// ArithMethoder is implemented by backings that carry their own
// arithmetic semantics (the sparse array, the masked array). The
// dispatch hands the whole operation over and returns the result
// unchanged.
type ArithMethoder interface {
	ArithMethod(other any, op vector.Op) (Array, error)
}

// CmpMethoder is the comparison counterpart of ArithMethoder.
type CmpMethoder interface {
	CmpMethod(other any, op vector.Op) (Array, error)
}

// Reducer is implemented by backings that support numeric reductions.
type Reducer interface {
	Sum() (any, error)
	Mean() (any, error)
	Min() (any, error)
	Max() (any, error)
	Any() bool
	All() bool
}
