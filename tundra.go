// Package tundra provides an in-memory columnar table engine with
// dense, nullable and sparse column representations. This package is
// the sole public API; the sparse storage engine, the binary-operation
// dispatch and the missing-value conventions live in internal packages.
package tundra

import (
	"fmt"

	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/config"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/ops"
	"github.com/paveg/tundra/internal/sparse"
	"github.com/paveg/tundra/internal/table"
	"github.com/paveg/tundra/internal/vector"
)

// Op identifies a binary operator, with a flag marking reversed
// operand roles.
type Op = vector.Op

// Supported operators.
var (
	Add      = vector.Add
	Sub      = vector.Sub
	Mul      = vector.Mul
	Div      = vector.Div
	FloorDiv = vector.FloorDiv
	Mod      = vector.Mod
	Pow      = vector.Pow
	Eq       = vector.Eq
	Ne       = vector.Ne
	Lt       = vector.Lt
	Le       = vector.Le
	Gt       = vector.Gt
	Ge       = vector.Ge
	And      = vector.And
	Or       = vector.Or
	Xor      = vector.Xor
)

// Config re-exports the engine configuration.
type Config = config.Config

// SetConfig installs the process-wide default configuration.
func SetConfig(c Config) { config.SetGlobalConfig(c) }

// GetConfig returns the process-wide default configuration.
func GetConfig() Config { return config.GetGlobalConfig() }

// SparseArray is the public handle on a compressed column.
type SparseArray struct {
	arr *sparse.Array
}

// NewSparseFromFloat64s compresses a float64 slice. A nil fill value
// selects NaN.
func NewSparseFromFloat64s(values []float64, fillValue any) (*SparseArray, error) {
	arr, err := sparse.New(vector.FromFloat64s(values), &sparse.Options{FillValue: fillValue})
	if err != nil {
		return nil, err
	}
	return &SparseArray{arr: arr}, nil
}

// NewSparseFromInt64s compresses an int64 slice. A nil fill value
// selects 0.
func NewSparseFromInt64s(values []int64, fillValue any) (*SparseArray, error) {
	arr, err := sparse.New(vector.FromInt64s(values), &sparse.Options{FillValue: fillValue})
	if err != nil {
		return nil, err
	}
	return &SparseArray{arr: arr}, nil
}

// NewSparseFromBools compresses a bool slice. A nil fill value
// selects false.
func NewSparseFromBools(values []bool, fillValue any) (*SparseArray, error) {
	arr, err := sparse.New(vector.FromBools(values), &sparse.Options{FillValue: fillValue})
	if err != nil {
		return nil, err
	}
	return &SparseArray{arr: arr}, nil
}

// Len returns the logical length.
func (s *SparseArray) Len() int { return s.arr.Len() }

// Npoints returns the stored position count.
func (s *SparseArray) Npoints() int { return s.arr.Npoints() }

// Density is the stored fraction of the logical length.
func (s *SparseArray) Density() float64 { return s.arr.Density() }

// FillValue returns the scalar unstored positions read as.
func (s *SparseArray) FillValue() any { return s.arr.FillValue() }

// Get returns the scalar at a logical position.
func (s *SparseArray) Get(i int) (any, error) { return s.arr.Get(i) }

// IsNA reports whether the element at i is missing.
func (s *SparseArray) IsNA(i int) bool { return s.arr.IsNA(i) }

// Values materializes the full-length dense values as scalars.
func (s *SparseArray) Values() []any {
	dense := s.arr.ToDense()
	out := make([]any, dense.Len())
	for i := range out {
		out[i] = dense.Value(i)
	}
	return out
}

// Op applies a binary operator against another sparse array or a
// scalar.
func (s *SparseArray) Op(other any, op Op) (*SparseArray, error) {
	operand := other
	if o, ok := other.(*SparseArray); ok {
		operand = o.arr
	}
	var (
		raw array.Array
		err error
	)
	if op.IsComparison() {
		raw, err = s.arr.CmpMethod(operand, op)
	} else {
		raw, err = s.arr.ArithMethod(operand, op)
	}
	if err != nil {
		return nil, err
	}
	out, ok := raw.(*sparse.Array)
	if !ok {
		return nil, errors.NewInternalError(op.String(),
			fmt.Errorf("sparse operation returned %T", raw))
	}
	return &SparseArray{arr: out}, nil
}

// Sum adds all elements, accounting for unstored fill positions.
func (s *SparseArray) Sum() (any, error) { return s.arr.Sum() }

// Mean averages all participating elements.
func (s *SparseArray) Mean() (any, error) { return s.arr.Mean() }

// Min returns the smallest element.
func (s *SparseArray) Min() (any, error) { return s.arr.Min() }

// Max returns the largest element.
func (s *SparseArray) Max() (any, error) { return s.arr.Max() }

// Fillna replaces missing values, keeping the array compressed when
// the fill value itself is the missing sentinel.
func (s *SparseArray) Fillna(value any) (*SparseArray, error) {
	out, err := s.arr.Fillna(value)
	if err != nil {
		return nil, err
	}
	return &SparseArray{arr: out}, nil
}

// Column is the public handle on a named column.
type Column = table.Column

// NewColumnFromFloat64s builds a dense float64 column.
func NewColumnFromFloat64s(name string, values []float64) *Column {
	return table.ColumnFromFloat64s(name, values)
}

// NewColumnFromInt64s builds a dense int64 column.
func NewColumnFromInt64s(name string, values []int64) *Column {
	return table.ColumnFromInt64s(name, values)
}

// NewColumnFromStrings builds a string column.
func NewColumnFromStrings(name string, values []string) *Column {
	return table.ColumnFromStrings(name, values, nil)
}

// NewSparseColumn wraps a sparse array as a named column.
func NewSparseColumn(name string, s *SparseArray) *Column {
	return table.NewColumn(name, s.arr)
}

// Table is the public handle on a labeled column collection.
type Table = table.Table

// NewTable builds a table over equal-length columns. A nil label
// slice assigns positional labels.
func NewTable(labels []string, columns []*Column) (*Table, error) {
	return table.NewTable(labels, columns)
}

// Align reindexes two tables onto their label union.
func Align(left, right *Table) (*Table, *Table, error) {
	return table.Align(left, right)
}

// Arithmetic applies an arithmetic operator to a pair of plain
// operands (vectors, backings or scalars), including the
// missing-value division conventions.
func Arithmetic(left, right any, op Op) (any, error) {
	return ops.Arithmetic(left, right, op)
}

// Comparison applies a comparison operator to a pair of operands.
func Comparison(left, right any, op Op) (any, error) {
	return ops.Comparison(left, right, op)
}

// Divmod computes the quotient/remainder pair under the
// floor-division and modulo conventions.
func Divmod(left, right any) (any, any, error) {
	return ops.Divmod(left, right)
}

// Dtype identifies a column element type.
type Dtype = dtypes.Dtype

// Element dtypes.
const (
	Bool      = dtypes.Bool
	Int64     = dtypes.Int64
	Float64   = dtypes.Float64
	StringT   = dtypes.String
	Timestamp = dtypes.Timestamp
)
