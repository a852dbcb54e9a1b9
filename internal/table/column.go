// Package table is the column/block front layer the engine serves: a
// named Column over any array backing, contiguous same-dtype Blocks,
// and a Table supporting label-based alignment between tables. All
// table-level operators funnel into the generic dispatch.
package table

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	arrowarray "github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/ops"
	"github.com/paveg/tundra/internal/vector"
)

// Column is a named logical vector over any backing: dense, masked,
// sparse or string.
type Column struct {
	name string
	data array.Array
}

// NewColumn wraps a backing under a name.
func NewColumn(name string, data array.Array) *Column {
	return &Column{name: name, data: data}
}

// ColumnFromFloat64s builds a dense float64 column.
func ColumnFromFloat64s(name string, values []float64) *Column {
	return &Column{name: name, data: array.DenseFromFloat64s(values)}
}

// ColumnFromInt64s builds a dense int64 column.
func ColumnFromInt64s(name string, values []int64) *Column {
	return &Column{name: name, data: array.DenseFromInt64s(values)}
}

// ColumnFromBools builds a dense bool column.
func ColumnFromBools(name string, values []bool) *Column {
	return &Column{name: name, data: array.DenseFromBools(values)}
}

// ColumnFromStrings builds a string column; a nil mask means no
// missing values.
func ColumnFromStrings(name string, values []string, valid []bool) *Column {
	return &Column{name: name, data: array.NewString(values, valid)}
}

func (c *Column) Name() string        { return c.name }
func (c *Column) Len() int            { return c.data.Len() }
func (c *Column) Dtype() dtypes.Dtype { return c.data.Dtype() }

// Data returns the underlying backing.
func (c *Column) Data() array.Array { return c.data }

// IsNA reports whether the element at i is missing.
func (c *Column) IsNA(i int) bool { return c.data.IsNA(i) }

// Rename returns a column with the same backing under a new name.
func (c *Column) Rename(name string) *Column {
	return &Column{name: name, data: c.data}
}

// Take gathers elements by position, keeping the name.
func (c *Column) Take(indices []int, allowFill bool, fillValue any) (*Column, error) {
	out, err := c.data.Take(indices, allowFill, fillValue)
	if err != nil {
		return nil, err
	}
	return &Column{name: c.name, data: out}, nil
}

// Op applies a binary operator against another column, a vector, a
// backing or a scalar, routing through the generic dispatch. The
// result column keeps this column's name.
func (c *Column) Op(other any, op vector.Op) (*Column, error) {
	operand := other
	if oc, ok := other.(*Column); ok {
		operand = oc.data
	}
	var (
		raw any
		err error
	)
	switch {
	case op.IsComparison():
		raw, err = ops.Comparison(c.data, operand, op)
	case op.IsLogical():
		raw, err = ops.Logical(c.data, operand, op)
	default:
		raw, err = ops.Arithmetic(c.data, operand, op)
	}
	if err != nil {
		if te, ok := err.(*errors.TableError); ok && te.Column == "" {
			te.Column = c.name
		}
		return nil, err
	}
	backing, err := wrapBacking(raw)
	if err != nil {
		return nil, errors.NewInternalError(op.String(), err)
	}
	return &Column{name: c.name, data: backing}, nil
}

// wrapBacking normalizes a dispatch result into an array backing.
func wrapBacking(raw any) (array.Array, error) {
	switch r := raw.(type) {
	case array.Array:
		return r, nil
	case *vector.Vector:
		if r.HasValidity() {
			return array.NewMasked(r, nil), nil
		}
		return array.NewDense(r)
	default:
		return nil, fmt.Errorf("unexpected dispatch result type %T", raw)
	}
}

// ToArrow materializes the column as an Arrow array, mapping missing
// elements to Arrow nulls.
func (c *Column) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}
	dense := c.data.ToDense()
	n := dense.Len()
	switch dense.Dtype() {
	case dtypes.Float64:
		b := arrowarray.NewFloat64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if dense.IsNA(i) {
				b.AppendNull()
				continue
			}
			b.Append(dense.Float(i))
		}
		return b.NewArray(), nil
	case dtypes.Int64:
		b := arrowarray.NewInt64Builder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if dense.IsNA(i) {
				b.AppendNull()
				continue
			}
			b.Append(dense.Int(i))
		}
		return b.NewArray(), nil
	case dtypes.Bool:
		b := arrowarray.NewBooleanBuilder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if dense.IsNA(i) {
				b.AppendNull()
				continue
			}
			b.Append(dense.Bool(i))
		}
		return b.NewArray(), nil
	case dtypes.String:
		b := arrowarray.NewStringBuilder(mem)
		defer b.Release()
		for i := 0; i < n; i++ {
			if dense.IsNA(i) {
				b.AppendNull()
				continue
			}
			b.Append(dense.Str(i))
		}
		return b.NewArray(), nil
	default:
		return nil, errors.NewUnsupportedOpError("ToArrow", dense.Dtype().String())
	}
}

// ColumnFromArrow converts an Arrow array into a column; nulls become
// missing elements on a masked backing.
func ColumnFromArrow(name string, arr arrow.Array) (*Column, error) {
	n := arr.Len()
	valid := make([]bool, n)
	hasNull := false
	for i := 0; i < n; i++ {
		valid[i] = arr.IsValid(i)
		hasNull = hasNull || !valid[i]
	}
	var vec *vector.Vector
	switch a := arr.(type) {
	case *arrowarray.Float64:
		vec = vector.FromFloat64s(append([]float64(nil), a.Float64Values()...))
	case *arrowarray.Int64:
		vec = vector.FromInt64s(append([]int64(nil), a.Int64Values()...))
	case *arrowarray.Boolean:
		values := make([]bool, n)
		for i := 0; i < n; i++ {
			values[i] = a.Value(i)
		}
		vec = vector.FromBools(values)
	case *arrowarray.String:
		values := make([]string, n)
		for i := 0; i < n; i++ {
			values[i] = a.Value(i)
		}
		vec = vector.FromStrings(values)
	default:
		return nil, errors.NewUnsupportedOpError("FromArrow", arr.DataType().String())
	}
	if hasNull {
		return &Column{name: name, data: array.NewMasked(vec, valid)}, nil
	}
	backing, err := wrapBacking(vec)
	if err != nil {
		return nil, err
	}
	return &Column{name: name, data: backing}, nil
}
