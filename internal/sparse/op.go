package sparse

import (
	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// ArithMethod implements the operator protocol for sparse operands.
// Dispatch is three-way: a sparse operand enters the sparse-sparse
// engine, a scalar applies to the payload and the fill independently,
// and a dense array-like is promoted to sparse with this array's fill
// before recursing.
func (a *Array) ArithMethod(other any, op vector.Op) (array.Array, error) {
	return a.apply(other, op)
}

// CmpMethod is the comparison counterpart; the engine already forces
// a boolean result dtype for comparison kinds.
func (a *Array) CmpMethod(other any, op vector.Op) (array.Array, error) {
	return a.apply(other, op)
}

func (a *Array) apply(other any, op vector.Op) (array.Array, error) {
	switch o := other.(type) {
	case *Array:
		return sparseOp(a, o, op)
	case *vector.Vector:
		return a.applyDense(o, op)
	case array.Array:
		return a.applyDense(o.ToDense(), op)
	default:
		return a.applyScalar(other, op)
	}
}

// applyScalar runs the operator over the payload and over the fill
// value independently; the index does not change.
func (a *Array) applyScalar(scalar any, op vector.Op) (*Array, error) {
	values, err := vector.ApplyScalar(a.values, scalar, op)
	if err != nil {
		return nil, errors.NewValidationError(op.String(), err.Error())
	}
	fill, err := vector.ScalarOp(a.dtype.FillValue(), scalar, op)
	if err != nil {
		return nil, errors.NewValidationError(op.String(), err.Error())
	}
	return wrapResult(values, a.index, fill, op)
}

func (a *Array) applyDense(other *vector.Vector, op vector.Op) (array.Array, error) {
	if a.Len() != other.Len() {
		return nil, errors.NewLengthMismatchError(op.String(), a.Len(), other.Len())
	}
	promoted, err := New(other, &Options{
		FillValue: a.dtype.FillValue(),
		Kind:      a.index.Kind(),
	})
	if err != nil {
		return nil, err
	}
	return sparseOp(a, promoted, op)
}

// sparseOp aligns two sparse operands and applies the operator,
// choosing among three strategies: a dense fast path when either side
// has no gaps, a payload-only fast path when the indices match, and a
// general merge walk otherwise.
func sparseOp(left, right *Array, op vector.Op) (*Array, error) {
	if left.Len() != right.Len() {
		return nil, errors.NewLengthMismatchError(op.String(), left.Len(), right.Len())
	}
	// Reversed operators swap operand roles here, once, so every
	// strategy below sees the forward orientation.
	if op.Reversed {
		left, right = right, left
		op.Reversed = false
	}

	// Reconcile subtypes: each side casts to the common payload dtype
	// while keeping its own fill value.
	if left.dtype.Subtype() != right.dtype.Subtype() {
		common, err := dtypes.FindCommonType(left.dtype.Subtype(), right.dtype.Subtype())
		if err != nil {
			return nil, errors.NewTypeError(op.String(),
				left.dtype.String(), right.dtype.String())
		}
		if common == dtypes.Bool && !op.IsLogical() {
			common = dtypes.Int64
		}
		left, err = left.AstypeSparse(dtypes.NewSparseType(common, left.dtype.FillValue()))
		if err != nil {
			return nil, err
		}
		right, err = right.AstypeSparse(dtypes.NewSparseType(common, right.dtype.FillValue()))
		if err != nil {
			return nil, err
		}
	}

	fill, err := vector.ScalarOp(left.dtype.FillValue(), right.dtype.FillValue(), op)
	if err != nil {
		return nil, errors.NewValidationError(op.String(), err.Error())
	}

	// One side fully dense: operate over the materialized vectors and
	// adopt the gap-free index, skipping the merge.
	if left.index.Ngaps() == 0 || right.index.Ngaps() == 0 {
		values, err := vector.Elemwise(left.ToDense(), right.ToDense(), op)
		if err != nil {
			return nil, errors.NewValidationError(op.String(), err.Error())
		}
		index := left.index
		if left.index.Ngaps() != 0 {
			index = right.index
		}
		return wrapResult(values, index, fill, op)
	}

	// Identical indices: payloads are already positionally aligned.
	if left.index.Equals(right.index) {
		values, err := vector.Elemwise(left.values, right.values, op)
		if err != nil {
			return nil, errors.NewValidationError(op.String(), err.Error())
		}
		return wrapResult(values, left.index, fill, op)
	}

	return mergeOp(left, right, fill, op)
}

// mergeOp is the general path for structurally different indices. It
// walks the union of stored positions, reading each side's value or
// fill, applies the operator over the aligned payloads, and keeps
// only the positions whose result differs from the result fill. The
// result index adopts the left operand's encoding. Logical operators
// run over the stored bool payloads directly; nothing in this path
// materializes the full logical length.
func mergeOp(left, right *Array, fill any, op vector.Op) (*Array, error) {
	li := left.index.ToIntIndex().Indices()
	ri := right.index.ToIntIndex().Indices()

	// Union of stored positions, both inputs sorted.
	union := make([]int32, 0, len(li)+len(ri))
	i, j := 0, 0
	for i < len(li) || j < len(ri) {
		switch {
		case j >= len(ri) || (i < len(li) && li[i] < ri[j]):
			union = append(union, li[i])
			i++
		case i >= len(li) || ri[j] < li[i]:
			union = append(union, ri[j])
			j++
		default:
			union = append(union, li[i])
			i++
			j++
		}
	}

	lv, err := gatherOrFill(left, union)
	if err != nil {
		return nil, err
	}
	rv, err := gatherOrFill(right, union)
	if err != nil {
		return nil, err
	}
	values, err := vector.Elemwise(lv, rv, op)
	if err != nil {
		return nil, errors.NewValidationError(op.String(), err.Error())
	}

	// Positions whose result equals the fill are redundant; dropping
	// them keeps the result as compressed as its inputs.
	kept := make([]int32, 0, len(union))
	offsets := make([]int, 0, len(union))
	for k := range union {
		same := false
		if values.IsNA(k) {
			same = dtypes.IsNA(fill)
		} else if !dtypes.IsNA(fill) {
			same = dtypes.ScalarEqual(values.Value(k), fill)
		}
		if !same {
			kept = append(kept, union[k])
			offsets = append(offsets, k)
		}
	}
	if len(kept) < len(union) {
		values, err = values.Gather(offsets)
		if err != nil {
			return nil, errors.NewInternalError(op.String(), err)
		}
	}
	index, err := MakeIndex(left.Len(), kept, left.index.Kind())
	if err != nil {
		return nil, err
	}
	return wrapResult(values, index, fill, op)
}

// gatherOrFill reads the operand at each union position: the stored
// value when present, the operand's own fill otherwise.
func gatherOrFill(a *Array, positions []int32) (*vector.Vector, error) {
	out := vector.NewEmpty(a.dtype.Subtype(), len(positions))
	for k, pos := range positions {
		off := a.index.Lookup(int(pos))
		var v any
		if off < 0 {
			v = a.dtype.FillValue()
		} else {
			v = a.values.Value(off)
		}
		if err := out.Set(k, v); err != nil {
			return nil, errors.NewInternalError("SparseOp", err)
		}
	}
	return out, nil
}

// wrapResult builds the result array from the computed triple.
// Comparison operators force a boolean dtype on both the payload and
// the fill; the fill is always a plain scalar by this point.
func wrapResult(values *vector.Vector, index Index, fill any, op vector.Op) (*Array, error) {
	if op.IsComparison() || op.IsLogical() {
		if values.Dtype() != dtypes.Bool {
			cast, err := values.AsType(dtypes.Bool)
			if err != nil {
				return nil, errors.NewValidationError(op.String(), err.Error())
			}
			values = cast
		}
		if !dtypes.IsNA(fill) {
			b, ok := dtypes.AsBool(fill)
			if !ok {
				return nil, errors.NewValidationError(op.String(),
					"comparison fill value is not boolean-convertible")
			}
			fill = b
		} else {
			fill = false
		}
	}
	return NewSimple(values, index, dtypes.NewSparseType(values.Dtype(), fill))
}
