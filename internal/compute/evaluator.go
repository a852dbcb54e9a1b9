// Package compute provides the vectorized expression evaluator: an
// Arrow-backed fast path for large arithmetic operands. The evaluator
// is strictly optional; every caller must be able to take the bypass
// branch with identical results, because both paths share the same
// scalar kernels.
package compute

import (
	arrowarray "github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/paveg/tundra/internal/config"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/vector"
)

// Evaluate applies an arithmetic operator over two equal-length
// vectors through Arrow buffers. The second return is false when the
// operands are not eligible (non-numeric dtype, validity masks,
// below the configured length threshold, or the evaluator is
// disabled); callers then fall back to the elementwise path.
func Evaluate(op vector.Op, left, right *vector.Vector) (*vector.Vector, bool, error) {
	if !Eligible(op, left, right) {
		return nil, false, nil
	}
	if op.Reversed {
		left, right = right, left
		op.Reversed = false
	}
	resType, err := vector.ArithResultType(left.Dtype(), right.Dtype(), op)
	if err != nil {
		return nil, false, nil
	}
	mem := memory.NewGoAllocator()
	if resType == dtypes.Int64 {
		out, err := evaluateInt64(op, left, right, mem)
		return out, err == nil, err
	}
	out, err := evaluateFloat64(op, left, right, mem)
	return out, err == nil, err
}

// Eligible reports whether the operand pair can take the Arrow path.
func Eligible(op vector.Op, left, right *vector.Vector) bool {
	threshold := config.GetGlobalConfig().EvaluatorThreshold
	if threshold <= 0 {
		return false
	}
	if !op.IsArithmetic() {
		return false
	}
	if left.Len() != right.Len() || left.Len() < threshold {
		return false
	}
	// Masked operands keep the elementwise path, which owns the
	// null-propagation rules.
	if left.HasValidity() || right.HasValidity() {
		return false
	}
	return left.Dtype().IsNumeric() && right.Dtype().IsNumeric()
}

func evaluateInt64(op vector.Op, left, right *vector.Vector, mem memory.Allocator) (*vector.Vector, error) {
	lc, err := left.AsType(dtypes.Int64)
	if err != nil {
		return nil, err
	}
	rc, err := right.AsType(dtypes.Int64)
	if err != nil {
		return nil, err
	}
	lb := arrowarray.NewInt64Builder(mem)
	defer lb.Release()
	lb.AppendValues(lc.Int64s(), nil)
	la := lb.NewInt64Array()
	defer la.Release()

	rb := arrowarray.NewInt64Builder(mem)
	defer rb.Release()
	rb.AppendValues(rc.Int64s(), nil)
	ra := rb.NewInt64Array()
	defer ra.Release()

	ob := arrowarray.NewInt64Builder(mem)
	defer ob.Release()
	ob.Reserve(la.Len())
	lv, rv := la.Int64Values(), ra.Int64Values()
	for i := range lv {
		v, err := vector.ArithItemInt(op.Kind, lv[i], rv[i])
		if err != nil {
			return nil, err
		}
		ob.UnsafeAppend(v)
	}
	oa := ob.NewInt64Array()
	defer oa.Release()
	return vector.FromInt64s(append([]int64(nil), oa.Int64Values()...)), nil
}

func evaluateFloat64(op vector.Op, left, right *vector.Vector, mem memory.Allocator) (*vector.Vector, error) {
	lc, err := left.AsType(dtypes.Float64)
	if err != nil {
		return nil, err
	}
	rc, err := right.AsType(dtypes.Float64)
	if err != nil {
		return nil, err
	}
	lb := arrowarray.NewFloat64Builder(mem)
	defer lb.Release()
	lb.AppendValues(lc.Float64s(), nil)
	la := lb.NewFloat64Array()
	defer la.Release()

	rb := arrowarray.NewFloat64Builder(mem)
	defer rb.Release()
	rb.AppendValues(rc.Float64s(), nil)
	ra := rb.NewFloat64Array()
	defer ra.Release()

	ob := arrowarray.NewFloat64Builder(mem)
	defer ob.Release()
	ob.Reserve(la.Len())
	lv, rv := la.Float64Values(), ra.Float64Values()
	for i := range lv {
		ob.UnsafeAppend(vector.ArithItemFloat(op.Kind, lv[i], rv[i]))
	}
	oa := ob.NewFloat64Array()
	defer oa.Release()
	return vector.FromFloat64s(append([]float64(nil), oa.Float64Values()...)), nil
}
