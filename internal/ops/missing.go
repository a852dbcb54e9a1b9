// Package ops is the generic binary-operation layer every column
// backing funnels through: arithmetic, comparison and logical entry
// points that dispatch between operand-owned operator methods, the
// vectorized evaluator and plain elementwise application, followed by
// the missing-value convention fixups for division-like operators.
package ops

import (
	"math"

	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// MaskZeroDivZero rewrites a floor-division result for zero divisors:
// x // 0 is +inf where x > 0, -inf where x < 0, and NaN where both
// sides are zero. A signed-zero divisor flips the infinity sign. The
// result is cast to float64 when needed; positions with a non-zero
// divisor pass through untouched, which also makes a second
// application a no-op.
func MaskZeroDivZero(x, y, result *vector.Vector) (*vector.Vector, error) {
	n := result.Len()
	if x.Len() != n || y.Len() != n {
		return nil, errors.NewLengthMismatchError("MaskZeroDivZero", x.Len(), n)
	}
	if !hasZeroDivisor(y) {
		return result, nil
	}
	xf, err := x.AsType(dtypes.Float64)
	if err != nil {
		return nil, errors.NewValidationError("MaskZeroDivZero", err.Error())
	}
	yf, err := y.AsType(dtypes.Float64)
	if err != nil {
		return nil, errors.NewValidationError("MaskZeroDivZero", err.Error())
	}
	out, err := result.AsType(dtypes.Float64)
	if err != nil {
		return nil, errors.NewValidationError("MaskZeroDivZero", err.Error())
	}
	for i := 0; i < n; i++ {
		if yf.IsNull(i) || xf.IsNull(i) {
			continue
		}
		yv := yf.Float(i)
		if yv != 0 {
			continue
		}
		xv := xf.Float(i)
		switch {
		case math.IsNaN(xv) || xv == 0:
			out.Float64s()[i] = math.NaN()
		case (xv > 0) != math.Signbit(yv):
			out.Float64s()[i] = math.Inf(1)
		default:
			out.Float64s()[i] = math.Inf(-1)
		}
	}
	return out, nil
}

// hasZeroDivisor reports whether y holds any non-null zero, counting
// negative zero.
func hasZeroDivisor(y *vector.Vector) bool {
	for i := 0; i < y.Len(); i++ {
		if y.IsNull(i) {
			continue
		}
		if f, ok := dtypes.AsFloat64(y.Value(i)); ok && f == 0 {
			return true
		}
	}
	return false
}

// FillZeros overwrites result positions with fill where the divisor y
// is an integer zero, casting the result to float64 first. Positions
// already NaN are left alone, so the pass is idempotent. A signed
// fill takes its sign from x.
func FillZeros(result, x, y *vector.Vector, fill float64) (*vector.Vector, error) {
	if !y.Dtype().IsNumeric() || y.Dtype() == dtypes.Float64 {
		// The float kernels already produce the convention values.
		return result, nil
	}
	n := result.Len()
	if y.Len() != n {
		return nil, errors.NewLengthMismatchError("FillZeros", y.Len(), n)
	}
	if !hasZeroDivisor(y) {
		return result, nil
	}
	out, err := result.AsType(dtypes.Float64)
	if err != nil {
		return nil, errors.NewValidationError("FillZeros", err.Error())
	}
	xf, err := x.AsType(dtypes.Float64)
	if err != nil {
		return nil, errors.NewValidationError("FillZeros", err.Error())
	}
	for i := 0; i < n; i++ {
		if y.IsNull(i) || out.IsNull(i) {
			continue
		}
		v, ok := dtypes.AsInt64(y.Value(i))
		if !ok || v != 0 {
			continue
		}
		if math.IsNaN(out.Float64s()[i]) {
			continue
		}
		f := fill
		if math.IsInf(fill, 0) && !xf.IsNull(i) && xf.Float(i) < 0 {
			f = -fill
		}
		out.Float64s()[i] = f
	}
	return out, nil
}

// DispatchFillZeros applies the convention fixups a raw elementwise
// result needs for the given operator: the floor-division
// infinity/NaN rewrite and the modulo NaN rewrite. Reversed operators
// swap which operand acts as the divisor. Other operators pass
// through unchanged.
func DispatchFillZeros(op vector.Op, left, right, result *vector.Vector) (*vector.Vector, error) {
	x, y := left, right
	if op.Reversed {
		x, y = right, left
	}
	switch op.Kind {
	case vector.OpFloorDiv:
		return MaskZeroDivZero(x, y, result)
	case vector.OpMod:
		return FillZeros(result, x, y, math.NaN())
	default:
		return result, nil
	}
}

// DivmodFixup applies the floor-division rule to the quotient and the
// modulo rule to the remainder independently.
func DivmodFixup(op vector.Op, left, right, quot, rem *vector.Vector) (*vector.Vector, *vector.Vector, error) {
	x, y := left, right
	if op.Reversed {
		x, y = right, left
	}
	q, err := MaskZeroDivZero(x, y, quot)
	if err != nil {
		return nil, nil, err
	}
	r, err := FillZeros(rem, x, y, math.NaN())
	if err != nil {
		return nil, nil, err
	}
	return q, r, nil
}
