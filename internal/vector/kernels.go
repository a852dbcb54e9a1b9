package vector

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/paveg/tundra/internal/dtypes"
)

// Scalar kernels. These are shared with the expression evaluator so
// the vectorized and elementwise paths cannot disagree.

// FloorDivSigned is floor division for signed integers,
// rounding toward negative infinity. Division by zero yields 0, the
// raw value the missing-value convention layer later rewrites.
func FloorDivSigned[T constraints.Signed](a, b T) T {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// ModSigned is the floored modulo for signed integers: the result
// takes the sign of the divisor. Modulo by zero yields 0 for the
// convention layer to rewrite.
func ModSigned[T constraints.Signed](a, b T) T {
	if b == 0 {
		return 0
	}
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// FloorDivFloat is floor division over float64. x/±0 produces the
// IEEE infinity whose floor is itself, and 0/0 produces NaN.
func FloorDivFloat(a, b float64) float64 {
	return math.Floor(a / b)
}

// ModFloat is the floored modulo over float64, NaN for a zero divisor.
func ModFloat(a, b float64) float64 {
	if b == 0 {
		return math.NaN()
	}
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// PowSigned raises a to a non-negative integer power. Negative
// exponents on integers are rejected, matching numpy.
func PowSigned(a, b int64) (int64, error) {
	if b < 0 {
		return 0, fmt.Errorf("integers to negative integer powers are not allowed")
	}
	result := int64(1)
	base := a
	for b > 0 {
		if b&1 == 1 {
			result *= base
		}
		base *= base
		b >>= 1
	}
	return result, nil
}

// ArithItemFloat applies an arithmetic op kind to a float64 pair.
func ArithItemFloat(kind OpKind, a, b float64) float64 {
	switch kind {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpFloorDiv:
		return FloorDivFloat(a, b)
	case OpMod:
		return ModFloat(a, b)
	case OpPow:
		return math.Pow(a, b)
	}
	return math.NaN()
}

// ArithItemInt applies an arithmetic op kind to an int64 pair.
// Division by zero for floordiv and mod yields the raw 0 that the
// convention layer rewrites; truediv is not handled here because its
// result dtype is float64.
func ArithItemInt(kind OpKind, a, b int64) (int64, error) {
	switch kind {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpFloorDiv:
		return FloorDivSigned(a, b), nil
	case OpMod:
		return ModSigned(a, b), nil
	case OpPow:
		return PowSigned(a, b)
	}
	return 0, fmt.Errorf("unsupported integer arithmetic op %d", kind)
}

// CompareFloats applies a comparison op kind with IEEE NaN semantics:
// NaN compares unequal to everything, so only Ne is true against NaN.
func CompareFloats(kind OpKind, a, b float64) bool {
	switch kind {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	}
	return false
}

func compareStrings(kind OpKind, a, b string) bool {
	switch kind {
	case OpEq:
		return a == b
	case OpNe:
		return a != b
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	}
	return false
}

func logicalItem(kind OpKind, a, b bool) bool {
	switch kind {
	case OpAnd:
		return a && b
	case OpOr:
		return a || b
	case OpXor:
		return a != b
	}
	return false
}

// ArithResultType returns the payload dtype an arithmetic op produces
// for a pair of operand dtypes. True division always produces
// float64; bool operands promote to int64.
func ArithResultType(l, r dtypes.Dtype, op Op) (dtypes.Dtype, error) {
	if l == dtypes.String && r == dtypes.String && op.Kind == OpAdd {
		return dtypes.String, nil
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return dtypes.Unknown, fmt.Errorf(
			"cannot apply %s to %s and %s", op, l, r)
	}
	if op.Kind == OpDiv {
		return dtypes.Float64, nil
	}
	common, err := dtypes.FindCommonType(l, r)
	if err != nil {
		return dtypes.Unknown, err
	}
	if common == dtypes.Bool {
		// Bool arithmetic operates over 0/1 integers.
		common = dtypes.Int64
	}
	return common, nil
}

// Elemwise applies a binary operator elementwise over two vectors of
// equal length, promoting dtypes as needed. Masked elements propagate
// to the result. Reversed ops swap the operand roles here, once.
func Elemwise(left, right *Vector, op Op) (*Vector, error) {
	if left.Len() != right.Len() {
		return nil, fmt.Errorf(
			"length mismatch: %d vs. %d", left.Len(), right.Len())
	}
	if op.Reversed {
		left, right = right, left
		op.Reversed = false
	}
	switch {
	case op.IsLogical():
		return logicalElemwise(left, right, op)
	case op.IsComparison():
		return compareElemwise(left, right, op)
	default:
		return arithElemwise(left, right, op)
	}
}

func arithElemwise(left, right *Vector, op Op) (*Vector, error) {
	resType, err := ArithResultType(left.dt, right.dt, op)
	if err != nil {
		return nil, err
	}
	n := left.Len()
	out := NewEmpty(resType, n)

	if resType == dtypes.String {
		for i := 0; i < n; i++ {
			if left.IsNull(i) || right.IsNull(i) {
				out.setNull(i)
				continue
			}
			out.strs[i] = left.strs[i] + right.strs[i]
		}
		return out, nil
	}

	if resType == dtypes.Int64 {
		lc, err := left.AsType(dtypes.Int64)
		if err != nil {
			return nil, err
		}
		rc, err := right.AsType(dtypes.Int64)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			if lc.IsNull(i) || rc.IsNull(i) {
				out.setNull(i)
				continue
			}
			v, err := ArithItemInt(op.Kind, lc.ints[i], rc.ints[i])
			if err != nil {
				return nil, err
			}
			out.ints[i] = v
		}
		return out, nil
	}

	lc, err := left.AsType(dtypes.Float64)
	if err != nil {
		return nil, err
	}
	rc, err := right.AsType(dtypes.Float64)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if lc.IsNull(i) || rc.IsNull(i) {
			out.setNull(i)
			continue
		}
		out.floats[i] = ArithItemFloat(op.Kind, lc.floats[i], rc.floats[i])
	}
	return out, nil
}

func compareElemwise(left, right *Vector, op Op) (*Vector, error) {
	n := left.Len()
	out := NewEmpty(dtypes.Bool, n)

	switch {
	case left.dt == dtypes.String && right.dt == dtypes.String:
		for i := 0; i < n; i++ {
			if left.IsNull(i) || right.IsNull(i) {
				out.setNull(i)
				continue
			}
			out.bools[i] = compareStrings(op.Kind, left.strs[i], right.strs[i])
		}
	case left.dt == dtypes.Timestamp && right.dt == dtypes.Timestamp:
		for i := 0; i < n; i++ {
			if left.IsNull(i) || right.IsNull(i) {
				out.setNull(i)
				continue
			}
			if left.ints[i] == dtypes.NaTSentinel || right.ints[i] == dtypes.NaTSentinel {
				// NaT compares like NaN: unequal to everything.
				out.bools[i] = op.Kind == OpNe
				continue
			}
			out.bools[i] = CompareFloats(op.Kind, float64(left.ints[i]), float64(right.ints[i]))
		}
	case left.dt.IsNumeric() && right.dt.IsNumeric():
		lc, err := left.AsType(dtypes.Float64)
		if err != nil {
			return nil, err
		}
		rc, err := right.AsType(dtypes.Float64)
		if err != nil {
			return nil, err
		}
		for i := 0; i < n; i++ {
			if lc.IsNull(i) || rc.IsNull(i) {
				out.setNull(i)
				continue
			}
			out.bools[i] = CompareFloats(op.Kind, lc.floats[i], rc.floats[i])
		}
	default:
		return nil, fmt.Errorf(
			"cannot compare %s with %s", left.dt, right.dt)
	}
	return out, nil
}

func logicalElemwise(left, right *Vector, op Op) (*Vector, error) {
	if left.dt != dtypes.Bool || right.dt != dtypes.Bool {
		return nil, fmt.Errorf(
			"logical op %s requires bool operands, got %s and %s",
			op, left.dt, right.dt)
	}
	n := left.Len()
	out := NewEmpty(dtypes.Bool, n)
	for i := 0; i < n; i++ {
		if left.IsNull(i) || right.IsNull(i) {
			out.setNull(i)
			continue
		}
		out.bools[i] = logicalItem(op.Kind, left.bools[i], right.bools[i])
	}
	return out, nil
}

// ApplyScalar broadcasts a scalar against the vector. An NA scalar
// broadcasts as a NaN float column.
func ApplyScalar(v *Vector, scalar any, op Op) (*Vector, error) {
	sv, err := scalarVector(scalar, v.Len())
	if err != nil {
		return nil, err
	}
	return Elemwise(v, sv, op)
}

// ScalarOp applies an operator to a pair of plain scalars under the
// same promotion rules the vector kernels use, returning a plain
// scalar. This is how fill values travel through operators.
func ScalarOp(a, b any, op Op) (any, error) {
	av, err := scalarVector(a, 1)
	if err != nil {
		return nil, err
	}
	bv, err := scalarVector(b, 1)
	if err != nil {
		return nil, err
	}
	out, err := Elemwise(av, bv, op)
	if err != nil {
		return nil, err
	}
	return out.Value(0), nil
}

func scalarVector(scalar any, length int) (*Vector, error) {
	dt := dtypes.InferScalar(scalar)
	if dtypes.IsNA(scalar) {
		dt = dtypes.Float64
	}
	if dt == dtypes.Unknown {
		return nil, fmt.Errorf("unsupported scalar type %T", scalar)
	}
	return NewFilled(dt, length, scalar)
}
