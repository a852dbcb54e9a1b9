package ops

import (
	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/compute"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// Operands are scalars, *vector.Vector values, or array backings. A
// backing that owns its operator semantics (sparse, masked, string)
// is delegated to and its result returned unchanged; plain operands
// run through the evaluator or the elementwise kernels, then through
// the missing-value convention fixups.

// Arithmetic applies an arithmetic operator to a pair of operands.
func Arithmetic(left, right any, op vector.Op) (any, error) {
	if !op.IsArithmetic() {
		return nil, errors.NewValidationError("Arithmetic",
			"operator "+op.String()+" is not arithmetic")
	}
	if out, ok, err := delegateArith(left, right, op); ok {
		return out, err
	}
	return applyPlain(left, right, op)
}

// Comparison applies a comparison operator. Unorderable operand
// types are a TypeError, never a silently wrong boolean.
func Comparison(left, right any, op vector.Op) (any, error) {
	if !op.IsComparison() {
		return nil, errors.NewValidationError("Comparison",
			"operator "+op.String()+" is not a comparison")
	}
	if l, ok := left.(array.CmpMethoder); ok {
		return l.CmpMethod(right, op)
	}
	if r, ok := right.(array.CmpMethoder); ok {
		return r.CmpMethod(left, op.Reverse())
	}
	out, err := applyPlain(left, right, op)
	if err != nil {
		return nil, comparisonTypeError(left, right, op, err)
	}
	return out, nil
}

// Logical applies a boolean operator; operands must be boolean.
func Logical(left, right any, op vector.Op) (any, error) {
	if !op.IsLogical() {
		return nil, errors.NewValidationError("Logical",
			"operator "+op.String()+" is not logical")
	}
	if out, ok, err := delegateArith(left, right, op); ok {
		return out, err
	}
	return applyPlain(left, right, op)
}

// Divmod computes the quotient and remainder pair, each corrected by
// its own convention rule.
func Divmod(left, right any) (any, any, error) {
	quot, err := Arithmetic(left, right, vector.FloorDiv)
	if err != nil {
		return nil, nil, err
	}
	rem, err := Arithmetic(left, right, vector.Mod)
	if err != nil {
		return nil, nil, err
	}
	return quot, rem, nil
}

// delegateArith hands the operation to an operand that implements
// its own arithmetic. The right operand receives the reversed op so
// operand roles stay correct.
func delegateArith(left, right any, op vector.Op) (any, bool, error) {
	if l, ok := left.(array.ArithMethoder); ok {
		out, err := l.ArithMethod(right, op)
		return out, true, err
	}
	if r, ok := right.(array.ArithMethoder); ok {
		out, err := r.ArithMethod(left, op.Reverse())
		return out, true, err
	}
	return nil, false, nil
}

// applyPlain runs an operator over plain operands. Vector pairs above
// the configured threshold go through the vectorized evaluator; any
// bypass falls back to the elementwise kernels with identical
// results. Division-like results then pass through the convention
// fixups.
func applyPlain(left, right any, op vector.Op) (any, error) {
	lv, lIsVec := asVector(left)
	rv, rIsVec := asVector(right)

	if !lIsVec && !rIsVec {
		out, err := scalarPair(left, right, op)
		return out, err
	}

	// Broadcast the scalar side so the convention fixups can inspect
	// both operands elementwise.
	var err error
	if !lIsVec {
		lv, err = broadcast(left, rv.Len())
		if err != nil {
			return nil, err
		}
	}
	if !rIsVec {
		rv, err = broadcast(right, lv.Len())
		if err != nil {
			return nil, err
		}
	}
	if lv.Len() != rv.Len() {
		return nil, errors.NewLengthMismatchError(op.String(), lv.Len(), rv.Len())
	}

	result, ok, err := compute.Evaluate(op, lv, rv)
	if err != nil {
		return nil, errors.NewValidationError(op.String(), err.Error())
	}
	if !ok {
		result, err = vector.Elemwise(lv, rv, op)
		if err != nil {
			return nil, errors.NewValidationError(op.String(), err.Error())
		}
	}
	return DispatchFillZeros(op, lv, rv, result)
}

// scalarPair applies the operator to two plain scalars under the
// vector promotion rules, including the convention fixups.
func scalarPair(left, right any, op vector.Op) (any, error) {
	lv, err := broadcast(left, 1)
	if err != nil {
		return nil, err
	}
	rv, err := broadcast(right, 1)
	if err != nil {
		return nil, err
	}
	result, err := vector.Elemwise(lv, rv, op)
	if err != nil {
		return nil, errors.NewValidationError(op.String(), err.Error())
	}
	result, err = DispatchFillZeros(op, lv, rv, result)
	if err != nil {
		return nil, err
	}
	return result.Value(0), nil
}

func asVector(v any) (*vector.Vector, bool) {
	switch x := v.(type) {
	case *vector.Vector:
		return x, true
	case array.Array:
		return x.ToDense(), true
	default:
		return nil, false
	}
}

func broadcast(scalar any, length int) (*vector.Vector, error) {
	dt := dtypes.InferScalar(scalar)
	if dtypes.IsNA(scalar) {
		dt = dtypes.Float64
	}
	if dt == dtypes.Unknown {
		return nil, errors.NewValidationError("Broadcast",
			"unsupported operand type")
	}
	return vector.NewFilled(dt, length, scalar)
}

func comparisonTypeError(left, right any, op vector.Op, err error) error {
	lt, rt := operandTypeName(left), operandTypeName(right)
	te := errors.NewTypeError(op.String(), lt, rt)
	te.Cause = err
	return te
}

func operandTypeName(v any) string {
	switch x := v.(type) {
	case *vector.Vector:
		return x.Dtype().String()
	case array.Array:
		return x.Dtype().String()
	default:
		return dtypes.InferScalar(v).String()
	}
}
