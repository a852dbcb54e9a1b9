package array

import (
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// String is the string-typed backing. It participates in the
// operator dispatch for equality and ordering comparisons and for
// concatenation; numeric arithmetic and reductions are unsupported
// by contract.
type String struct {
	vec *vector.Vector
}

// NewString wraps string values with an optional validity mask.
func NewString(values []string, valid []bool) *String {
	v := vector.FromStrings(values)
	if valid != nil {
		v = v.WithValidity(valid)
	}
	return &String{vec: v}
}

func (s *String) Len() int            { return s.vec.Len() }
func (s *String) Dtype() dtypes.Dtype { return dtypes.String }
func (s *String) IsNA(i int) bool     { return s.vec.IsNull(i) }

func (s *String) ToDense() *vector.Vector { return s.vec }

func (s *String) Take(indices []int, allowFill bool, fillValue any) (Array, error) {
	out, err := takeVector(s.vec, indices, allowFill, fillValue)
	if err != nil {
		return nil, err
	}
	return &String{vec: out}, nil
}

func (s *String) Astype(dt dtypes.Dtype) (Array, error) {
	if dt != dtypes.String {
		return nil, errors.NewUnsupportedOpError("Astype", "string")
	}
	return s, nil
}

// ArithMethod supports only elementwise concatenation via add.
func (s *String) ArithMethod(other any, op vector.Op) (Array, error) {
	if op.Kind != vector.OpAdd {
		return nil, errors.NewUnsupportedOpError(op.String(), "string")
	}
	out, err := s.apply(other, op)
	if err != nil {
		return nil, err
	}
	return &String{vec: out}, nil
}

// CmpMethod compares lexicographically; comparing against a
// non-string operand is a type error.
func (s *String) CmpMethod(other any, op vector.Op) (Array, error) {
	out, err := s.apply(other, op)
	if err != nil {
		return nil, err
	}
	return &Masked{vec: out}, nil
}

func (s *String) apply(other any, op vector.Op) (*vector.Vector, error) {
	switch o := other.(type) {
	case *String:
		if s.Len() != o.Len() {
			return nil, errors.NewLengthMismatchError(op.String(), s.Len(), o.Len())
		}
		return vector.Elemwise(s.vec, o.vec, op)
	case string:
		return vector.ApplyScalar(s.vec, o, op)
	case Array:
		return nil, errors.NewTypeError(op.String(), "string", o.Dtype().String())
	default:
		return nil, errors.NewTypeError(op.String(), "string", dtypes.InferScalar(other).String())
	}
}

// ConcatString concatenates string backings.
func ConcatString(arrays []*String) (*String, error) {
	vs := make([]*vector.Vector, len(arrays))
	for i, a := range arrays {
		vs[i] = a.vec
	}
	out, err := vector.Concat(vs...)
	if err != nil {
		return nil, errors.NewValidationError("Concat", err.Error())
	}
	return &String{vec: out}, nil
}
