package array

import (
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// Masked is the nullable backing: a dense buffer plus a validity
// mask, so any dtype (including int64 and bool) can hold missing
// positions out-of-band.
type Masked struct {
	vec *vector.Vector
}

// NewMasked wraps a vector and validity mask as a nullable backing.
// A nil mask marks every element valid.
func NewMasked(v *vector.Vector, valid []bool) *Masked {
	if valid != nil {
		v = v.WithValidity(valid)
	}
	return &Masked{vec: v}
}

func (m *Masked) Len() int            { return m.vec.Len() }
func (m *Masked) Dtype() dtypes.Dtype { return m.vec.Dtype() }

// IsNA reports masked-out positions as well as in-band NaN/NaT.
func (m *Masked) IsNA(i int) bool { return m.vec.IsNA(i) }

func (m *Masked) ToDense() *vector.Vector { return m.vec }

func (m *Masked) Take(indices []int, allowFill bool, fillValue any) (Array, error) {
	// A nil fill stays nil: -1 positions land masked.
	out, err := takeVector(m.vec, indices, allowFill, fillValue)
	if err != nil {
		return nil, err
	}
	return &Masked{vec: out}, nil
}

func (m *Masked) Astype(dt dtypes.Dtype) (Array, error) {
	out, err := m.vec.AsType(dt)
	if err != nil {
		return nil, errors.NewValidationError("Astype", err.Error())
	}
	return &Masked{vec: out}, nil
}

// ArithMethod implements the nullable arithmetic semantics: the raw
// kernels already propagate the mask, so the backing only needs to
// coerce the operand and rewrap.
func (m *Masked) ArithMethod(other any, op vector.Op) (Array, error) {
	out, err := m.apply(other, op)
	if err != nil {
		return nil, err
	}
	return &Masked{vec: out}, nil
}

// CmpMethod implements nullable comparisons; masked positions stay
// masked in the boolean result.
func (m *Masked) CmpMethod(other any, op vector.Op) (Array, error) {
	out, err := m.apply(other, op)
	if err != nil {
		return nil, err
	}
	return &Masked{vec: out}, nil
}

func (m *Masked) apply(other any, op vector.Op) (*vector.Vector, error) {
	switch o := other.(type) {
	case Array:
		if m.Len() != o.Len() {
			return nil, errors.NewLengthMismatchError(op.String(), m.Len(), o.Len())
		}
		return vector.Elemwise(m.vec, o.ToDense(), op)
	case *vector.Vector:
		if m.Len() != o.Len() {
			return nil, errors.NewLengthMismatchError(op.String(), m.Len(), o.Len())
		}
		return vector.Elemwise(m.vec, o, op)
	default:
		return vector.ApplyScalar(m.vec, other, op)
	}
}

// ConcatMasked concatenates nullable backings of one dtype.
func ConcatMasked(arrays []*Masked) (*Masked, error) {
	vs := make([]*vector.Vector, len(arrays))
	for i, a := range arrays {
		vs[i] = a.vec
	}
	out, err := vector.Concat(vs...)
	if err != nil {
		return nil, errors.NewValidationError("Concat", err.Error())
	}
	return &Masked{vec: out}, nil
}

func (m *Masked) Sum() (any, error) {
	sum, _, err := m.vec.ValidSum()
	return sum, err
}

func (m *Masked) Mean() (any, error) {
	sum, count, err := m.vec.ValidSum()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return dtypes.NAValueFor(dtypes.Float64), nil
	}
	f, _ := dtypes.AsFloat64(sum)
	return f / float64(count), nil
}

func (m *Masked) Min() (any, error) { return m.vec.Min() }
func (m *Masked) Max() (any, error) { return m.vec.Max() }
func (m *Masked) Any() bool         { return m.vec.Any() }
func (m *Masked) All() bool         { return m.vec.All() }
