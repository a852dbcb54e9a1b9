package array

import (
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// Dense is the plain contiguous backing: every position holds a
// value, missingness is representable only in-band (NaN, NaT).
type Dense struct {
	vec *vector.Vector
}

// NewDense wraps a vector as a dense backing. The vector must not
// carry a validity mask; masked data belongs in Masked.
func NewDense(v *vector.Vector) (*Dense, error) {
	if v.HasValidity() {
		return nil, errors.NewValidationError("NewDense",
			"vector carries a validity mask; use Masked")
	}
	return &Dense{vec: v}, nil
}

// DenseFromFloat64s builds a dense float64 backing.
func DenseFromFloat64s(values []float64) *Dense {
	return &Dense{vec: vector.FromFloat64s(values)}
}

// DenseFromInt64s builds a dense int64 backing.
func DenseFromInt64s(values []int64) *Dense {
	return &Dense{vec: vector.FromInt64s(values)}
}

// DenseFromBools builds a dense bool backing.
func DenseFromBools(values []bool) *Dense {
	return &Dense{vec: vector.FromBools(values)}
}

func (d *Dense) Len() int            { return d.vec.Len() }
func (d *Dense) Dtype() dtypes.Dtype { return d.vec.Dtype() }

// IsNA reports in-band missingness: NaN floats and NaT timestamps.
func (d *Dense) IsNA(i int) bool { return d.vec.IsNA(i) }

// ToDense returns the underlying vector. The buffer is shared;
// callers must not mutate it.
func (d *Dense) ToDense() *vector.Vector { return d.vec }

func (d *Dense) Take(indices []int, allowFill bool, fillValue any) (Array, error) {
	// A nil fill flows through as NA: takeVector stores it in-band for
	// floats and via the validity mask otherwise.
	out, err := takeVector(d.vec, indices, allowFill, fillValue)
	if err != nil {
		return nil, err
	}
	if out.HasValidity() {
		return &Masked{vec: out}, nil
	}
	return &Dense{vec: out}, nil
}

func (d *Dense) Astype(dt dtypes.Dtype) (Array, error) {
	out, err := d.vec.AsType(dt)
	if err != nil {
		return nil, errors.NewValidationError("Astype", err.Error())
	}
	return &Dense{vec: out}, nil
}

// ConcatDense concatenates dense backings of one dtype.
func ConcatDense(arrays []*Dense) (*Dense, error) {
	vs := make([]*vector.Vector, len(arrays))
	for i, a := range arrays {
		vs[i] = a.vec
	}
	out, err := vector.Concat(vs...)
	if err != nil {
		return nil, errors.NewValidationError("Concat", err.Error())
	}
	return &Dense{vec: out}, nil
}

// Reductions skip in-band NA values.

func (d *Dense) Sum() (any, error) {
	sum, _, err := d.vec.ValidSum()
	return sum, err
}

func (d *Dense) Mean() (any, error) {
	sum, count, err := d.vec.ValidSum()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return dtypes.NAValueFor(dtypes.Float64), nil
	}
	f, _ := dtypes.AsFloat64(sum)
	return f / float64(count), nil
}

func (d *Dense) Min() (any, error) { return d.vec.Min() }
func (d *Dense) Max() (any, error) { return d.vec.Max() }
func (d *Dense) Any() bool         { return d.vec.Any() }
func (d *Dense) All() bool         { return d.vec.All() }
