// Package vector provides the dense typed vector backing the engine:
// a one-dimensional column of bool, int64, float64, string or
// timestamp elements with an optional validity mask, plus the
// elementwise arithmetic, comparison and logical kernels every column
// representation funnels through.
package vector

import (
	"fmt"
	"math"

	"github.com/paveg/tundra/internal/dtypes"
)

// Vector is a dense column of a single dtype. The validity mask is
// optional; a nil mask means every element is valid. Timestamp
// payloads share the int64 buffer.
type Vector struct {
	dt     dtypes.Dtype
	bools  []bool
	ints   []int64
	floats []float64
	strs   []string
	valid  []bool
}

// FromFloat64s wraps a float64 slice without copying.
func FromFloat64s(values []float64) *Vector {
	return &Vector{dt: dtypes.Float64, floats: values}
}

// FromInt64s wraps an int64 slice without copying.
func FromInt64s(values []int64) *Vector {
	return &Vector{dt: dtypes.Int64, ints: values}
}

// FromBools wraps a bool slice without copying.
func FromBools(values []bool) *Vector {
	return &Vector{dt: dtypes.Bool, bools: values}
}

// FromStrings wraps a string slice without copying.
func FromStrings(values []string) *Vector {
	return &Vector{dt: dtypes.String, strs: values}
}

// FromTimestamps wraps nanosecond timestamps without copying.
func FromTimestamps(values []int64) *Vector {
	return &Vector{dt: dtypes.Timestamp, ints: values}
}

// NewEmpty allocates a zero-valued vector of the given dtype and length.
func NewEmpty(dt dtypes.Dtype, length int) *Vector {
	v := &Vector{dt: dt}
	switch dt {
	case dtypes.Bool:
		v.bools = make([]bool, length)
	case dtypes.Int64, dtypes.Timestamp:
		v.ints = make([]int64, length)
	case dtypes.Float64:
		v.floats = make([]float64, length)
	case dtypes.String:
		v.strs = make([]string, length)
	default:
		v.floats = make([]float64, length)
		v.dt = dtypes.Float64
	}
	return v
}

// NewFilled allocates a vector of the given length with every element
// set to the scalar. The scalar must be representable in the dtype.
func NewFilled(dt dtypes.Dtype, length int, fill any) (*Vector, error) {
	v := NewEmpty(dt, length)
	for i := 0; i < length; i++ {
		if err := v.Set(i, fill); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// WithValidity attaches a validity mask. The mask length must match.
func (v *Vector) WithValidity(valid []bool) *Vector {
	if valid != nil && len(valid) != v.Len() {
		panic("vector: validity mask length mismatch")
	}
	v.valid = valid
	return v
}

// Len returns the number of elements.
func (v *Vector) Len() int {
	switch v.dt {
	case dtypes.Bool:
		return len(v.bools)
	case dtypes.Int64, dtypes.Timestamp:
		return len(v.ints)
	case dtypes.Float64:
		return len(v.floats)
	case dtypes.String:
		return len(v.strs)
	}
	return 0
}

// Dtype returns the element dtype.
func (v *Vector) Dtype() dtypes.Dtype { return v.dt }

// HasValidity reports whether an explicit validity mask is attached.
func (v *Vector) HasValidity() bool { return v.valid != nil }

// Validity returns the validity mask, or nil when all elements are valid.
func (v *Vector) Validity() []bool { return v.valid }

// IsNull reports whether the element at i is masked out.
func (v *Vector) IsNull(i int) bool {
	return v.valid != nil && !v.valid[i]
}

// IsNA reports whether the element at i is missing: masked out, a NaN
// float, or a NaT timestamp.
func (v *Vector) IsNA(i int) bool {
	if v.IsNull(i) {
		return true
	}
	switch v.dt {
	case dtypes.Float64:
		return math.IsNaN(v.floats[i])
	case dtypes.Timestamp:
		return v.ints[i] == dtypes.NaTSentinel
	}
	return false
}

// Value returns the element at i as a plain scalar. Masked elements
// read as nil, the NA scalar, so feeding Value into Set keeps
// missingness intact across buffers and dtypes.
func (v *Vector) Value(i int) any {
	if v.IsNull(i) {
		return nil
	}
	switch v.dt {
	case dtypes.Bool:
		return v.bools[i]
	case dtypes.Int64, dtypes.Timestamp:
		return v.ints[i]
	case dtypes.Float64:
		return v.floats[i]
	case dtypes.String:
		return v.strs[i]
	}
	return nil
}

// Float returns the float64 payload at i. Valid only for Float64.
func (v *Vector) Float(i int) float64 { return v.floats[i] }

// Int returns the int64 payload at i. Valid for Int64 and Timestamp.
func (v *Vector) Int(i int) int64 { return v.ints[i] }

// Bool returns the bool payload at i.
func (v *Vector) Bool(i int) bool { return v.bools[i] }

// Str returns the string payload at i.
func (v *Vector) Str(i int) string { return v.strs[i] }

// Float64s exposes the underlying float64 buffer.
func (v *Vector) Float64s() []float64 { return v.floats }

// Int64s exposes the underlying int64 buffer.
func (v *Vector) Int64s() []int64 { return v.ints }

// Bools exposes the underlying bool buffer.
func (v *Vector) Bools() []bool { return v.bools }

// Strings exposes the underlying string buffer.
func (v *Vector) Strings() []string { return v.strs }

// Set stores a scalar at i, converting between compatible numeric
// representations. NA scalars stored into non-float dtypes mark the
// position invalid.
func (v *Vector) Set(i int, value any) error {
	if dtypes.IsNA(value) {
		switch v.dt {
		case dtypes.Float64:
			v.floats[i] = math.NaN()
			return nil
		case dtypes.Timestamp:
			v.ints[i] = dtypes.NaTSentinel
			return nil
		default:
			v.setNull(i)
			return nil
		}
	}
	switch v.dt {
	case dtypes.Bool:
		b, ok := dtypes.AsBool(value)
		if !ok {
			return fmt.Errorf("cannot store %T in bool vector", value)
		}
		v.bools[i] = b
	case dtypes.Int64, dtypes.Timestamp:
		n, ok := dtypes.AsInt64(value)
		if !ok {
			return fmt.Errorf("cannot store %T in %s vector", value, v.dt)
		}
		v.ints[i] = n
	case dtypes.Float64:
		f, ok := dtypes.AsFloat64(value)
		if !ok {
			return fmt.Errorf("cannot store %T in float64 vector", value)
		}
		v.floats[i] = f
	case dtypes.String:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("cannot store %T in string vector", value)
		}
		v.strs[i] = s
	default:
		return fmt.Errorf("unsupported vector dtype %s", v.dt)
	}
	if v.valid != nil {
		v.valid[i] = true
	}
	return nil
}

func (v *Vector) setNull(i int) {
	if v.valid == nil {
		v.valid = make([]bool, v.Len())
		for j := range v.valid {
			v.valid[j] = true
		}
	}
	v.valid[i] = false
}

// Copy returns a deep copy.
func (v *Vector) Copy() *Vector {
	out := &Vector{dt: v.dt}
	out.bools = append([]bool(nil), v.bools...)
	out.ints = append([]int64(nil), v.ints...)
	out.floats = append([]float64(nil), v.floats...)
	out.strs = append([]string(nil), v.strs...)
	if v.valid != nil {
		out.valid = append([]bool(nil), v.valid...)
	}
	return out
}

// Slice returns a copy of the half-open range [i, j).
func (v *Vector) Slice(i, j int) *Vector {
	out := &Vector{dt: v.dt}
	switch v.dt {
	case dtypes.Bool:
		out.bools = append([]bool(nil), v.bools[i:j]...)
	case dtypes.Int64, dtypes.Timestamp:
		out.ints = append([]int64(nil), v.ints[i:j]...)
	case dtypes.Float64:
		out.floats = append([]float64(nil), v.floats[i:j]...)
	case dtypes.String:
		out.strs = append([]string(nil), v.strs[i:j]...)
	}
	if v.valid != nil {
		out.valid = append([]bool(nil), v.valid[i:j]...)
	}
	return out
}

// Gather returns a new vector holding v[idx[0]], v[idx[1]], ... Every
// index must be in range; callers handle negative-index semantics.
func (v *Vector) Gather(indices []int) (*Vector, error) {
	n := v.Len()
	out := NewEmpty(v.dt, len(indices))
	for pos, ix := range indices {
		if ix < 0 || ix >= n {
			return nil, fmt.Errorf("index %d out of bounds for length %d", ix, n)
		}
		if v.IsNull(ix) {
			out.setNull(pos)
			continue
		}
		switch v.dt {
		case dtypes.Bool:
			out.bools[pos] = v.bools[ix]
		case dtypes.Int64, dtypes.Timestamp:
			out.ints[pos] = v.ints[ix]
		case dtypes.Float64:
			out.floats[pos] = v.floats[ix]
		case dtypes.String:
			out.strs[pos] = v.strs[ix]
		}
	}
	return out, nil
}

// Concat appends the elements of others after v, returning a new vector.
func Concat(vs ...*Vector) (*Vector, error) {
	if len(vs) == 0 {
		return nil, fmt.Errorf("concat of zero vectors")
	}
	dt := vs[0].dt
	total := 0
	masked := false
	for _, v := range vs {
		if v.dt != dt {
			return nil, fmt.Errorf("concat dtype mismatch: %s vs %s", dt, v.dt)
		}
		total += v.Len()
		masked = masked || v.valid != nil
	}
	out := NewEmpty(dt, total)
	if masked {
		out.valid = make([]bool, total)
	}
	offset := 0
	for _, v := range vs {
		for i := 0; i < v.Len(); i++ {
			if masked {
				out.valid[offset+i] = !v.IsNull(i)
			}
			switch dt {
			case dtypes.Bool:
				out.bools[offset+i] = v.bools[i]
			case dtypes.Int64, dtypes.Timestamp:
				out.ints[offset+i] = v.ints[i]
			case dtypes.Float64:
				out.floats[offset+i] = v.floats[i]
			case dtypes.String:
				out.strs[offset+i] = v.strs[i]
			}
		}
		offset += v.Len()
	}
	return out, nil
}

// AsType casts the vector to another dtype. Int to float widens, float
// to int truncates (NaN becomes a masked element), numeric to bool is
// a zero test and anything to string formats the value.
func (v *Vector) AsType(dt dtypes.Dtype) (*Vector, error) {
	if dt == v.dt {
		return v.Copy(), nil
	}
	n := v.Len()
	out := NewEmpty(dt, n)
	for i := 0; i < n; i++ {
		if v.IsNull(i) {
			out.setNull(i)
			continue
		}
		if err := out.Set(i, v.Value(i)); err != nil {
			return nil, fmt.Errorf("casting %s to %s: %w", v.dt, dt, err)
		}
	}
	return out, nil
}

// Equal reports elementwise equality with NA-aware semantics, used by
// tests and by structural checks. NA positions compare equal to each
// other.
func (v *Vector) Equal(other *Vector) bool {
	if v.dt != other.dt || v.Len() != other.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.IsNA(i) != other.IsNA(i) {
			return false
		}
		if v.IsNA(i) {
			continue
		}
		if !dtypes.ScalarEqual(v.Value(i), other.Value(i)) {
			return false
		}
	}
	return true
}

func (v *Vector) String() string {
	return fmt.Sprintf("Vector[%s](len=%d)", v.dt, v.Len())
}
