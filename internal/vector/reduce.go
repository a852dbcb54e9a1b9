package vector

import (
	"fmt"
	"math"

	"github.com/paveg/tundra/internal/dtypes"
)

// ValidSum returns the sum of non-NA elements and their count.
// Integer vectors sum in int64, everything else in float64.
func (v *Vector) ValidSum() (any, int, error) {
	switch v.dt {
	case dtypes.Int64:
		var sum int64
		count := 0
		for i := 0; i < v.Len(); i++ {
			if v.IsNA(i) {
				continue
			}
			sum += v.ints[i]
			count++
		}
		return sum, count, nil
	case dtypes.Float64:
		var sum float64
		count := 0
		for i := 0; i < v.Len(); i++ {
			if v.IsNA(i) {
				continue
			}
			sum += v.floats[i]
			count++
		}
		return sum, count, nil
	case dtypes.Bool:
		var sum int64
		count := 0
		for i := 0; i < v.Len(); i++ {
			if v.IsNA(i) {
				continue
			}
			if v.bools[i] {
				sum++
			}
			count++
		}
		return sum, count, nil
	default:
		return nil, 0, fmt.Errorf("sum is not supported for %s", v.dt)
	}
}

// Min returns the smallest non-NA element, or the NA sentinel when
// every element is missing.
func (v *Vector) Min() (any, error) {
	return v.extreme(true)
}

// Max returns the largest non-NA element, or the NA sentinel when
// every element is missing.
func (v *Vector) Max() (any, error) {
	return v.extreme(false)
}

func (v *Vector) extreme(min bool) (any, error) {
	if !v.dt.IsNumeric() && v.dt != dtypes.Timestamp {
		return nil, fmt.Errorf("min/max is not supported for %s", v.dt)
	}
	best := math.NaN()
	found := false
	for i := 0; i < v.Len(); i++ {
		if v.IsNA(i) {
			continue
		}
		f, _ := dtypes.AsFloat64(v.Value(i))
		if !found || (min && f < best) || (!min && f > best) {
			best = f
			found = true
		}
	}
	if !found {
		return dtypes.NAValueFor(v.dt), nil
	}
	if v.dt == dtypes.Int64 || v.dt == dtypes.Timestamp {
		return int64(best), nil
	}
	if v.dt == dtypes.Bool {
		return best != 0, nil
	}
	return best, nil
}

// Any reports whether any non-NA element is truthy.
func (v *Vector) Any() bool {
	for i := 0; i < v.Len(); i++ {
		if v.IsNA(i) {
			continue
		}
		if t, ok := dtypes.AsBool(v.Value(i)); ok && t {
			return true
		}
	}
	return false
}

// All reports whether every non-NA element is truthy.
func (v *Vector) All() bool {
	for i := 0; i < v.Len(); i++ {
		if v.IsNA(i) {
			continue
		}
		if t, ok := dtypes.AsBool(v.Value(i)); !ok || !t {
			return false
		}
	}
	return true
}

// CumSum returns the running total. Float NaN values poison the
// remainder of the running total the same way numpy's cumsum does;
// masked elements contribute zero but stay masked in the result.
func (v *Vector) CumSum() (*Vector, error) {
	switch v.dt {
	case dtypes.Int64:
		out := NewEmpty(dtypes.Int64, v.Len())
		var run int64
		for i := 0; i < v.Len(); i++ {
			if v.IsNull(i) {
				out.setNull(i)
				continue
			}
			run += v.ints[i]
			out.ints[i] = run
		}
		return out, nil
	case dtypes.Float64:
		out := NewEmpty(dtypes.Float64, v.Len())
		var run float64
		for i := 0; i < v.Len(); i++ {
			if v.IsNull(i) {
				out.setNull(i)
				continue
			}
			run += v.floats[i]
			out.floats[i] = run
		}
		return out, nil
	case dtypes.Bool:
		cast, err := v.AsType(dtypes.Int64)
		if err != nil {
			return nil, err
		}
		return cast.CumSum()
	default:
		return nil, fmt.Errorf("cumsum is not supported for %s", v.dt)
	}
}
