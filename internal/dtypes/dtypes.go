// Package dtypes defines the element types understood by the engine,
// the promotion rules between them, and the missing-value sentinel
// policy for each type.
package dtypes

import (
	"fmt"
	"math"
)

// Dtype identifies the native element type of a column payload.
type Dtype int

const (
	// Unknown is the zero value; constructors treat it as "infer".
	Unknown Dtype = iota
	Bool
	Int64
	Float64
	String
	Timestamp
)

// NaTSentinel is the int64 payload used for a missing timestamp.
const NaTSentinel = math.MinInt64

func (d Dtype) String() string {
	switch d {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether arithmetic is defined for the dtype.
func (d Dtype) IsNumeric() bool {
	return d == Int64 || d == Float64 || d == Bool
}

// FindCommonType computes the result dtype for a binary operation
// between two operand dtypes. Promotion follows native numeric rules:
// int+int stays int64, any float operand promotes to float64, and
// bool+bool stays bool so logical operations keep their dtype.
func FindCommonType(a, b Dtype) (Dtype, error) {
	if a == b {
		return a, nil
	}
	if a == Unknown {
		return b, nil
	}
	if b == Unknown {
		return a, nil
	}
	if a == String || b == String || a == Timestamp || b == Timestamp {
		return Unknown, fmt.Errorf("no common type for %s and %s", a, b)
	}
	// Remaining pairs are drawn from {bool, int64, float64}.
	if a == Float64 || b == Float64 {
		return Float64, nil
	}
	// bool promotes to int64 when mixed with integers.
	return Int64, nil
}

// NAValueFor returns the missing-value sentinel used as the default
// fill for a dtype: NaN for floats, 0 for integers, false for bool,
// the NaT sentinel for timestamps and the empty string for strings.
func NAValueFor(d Dtype) any {
	switch d {
	case Float64:
		return math.NaN()
	case Int64:
		return int64(0)
	case Bool:
		return false
	case Timestamp:
		return int64(NaTSentinel)
	case String:
		return ""
	default:
		return math.NaN()
	}
}

// IsNA reports whether a scalar is the missing-value sentinel for its
// own type. Only NaN floats, NaT timestamps and nil qualify; integer
// zero and false are ordinary values.
func IsNA(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case float32:
		return math.IsNaN(float64(x))
	default:
		return false
	}
}

// ScalarEqual compares two scalars with NA-safe semantics: two NA
// values compare equal regardless of representation, and numeric
// values compare by value across int/float representations.
func ScalarEqual(a, b any) bool {
	if IsNA(a) || IsNA(b) {
		return IsNA(a) && IsNA(b)
	}
	switch x := a.(type) {
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	af, aok := AsFloat64(a)
	bf, bok := AsFloat64(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

// AsFloat64 converts a numeric scalar to float64. The second return
// is false for non-numeric input.
func AsFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsInt64 converts a numeric scalar to int64 when the conversion is
// exact. NaN and fractional floats report false.
func AsInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || math.Trunc(x) != x {
			return 0, false
		}
		return int64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// AsBool converts a scalar to bool with numeric truthiness.
func AsBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case int64:
		return x != 0, true
	case int:
		return x != 0, true
	case float64:
		return x != 0, true
	default:
		return false, false
	}
}

// InferScalar returns the dtype of a plain Go scalar.
func InferScalar(v any) Dtype {
	switch v.(type) {
	case bool:
		return Bool
	case int, int32, int64:
		return Int64
	case float32, float64:
		return Float64
	case string:
		return String
	default:
		return Unknown
	}
}
