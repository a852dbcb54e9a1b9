// Package testutil provides common testing utilities shared across
// the engine's test files: vector construction shorthands, NA-aware
// equality assertions and memory allocator setup.
package testutil

import (
	"math"
	"testing"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/vector"
)

// TestMemoryContext provides a memory allocator with cleanup.
type TestMemoryContext struct {
	Allocator memory.Allocator
	cleanup   func()
}

// Release performs cleanup of the memory context.
func (tmc *TestMemoryContext) Release() {
	if tmc.cleanup != nil {
		tmc.cleanup()
	}
}

// SetupMemoryTest creates a memory allocator for Arrow-touching
// tests. Release with defer.
func SetupMemoryTest(tb testing.TB) *TestMemoryContext {
	tb.Helper()
	return &TestMemoryContext{
		Allocator: memory.NewGoAllocator(),
		cleanup:   func() {},
	}
}

// NaN is the float64 missing-value shorthand for test tables.
var NaN = math.NaN()

// Floats wraps a float64 slice as a vector.
func Floats(values ...float64) *vector.Vector {
	return vector.FromFloat64s(values)
}

// Ints wraps an int64 slice as a vector.
func Ints(values ...int64) *vector.Vector {
	return vector.FromInt64s(values)
}

// Bools wraps a bool slice as a vector.
func Bools(values ...bool) *vector.Vector {
	return vector.FromBools(values)
}

// MaskedInts builds an int64 vector with the given positions masked
// out as missing.
func MaskedInts(tb testing.TB, values []int64, missing ...int) *vector.Vector {
	tb.Helper()
	valid := make([]bool, len(values))
	for i := range valid {
		valid[i] = true
	}
	for _, m := range missing {
		require.Less(tb, m, len(values))
		valid[m] = false
	}
	return vector.FromInt64s(values).WithValidity(valid)
}

// AssertVectorEqual asserts elementwise equality with NA-aware
// semantics: missing positions match missing positions regardless of
// representation.
func AssertVectorEqual(tb testing.TB, expected, actual *vector.Vector, msgAndArgs ...any) {
	tb.Helper()
	require.Equal(tb, expected.Len(), actual.Len(), "vector length")
	for i := 0; i < expected.Len(); i++ {
		if expected.IsNA(i) {
			assert.True(tb, actual.IsNA(i), "expected NA at position %d, got %v", i, actual.Value(i))
			continue
		}
		require.False(tb, actual.IsNA(i), "unexpected NA at position %d", i)
		assert.True(tb, dtypes.ScalarEqual(expected.Value(i), actual.Value(i)),
			"position %d: expected %v, got %v", i, expected.Value(i), actual.Value(i))
	}
}

// AssertScalarEqual asserts NA-aware scalar equality across numeric
// representations.
func AssertScalarEqual(tb testing.TB, expected, actual any, msgAndArgs ...any) {
	tb.Helper()
	assert.True(tb, dtypes.ScalarEqual(expected, actual),
		"expected %v, got %v", expected, actual)
}
