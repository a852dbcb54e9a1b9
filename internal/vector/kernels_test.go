package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tundra/internal/dtypes"
)

func TestFloorDivSigned(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -4}, // rounds toward negative infinity
		{7, -2, -4},
		{-7, -2, 3},
		{6, 3, 2},
		{0, 5, 0},
		{5, 0, 0}, // raw value; the convention layer rewrites it
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FloorDivSigned(tt.a, tt.b),
			"%d // %d", tt.a, tt.b)
	}
}

func TestModSigned(t *testing.T) {
	tests := []struct {
		a, b, want int64
	}{
		{7, 3, 1},
		{-7, 3, 2}, // sign of the divisor
		{7, -3, -2},
		{-7, -3, -1},
		{6, 3, 0},
		{5, 0, 0}, // raw value; the convention layer rewrites it
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ModSigned(tt.a, tt.b),
			"%d %% %d", tt.a, tt.b)
	}
}

func TestModFloat(t *testing.T) {
	assert.Equal(t, 2.0, ModFloat(-7, 3))
	assert.Equal(t, -2.0, ModFloat(7, -3))
	assert.True(t, math.IsNaN(ModFloat(5, 0)))
}

func TestFloorDivFloat(t *testing.T) {
	assert.Equal(t, -4.0, FloorDivFloat(-7, 2))
	assert.True(t, math.IsInf(FloorDivFloat(1, 0), 1))
	assert.True(t, math.IsInf(FloorDivFloat(-1, 0), -1))
	assert.True(t, math.IsNaN(FloorDivFloat(0, 0)))
	// Signed zero flips the infinity sign.
	assert.True(t, math.IsInf(FloorDivFloat(1, math.Copysign(0, -1)), -1))
}

func TestPowSigned(t *testing.T) {
	v, err := PowSigned(2, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1024), v)

	_, err = PowSigned(2, -1)
	assert.Error(t, err)
}

func TestElemwiseArithmetic(t *testing.T) {
	t.Run("int int stays int", func(t *testing.T) {
		out, err := Elemwise(FromInt64s([]int64{1, 2}), FromInt64s([]int64{3, 4}), Add)
		require.NoError(t, err)
		assert.Equal(t, dtypes.Int64, out.Dtype())
		assert.Equal(t, []int64{4, 6}, out.Int64s())
	})

	t.Run("mixed promotes to float", func(t *testing.T) {
		out, err := Elemwise(FromInt64s([]int64{1, 2}), FromFloat64s([]float64{0.5, 0.5}), Mul)
		require.NoError(t, err)
		assert.Equal(t, dtypes.Float64, out.Dtype())
		assert.Equal(t, []float64{0.5, 1}, out.Float64s())
	})

	t.Run("true division always float", func(t *testing.T) {
		out, err := Elemwise(FromInt64s([]int64{1, 3}), FromInt64s([]int64{2, 2}), Div)
		require.NoError(t, err)
		assert.Equal(t, dtypes.Float64, out.Dtype())
		assert.Equal(t, []float64{0.5, 1.5}, out.Float64s())
	})

	t.Run("bool arithmetic promotes to int", func(t *testing.T) {
		out, err := Elemwise(FromBools([]bool{true, false}), FromBools([]bool{true, true}), Add)
		require.NoError(t, err)
		assert.Equal(t, dtypes.Int64, out.Dtype())
		assert.Equal(t, []int64{2, 1}, out.Int64s())
	})

	t.Run("mask propagates", func(t *testing.T) {
		left := FromInt64s([]int64{1, 2}).WithValidity([]bool{true, false})
		out, err := Elemwise(left, FromInt64s([]int64{1, 1}), Add)
		require.NoError(t, err)
		assert.False(t, out.IsNA(0))
		assert.True(t, out.IsNA(1))
	})

	t.Run("reversed swaps roles", func(t *testing.T) {
		out, err := Elemwise(FromInt64s([]int64{10}), FromInt64s([]int64{3}), Sub.Reverse())
		require.NoError(t, err)
		assert.Equal(t, []int64{-7}, out.Int64s())
	})

	t.Run("string concatenation", func(t *testing.T) {
		out, err := Elemwise(FromStrings([]string{"a"}), FromStrings([]string{"b"}), Add)
		require.NoError(t, err)
		assert.Equal(t, []string{"ab"}, out.Strings())
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Elemwise(FromInt64s([]int64{1}), FromInt64s([]int64{1, 2}), Add)
		assert.ErrorContains(t, err, "length mismatch")
	})
}

func TestElemwiseComparison(t *testing.T) {
	t.Run("NaN compares unequal to everything", func(t *testing.T) {
		nan := math.NaN()
		left := FromFloat64s([]float64{1, nan})
		right := FromFloat64s([]float64{1, nan})

		eq, err := Elemwise(left, right, Eq)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, eq.Bools())

		ne, err := Elemwise(left, right, Ne)
		require.NoError(t, err)
		assert.Equal(t, []bool{false, true}, ne.Bools())
	})

	t.Run("cross-dtype numeric comparison", func(t *testing.T) {
		out, err := Elemwise(FromInt64s([]int64{1, 5}), FromFloat64s([]float64{2, 2}), Lt)
		require.NoError(t, err)
		assert.Equal(t, []bool{true, false}, out.Bools())
	})

	t.Run("string vs number errors", func(t *testing.T) {
		_, err := Elemwise(FromStrings([]string{"a"}), FromInt64s([]int64{1}), Lt)
		assert.Error(t, err)
	})
}

func TestElemwiseLogical(t *testing.T) {
	left := FromBools([]bool{true, true, false, false})
	right := FromBools([]bool{true, false, true, false})

	and, err := Elemwise(left, right, And)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false, false}, and.Bools())

	or, err := Elemwise(left, right, Or)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, false}, or.Bools())

	xor, err := Elemwise(left, right, Xor)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, true, true, false}, xor.Bools())

	_, err = Elemwise(left, FromInt64s([]int64{1, 2, 3, 4}), And)
	assert.Error(t, err)
}

func TestApplyScalar(t *testing.T) {
	out, err := ApplyScalar(FromInt64s([]int64{1, 2, 3}), int64(10), Mul)
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 20, 30}, out.Int64s())

	out, err = ApplyScalar(FromInt64s([]int64{1, 2}), nil, Add)
	require.NoError(t, err)
	assert.True(t, out.IsNA(0))
	assert.True(t, out.IsNA(1))
}

func TestScalarOp(t *testing.T) {
	v, err := ScalarOp(int64(7), int64(2), FloorDiv)
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = ScalarOp(0.0, 2.0, Eq)
	require.NoError(t, err)
	assert.Equal(t, false, v)
}
