package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tundra/internal/dtypes"
)

func TestSetAndIsNA(t *testing.T) {
	t.Run("NA into float stays in-band", func(t *testing.T) {
		v := NewEmpty(dtypes.Float64, 3)
		require.NoError(t, v.Set(1, nil))
		assert.True(t, v.IsNA(1))
		assert.False(t, v.HasValidity())
		assert.True(t, math.IsNaN(v.Float(1)))
	})

	t.Run("NA into int materializes mask", func(t *testing.T) {
		v := NewEmpty(dtypes.Int64, 3)
		require.NoError(t, v.Set(1, nil))
		assert.True(t, v.IsNA(1))
		assert.True(t, v.HasValidity())
		assert.False(t, v.IsNA(0))
	})

	t.Run("numeric coercion", func(t *testing.T) {
		v := NewEmpty(dtypes.Float64, 1)
		require.NoError(t, v.Set(0, int64(4)))
		assert.Equal(t, 4.0, v.Float(0))

		iv := NewEmpty(dtypes.Int64, 1)
		require.NoError(t, iv.Set(0, 4.0))
		assert.Equal(t, int64(4), iv.Int(0))
		assert.Error(t, iv.Set(0, 4.5))
	})
}

func TestGather(t *testing.T) {
	v := FromInt64s([]int64{10, 20, 30})
	out, err := v.Gather([]int{2, 0, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{30, 10, 30}, out.Int64s())

	_, err = v.Gather([]int{3})
	assert.Error(t, err)
}

func TestConcat(t *testing.T) {
	t.Run("masked operand masks result", func(t *testing.T) {
		a := FromInt64s([]int64{1, 2})
		b := FromInt64s([]int64{3, 4}).WithValidity([]bool{true, false})
		out, err := Concat(a, b)
		require.NoError(t, err)
		assert.Equal(t, 4, out.Len())
		assert.False(t, out.IsNA(0))
		assert.True(t, out.IsNA(3))
	})

	t.Run("dtype mismatch", func(t *testing.T) {
		_, err := Concat(FromInt64s([]int64{1}), FromFloat64s([]float64{1}))
		assert.Error(t, err)
	})
}

func TestAsType(t *testing.T) {
	t.Run("int to float widens", func(t *testing.T) {
		v := FromInt64s([]int64{1, 2})
		out, err := v.AsType(dtypes.Float64)
		require.NoError(t, err)
		assert.Equal(t, []float64{1, 2}, out.Float64s())
	})

	t.Run("NaN to int becomes masked", func(t *testing.T) {
		v := FromFloat64s([]float64{1, math.NaN()})
		out, err := v.AsType(dtypes.Int64)
		require.NoError(t, err)
		assert.False(t, out.IsNA(0))
		assert.True(t, out.IsNA(1))
	})

	t.Run("mask survives cast", func(t *testing.T) {
		v := FromInt64s([]int64{1, 2}).WithValidity([]bool{false, true})
		out, err := v.AsType(dtypes.Float64)
		require.NoError(t, err)
		assert.True(t, out.IsNA(0))
		assert.False(t, out.IsNA(1))
	})
}

func TestEqual(t *testing.T) {
	a := FromFloat64s([]float64{1, math.NaN()})
	b := FromFloat64s([]float64{1, math.NaN()})
	c := FromFloat64s([]float64{1, 2})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestValueReadsMaskedAsNA(t *testing.T) {
	v := FromInt64s([]int64{7, 8}).WithValidity([]bool{true, false})
	assert.Equal(t, int64(7), v.Value(0))
	assert.True(t, dtypes.IsNA(v.Value(1)))

	// Copying an element through Set keeps it missing.
	out := NewEmpty(dtypes.Int64, 2)
	require.NoError(t, out.Set(0, v.Value(0)))
	require.NoError(t, out.Set(1, v.Value(1)))
	assert.False(t, out.IsNA(0))
	assert.True(t, out.IsNA(1))
}
