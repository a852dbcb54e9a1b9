package vector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tundra/internal/dtypes"
)

func TestValidSum(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		sum, count, err := FromInt64s([]int64{1, 2, 3}).ValidSum()
		require.NoError(t, err)
		assert.Equal(t, int64(6), sum)
		assert.Equal(t, 3, count)
	})

	t.Run("float skips NaN", func(t *testing.T) {
		sum, count, err := FromFloat64s([]float64{1, math.NaN(), 3}).ValidSum()
		require.NoError(t, err)
		assert.Equal(t, 4.0, sum)
		assert.Equal(t, 2, count)
	})

	t.Run("masked int skips nulls", func(t *testing.T) {
		v := FromInt64s([]int64{1, 2, 3}).WithValidity([]bool{true, false, true})
		sum, count, err := v.ValidSum()
		require.NoError(t, err)
		assert.Equal(t, int64(4), sum)
		assert.Equal(t, 2, count)
	})

	t.Run("bool counts trues", func(t *testing.T) {
		sum, count, err := FromBools([]bool{true, false, true}).ValidSum()
		require.NoError(t, err)
		assert.Equal(t, int64(2), sum)
		assert.Equal(t, 3, count)
	})

	t.Run("string unsupported", func(t *testing.T) {
		_, _, err := FromStrings([]string{"a"}).ValidSum()
		assert.Error(t, err)
	})
}

func TestMinMax(t *testing.T) {
	v := FromFloat64s([]float64{3, math.NaN(), 1, 2})

	mn, err := v.Min()
	require.NoError(t, err)
	assert.Equal(t, 1.0, mn)

	mx, err := v.Max()
	require.NoError(t, err)
	assert.Equal(t, 3.0, mx)

	t.Run("all NA yields NA", func(t *testing.T) {
		mn, err := FromFloat64s([]float64{math.NaN()}).Min()
		require.NoError(t, err)
		assert.True(t, dtypes.IsNA(mn))
	})
}

func TestAnyAll(t *testing.T) {
	assert.True(t, FromInt64s([]int64{0, 1}).Any())
	assert.False(t, FromInt64s([]int64{0, 0}).Any())
	assert.True(t, FromInt64s([]int64{1, 2}).All())
	assert.False(t, FromInt64s([]int64{1, 0}).All())
	// NA elements are skipped in both directions.
	assert.False(t, FromFloat64s([]float64{0, math.NaN()}).Any())
	assert.True(t, FromFloat64s([]float64{1, math.NaN()}).All())
}

func TestCumSum(t *testing.T) {
	t.Run("int running total", func(t *testing.T) {
		out, err := FromInt64s([]int64{1, 2, 3}).CumSum()
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 6}, out.Int64s())
	})

	t.Run("NaN poisons the rest", func(t *testing.T) {
		out, err := FromFloat64s([]float64{1, math.NaN(), 1}).CumSum()
		require.NoError(t, err)
		assert.Equal(t, 1.0, out.Float(0))
		assert.True(t, math.IsNaN(out.Float(1)))
		assert.True(t, math.IsNaN(out.Float(2)))
	})

	t.Run("masked elements contribute zero but stay masked", func(t *testing.T) {
		v := FromInt64s([]int64{1, 5, 2}).WithValidity([]bool{true, false, true})
		out, err := v.CumSum()
		require.NoError(t, err)
		assert.Equal(t, int64(1), out.Int(0))
		assert.True(t, out.IsNA(1))
		assert.Equal(t, int64(3), out.Int(2))
	})
}
