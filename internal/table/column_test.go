package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	arrowarray "github.com/apache/arrow-go/v18/arrow/array"

	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/testutil"
)

func TestColumnAccessors(t *testing.T) {
	c := ColumnFromInt64s("qty", []int64{1, 2, 3})
	assert.Equal(t, "qty", c.Name())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, dtypes.Int64, c.Dtype())

	renamed := c.Rename("count")
	assert.Equal(t, "count", renamed.Name())
	assert.Equal(t, "qty", c.Name())
	assert.Same(t, c.Data(), renamed.Data())
}

func TestColumnTake(t *testing.T) {
	c := ColumnFromFloat64s("x", []float64{10, 20, 30})

	out, err := c.Take([]int{2, 0}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, "x", out.Name())
	testutil.AssertVectorEqual(t, testutil.Floats(30, 10), out.Data().ToDense())

	out, err = c.Take([]int{1, -1}, true, nil)
	require.NoError(t, err)
	testutil.AssertVectorEqual(t, testutil.Floats(20, testutil.NaN), out.Data().ToDense())
}

func TestColumnToArrow(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	t.Run("float64 with NA", func(t *testing.T) {
		c := ColumnFromFloat64s("x", []float64{1.5, testutil.NaN, 3})
		arr, err := c.ToArrow(mem.Allocator)
		require.NoError(t, err)
		defer arr.Release()

		fa := arr.(*arrowarray.Float64)
		assert.Equal(t, 3, fa.Len())
		assert.Equal(t, 1, fa.NullN())
		assert.False(t, fa.IsValid(1))
		assert.Equal(t, 1.5, fa.Value(0))
		assert.Equal(t, 3.0, fa.Value(2))
	})

	t.Run("masked int64", func(t *testing.T) {
		vec := testutil.MaskedInts(t, []int64{7, 8, 9}, 2)
		c := NewColumn("m", array.NewMasked(vec, nil))
		arr, err := c.ToArrow(mem.Allocator)
		require.NoError(t, err)
		defer arr.Release()

		ia := arr.(*arrowarray.Int64)
		assert.Equal(t, int64(7), ia.Value(0))
		assert.False(t, ia.IsValid(2))
	})

	t.Run("strings", func(t *testing.T) {
		c := ColumnFromStrings("s", []string{"a", "b"}, nil)
		arr, err := c.ToArrow(mem.Allocator)
		require.NoError(t, err)
		defer arr.Release()
		sa := arr.(*arrowarray.String)
		assert.Equal(t, "b", sa.Value(1))
	})
}

func TestColumnArrowRoundTrip(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	vec := testutil.MaskedInts(t, []int64{1, 2, 3, 4}, 1)
	orig := NewColumn("v", array.NewMasked(vec, nil))

	arr, err := orig.ToArrow(mem.Allocator)
	require.NoError(t, err)
	defer arr.Release()

	back, err := ColumnFromArrow("v", arr)
	require.NoError(t, err)
	assert.Equal(t, "v", back.Name())
	assert.True(t, back.IsNA(1))
	testutil.AssertVectorEqual(t, orig.Data().ToDense(), back.Data().ToDense())
}

func TestColumnFromArrowNoNulls(t *testing.T) {
	mem := testutil.SetupMemoryTest(t)
	defer mem.Release()

	b := arrowarray.NewFloat64Builder(mem.Allocator)
	defer b.Release()
	b.AppendValues([]float64{1, 2}, nil)
	arr := b.NewArray()
	defer arr.Release()

	c, err := ColumnFromArrow("f", arr)
	require.NoError(t, err)
	_, isDense := c.Data().(*array.Dense)
	assert.True(t, isDense, "null-free arrow data lands on a dense backing")
	testutil.AssertVectorEqual(t, testutil.Floats(1, 2), c.Data().ToDense())
}
