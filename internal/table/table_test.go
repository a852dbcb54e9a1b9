package table

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/sparse"
	"github.com/paveg/tundra/internal/vector"
)

func makeTable(t *testing.T, labels []string, columns ...*Column) *Table {
	t.Helper()
	tbl, err := NewTable(labels, columns)
	require.NoError(t, err)
	return tbl
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable(nil, nil)
	assert.ErrorIs(t, err, errors.ErrEmptyTable)

	_, err = NewTable(nil, []*Column{
		ColumnFromFloat64s("a", []float64{1, 2}),
		ColumnFromFloat64s("b", []float64{1, 2, 3}),
	})
	assert.ErrorContains(t, err, "length mismatch")

	_, err = NewTable(nil, []*Column{
		ColumnFromFloat64s("a", []float64{1}),
		ColumnFromFloat64s("a", []float64{2}),
	})
	assert.ErrorContains(t, err, "duplicate column name")

	_, err = NewTable([]string{"x"}, []*Column{
		ColumnFromFloat64s("a", []float64{1, 2}),
	})
	assert.ErrorContains(t, err, "length mismatch")
}

func TestNewTablePositionalLabels(t *testing.T) {
	tbl := makeTable(t, nil, ColumnFromInt64s("a", []int64{10, 20, 30}))
	assert.Equal(t, []string{"0", "1", "2"}, tbl.Labels())
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 1, tbl.NumCols())
}

func TestColumnLookup(t *testing.T) {
	tbl := makeTable(t, nil,
		ColumnFromInt64s("a", []int64{1}),
		ColumnFromFloat64s("b", []float64{2}),
	)
	c, err := tbl.Column("b")
	require.NoError(t, err)
	assert.Equal(t, "b", c.Name())

	_, err = tbl.Column("missing")
	var te *errors.TableError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, []string{"a", "b"}, tbl.ColumnNames())
}

func TestRowLookup(t *testing.T) {
	tbl := makeTable(t, []string{"x", "y", "z"},
		ColumnFromInt64s("a", []int64{1, 2, 3}))

	pos, err := tbl.Row("y")
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	_, err = tbl.Row("w")
	assert.ErrorContains(t, err, `label "w" not found`)
}

func TestBlocksGroupByDtype(t *testing.T) {
	tbl := makeTable(t, nil,
		ColumnFromInt64s("a", []int64{1}),
		ColumnFromInt64s("b", []int64{2}),
		ColumnFromFloat64s("c", []float64{3}),
		ColumnFromInt64s("d", []int64{4}),
	)
	blocks := tbl.Blocks()
	require.Len(t, blocks, 3)
	assert.Equal(t, dtypes.Int64, blocks[0].Dtype())
	assert.Equal(t, 2, blocks[0].Width())
	assert.Equal(t, dtypes.Float64, blocks[1].Dtype())
	assert.Equal(t, dtypes.Int64, blocks[2].Dtype())
}

func TestReindex(t *testing.T) {
	tbl := makeTable(t, []string{"x", "y", "z"},
		ColumnFromFloat64s("a", []float64{1, 2, 3}))

	out, err := tbl.Reindex([]string{"z", "x", "w"})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "x", "w"}, out.Labels())

	c, err := out.Column("a")
	require.NoError(t, err)
	assert.Equal(t, 3.0, c.Data().ToDense().Float(0))
	assert.Equal(t, 1.0, c.Data().ToDense().Float(1))
	assert.True(t, c.IsNA(2), "absent label becomes a missing row")
}

func TestAlignLabels(t *testing.T) {
	left := makeTable(t, []string{"a", "b", "c"},
		ColumnFromInt64s("x", []int64{1, 2, 3}))
	right := makeTable(t, []string{"b", "d"},
		ColumnFromInt64s("x", []int64{4, 5}))

	assert.Equal(t, []string{"a", "b", "c", "d"}, AlignLabels(left, right))

	l, r, err := Align(left, right)
	require.NoError(t, err)
	assert.Equal(t, l.Labels(), r.Labels())
	lc, err := r.Column("x")
	require.NoError(t, err)
	assert.True(t, lc.IsNA(0))
	assert.Equal(t, int64(4), lc.Data().ToDense().Int(1))
}

func TestTableOp(t *testing.T) {
	left := makeTable(t, []string{"r1", "r2"},
		ColumnFromFloat64s("a", []float64{1, 2}),
		ColumnFromFloat64s("only_left", []float64{9, 9}),
	)
	right := makeTable(t, []string{"r1", "r2"},
		ColumnFromFloat64s("a", []float64{10, 20}),
	)

	out, err := left.Op(right, vector.Add)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, out.ColumnNames(),
		"unshared columns drop from the result")

	c, err := out.Column("a")
	require.NoError(t, err)
	assert.True(t, vector.FromFloat64s([]float64{11, 22}).Equal(c.Data().ToDense()))
}

func TestTableOpAlignsRows(t *testing.T) {
	left := makeTable(t, []string{"x", "y"},
		ColumnFromFloat64s("a", []float64{1, 2}))
	right := makeTable(t, []string{"y", "x"},
		ColumnFromFloat64s("a", []float64{20, 10}))

	out, err := left.Op(right, vector.Add)
	require.NoError(t, err)
	c, err := out.Column("a")
	require.NoError(t, err)
	dense := c.Data().ToDense()
	assert.Equal(t, 11.0, dense.Float(0))
	assert.Equal(t, 22.0, dense.Float(1))
}

func TestTableOpNoSharedColumns(t *testing.T) {
	left := makeTable(t, nil, ColumnFromFloat64s("a", []float64{1}))
	right := makeTable(t, nil, ColumnFromFloat64s("b", []float64{1}))

	_, err := left.Op(right, vector.Add)
	assert.ErrorContains(t, err, "share no column names")
}

func TestTableOpScalar(t *testing.T) {
	tbl := makeTable(t, []string{"x", "y"},
		ColumnFromFloat64s("a", []float64{1, 2}),
		ColumnFromFloat64s("b", []float64{3, 4}),
	)
	out, err := tbl.OpScalar(10.0, vector.Mul)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, out.Labels())

	b, err := out.Column("b")
	require.NoError(t, err)
	assert.True(t, vector.FromFloat64s([]float64{30, 40}).Equal(b.Data().ToDense()))
}

func TestColumnOpSparse(t *testing.T) {
	sp, err := sparse.New(vector.FromFloat64s([]float64{0, 1, 0, 2}),
		&sparse.Options{FillValue: 0.0})
	require.NoError(t, err)
	left := NewColumn("s", sp)
	right := ColumnFromFloat64s("d", []float64{1, 1, 1, 1})

	out, err := left.Op(right, vector.Add)
	require.NoError(t, err)
	assert.Equal(t, "s", out.Name())
	res, ok := out.Data().(*sparse.Array)
	require.True(t, ok, "sparse column keeps a sparse backing")
	assert.True(t, vector.FromFloat64s([]float64{1, 2, 1, 3}).Equal(res.ToDense()))
}

func TestColumnOpStampsName(t *testing.T) {
	left := ColumnFromStrings("s", []string{"a", "b"}, nil)
	right := ColumnFromInt64s("i", []int64{1, 2})

	_, err := left.Op(right, vector.Lt)
	var te *errors.TableError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "s", te.Column)
}

func TestColumnFloorDivByZero(t *testing.T) {
	left := ColumnFromInt64s("a", []int64{1, 0, -1})
	right := ColumnFromInt64s("b", []int64{0, 0, 0})

	out, err := left.Op(right, vector.FloorDiv)
	require.NoError(t, err)
	dense := out.Data().ToDense()
	assert.True(t, math.IsInf(dense.Float(0), 1))
	assert.True(t, math.IsNaN(dense.Float(1)))
	assert.True(t, math.IsInf(dense.Float(2), -1))
}

func TestLabelIndex(t *testing.T) {
	ix := NewLabelIndex(4)
	ix.Put("a", 0)
	ix.Put("b", 1)
	ix.Put("a", 2)

	positions, ok := ix.Get("a")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, positions)
	assert.Equal(t, 0, ix.First("a"))
	assert.Equal(t, -1, ix.First("missing"))
	assert.Equal(t, 2, ix.Size())
}

func TestLabelIndexResize(t *testing.T) {
	ix := NewLabelIndex(2)
	n := 1000
	for i := 0; i < n; i++ {
		ix.Put(fmt.Sprintf("label-%d", i), i)
	}
	assert.Equal(t, n, ix.Size())
	for i := 0; i < n; i += 97 {
		assert.Equal(t, i, ix.First(fmt.Sprintf("label-%d", i)))
	}
}

func TestBuildLabelIndex(t *testing.T) {
	ix := BuildLabelIndex([]string{"x", "y", "x"})
	positions, ok := ix.Get("x")
	require.True(t, ok)
	assert.Equal(t, []int{0, 2}, positions)
	assert.Equal(t, 1, ix.First("y"))
}
