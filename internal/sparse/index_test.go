package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntIndexValidation(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		indices []int32
		wantErr bool
	}{
		{name: "valid", length: 5, indices: []int32{0, 2, 4}},
		{name: "empty", length: 5, indices: nil},
		{name: "full", length: 3, indices: []int32{0, 1, 2}},
		{name: "out of range", length: 3, indices: []int32{0, 3}, wantErr: true},
		{name: "negative", length: 3, indices: []int32{-1}, wantErr: true},
		{name: "not increasing", length: 5, indices: []int32{2, 2}, wantErr: true},
		{name: "descending", length: 5, indices: []int32{3, 1}, wantErr: true},
		{name: "negative length", length: -1, indices: nil, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := NewIntIndex(tt.length, tt.indices)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.length, ix.Length())
			assert.Equal(t, len(tt.indices), ix.Npoints())
			assert.Equal(t, tt.length-len(tt.indices), ix.Ngaps())
		})
	}
}

func TestNewBlockIndexValidation(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		blocs    []int32
		blengths []int32
		wantErr  bool
	}{
		{name: "valid", length: 10, blocs: []int32{0, 5}, blengths: []int32{2, 3}},
		{name: "empty", length: 10, blocs: nil, blengths: nil},
		{name: "mismatched slices", length: 10, blocs: []int32{0}, blengths: nil, wantErr: true},
		{name: "zero-length block", length: 10, blocs: []int32{0}, blengths: []int32{0}, wantErr: true},
		{name: "out of range", length: 4, blocs: []int32{2}, blengths: []int32{3}, wantErr: true},
		{name: "overlapping", length: 10, blocs: []int32{0, 1}, blengths: []int32{3, 2}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bx, err := NewBlockIndex(tt.length, tt.blocs, tt.blengths)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.length, bx.Length())
		})
	}
}

func TestLookup(t *testing.T) {
	ix, err := NewIntIndex(8, []int32{1, 3, 4, 7})
	require.NoError(t, err)
	bx := ix.ToBlockIndex()

	for _, index := range []Index{ix, bx} {
		assert.Equal(t, -1, index.Lookup(0))
		assert.Equal(t, 0, index.Lookup(1))
		assert.Equal(t, 1, index.Lookup(3))
		assert.Equal(t, 2, index.Lookup(4))
		assert.Equal(t, 3, index.Lookup(7))
		assert.Equal(t, -1, index.Lookup(6))
	}
}

func TestLookupArray(t *testing.T) {
	ix, err := NewIntIndex(5, []int32{1, 3})
	require.NoError(t, err)
	// Out-of-range query positions map to -1 for callers to handle.
	got := ix.LookupArray([]int{0, 1, 3, 4, 9, -1})
	assert.Equal(t, []int{-1, 0, 1, -1, -1, -1}, got)
}

func TestEncodingRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		length  int
		indices []int32
	}{
		{name: "scattered", length: 10, indices: []int32{0, 2, 3, 4, 8}},
		{name: "single run", length: 6, indices: []int32{2, 3, 4}},
		{name: "all stored", length: 4, indices: []int32{0, 1, 2, 3}},
		{name: "all fill", length: 4, indices: nil},
		{name: "endpoints", length: 5, indices: []int32{0, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, err := NewIntIndex(tt.length, tt.indices)
			require.NoError(t, err)

			bx := ix.ToBlockIndex()
			assert.Equal(t, ix.Npoints(), bx.Npoints())

			back := bx.ToIntIndex()
			assert.Equal(t, ix.Indices(), back.Indices())
			assert.True(t, ix.Equals(bx))
			assert.True(t, bx.Equals(ix))
		})
	}
}

func TestEqualsAcrossEncodings(t *testing.T) {
	a, err := NewIntIndex(6, []int32{1, 2, 3})
	require.NoError(t, err)
	b, err := NewBlockIndex(6, []int32{1}, []int32{3})
	require.NoError(t, err)
	c, err := NewIntIndex(6, []int32{1, 2, 4})
	require.NoError(t, err)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, b.Equals(c))

	short, err := NewIntIndex(5, []int32{1, 2, 3})
	require.NoError(t, err)
	assert.False(t, a.Equals(short))
}

func TestMakeIndex(t *testing.T) {
	t.Run("block kind collapses runs", func(t *testing.T) {
		ix, err := MakeIndex(10, []int32{0, 1, 2, 5, 8, 9}, KindBlock)
		require.NoError(t, err)
		bx, ok := ix.(*BlockIndex)
		require.True(t, ok)
		assert.Equal(t, []int32{0, 5, 8}, bx.Blocs())
		assert.Equal(t, []int32{3, 1, 2}, bx.Blengths())
	})

	t.Run("integer kind", func(t *testing.T) {
		ix, err := MakeIndex(5, []int32{1, 4}, KindInteger)
		require.NoError(t, err)
		_, ok := ix.(*IntIndex)
		assert.True(t, ok)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := MakeIndex(5, nil, Kind("tree"))
		assert.Error(t, err)
	})
}
