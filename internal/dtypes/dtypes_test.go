package dtypes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCommonType(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Dtype
		want    Dtype
		wantErr bool
	}{
		{name: "int int", a: Int64, b: Int64, want: Int64},
		{name: "int float", a: Int64, b: Float64, want: Float64},
		{name: "float int", a: Float64, b: Int64, want: Float64},
		{name: "bool bool", a: Bool, b: Bool, want: Bool},
		{name: "bool int", a: Bool, b: Int64, want: Int64},
		{name: "bool float", a: Bool, b: Float64, want: Float64},
		{name: "unknown left", a: Unknown, b: Float64, want: Float64},
		{name: "string int", a: String, b: Int64, wantErr: true},
		{name: "timestamp float", a: Timestamp, b: Float64, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindCommonType(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNAValueFor(t *testing.T) {
	assert.True(t, math.IsNaN(NAValueFor(Float64).(float64)))
	assert.Equal(t, int64(0), NAValueFor(Int64))
	assert.Equal(t, false, NAValueFor(Bool))
	assert.Equal(t, int64(NaTSentinel), NAValueFor(Timestamp))
	assert.Equal(t, "", NAValueFor(String))
}

func TestIsNA(t *testing.T) {
	assert.True(t, IsNA(nil))
	assert.True(t, IsNA(math.NaN()))
	assert.False(t, IsNA(0.0))
	assert.False(t, IsNA(int64(0)))
	assert.False(t, IsNA(false))
	assert.False(t, IsNA(""))
}

func TestScalarEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "int float same value", a: int64(3), b: 3.0, want: true},
		{name: "int int", a: int64(3), b: int64(3), want: true},
		{name: "both NA", a: math.NaN(), b: nil, want: true},
		{name: "NA vs zero", a: math.NaN(), b: 0.0, want: false},
		{name: "bool", a: true, b: true, want: true},
		{name: "bool vs int", a: true, b: int64(1), want: false},
		{name: "strings", a: "a", b: "a", want: true},
		{name: "different values", a: int64(1), b: int64(2), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScalarEqual(tt.a, tt.b))
		})
	}
}

func TestSparseType(t *testing.T) {
	t.Run("default fill from dtype", func(t *testing.T) {
		st := NewSparseType(Float64, nil)
		assert.True(t, st.IsNAFill())
		assert.Equal(t, Float64, st.Subtype())

		st = NewSparseType(Int64, nil)
		assert.False(t, st.IsNAFill())
		assert.Equal(t, int64(0), st.FillValue())
	})

	t.Run("explicit fill", func(t *testing.T) {
		st := NewSparseType(Int64, int64(7))
		assert.Equal(t, int64(7), st.FillValue())
		assert.False(t, st.IsNAFill())
	})

	t.Run("equality is fill-aware", func(t *testing.T) {
		a := NewSparseType(Float64, 0.0)
		b := NewSparseType(Float64, 1.0)
		c := NewSparseType(Float64, 0.0)
		assert.False(t, a.Equal(b))
		assert.True(t, a.Equal(c))
	})

	t.Run("NA fills compare equal", func(t *testing.T) {
		a := NewSparseType(Float64, math.NaN())
		b := NewSparseType(Float64, nil)
		assert.True(t, a.Equal(b))
	})
}

func TestAsInt64(t *testing.T) {
	v, ok := AsInt64(3.0)
	assert.True(t, ok)
	assert.Equal(t, int64(3), v)

	_, ok = AsInt64(3.5)
	assert.False(t, ok)

	_, ok = AsInt64(math.NaN())
	assert.False(t, ok)

	v, ok = AsInt64(true)
	assert.True(t, ok)
	assert.Equal(t, int64(1), v)
}
