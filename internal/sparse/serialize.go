package sparse

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/vector"
)

const (
	fillNA = iota
	fillFloat
	fillInt
	fillBool
	fillString
)

// arrayState is the wire form of a sparse array: the payload, the
// index in integer encoding with the original kind recorded, and the
// fill value flattened into typed fields so no interface registration
// is needed.
type arrayState struct {
	Length  int
	Kind    string
	Indices []int32

	Subtype int
	Floats  []float64
	Ints    []int64
	Bools   []bool
	Strs    []string
	Valid   []bool

	FillKind  int
	FillFloat float64
	FillInt   int64
	FillBool  bool
	FillStr   string
}

// GobEncode serializes the array; the round-trip through GobDecode
// reproduces payload, index and fill value exactly.
func (a *Array) GobEncode() ([]byte, error) {
	st := arrayState{
		Length:  a.Len(),
		Kind:    string(a.index.Kind()),
		Indices: a.index.ToIntIndex().Indices(),
		Subtype: int(a.dtype.Subtype()),
		Valid:   a.values.Validity(),
	}
	switch a.dtype.Subtype() {
	case dtypes.Float64:
		st.Floats = a.values.Float64s()
	case dtypes.Int64, dtypes.Timestamp:
		st.Ints = a.values.Int64s()
	case dtypes.Bool:
		st.Bools = a.values.Bools()
	case dtypes.String:
		st.Strs = a.values.Strings()
	}
	fill := a.dtype.FillValue()
	switch f := fill.(type) {
	case float64:
		if dtypes.IsNA(f) {
			st.FillKind = fillNA
		} else {
			st.FillKind = fillFloat
			st.FillFloat = f
		}
	case bool:
		st.FillKind = fillBool
		st.FillBool = f
	case string:
		st.FillKind = fillString
		st.FillStr = f
	case nil:
		st.FillKind = fillNA
	default:
		n, ok := dtypes.AsInt64(fill)
		if !ok {
			return nil, fmt.Errorf("sparse: cannot serialize fill value %v", fill)
		}
		st.FillKind = fillInt
		st.FillInt = n
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(st); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores an array serialized by GobEncode.
func (a *Array) GobDecode(data []byte) error {
	var st arrayState
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&st); err != nil {
		return err
	}
	index, err := MakeIndex(st.Length, st.Indices, Kind(st.Kind))
	if err != nil {
		return err
	}

	var values *vector.Vector
	subtype := dtypes.Dtype(st.Subtype)
	switch subtype {
	case dtypes.Float64:
		values = vector.FromFloat64s(st.Floats)
	case dtypes.Int64:
		values = vector.FromInt64s(st.Ints)
	case dtypes.Timestamp:
		values = vector.FromTimestamps(st.Ints)
	case dtypes.Bool:
		values = vector.FromBools(st.Bools)
	case dtypes.String:
		values = vector.FromStrings(st.Strs)
	default:
		return fmt.Errorf("sparse: unknown serialized subtype %d", st.Subtype)
	}
	if st.Valid != nil {
		values = values.WithValidity(st.Valid)
	}

	var fill any
	switch st.FillKind {
	case fillNA:
		fill = nil
	case fillFloat:
		fill = st.FillFloat
	case fillInt:
		fill = st.FillInt
	case fillBool:
		fill = st.FillBool
	case fillString:
		fill = st.FillStr
	default:
		return fmt.Errorf("sparse: unknown serialized fill kind %d", st.FillKind)
	}

	a.values = values
	a.index = index
	a.dtype = dtypes.NewSparseType(subtype, fill)
	return nil
}
