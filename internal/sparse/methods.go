package sparse

import (
	"fmt"
	"math"

	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/config"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
	"github.com/paveg/tundra/internal/warnings"
)

// Fillna replaces missing values. Under an NA fill the gaps are the
// missing positions, so the result simply adopts the supplied value as
// its fill and stays compressed; stored NA payload elements are
// replaced in both cases.
func (a *Array) Fillna(value any) (*Array, error) {
	if dtypes.IsNA(value) {
		return nil, errors.NewValidationError("Fillna",
			"fill value must not be a missing value")
	}
	values := a.values.Copy()
	for i := 0; i < values.Len(); i++ {
		if values.IsNA(i) {
			if err := values.Set(i, value); err != nil {
				return nil, errors.NewValidationError("Fillna", err.Error())
			}
		}
	}
	fill := a.dtype.FillValue()
	if a.dtype.IsNAFill() {
		fill = value
	}
	return &Array{
		values: values,
		index:  a.index,
		dtype:  dtypes.NewSparseType(values.Dtype(), fill),
	}, nil
}

// Astype casts the payload subtype, keeping the fill value and the
// index. The result is always sparse.
func (a *Array) Astype(dt dtypes.Dtype) (array.Array, error) {
	return a.AstypeSparse(dtypes.NewSparseType(dt, a.dtype.FillValue()))
}

// AstypeSparse casts to a full sparse dtype: the payload converts to
// the new subtype and the new fill value is adopted as-is, without
// re-deriving which positions are gaps.
func (a *Array) AstypeSparse(st dtypes.SparseType) (*Array, error) {
	values := a.values
	if values.Dtype() != st.Subtype() {
		cast, err := values.AsType(st.Subtype())
		if err != nil {
			return nil, errors.NewValidationError("Astype", err.Error())
		}
		values = cast
	} else {
		values = values.Copy()
	}
	return &Array{values: values, index: a.index, dtype: st}, nil
}

// Map applies fn to every stored value and to the fill value, keeping
// the index. The result dtype is re-inferred from the mapped fill.
func (a *Array) Map(fn func(any) any) (*Array, error) {
	fill := fn(a.dtype.FillValue())
	dt := dtypes.InferScalar(fill)
	if dtypes.IsNA(fill) {
		dt = dtypes.Float64
	}
	if dt == dtypes.Unknown {
		return nil, errors.NewValidationError("Map",
			fmt.Sprintf("mapped fill value has unsupported type %T", fill))
	}
	out := vector.NewEmpty(dt, a.values.Len())
	for i := 0; i < a.values.Len(); i++ {
		if err := out.Set(i, fn(a.values.Value(i))); err != nil {
			return nil, errors.NewValidationError("Map", err.Error())
		}
	}
	return &Array{values: out, index: a.index, dtype: dtypes.NewSparseType(dt, fill)}, nil
}

// Shift moves elements by periods positions, inserting missing values
// at the vacated end. Integer and bool subtypes promote to float64 so
// the inserted positions can hold NA.
func (a *Array) Shift(periods int) (*Array, error) {
	if periods == 0 {
		return a.Copy(), nil
	}
	src := a
	if a.dtype.Subtype() == dtypes.Int64 || a.dtype.Subtype() == dtypes.Bool {
		promoted, err := a.AstypeSparse(
			dtypes.NewSparseType(dtypes.Float64, a.dtype.FillValue()))
		if err != nil {
			return nil, err
		}
		src = promoted
	}
	n := src.Len()
	k := periods
	if k < 0 {
		k = -k
	}
	if k > n {
		k = n
	}
	naVec, err := vector.NewFilled(src.dtype.Subtype(), k, nil)
	if err != nil {
		return nil, errors.NewInternalError("Shift", err)
	}
	empty, err := New(naVec, &Options{
		FillValue: src.dtype.FillValue(),
		Kind:      src.index.Kind(),
	})
	if err != nil {
		return nil, err
	}
	var head, tail *Array
	if periods > 0 {
		head = empty
		tail, err = src.Slice(0, n-k)
	} else {
		head, err = src.Slice(k, n)
		tail = empty
	}
	if err != nil {
		return nil, err
	}
	return ConcatSameType([]*Array{head, tail})
}

// Unique returns the distinct logical values in order of first
// appearance, with NA-aware equality: at most one missing value
// survives regardless of representation.
func (a *Array) Unique() *vector.Vector {
	n := a.Len()
	seen := make([]any, 0)
	seenNA := false
	for i := 0; i < n; i++ {
		v, _ := a.Get(i)
		if dtypes.IsNA(v) {
			if !seenNA {
				seenNA = true
				seen = append(seen, v)
			}
			continue
		}
		dup := false
		for _, s := range seen {
			if dtypes.ScalarEqual(s, v) {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, v)
		}
	}
	out := vector.NewEmpty(a.dtype.Subtype(), len(seen))
	for i, v := range seen {
		// Values originate from this payload, so the store succeeds.
		_ = out.Set(i, v)
	}
	return out
}

// ConcatSameType concatenates sparse arrays into one logical vector,
// using the first array's index encoding. Arrays disagreeing on fill
// value are coerced to the first's fill through a dense round-trip,
// which emits a performance warning. Subtypes promote to the widest.
func ConcatSameType(arrays []*Array) (*Array, error) {
	if len(arrays) == 0 {
		return nil, errors.NewValidationError("Concat",
			"cannot concatenate zero sparse arrays")
	}
	first := arrays[0]
	subtype := first.dtype.Subtype()
	for _, a := range arrays[1:] {
		common, err := dtypes.FindCommonType(subtype, a.dtype.Subtype())
		if err != nil {
			return nil, errors.NewValidationError("Concat", err.Error())
		}
		subtype = common
	}

	fill := first.dtype.FillValue()
	kind := first.index.Kind()
	parts := make([]*Array, len(arrays))
	for i, a := range arrays {
		if !dtypes.ScalarEqual(a.dtype.FillValue(), fill) {
			warnings.Warn(warnings.Performance, "Concat", fmt.Sprintf(
				"concatenating sparse arrays with different fill values (%v vs %v); "+
					"converting through dense form", fill, a.dtype.FillValue()))
			rebuilt, err := New(a.ToDense(), &Options{
				FillValue: fill, Kind: kind, Dtype: subtype,
			})
			if err != nil {
				return nil, err
			}
			parts[i] = rebuilt
			continue
		}
		if a.dtype.Subtype() != subtype {
			cast, err := a.AstypeSparse(dtypes.NewSparseType(subtype, fill))
			if err != nil {
				return nil, err
			}
			parts[i] = cast
			continue
		}
		parts[i] = a
	}

	payloads := make([]*vector.Vector, len(parts))
	total := 0
	for i, p := range parts {
		payloads[i] = p.values
		total += p.Len()
	}
	values, err := vector.Concat(payloads...)
	if err != nil {
		return nil, errors.NewValidationError("Concat", err.Error())
	}

	var index Index
	if kind == KindBlock {
		var blocs, blengths []int32
		offset := int32(0)
		for _, p := range parts {
			bx := p.index.ToBlockIndex()
			for j := range bx.Blocs() {
				blocs = append(blocs, bx.Blocs()[j]+offset)
				blengths = append(blengths, bx.Blengths()[j])
			}
			offset += int32(p.Len())
		}
		index, err = NewBlockIndex(total, blocs, blengths)
	} else {
		var indices []int32
		offset := int32(0)
		for _, p := range parts {
			for _, ix := range p.index.ToIntIndex().Indices() {
				indices = append(indices, ix+offset)
			}
			offset += int32(p.Len())
		}
		index, err = NewIntIndex(total, indices)
	}
	if err != nil {
		return nil, err
	}
	return &Array{values: values, index: index, dtype: dtypes.NewSparseType(subtype, fill)}, nil
}

// Sum adds the stored values and accounts for the gaps analytically:
// fill * ngaps under a concrete fill, nothing under an NA fill.
func (a *Array) Sum() (any, error) {
	sum, _, err := a.values.ValidSum()
	if err != nil {
		return nil, errors.NewUnsupportedOpError("Sum", a.dtype.String())
	}
	if a.dtype.IsNAFill() || a.index.Ngaps() == 0 {
		return sum, nil
	}
	gaps := a.index.Ngaps()
	if f, ok := sum.(float64); ok {
		fillF, _ := dtypes.AsFloat64(a.dtype.FillValue())
		return f + fillF*float64(gaps), nil
	}
	si, _ := dtypes.AsInt64(sum)
	if fillI, ok := dtypes.AsInt64(a.dtype.FillValue()); ok {
		return si + fillI*int64(gaps), nil
	}
	fillF, _ := dtypes.AsFloat64(a.dtype.FillValue())
	return float64(si) + fillF*float64(gaps), nil
}

// Mean divides the analytic sum by the count of participating
// elements: gaps participate only under a concrete fill.
func (a *Array) Mean() (any, error) {
	sum, err := a.Sum()
	if err != nil {
		return nil, err
	}
	_, valid, err := a.values.ValidSum()
	if err != nil {
		return nil, err
	}
	count := valid
	if !a.dtype.IsNAFill() {
		count += a.index.Ngaps()
	}
	if count == 0 {
		return math.NaN(), nil
	}
	f, _ := dtypes.AsFloat64(sum)
	return f / float64(count), nil
}

// Min returns the smallest value; gaps contribute the fill value only
// when it is not NA.
func (a *Array) Min() (any, error) { return a.extreme(true) }

// Max returns the largest value under the same gap policy as Min.
func (a *Array) Max() (any, error) { return a.extreme(false) }

func (a *Array) extreme(min bool) (any, error) {
	var stored any
	var err error
	if min {
		stored, err = a.values.Min()
	} else {
		stored, err = a.values.Max()
	}
	if err != nil {
		return nil, errors.NewUnsupportedOpError("MinMax", a.dtype.String())
	}
	if a.dtype.IsNAFill() || a.index.Ngaps() == 0 {
		return stored, nil
	}
	fill := a.dtype.FillValue()
	if dtypes.IsNA(stored) {
		return fill, nil
	}
	sf, _ := dtypes.AsFloat64(stored)
	ff, _ := dtypes.AsFloat64(fill)
	if (min && ff < sf) || (!min && ff > sf) {
		return fill, nil
	}
	return stored, nil
}

// Any reports whether any element is truthy. A truthy concrete fill
// with at least one gap answers without touching the payload.
func (a *Array) Any() bool {
	if a.index.Ngaps() > 0 && !a.dtype.IsNAFill() {
		if t, _ := dtypes.AsBool(a.dtype.FillValue()); t {
			return true
		}
	}
	return a.values.Any()
}

// All reports whether every element is truthy. Gaps under an NA fill
// are skipped, matching the NA-skipping reduction convention.
func (a *Array) All() bool {
	if a.index.Ngaps() > 0 && !a.dtype.IsNAFill() {
		if t, _ := dtypes.AsBool(a.dtype.FillValue()); !t {
			return false
		}
	}
	return a.values.All()
}

// Cumsum computes the running total. Under an NA fill the gaps are
// skipped, so the payload cumsum reuses the existing index. Under a
// concrete fill every gap participates in the total, which forces a
// full densification; this is the one reduction that cannot stay
// compressed.
func (a *Array) Cumsum() (*Array, error) {
	if a.dtype.IsNAFill() {
		cs, err := a.values.CumSum()
		if err != nil {
			return nil, errors.NewUnsupportedOpError("Cumsum", a.dtype.String())
		}
		return NewSimple(cs, a.index, dtypes.NewSparseType(cs.Dtype(), a.dtype.FillValue()))
	}
	if config.GetGlobalConfig().WarnOnDensify {
		warnings.Warn(warnings.Performance, "Cumsum",
			"cumsum with a non-missing fill value materializes the dense vector")
	}
	cs, err := a.ToDense().CumSum()
	if err != nil {
		return nil, errors.NewUnsupportedOpError("Cumsum", a.dtype.String())
	}
	return New(cs, &Options{Kind: a.index.Kind()})
}
