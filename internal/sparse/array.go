package sparse

import (
	"fmt"

	"github.com/paveg/tundra/internal/array"
	"github.com/paveg/tundra/internal/config"
	"github.com/paveg/tundra/internal/dtypes"
	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// Array is the compressed column backing: a payload vector holding
// only the stored values, an index naming their logical positions,
// and a sparse dtype carrying the fill value every other position
// reads as. Instances are immutable; every update returns a new one.
type Array struct {
	values *vector.Vector
	index  Index
	dtype  dtypes.SparseType
}

var (
	_ array.Array         = (*Array)(nil)
	_ array.ArithMethoder = (*Array)(nil)
	_ array.CmpMethoder   = (*Array)(nil)
	_ array.Reducer       = (*Array)(nil)
)

// Options configures construction. The zero value compresses with the
// dtype-driven default fill and the configured default index kind.
type Options struct {
	// SparseIndex, when set, marks the input data as an already
	// compressed payload aligned with this index.
	SparseIndex Index
	// FillValue overrides the dtype-driven default fill.
	FillValue any
	// Kind picks the index encoding used when compressing.
	Kind Kind
	// Dtype casts the input before compression.
	Dtype dtypes.Dtype
	// Copy forces payload duplication even on the no-copy paths.
	Copy bool
}

// New builds a sparse array from dense data, compressing positions
// equal to the fill value out of the payload. When opts.SparseIndex
// is set the data is instead taken as the pre-compressed payload.
func New(data *vector.Vector, opts *Options) (*Array, error) {
	if opts == nil {
		opts = &Options{}
	}
	cfg := config.GetGlobalConfig()
	kind := opts.Kind
	if kind == "" {
		kind = Kind(cfg.SparseKind)
	}

	if opts.Dtype != dtypes.Unknown && opts.Dtype != data.Dtype() {
		cast, err := data.AsType(opts.Dtype)
		if err != nil {
			return nil, errors.NewValidationError("SparseArray", err.Error())
		}
		data = cast
	}

	fill := opts.FillValue
	if fill == nil {
		fill = dtypes.NAValueFor(data.Dtype())
	}
	st := dtypes.NewSparseType(data.Dtype(), fill)

	if opts.SparseIndex != nil {
		if data.Len() != opts.SparseIndex.Npoints() {
			return nil, errors.NewValidationError("SparseArray",
				fmt.Sprintf("payload length %d does not match index npoints %d",
					data.Len(), opts.SparseIndex.Npoints()))
		}
		if opts.Copy || cfg.CopyOnConstruct {
			data = data.Copy()
		}
		return &Array{values: data, index: opts.SparseIndex, dtype: st}, nil
	}

	index, stored, err := makeSparse(data, fill, kind)
	if err != nil {
		return nil, err
	}
	values, err := data.Gather(stored)
	if err != nil {
		return nil, errors.NewInternalError("SparseArray", err)
	}
	return &Array{values: values, index: index, dtype: st}, nil
}

// NewSimple wraps an already-built payload and index without copying.
// Callers must not mutate the shared buffers afterwards.
func NewSimple(values *vector.Vector, index Index, st dtypes.SparseType) (*Array, error) {
	if values.Len() != index.Npoints() {
		return nil, errors.NewValidationError("SparseArray",
			fmt.Sprintf("payload length %d does not match index npoints %d",
				values.Len(), index.Npoints()))
	}
	if values.Dtype() != st.Subtype() {
		return nil, errors.NewValidationError("SparseArray",
			fmt.Sprintf("payload dtype %s does not match subtype %s",
				values.Dtype(), st.Subtype()))
	}
	return &Array{values: values, index: index, dtype: st}, nil
}

// NewScalar broadcasts a scalar over the stored positions of an
// index; gap positions read as the dtype default fill.
func NewScalar(value any, index Index) (*Array, error) {
	dt := dtypes.InferScalar(value)
	if dtypes.IsNA(value) {
		dt = dtypes.Float64
	}
	if dt == dtypes.Unknown {
		return nil, errors.NewValidationError("SparseArray",
			fmt.Sprintf("cannot broadcast scalar of type %T", value))
	}
	values, err := vector.NewFilled(dt, index.Npoints(), value)
	if err != nil {
		return nil, errors.NewValidationError("SparseArray", err.Error())
	}
	return &Array{values: values, index: index, dtype: dtypes.NewSparseType(dt, nil)}, nil
}

// makeSparse scans dense data for stored positions: everything not
// equal to the fill value. Comparison is NA-aware, so with an NA fill
// "stored" means "not missing" rather than a raw equality test.
func makeSparse(data *vector.Vector, fill any, kind Kind) (Index, []int, error) {
	n := data.Len()
	naFill := dtypes.IsNA(fill)
	indices := make([]int32, 0, n)
	stored := make([]int, 0, n)
	for i := 0; i < n; i++ {
		keep := false
		if naFill {
			keep = !data.IsNA(i)
		} else if data.IsNA(i) {
			// A missing element never equals a concrete fill.
			keep = true
		} else {
			keep = !dtypes.ScalarEqual(data.Value(i), fill)
		}
		if keep {
			indices = append(indices, int32(i))
			stored = append(stored, i)
		}
	}
	index, err := MakeIndex(n, indices, kind)
	if err != nil {
		return nil, nil, err
	}
	return index, stored, nil
}

// Len returns the logical (decompressed) length.
func (a *Array) Len() int { return a.index.Length() }

// Dtype returns the payload subtype; SparseDtype carries the fill.
func (a *Array) Dtype() dtypes.Dtype { return a.dtype.Subtype() }

// SparseDtype returns the full sparse dtype, subtype plus fill value.
func (a *Array) SparseDtype() dtypes.SparseType { return a.dtype }

// FillValue returns the scalar unstored positions read as.
func (a *Array) FillValue() any { return a.dtype.FillValue() }

// SpValues exposes the stored payload. Callers must not mutate.
func (a *Array) SpValues() *vector.Vector { return a.values }

// SpIndex returns the position index.
func (a *Array) SpIndex() Index { return a.index }

// Npoints returns the stored position count.
func (a *Array) Npoints() int { return a.index.Npoints() }

// Kind reports the physical index encoding.
func (a *Array) Kind() Kind { return a.index.Kind() }

// Density is the stored fraction of the logical length.
func (a *Array) Density() float64 {
	if a.Len() == 0 {
		return 0
	}
	return float64(a.Npoints()) / float64(a.Len())
}

// ToDense materializes the full-length vector: a buffer pre-filled
// with the fill value with the payload scattered at index positions.
// The exact inverse of compression.
func (a *Array) ToDense() *vector.Vector {
	out, err := vector.NewFilled(a.dtype.Subtype(), a.Len(), a.dtype.FillValue())
	if err != nil {
		// The fill is validated representable at construction.
		panic(fmt.Sprintf("sparse: fill %v not representable as %s",
			a.dtype.FillValue(), a.dtype.Subtype()))
	}
	for k, pos := range a.index.ToIntIndex().Indices() {
		if err := out.Set(int(pos), a.values.Value(k)); err != nil {
			panic(fmt.Sprintf("sparse: scatter at %d: %v", pos, err))
		}
	}
	return out
}

// Get returns the scalar at a logical position. Negative positions
// count from the end.
func (a *Array) Get(i int) (any, error) {
	n := a.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, errors.NewIndexError("Get",
			fmt.Sprintf("index %d out of bounds for length %d", i, n))
	}
	off := a.index.Lookup(i)
	if off < 0 {
		return a.dtype.FillValue(), nil
	}
	return a.values.Value(off), nil
}

// IsNA reports whether the logical position holds a missing value:
// a gap under an NA fill, or a stored missing payload element.
func (a *Array) IsNA(i int) bool {
	off := a.index.Lookup(i)
	if off < 0 {
		return a.dtype.IsNAFill()
	}
	return a.values.IsNA(off)
}

// Take gathers elements by logical position. Without allowFill,
// negative indices count from the end. With allowFill, -1 inserts the
// fill value (or the override) and other negatives are rejected. The
// result is freshly re-compressed against this array's fill value.
func (a *Array) Take(indices []int, allowFill bool, fillValue any) (array.Array, error) {
	n := a.Len()
	// A nil override inserts the NA sentinel; Set marks non-float
	// payloads missing through the validity mask.
	out := vector.NewEmpty(a.dtype.Subtype(), len(indices))
	for pos, ix := range indices {
		if allowFill {
			if ix == -1 {
				if err := out.Set(pos, fillValue); err != nil {
					return nil, errors.NewValidationError("Take", err.Error())
				}
				continue
			}
			if ix < -1 {
				return nil, errors.NewValidationError("Take",
					fmt.Sprintf("invalid value in indices: %d; must be >= -1", ix))
			}
		} else if ix < 0 {
			ix += n
		}
		if ix < 0 || ix >= n {
			if n == 0 {
				return nil, errors.NewIndexError("Take",
					"cannot do a non-empty take from an empty axes")
			}
			return nil, errors.NewIndexError("Take",
				fmt.Sprintf("out of bounds value in indices: %d", indices[pos]))
		}
		v, err := a.Get(ix)
		if err != nil {
			return nil, err
		}
		if err := out.Set(pos, v); err != nil {
			return nil, errors.NewInternalError("Take", err)
		}
	}
	return New(out, &Options{FillValue: a.dtype.FillValue(), Kind: a.index.Kind()})
}

// Slice returns the compressed sub-array for the half-open logical
// range [i, j) without densifying.
func (a *Array) Slice(i, j int) (*Array, error) {
	n := a.Len()
	if i < 0 || j < i || j > n {
		return nil, errors.NewIndexError("Slice",
			fmt.Sprintf("invalid range [%d, %d) for length %d", i, j, n))
	}
	src := a.index.ToIntIndex().Indices()
	indices := make([]int32, 0)
	offsets := make([]int, 0)
	for k, pos := range src {
		if int(pos) >= i && int(pos) < j {
			indices = append(indices, pos-int32(i))
			offsets = append(offsets, k)
		}
	}
	values, err := a.values.Gather(offsets)
	if err != nil {
		return nil, errors.NewInternalError("Slice", err)
	}
	index, err := MakeIndex(j-i, indices, a.index.Kind())
	if err != nil {
		return nil, err
	}
	return &Array{values: values, index: index, dtype: a.dtype}, nil
}

// Copy returns a deep copy sharing nothing with the receiver.
func (a *Array) Copy() *Array {
	return &Array{values: a.values.Copy(), index: a.index, dtype: a.dtype}
}

func (a *Array) String() string {
	return fmt.Sprintf("SparseArray[%s](len=%d, npoints=%d, kind=%s)",
		a.dtype, a.Len(), a.Npoints(), a.index.Kind())
}
