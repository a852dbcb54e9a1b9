package dtypes

import "fmt"

// SparseType pairs the payload dtype of a sparse column with the
// scalar that is considered "not stored". Two sparse columns with the
// same subtype but different fill values have different dtypes.
type SparseType struct {
	subtype   Dtype
	fillValue any
}

// NewSparseType builds a SparseType. A nil fill value selects the
// dtype-driven default from NAValueFor.
func NewSparseType(subtype Dtype, fillValue any) SparseType {
	if fillValue == nil {
		fillValue = NAValueFor(subtype)
	}
	return SparseType{subtype: subtype, fillValue: fillValue}
}

// Subtype returns the payload dtype.
func (t SparseType) Subtype() Dtype { return t.subtype }

// FillValue returns the scalar treated as not stored.
func (t SparseType) FillValue() any { return t.fillValue }

// IsNAFill reports whether the fill value is the missing-value
// sentinel. Reductions skip fill positions entirely in that case.
func (t SparseType) IsNAFill() bool { return IsNA(t.fillValue) }

// Equal compares subtype and fill value with NA-safe semantics.
func (t SparseType) Equal(other SparseType) bool {
	return t.subtype == other.subtype && ScalarEqual(t.fillValue, other.fillValue)
}

func (t SparseType) String() string {
	return fmt.Sprintf("sparse[%s, fill=%v]", t.subtype, t.fillValue)
}
