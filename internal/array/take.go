package array

import (
	"fmt"

	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// takeVector implements the shared position-gather semantics for
// dense representations. Without allowFill, negative indices count
// from the end. With allowFill, -1 inserts fillValue and any other
// out-of-range index is rejected.
func takeVector(v *vector.Vector, indices []int, allowFill bool, fillValue any) (*vector.Vector, error) {
	n := v.Len()

	if !allowFill {
		resolved := make([]int, len(indices))
		for i, ix := range indices {
			if ix < 0 {
				ix += n
			}
			if ix < 0 || ix >= n {
				if n == 0 {
					return nil, errors.NewIndexError("Take",
						"cannot do a non-empty take from an empty axes")
				}
				return nil, errors.NewIndexError("Take",
					fmt.Sprintf("out of bounds value in indices: %d", indices[i]))
			}
			resolved[i] = ix
		}
		return v.Gather(resolved)
	}

	out := vector.NewEmpty(v.Dtype(), len(indices))
	for pos, ix := range indices {
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
		if ix >= n {
			if n == 0 {
				return nil, errors.NewIndexError("Take",
					"cannot do a non-empty take from an empty axes")
			}
			return nil, errors.NewIndexError("Take",
				fmt.Sprintf("out of bounds value in indices: %d", ix))
		}
		if v.IsNull(ix) {
			// Propagate the mask through an NA store.
			if err := out.Set(pos, nil); err != nil {
				return nil, errors.NewInternalError("Take", err)
			}
			continue
		}
		if err := out.Set(pos, v.Value(ix)); err != nil {
			return nil, errors.NewInternalError("Take", err)
		}
	}
	return out, nil
}
