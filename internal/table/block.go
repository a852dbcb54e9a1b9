package table

import (
	"github.com/paveg/tundra/internal/dtypes"
)

// Block groups consecutive columns of one dtype, mirroring the
// contiguous storage layout the engine assumes for columnar scans.
type Block struct {
	dt      dtypes.Dtype
	columns []*Column
}

// Dtype returns the shared element dtype of the block's columns.
func (b *Block) Dtype() dtypes.Dtype { return b.dt }

// Columns returns the member columns in table order.
func (b *Block) Columns() []*Column { return b.columns }

// Width returns the number of columns in the block.
func (b *Block) Width() int { return len(b.columns) }

// groupBlocks splits a column sequence into maximal runs of columns
// sharing a dtype, preserving order.
func groupBlocks(columns []*Column) []*Block {
	var blocks []*Block
	for _, c := range columns {
		if n := len(blocks); n > 0 && blocks[n-1].dt == c.Dtype() {
			blocks[n-1].columns = append(blocks[n-1].columns, c)
			continue
		}
		blocks = append(blocks, &Block{dt: c.Dtype(), columns: []*Column{c}})
	}
	return blocks
}
