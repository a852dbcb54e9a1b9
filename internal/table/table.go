package table

import (
	"fmt"

	"github.com/paveg/tundra/internal/errors"
	"github.com/paveg/tundra/internal/vector"
)

// Table is an ordered set of equal-length columns with row labels.
// Columns are grouped into contiguous same-dtype blocks; the label
// index accelerates label-based row lookup and alignment.
type Table struct {
	labels  []string
	index   *LabelIndex
	columns []*Column
	blocks  []*Block
}

// NewTable builds a table over columns of one shared length. A nil
// label slice assigns positional labels "0", "1", ...
func NewTable(labels []string, columns []*Column) (*Table, error) {
	if len(columns) == 0 {
		return nil, errors.ErrEmptyTable
	}
	n := columns[0].Len()
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if c.Len() != n {
			return nil, errors.NewLengthMismatchError("NewTable", n, c.Len())
		}
		if seen[c.Name()] {
			return nil, errors.NewValidationError("NewTable",
				fmt.Sprintf("duplicate column name %q", c.Name()))
		}
		seen[c.Name()] = true
	}
	if labels == nil {
		labels = make([]string, n)
		for i := range labels {
			labels[i] = fmt.Sprintf("%d", i)
		}
	}
	if len(labels) != n {
		return nil, errors.NewLengthMismatchError("NewTable", len(labels), n)
	}
	return &Table{
		labels:  labels,
		index:   BuildLabelIndex(labels),
		columns: columns,
		blocks:  groupBlocks(columns),
	}, nil
}

// NumRows returns the logical row count.
func (t *Table) NumRows() int { return len(t.labels) }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.columns) }

// Labels returns the row labels. Callers must not mutate.
func (t *Table) Labels() []string { return t.labels }

// Columns returns the columns in table order.
func (t *Table) Columns() []*Column { return t.columns }

// Blocks returns the contiguous same-dtype column groups.
func (t *Table) Blocks() []*Block { return t.blocks }

// Column returns the named column.
func (t *Table) Column(name string) (*Column, error) {
	for _, c := range t.columns {
		if c.Name() == name {
			return c, nil
		}
	}
	return nil, errors.NewColumnNotFoundError("Column", name)
}

// ColumnNames returns the names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name()
	}
	return names
}

// Row returns the label's first matching row position, or an error
// when the label is absent.
func (t *Table) Row(label string) (int, error) {
	pos := t.index.First(label)
	if pos < 0 {
		return -1, errors.NewIndexError("Row",
			fmt.Sprintf("label %q not found", label))
	}
	return pos, nil
}

// Reindex rearranges rows to the given label order. Labels absent
// from the table become missing rows.
func (t *Table) Reindex(labels []string) (*Table, error) {
	positions := make([]int, len(labels))
	for i, label := range labels {
		positions[i] = t.index.First(label)
	}
	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		out, err := c.Take(positions, true, nil)
		if err != nil {
			return nil, err
		}
		columns[i] = out
	}
	return NewTable(labels, columns)
}

// AlignLabels computes the row-label alignment of two tables: the
// union of labels in left-then-right first-appearance order.
func AlignLabels(left, right *Table) []string {
	union := make([]string, 0, left.NumRows()+right.NumRows())
	seen := make(map[string]bool, left.NumRows()+right.NumRows())
	for _, label := range left.labels {
		if !seen[label] {
			seen[label] = true
			union = append(union, label)
		}
	}
	for _, label := range right.labels {
		if !seen[label] {
			seen[label] = true
			union = append(union, label)
		}
	}
	return union
}

// Align reindexes both tables onto their label union, so binary
// operations see positionally matched rows.
func Align(left, right *Table) (*Table, *Table, error) {
	union := AlignLabels(left, right)
	l, err := left.Reindex(union)
	if err != nil {
		return nil, nil, err
	}
	r, err := right.Reindex(union)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

// Op applies a binary operator between two tables: rows align by
// label, columns match by name, and each matched pair routes through
// the generic dispatch. Columns present on only one side are dropped;
// result rows follow the label union.
func (t *Table) Op(other *Table, op vector.Op) (*Table, error) {
	l, r, err := Align(t, other)
	if err != nil {
		return nil, err
	}
	var columns []*Column
	for _, lc := range l.columns {
		rc, err := r.Column(lc.Name())
		if err != nil {
			continue
		}
		out, err := lc.Op(rc, op)
		if err != nil {
			return nil, err
		}
		columns = append(columns, out)
	}
	if len(columns) == 0 {
		return nil, errors.NewValidationError(op.String(),
			"tables share no column names")
	}
	return NewTable(l.labels, columns)
}

// OpScalar applies a binary operator between every column and a
// scalar, keeping labels and column order.
func (t *Table) OpScalar(scalar any, op vector.Op) (*Table, error) {
	columns := make([]*Column, len(t.columns))
	for i, c := range t.columns {
		out, err := c.Op(scalar, op)
		if err != nil {
			return nil, err
		}
		columns[i] = out
	}
	return NewTable(t.labels, columns)
}
