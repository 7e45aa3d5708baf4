package models

import "strings"

// ResultFrame is a tabular result set with named columns. All cell values are
// kept as strings, matching what the warehouse hands back for this schema.
// Truncated is true when the fetch hit the configured row cap, signaling a
// possible undercount.
type ResultFrame struct {
	Columns   []string
	Rows      [][]string
	Truncated bool
}

// NewResultFrame creates a frame with the given column names and no rows.
func NewResultFrame(columns []string) *ResultFrame {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &ResultFrame{Columns: cols}
}

// AppendRow adds one row. Short rows are padded with empty strings so every
// row always has one cell per column.
func (f *ResultFrame) AppendRow(row []string) {
	r := make([]string, len(f.Columns))
	copy(r, row)
	f.Rows = append(f.Rows, r)
}

// RowCount returns the number of rows.
func (f *ResultFrame) RowCount() int {
	return len(f.Rows)
}

// ColumnIndex returns the position of the named column, or -1 when absent.
func (f *ResultFrame) ColumnIndex(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Value returns the cell at (row, column name), or "" when the column is
// absent.
func (f *ResultFrame) Value(row int, column string) string {
	idx := f.ColumnIndex(column)
	if idx < 0 || row < 0 || row >= len(f.Rows) {
		return ""
	}
	return f.Rows[row][idx]
}

// Filter returns a new frame holding only the rows for which keep returns
// true. Column order and the truncation flag are preserved.
func (f *ResultFrame) Filter(keep func(row []string) bool) *ResultFrame {
	out := &ResultFrame{Columns: f.Columns, Truncated: f.Truncated}
	for _, row := range f.Rows {
		if keep(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// DropColumns returns a new frame without the named columns. Names that do
// not exist are ignored.
func (f *ResultFrame) DropColumns(names []string) *ResultFrame {
	drop := make(map[string]struct{}, len(names))
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var keepIdx []int
	var cols []string
	for i, c := range f.Columns {
		if _, gone := drop[c]; gone {
			continue
		}
		keepIdx = append(keepIdx, i)
		cols = append(cols, c)
	}
	out := &ResultFrame{Columns: cols, Truncated: f.Truncated}
	for _, row := range f.Rows {
		r := make([]string, len(keepIdx))
		for j, idx := range keepIdx {
			r[j] = row[idx]
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// AddColumn returns a new frame with an extra column whose per-row value is
// produced by compute. An existing column of the same name is overwritten in
// place instead of duplicated.
func (f *ResultFrame) AddColumn(name string, compute func(row int) string) *ResultFrame {
	if idx := f.ColumnIndex(name); idx >= 0 {
		out := f.clone()
		for i := range out.Rows {
			out.Rows[i][idx] = compute(i)
		}
		return out
	}
	out := &ResultFrame{Columns: append(append([]string{}, f.Columns...), name), Truncated: f.Truncated}
	for i, row := range f.Rows {
		r := make([]string, 0, len(row)+1)
		r = append(r, row...)
		r = append(r, compute(i))
		out.Rows = append(out.Rows, r)
	}
	return out
}

// DropDuplicateRows returns a new frame with exact-duplicate rows removed,
// keeping the first occurrence.
func (f *ResultFrame) DropDuplicateRows() *ResultFrame {
	seen := make(map[string]struct{}, len(f.Rows))
	out := &ResultFrame{Columns: f.Columns, Truncated: f.Truncated}
	for _, row := range f.Rows {
		key := strings.Join(row, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func (f *ResultFrame) clone() *ResultFrame {
	out := &ResultFrame{Columns: append([]string{}, f.Columns...), Truncated: f.Truncated}
	for _, row := range f.Rows {
		out.Rows = append(out.Rows, append([]string{}, row...))
	}
	return out
}
