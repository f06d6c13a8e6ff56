package tabular

import "strings"

// Table is an ordered set of named columns and the rows that fill them.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row holds one record's cells aligned with the owning table's columns.
type Row struct {
	columns []string
	cells   []Value
}

// NewTable builds a table from column names and raw rows. Short rows are
// padded with Null and long rows are truncated to the column count.
func NewTable(columns []string, rows [][]Value) *Table {
	cols := append([]string(nil), columns...)
	t := &Table{Columns: cols, Rows: make([]Row, 0, len(rows))}
	for _, cells := range rows {
		t.Append(cells)
	}
	return t
}

// Append adds a row, padding or truncating it to the column count.
func (t *Table) Append(cells []Value) {
	aligned := make([]Value, len(t.Columns))
	copy(aligned, cells)
	t.Rows = append(t.Rows, Row{columns: t.Columns, cells: aligned})
}

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// Get returns the value stored under column. When a header repeats, the
// first matching column wins.
func (r Row) Get(column string) (Value, bool) {
	for i, name := range r.columns {
		if name == column {
			return r.cells[i], true
		}
	}
	return NullValue(), false
}

// Cells returns the row's values in column order.
func (r Row) Cells() []Value {
	return append([]Value(nil), r.cells...)
}

// Selection is the outcome of matching requested column names against a table.
type Selection struct {
	// Columns are the table's own column names, in requested order.
	Columns []string
	// Missing lists requested names that matched nothing.
	Missing []string
	// FellBack is true when nothing matched and every column was kept.
	FellBack bool
}

// Select matches names case-insensitively against the table's columns. An
// empty request keeps every column. A column requested twice is kept once.
func (t *Table) Select(names []string) Selection {
	if len(names) == 0 {
		return Selection{Columns: append([]string(nil), t.Columns...)}
	}

	available := make(map[string]string, len(t.Columns))
	for _, col := range t.Columns {
		key := strings.ToLower(col)
		if _, exists := available[key]; !exists {
			available[key] = col
		}
	}

	var sel Selection
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		col, ok := available[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			sel.Missing = append(sel.Missing, name)
			continue
		}
		if _, dup := seen[col]; dup {
			continue
		}
		seen[col] = struct{}{}
		sel.Columns = append(sel.Columns, col)
	}
	if len(sel.Columns) == 0 {
		sel.Columns = append([]string(nil), t.Columns...)
		sel.FellBack = true
	}
	return sel
}

// Project returns a new table containing only the given columns, in order.
// Unknown columns become Null-filled.
func (t *Table) Project(columns []string) *Table {
	index := make(map[string]int, len(t.Columns))
	for i, col := range t.Columns {
		if _, exists := index[col]; !exists {
			index[col] = i
		}
	}
	out := &Table{Columns: append([]string(nil), columns...), Rows: make([]Row, 0, len(t.Rows))}
	for _, row := range t.Rows {
		cells := make([]Value, len(columns))
		for i, col := range columns {
			if src, ok := index[col]; ok {
				cells[i] = row.cells[src]
			}
		}
		out.Rows = append(out.Rows, Row{columns: out.Columns, cells: cells})
	}
	return out
}
