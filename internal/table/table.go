package table

import (
	"fmt"
	"strings"
)

// Row maps a column name to the raw cell value for one record.
// Cells are kept as strings; all numeric and date typing happens downstream.
type Row map[string]string

// Table is an ordered, in-memory tabular dataset. Once loaded it is
// treated as read-only: consumers derive new values and never mutate
// the rows in place.
type Table struct {
	columns []string
	rows    []Row
}

// New creates a table from a header and rows. Column names must be
// unique within the table.
func New(columns []string, rows []Row) (*Table, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		if col == "" {
			return nil, fmt.Errorf("empty column name in header")
		}
		if _, dup := seen[col]; dup {
			return nil, fmt.Errorf("duplicate column name: %s", col)
		}
		seen[col] = struct{}{}
	}
	return &Table{columns: columns, rows: rows}, nil
}

// Columns returns a copy of the column names in file order.
func (t *Table) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.columns {
		if col == name {
			return true
		}
	}
	return false
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the underlying rows. Callers must not modify them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Column returns the raw cell values for the named column in row
// order. Rows without the column contribute an empty cell.
func (t *Table) Column(name string) []string {
	cells := make([]string, len(t.rows))
	for i, row := range t.rows {
		cells[i] = row[name]
	}
	return cells
}

// headerFromRecord normalizes a raw header record: trims whitespace
// and strips a UTF-8 BOM from the first cell.
func headerFromRecord(record []string) []string {
	header := make([]string, len(record))
	for i, cell := range record {
		cell = strings.TrimSpace(cell)
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		header[i] = cell
	}
	// Drop trailing unnamed columns, common in exported spreadsheets.
	for len(header) > 0 && header[len(header)-1] == "" {
		header = header[:len(header)-1]
	}
	// Interior blanks get a positional placeholder so one unnamed
	// column does not fail the whole load.
	for i, cell := range header {
		if cell == "" {
			header[i] = fmt.Sprintf("unnamed_%d", i)
		}
	}
	return header
}

// rowFromRecord builds a Row from a data record, padding or ignoring
// cells so that short and long records never fail the load.
func rowFromRecord(header, record []string) Row {
	row := make(Row, len(header))
	for i, col := range header {
		if i < len(record) {
			row[col] = strings.TrimSpace(record[i])
		} else {
			row[col] = ""
		}
	}
	return row
}
