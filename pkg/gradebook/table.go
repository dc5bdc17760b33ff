// Package gradebook defines the data model shared by every reconciliation stage:
// raw tables as read from disk, canonical assignment keys, typed score cells,
// student records, and the datasets built from them.
package gradebook

import (
	"slices"
)

// Table is a parsed gradebook before any normalization.
// Preamble holds non-student rows that sit between the header and the first
// student (for example an LMS "Points Possible" row); they are written back verbatim.
type Table struct {
	Header   []string
	Preamble [][]string
	Rows     [][]string
}

// ColumnIndex returns the index of the column with the given label, or -1.
func (t *Table) ColumnIndex(label string) int {
	return slices.Index(t.Header, label)
}

// HasColumn reports whether the header contains label.
func (t *Table) HasColumn(label string) bool {
	return t.ColumnIndex(label) >= 0
}

// Cell returns the value at row/column, or "" when the row is short.
func (t *Table) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Column returns every student-row value of the named column.
func (t *Table) Column(label string) []string {
	idx := t.ColumnIndex(label)
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = t.Cell(row, idx)
	}
	return values
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		Header:   slices.Clone(t.Header),
		Preamble: make([][]string, len(t.Preamble)),
		Rows:     make([][]string, len(t.Rows)),
	}
	for i, row := range t.Preamble {
		out.Preamble[i] = slices.Clone(row)
	}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// Project returns a copy holding only the given columns, in the given order.
// Unknown labels produce empty cells.
func (t *Table) Project(labels []string) *Table {
	indexes := make([]int, len(labels))
	for i, label := range labels {
		indexes[i] = t.ColumnIndex(label)
	}
	pick := func(row []string) []string {
		out := make([]string, len(indexes))
		for i, idx := range indexes {
			out[i] = t.Cell(row, idx)
		}
		return out
	}

	out := &Table{
		Header:   slices.Clone(labels),
		Preamble: make([][]string, len(t.Preamble)),
		Rows:     make([][]string, len(t.Rows)),
	}
	for i, row := range t.Preamble {
		out.Preamble[i] = pick(row)
	}
	for i, row := range t.Rows {
		out.Rows[i] = pick(row)
	}
	return out
}
