// Package models defines the normalized table and per-source outcome types.
package models

// Row maps a column name to a scalar value. Values are strings, json.Number,
// bools, nil, or opaque JSON arrays/objects.
type Row map[string]any

// Table is the normalized tabular shape every adapter produces.
// Either it has no rows, or every row carries exactly Columns.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// EmptyTable returns a table with no columns and no rows.
func EmptyTable() *Table {
	return &Table{}
}

// Len returns the number of rows. A nil table has zero rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.Rows)
}

// IsEmpty reports whether the table holds no data: no rows, or rows without columns.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0 || len(t.Columns) == 0
}

// Values returns the row's values in column order.
func (t *Table) Values(row Row) []any {
	values := make([]any, len(t.Columns))
	for i, col := range t.Columns {
		values[i] = row[col]
	}

	return values
}

// FetchResult is what an adapter hands back on success.
type FetchResult struct {
	Table *Table
	// ShapeMismatch explains why the payload was not understood. It is empty when
	// the response had the expected shape, even if it carried zero records.
	ShapeMismatch string
}
