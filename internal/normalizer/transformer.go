package normalizer

import (
	"errors"
	"fmt"

	"econfetch/internal/models"
)

// ErrMissingProjectionColumn is returned when a record lacks a column a projection requires.
var ErrMissingProjectionColumn = errors.New("missing projection column")

// Projection copies the flattened column Source into the output column Column.
type Projection struct {
	Source string
	Column string
}

// Transformer flattens records and shapes them into tables.
type Transformer struct {
	separator string
}

// NewTransformer creates a new transformer that joins nested keys with ".".
func NewTransformer() *Transformer {
	return &Transformer{separator: "."}
}

// Flatten promotes nested object keys to joined column names (a.b.c).
// Arrays are left as opaque values; empty nested objects produce no columns.
// A literal key and a nested path that join to the same name share one column:
// it keeps the position of the first and the value of the last.
func (t *Transformer) Flatten(record *Object) *Object {
	flat := NewObject()
	t.flattenInto(flat, "", record)

	return flat
}

func (t *Transformer) flattenInto(flat *Object, prefix string, obj *Object) {
	for _, key := range obj.Keys {
		name := key
		if prefix != "" {
			name = prefix + t.separator + key
		}

		if nested, ok := obj.Values[key].(*Object); ok {
			t.flattenInto(flat, name, nested)

			continue
		}

		flat.Set(name, obj.Values[key])
	}
}

// Tabulate flattens every record into one row. The column set is the union of
// flattened keys in first-seen order; keys a record lacks are filled with nil.
// Records that flatten to no columns at all yield an empty table.
func (t *Transformer) Tabulate(records []*Object) *models.Table {
	table := &models.Table{Rows: make([]models.Row, 0, len(records))}
	if len(records) == 0 {
		return table
	}

	seen := make(map[string]bool)
	flattened := make([]*Object, 0, len(records))

	for _, record := range records {
		flat := t.Flatten(record)
		flattened = append(flattened, flat)

		for _, key := range flat.Keys {
			if !seen[key] {
				seen[key] = true
				table.Columns = append(table.Columns, key)
			}
		}
	}

	if len(table.Columns) == 0 {
		return table
	}

	for _, flat := range flattened {
		row := make(models.Row, len(table.Columns))
		for _, col := range table.Columns {
			row[col] = flat.Values[col]
		}

		table.Rows = append(table.Rows, row)
	}

	return table
}

// Project flattens every record and keeps exactly the projected columns, in order.
// A record missing any projected key fails the whole projection.
func (t *Transformer) Project(records []*Object, projection []Projection) (*models.Table, error) {
	table := &models.Table{Rows: make([]models.Row, 0, len(records))}
	if len(records) == 0 {
		return table, nil
	}

	for _, p := range projection {
		table.Columns = append(table.Columns, p.Column)
	}

	for i, record := range records {
		flat := t.Flatten(record)
		row := make(models.Row, len(projection))

		for _, p := range projection {
			value, ok := flat.Get(p.Source)
			if !ok {
				return nil, fmt.Errorf("%w: record %d has no %q", ErrMissingProjectionColumn, i, p.Source)
			}

			row[p.Column] = value
		}

		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
