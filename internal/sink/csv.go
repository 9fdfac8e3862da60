package sink

import (
	"bytes"
	"encoding/csv"

	"econfetch/internal/models"
)

type csvEncoder struct{}

func (csvEncoder) extension() string {
	return "csv"
}

func (csvEncoder) encode(table *models.Table) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(table.Columns); err != nil {
		return nil, err
	}

	record := make([]string, len(table.Columns))

	for _, row := range table.Rows {
		for i, value := range table.Values(row) {
			cell, err := renderValue(value)
			if err != nil {
				return nil, err
			}

			record[i] = cell
		}

		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
