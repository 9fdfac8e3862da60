// Package normalizer turns raw JSON response bodies into normalized tables.
package normalizer

import (
	"fmt"

	"econfetch/internal/models"
)

// Processor handles decoding, shape validation and flattening.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor() *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(),
	}
}

// ProcessObjectArray normalizes a {"<key>": [...]} body into a table whose columns are
// the union of the records' flattened keys.
func (p *Processor) ProcessObjectArray(body []byte, key string) (*models.Table, error) {
	payload, err := Decode(body)
	if err != nil {
		return nil, err
	}

	records, err := p.validator.ObjectArray(payload, key)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return p.transformer.Tabulate(records), nil
}

// ProcessIndexedPair normalizes a [metadata, [...]] body, keeping only the projected columns.
func (p *Processor) ProcessIndexedPair(body []byte, index int, projection []Projection) (*models.Table, error) {
	payload, err := Decode(body)
	if err != nil {
		return nil, err
	}

	records, err := p.validator.IndexedPair(payload, index)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	table, err := p.transformer.Project(records, projection)
	if err != nil {
		return nil, fmt.Errorf("transformation failed: %w", err)
	}

	return table, nil
}
