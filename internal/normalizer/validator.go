package normalizer

import (
	"errors"
	"fmt"
)

// ErrUnexpectedShape is returned when a payload does not have the top-level layout an
// adapter family expects. Adapters treat it as a zero-row result, not a failure.
var ErrUnexpectedShape = errors.New("unexpected response shape")

// Validator checks decoded payloads against the known response layouts.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ObjectArray checks for {"<key>": [ {...}, ... ]} and returns the records.
func (v *Validator) ObjectArray(payload any, key string) ([]*Object, error) {
	obj, ok := payload.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON object, got %s", ErrUnexpectedShape, kindOf(payload))
	}

	value, ok := obj.Get(key)
	if !ok {
		return nil, fmt.Errorf("%w: missing %q key", ErrUnexpectedShape, key)
	}

	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, not an array", ErrUnexpectedShape, key, kindOf(value))
	}

	return v.records(items)
}

// IndexedPair checks for [ <metadata>, [ {...}, ... ] ] and returns the records at index.
// A well-formed pair whose record array is empty yields zero records and no error.
func (v *Validator) IndexedPair(payload any, index int) ([]*Object, error) {
	arr, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", ErrUnexpectedShape, kindOf(payload))
	}

	if len(arr) <= index {
		return nil, fmt.Errorf("%w: array has %d element(s), need at least %d", ErrUnexpectedShape, len(arr), index+1)
	}

	items, ok := arr[index].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: element %d is %s, not an array", ErrUnexpectedShape, index, kindOf(arr[index]))
	}

	return v.records(items)
}

func (v *Validator) records(items []any) ([]*Object, error) {
	records := make([]*Object, 0, len(items))

	for i, item := range items {
		record, ok := item.(*Object)
		if !ok {
			return nil, fmt.Errorf("%w: record %d is %s, not an object", ErrUnexpectedShape, i, kindOf(item))
		}

		records = append(records, record)
	}

	return records, nil
}

func kindOf(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case *Object:
		return "an object"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}
