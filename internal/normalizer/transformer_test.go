package normalizer

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func decodeRecords(t *testing.T, body string) []*Object {
	t.Helper()

	records, err := NewValidator().ObjectArray(mustDecode(t, body), "data")
	if err != nil {
		t.Fatalf("ObjectArray failed: %v", err)
	}

	return records
}

func TestNewTransformer(t *testing.T) {
	tr := NewTransformer()
	if tr == nil {
		t.Fatal("NewTransformer returned nil")
	}
}

func TestTransformer_Flatten(t *testing.T) {
	tr := NewTransformer()

	records := decodeRecords(t, `{"data": [{"id": 1, "geo": {"state": {"code": "IA", "name": "Iowa"}, "empty": {}}, "tags": ["a", {"k": 1}]}]}`)

	flat := tr.Flatten(records[0])

	wantKeys := []string{"id", "geo.state.code", "geo.state.name", "tags"}
	if !reflect.DeepEqual(flat.Keys, wantKeys) {
		t.Errorf("Keys = %v, want %v", flat.Keys, wantKeys)
	}

	if v, _ := flat.Get("geo.state.code"); v != "IA" {
		t.Errorf("geo.state.code = %v, want IA", v)
	}

	if v, _ := flat.Get("tags"); reflect.TypeOf(v) != reflect.TypeOf([]any{}) {
		t.Errorf("tags should stay an opaque array, got %T", v)
	}
}

func TestTransformer_Tabulate_UnionOfColumns(t *testing.T) {
	tr := NewTransformer()

	records := decodeRecords(t, `{"data": [
		{"year": 2020, "value": 1.2},
		{"year": 2021, "region": {"name": "West"}},
		{"value": 1.4, "year": 2022}
	]}`)

	table := tr.Tabulate(records)

	wantColumns := []string{"year", "value", "region.name"}
	if !reflect.DeepEqual(table.Columns, wantColumns) {
		t.Errorf("Columns = %v, want %v", table.Columns, wantColumns)
	}

	if table.Len() != 3 {
		t.Fatalf("Expected one row per record, got %d", table.Len())
	}

	for i, row := range table.Rows {
		if len(row) != len(wantColumns) {
			t.Errorf("Row %d has %d columns, want %d", i, len(row), len(wantColumns))
		}
	}

	if table.Rows[1]["value"] != nil {
		t.Errorf("Missing value should be nil, got %v", table.Rows[1]["value"])
	}

	if table.Rows[2]["value"] != json.Number("1.4") {
		t.Errorf("Row 2 value = %v, want 1.4", table.Rows[2]["value"])
	}
}

func TestTransformer_Tabulate_Empty(t *testing.T) {
	table := NewTransformer().Tabulate(nil)
	if !table.IsEmpty() || len(table.Columns) != 0 {
		t.Errorf("Expected empty table, got %+v", table)
	}
}

func TestTransformer_Tabulate_NoColumns(t *testing.T) {
	records := decodeRecords(t, `{"data": [{}, {"meta": {}}]}`)

	table := NewTransformer().Tabulate(records)
	if table.Len() != 0 || len(table.Columns) != 0 || !table.IsEmpty() {
		t.Errorf("Records without columns should yield an empty table, got %+v", table)
	}
}

func TestTransformer_Flatten_CollidingNames(t *testing.T) {
	records := decodeRecords(t, `{"data": [{"a.b": 1, "a": {"b": 2}, "c": 3}]}`)

	flat := NewTransformer().Flatten(records[0])

	if !reflect.DeepEqual(flat.Keys, []string{"a.b", "c"}) {
		t.Errorf("Keys = %v, want [a.b c]", flat.Keys)
	}

	if v, _ := flat.Get("a.b"); v != json.Number("2") {
		t.Errorf("a.b = %v, want the later value 2", v)
	}
}

var worldBankProjection = []Projection{
	{Source: "country.value", Column: "country"},
	{Source: "date", Column: "date"},
	{Source: "value", Column: "value"},
}

func TestTransformer_Project(t *testing.T) {
	tr := NewTransformer()

	records, err := NewValidator().IndexedPair(mustDecode(t, `[{"page":1}, [
		{"indicator": {"id": "NY.GDP"}, "country": {"id": "US", "value": "United States"}, "date": "2021", "value": 23315080560000, "decimal": 0},
		{"country": {"id": "US", "value": "United States"}, "date": "2020", "value": null}
	]]`), 1)
	if err != nil {
		t.Fatalf("IndexedPair failed: %v", err)
	}

	table, err := tr.Project(records, worldBankProjection)
	if err != nil {
		t.Fatalf("Project returned unexpected error: %v", err)
	}

	if !reflect.DeepEqual(table.Columns, []string{"country", "date", "value"}) {
		t.Errorf("Columns = %v", table.Columns)
	}

	if table.Rows[0]["country"] != "United States" || table.Rows[0]["value"] != json.Number("23315080560000") {
		t.Errorf("Row 0 = %v", table.Rows[0])
	}

	if v, ok := table.Rows[1]["value"]; !ok || v != nil {
		t.Errorf("Null value should be kept as nil, got %v (%v)", v, ok)
	}
}

func TestTransformer_Project_MissingColumn(t *testing.T) {
	tr := NewTransformer()

	records, err := NewValidator().IndexedPair(mustDecode(t, `[{}, [
		{"country": {"value": "USA"}, "date": "2021", "value": "1"},
		{"country": {"id": "US"}, "date": "2020", "value": "2"}
	]]`), 1)
	if err != nil {
		t.Fatalf("IndexedPair failed: %v", err)
	}

	_, err = tr.Project(records, worldBankProjection)
	if !errors.Is(err, ErrMissingProjectionColumn) {
		t.Fatalf("Project error = %v, want ErrMissingProjectionColumn", err)
	}

	if err.Error() != `missing projection column: record 1 has no "country.value"` {
		t.Errorf("Unexpected message: %v", err)
	}
}
