package sink

import (
	"os"
	"path/filepath"
	"testing"

	"econfetch/internal/config"
	"econfetch/internal/logger"
	"econfetch/internal/models"
)

func TestMarkdownEncoder(t *testing.T) {
	tests := []struct {
		name     string
		table    *models.Table
		expected string
	}{
		{
			name: "Basic table",
			table: &models.Table{
				Columns: []string{"country", "date", "value"},
				Rows:    []models.Row{{"country": "USA", "date": "2021", "value": "21000"}},
			},
			expected: "| country | date | value |\n" +
				"| ------- | ---- | ----- |\n" +
				"| USA     | 2021 | 21000 |\n",
		},
		{
			name: "Minimum width",
			table: &models.Table{
				Columns: []string{"a"},
				Rows:    []models.Row{{"a": "1"}},
			},
			expected: "| a   |\n" +
				"| --- |\n" +
				"| 1   |\n",
		},
		{
			name: "Chinese characters",
			table: &models.Table{
				Columns: []string{"name", "value"},
				Rows:    []models.Row{{"name": "東京", "value": nil}},
			},
			expected: "| name | value |\n" +
				"| ---- | ----- |\n" +
				"| 東京 |       |\n",
		},
		{
			name: "Pipes and newlines",
			table: &models.Table{
				Columns: []string{"note"},
				Rows:    []models.Row{{"note": "a|b\nc"}},
			},
			expected: "| note   |\n" +
				"| ------ |\n" +
				"| a\\|b c |\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := markdownEncoder{}.encode(tt.table)
			if err != nil {
				t.Fatalf("encode failed: %v", err)
			}

			if string(got) != tt.expected {
				t.Errorf("encode() =\n%s\nwant\n%s", got, tt.expected)
			}
		})
	}
}

func TestSink_Write_Markdown(t *testing.T) {
	dir := t.TempDir()

	result, err := New(dir, config.FormatMarkdown, logger.Discard()).Write(cpiTable(), "cpi")
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if result.Path != filepath.Join(dir, "cpi_data.md") {
		t.Errorf("Path = %s", result.Path)
	}

	content, _ := os.ReadFile(result.Path)
	want := "| year | value |\n| ---- | ----- |\n| 2020 | 1.2   |\n| 2021 | 1.4   |\n"

	if string(content) != want {
		t.Errorf("Content = %q, want %q", content, want)
	}
}
