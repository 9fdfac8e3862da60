package sink

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"econfetch/internal/models"
)

const minColumnWidth = 3

type markdownEncoder struct{}

func (markdownEncoder) extension() string {
	return "md"
}

func (markdownEncoder) encode(table *models.Table) ([]byte, error) {
	cells := make([][]string, 0, len(table.Rows)+1)
	cells = append(cells, escapeCells(table.Columns))

	for _, row := range table.Rows {
		line := make([]string, len(table.Columns))

		for i, value := range table.Values(row) {
			cell, err := renderValue(value)
			if err != nil {
				return nil, err
			}

			line[i] = escapeCell(cell)
		}

		cells = append(cells, line)
	}

	widths := columnWidths(cells, len(table.Columns))

	var sb strings.Builder

	writeRow(&sb, cells[0], widths)

	separator := make([]string, len(widths))
	for i, w := range widths {
		separator[i] = strings.Repeat("-", w)
	}

	writeRow(&sb, separator, widths)

	for _, line := range cells[1:] {
		writeRow(&sb, line, widths)
	}

	return []byte(sb.String()), nil
}

// columnWidths measures display width, so wide (CJK) characters count double.
func columnWidths(cells [][]string, colCount int) []int {
	widths := make([]int, colCount)
	for i := range widths {
		widths[i] = minColumnWidth
	}

	for _, row := range cells {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	return widths
}

func writeRow(sb *strings.Builder, row []string, widths []int) {
	sb.WriteString("|")

	for i, cell := range row {
		sb.WriteString(" ")
		sb.WriteString(cell)

		if padding := widths[i] - runewidth.StringWidth(cell); padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	sb.WriteString("\n")
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = escapeCell(c)
	}

	return out
}

// escapeCell keeps a value on one table line.
func escapeCell(cell string) string {
	cell = strings.ReplaceAll(cell, "|", `\|`)
	cell = strings.ReplaceAll(cell, "\r\n", " ")

	return strings.ReplaceAll(cell, "\n", " ")
}
