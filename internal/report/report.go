// Package report renders terminal tables for run outcomes, configured sources and adapters.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"econfetch/internal/adapters"
	"econfetch/internal/config"
	"econfetch/internal/models"
)

func newWriter(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false

	return t
}

func statusText(status models.Status) string {
	switch status {
	case models.StatusSuccess:
		return text.FgGreen.Sprint(status)
	case models.StatusFailed:
		return text.FgRed.Sprint(status)
	default:
		return text.FgYellow.Sprint(status)
	}
}

const digestPrefix = 12

func shortDigest(digest string) string {
	if len(digest) <= digestPrefix {
		return digest
	}

	return digest[:digestPrefix]
}

// Outcomes writes one row per source followed by totals.
func Outcomes(w io.Writer, outcomes []models.Outcome) {
	t := newWriter(w)
	t.AppendHeader(table.Row{"Source", "Adapter", "Status", "Rows", "File", "SHA-256", "Duration", "Detail"})

	for _, o := range outcomes {
		detail := o.Detail
		if o.Err != nil {
			detail = o.Err.Error()
		}

		t.AppendRow(table.Row{
			o.Source,
			o.Adapter,
			statusText(o.Status),
			o.Rows,
			o.File,
			shortDigest(o.Digest),
			o.Duration.Round(time.Millisecond),
			text.Trim(detail, 80),
		})
	}

	s := models.Summarize(outcomes)
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d sources", s.Total),
		"",
		fmt.Sprintf("%d ok / %d empty / %d shape / %d failed", s.Succeeded, s.Empty, s.UnexpectedShape, s.Failed),
		s.Rows,
		"", "", "", "",
	})

	t.Render()
}

// Sources writes the configured sources and how each adapter id resolves.
func Sources(w io.Writer, sources []config.SourceConfig, registry *adapters.Registry) {
	t := newWriter(w)
	t.AppendHeader(table.Row{"Source", "Adapter", "Resolves To", "Enabled", "URL"})

	for _, src := range sources {
		resolved := text.FgRed.Sprint("unknown")
		if a, err := registry.Lookup(src.AdapterID()); err == nil {
			resolved = a.ID()
		}

		t.AppendRow(table.Row{src.Name, src.AdapterID(), resolved, src.IsEnabled(), src.URL})
	}

	t.Render()
}

// Adapters writes every registered adapter with its aliases.
func Adapters(w io.Writer, registry *adapters.Registry) {
	t := newWriter(w)
	t.AppendHeader(table.Row{"Adapter", "Aliases"})

	for _, id := range registry.IDs() {
		a, err := registry.Lookup(id)
		if err != nil {
			continue
		}

		t.AppendRow(table.Row{id, strings.Join(a.Aliases(), ", ")})
	}

	t.Render()
}
