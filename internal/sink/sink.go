// Package sink persists normalized tables, one file per source.
package sink

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"econfetch/internal/config"
	"econfetch/internal/logger"
	"econfetch/internal/models"
	"econfetch/pkg/utils"
)

// ErrWriteFailed wraps every I/O failure while persisting a table.
var ErrWriteFailed = errors.New("write failed")

// WriteResult describes one persisted (or skipped) table.
type WriteResult struct {
	Path    string
	Digest  string
	Rows    int
	Bytes   int
	Skipped bool
}

type encoder interface {
	extension() string
	encode(table *models.Table) ([]byte, error)
}

// Sink writes tables into a directory in one format.
type Sink struct {
	encoder encoder
	logger  *logger.Logger
	dir     string
}

// New creates a sink for dir. An unknown format falls back to CSV.
func New(dir, format string, log *logger.Logger) *Sink {
	if dir == "" {
		dir = config.DefaultOutputDir
	}

	var enc encoder = csvEncoder{}
	if format == config.FormatMarkdown {
		enc = markdownEncoder{}
	}

	return &Sink{encoder: enc, logger: log, dir: dir}
}

// Dir returns the output directory.
func (s *Sink) Dir() string {
	return s.dir
}

// Prepare creates the output directory if it does not exist.
func (s *Sink) Prepare() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create output directory %s: %w", ErrWriteFailed, s.dir, err)
	}

	return nil
}

// Filename returns the file name used for source, e.g. cpi_data.csv.
func (s *Sink) Filename(source string) string {
	return source + "_data." + s.encoder.extension()
}

// Write persists table under the source's file name. A table with no rows
// produces no file; the result is marked Skipped.
func (s *Sink) Write(table *models.Table, source string) (*WriteResult, error) {
	path := filepath.Join(s.dir, s.Filename(source))

	if table.IsEmpty() {
		s.logger.Warn("no data to save", "source", source, "path", path)

		return &WriteResult{Path: path, Skipped: true}, nil
	}

	content, err := s.encoder.encode(table)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %w", ErrWriteFailed, source, err)
	}

	if err := writeAtomic(s.dir, path, content); err != nil {
		return nil, err
	}

	return &WriteResult{
		Path:   path,
		Digest: utils.SHA256Hex(content),
		Rows:   table.Len(),
		Bytes:  len(content),
	}, nil
}

func writeAtomic(dir, path string, content []byte) error {
	tmp, err := os.CreateTemp(dir, ".econfetch-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)

		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)

		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, path, err)
	}

	return nil
}

// renderValue formats one cell. Numbers keep their payload text.
func renderValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		var buf bytes.Buffer

		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)

		if err := enc.Encode(v); err != nil {
			return "", err
		}

		return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
	}
}
