package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nao1215/castcrawl/internal/model"
)

// Stdout is the output path that selects standard output.
const Stdout = "-"

// Writer receives association records.
type Writer interface {
	// Write stores one record.
	Write(rec model.Association) error

	// Close flushes buffered output. Writes after Close fail with ErrClosed.
	Close() error
}

// Open creates the writer for path. An empty format is inferred from the
// path's extension. Parent directories are created as needed and an
// existing file is replaced.
func Open(path, format string) (Writer, error) {
	f := FormatFromPath(path)
	if format != "" {
		var err error
		if f, err = ParseFormat(format); err != nil {
			return nil, err
		}
	}

	if f == FormatSQLite {
		if path == Stdout {
			return nil, fmt.Errorf("%w: %s", ErrStdoutNotSupported, f)
		}
		if err := mkdirParent(path); err != nil {
			return nil, err
		}
		return NewSQLiteWriter(path)
	}

	var out io.Writer = os.Stdout
	var file *os.File
	if path != Stdout {
		if err := mkdirParent(path); err != nil {
			return nil, err
		}
		var err error
		file, err = os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		out = file
	}

	var w Writer
	var err error
	switch f {
	case FormatCSV:
		w, err = NewCSVWriter(out)
	case FormatJSONL:
		w = NewJSONLinesWriter(out)
	case FormatMarkdown:
		w = NewMarkdownWriter(out)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		if file != nil {
			_ = file.Close() //nolint:errcheck // already failing
		}
		return nil, err
	}

	if file == nil {
		return w, nil
	}
	return &fileWriter{Writer: w, file: file}, nil
}

func mkdirParent(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// fileWriter closes the underlying file after the format writer.
type fileWriter struct {
	Writer
	file *os.File
}

func (w *fileWriter) Close() error {
	return errors.Join(w.Writer.Close(), w.file.Close())
}

// MultiWriter duplicates records to several writers.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter returns a writer that writes to all of writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write stops at the first failing writer.
func (m *MultiWriter) Write(rec model.Association) error {
	for _, w := range m.writers {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer and joins their errors.
func (m *MultiWriter) Close() error {
	var errs []error
	for _, w := range m.writers {
		errs = append(errs, w.Close())
	}
	return errors.Join(errs...)
}
