package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"sync"

	"github.com/nao1215/castcrawl/internal/model"
)

// CSVWriter writes records as CSV rows under a header line.
// Each record is flushed immediately so partial crawls leave usable output.
type CSVWriter struct {
	mu     sync.Mutex
	w      *csv.Writer
	closed bool
}

// NewCSVWriter writes the header to w and returns the writer.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Header()); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	return &CSVWriter{w: cw}, nil
}

// Write implements Writer.
func (c *CSVWriter) Write(rec model.Association) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err := c.w.Write(rec.Row()); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// Close implements Writer.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.w.Flush()
	return c.w.Error()
}
