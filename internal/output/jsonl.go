package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/nao1215/castcrawl/internal/model"
)

// JSONLinesWriter writes one JSON object per record and line.
type JSONLinesWriter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closed bool
}

// NewJSONLinesWriter returns a writer encoding to w.
func NewJSONLinesWriter(w io.Writer) *JSONLinesWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONLinesWriter{enc: enc}
}

// Write implements Writer.
func (j *JSONLinesWriter) Write(rec model.Association) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return ErrClosed
	}
	return j.enc.Encode(rec)
}

// Close implements Writer.
func (j *JSONLinesWriter) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = true
	return nil
}
