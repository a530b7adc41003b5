package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"
)

// RecordWriter streams a JSON array one element at a time. The array is
// valid after Close even if no record was written. It is safe for
// concurrent use.
type RecordWriter struct {
	mu      sync.Mutex
	w       io.Writer
	written int
	closed  bool
}

// NewRecordWriter starts a JSON array on w.
func NewRecordWriter(w io.Writer) (*RecordWriter, error) {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return nil, err
	}
	return &RecordWriter{w: w}, nil
}

// Write appends v as the next array element.
func (rw *RecordWriter) Write(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.closed {
		return os.ErrClosed
	}
	if rw.written > 0 {
		if _, err := io.WriteString(rw.w, ",\n"); err != nil {
			return err
		}
	}
	if _, err := rw.w.Write(data); err != nil {
		return err
	}
	rw.written++
	return nil
}

// Count returns the number of records written.
func (rw *RecordWriter) Count() int {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	return rw.written
}

// Close terminates the array. It does not close the underlying writer.
func (rw *RecordWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if rw.closed {
		return nil
	}
	rw.closed = true
	_, err := io.WriteString(rw.w, "\n]\n")
	return err
}
