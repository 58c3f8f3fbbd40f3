/*
PURPOSE:
  Writes per-cell tuning results to a JSON Lines file (NDJSON).

REQUIREMENTS:
  Implementation-discovered:
  - A sweep can be long; every completed cell must be on disk before the
    next one starts, so an abort or crash keeps the finished cells.

IMPLEMENTATION RULES:
  - One record per line, flushed after each Write.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("tuning_results.jsonl")
  w.Write(record)
  w.Close()
*/

package output

import (
	"bufio"
	"encoding/json"
	"os"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// JSONWriter appends one JSON object per completed cell.
type JSONWriter struct {
	mu      sync.Mutex
	file    *os.File
	buf     *bufio.Writer
	encoder *json.Encoder
}

// NewJSONWriter truncates path and prepares it for cell records.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}

	buf := bufio.NewWriter(f)
	return &JSONWriter{
		file:    f,
		buf:     buf,
		encoder: json.NewEncoder(buf),
	}, nil
}

// Write encodes r as a single line and flushes it to the file.
func (jw *JSONWriter) Write(r model.CellRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.encoder.Encode(r); err != nil {
		return errors.Wrapf(err, "encode cell %d", r.Index)
	}
	if err := jw.buf.Flush(); err != nil {
		return errors.Wrapf(err, "flush cell %d", r.Index)
	}
	return nil
}

// Close syncs and closes the file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	err := jw.buf.Flush()
	if serr := jw.file.Sync(); serr != nil {
		err = errors.CombineErrors(err, serr)
	}
	if cerr := jw.file.Close(); cerr != nil {
		err = errors.CombineErrors(err, cerr)
	}
	return err
}
