/*
PURPOSE:
  Writes per-cell tuning results to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - One row per grid cell: knob values and accuracy.

  Implementation-discovered:
  - Knob columns depend on the grid, so the header is built from axis names.
  - A sweep can be aborted midway; flushing per row keeps what completed.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.CellRecord

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write (critical for crash resilience).
  - Mutex guarded; the engine may write from a goroutine later.

USAGE:
  w, err := output.NewCSVWriter("results.csv", []string{"k1", "b"})
  w.Write(record)
  w.Close()
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// CSVWriter handles writing cell records to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	axes   []string
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string, axes []string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	w := csv.NewWriter(f)

	header := []string{"run_id", "cell", "timestamp", "duration_s"}
	header = append(header, axes...)
	header = append(header, "accuracy", "considered", "hits", "misses", "skipped")

	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	w.Flush()

	return &CSVWriter{
		file:   f,
		writer: w,
		axes:   axes,
	}, nil
}

// Write writes a single cell record to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.CellRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		r.RunID,
		fmt.Sprintf("%d", r.Index),
		r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		fmt.Sprintf("%.4f", r.Duration.Seconds()),
	}
	for _, name := range cw.axes {
		v, ok := r.Params.Get(name)
		if !ok {
			record = append(record, "")
			continue
		}
		record = append(record, model.FormatValue(v))
	}
	record = append(record,
		fmt.Sprintf("%.2f", r.Accuracy),
		fmt.Sprintf("%d", r.Considered),
		fmt.Sprintf("%d", r.Hits),
		fmt.Sprintf("%d", r.Misses),
		fmt.Sprintf("%d", r.Skipped),
	)

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}
