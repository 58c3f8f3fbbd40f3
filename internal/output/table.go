package output

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// Sink receives one record per completed grid cell.
type Sink interface {
	Write(r model.CellRecord) error
}

const minColumnWidth = 8

// TableWriter prints the human-readable progress table and summary.
type TableWriter struct {
	w      io.Writer
	axes   []string
	widths []int
	mu     sync.Mutex
}

// NewTableWriter creates a table with one column per axis plus accuracy.
func NewTableWriter(w io.Writer, axes []string) *TableWriter {
	widths := make([]int, len(axes))
	for i, a := range axes {
		widths[i] = max(len(a), minColumnWidth)
	}
	return &TableWriter{w: w, axes: axes, widths: widths}
}

func (t *TableWriter) rule() string {
	n := 10
	for _, w := range t.widths {
		n += w + 3
	}
	return strings.Repeat("-", n)
}

// Header prints the column names and a rule.
func (t *TableWriter) Header() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	for i, a := range t.axes {
		fmt.Fprintf(&b, "%-*s | ", t.widths[i], a)
	}
	b.WriteString("Accuracy\n")
	b.WriteString(t.rule())
	b.WriteString("\n")
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Write prints one row for a completed cell.
func (t *TableWriter) Write(r model.CellRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	for i, a := range t.axes {
		cell := ""
		if v, ok := r.Params.Get(a); ok {
			cell = model.FormatValue(v)
		}
		fmt.Fprintf(&b, "%-*s | ", t.widths[i], cell)
	}
	fmt.Fprintf(&b, "%.1f%%\n", r.Accuracy)
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Summary prints the best result, and the abort point if the sweep stopped early.
func (t *TableWriter) Summary(rep *model.SweepReport) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	b.WriteString(t.rule())
	b.WriteString("\n")
	if rep.Aborted {
		fmt.Fprintf(&b, "ABORTED at %s after %d cells: %s\n", rep.AbortedAt, len(rep.Cells), rep.AbortCause)
	}
	if !rep.Best.Found {
		b.WriteString("BEST RESULT: none (no grid cell completed)\n")
	} else {
		fmt.Fprintf(&b, "BEST RESULT: Accuracy %.1f%% (%d/%d considered)\n",
			rep.Best.Accuracy, rep.Best.Hits, rep.Best.Considered)
		fmt.Fprintf(&b, "PARAMS: %s\n", rep.Best.Params)
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}
