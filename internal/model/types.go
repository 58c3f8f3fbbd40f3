/*
PURPOSE:
  Defines the core data structures used throughout Relevance Tuner.
  These models represent labeled items, parameter sets, per-query outcomes
  and per-cell evaluation results.

REQUIREMENTS:
  User-specified:
  - Items keep the id assigned at load time.
  - Outcomes are Hit, Miss or Skipped (with a reason).
  - Accuracy excludes skipped queries from numerator and denominator.

  Implementation-discovered:
  - Need JSON tags for the JSONL sink.
  - ParameterSet must keep axis order for stable reporting.

ARCHITECTURE INTEGRATION:
  - Used by: internal/dataset, internal/engine, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs). Sentinels live in errors.go.

IMPLEMENTATION RULES:
  - Keep structs simple and public.
  - Treat ParameterSet as immutable once built.

USAGE:
  ps := model.ParameterSet{{Name: "k1", Value: 1.2}}
  ps.Encode(values)

RELATED FILES:
  - internal/output/csv.go
  - internal/output/json.go

MAINTENANCE:
  - Update the CSV/JSON writers when adding fields to CellRecord.
*/

package model

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// LabeledItem is one row of the ground-truth dataset.
type LabeledItem struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// Dataset is the full set of labeled items in load order.
type Dataset []LabeledItem

// Sample is the validation subset drawn once per run.
type Sample []LabeledItem

// Param is one named ranking knob.
type Param struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// ParameterSet is an ordered tuple of ranking knobs, one per grid axis.
type ParameterSet []Param

// Get returns the value of the named knob.
func (ps ParameterSet) Get(name string) (float64, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p.Value, true
		}
	}
	return 0, false
}

// Encode adds every knob to v using its own name.
func (ps ParameterSet) Encode(v url.Values) {
	for _, p := range ps {
		v.Set(p.Name, FormatValue(p.Value))
	}
}

// String renders the set as "name=value, name=value".
func (ps ParameterSet) String() string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Name + "=" + FormatValue(p.Value)
	}
	return strings.Join(parts, ", ")
}

// FormatValue renders a knob value in its shortest exact decimal form.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ResultRecord is one ranked record returned by the search endpoint.
type ResultRecord struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// OutcomeKind classifies a single query.
type OutcomeKind int

const (
	Skipped OutcomeKind = iota
	Hit
	Miss
)

func (k OutcomeKind) String() string {
	switch k {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	default:
		return "skipped"
	}
}

// SkipReason explains why a query did not count toward accuracy.
type SkipReason string

const (
	SkipNonSuccessStatus SkipReason = "non-success-status"
	SkipEmptyResultSet   SkipReason = "empty-result-set"
	SkipTransportFailure SkipReason = "transport-failure"
)

// Outcome is the classified result of one query attempt.
// ObservedID and ObservedTitle are set for Hit and Miss only.
type Outcome struct {
	Kind          OutcomeKind
	Reason        SkipReason
	ObservedID    int
	ObservedTitle string
}

// EvaluationResult is the accuracy of one parameter set over one sample.
type EvaluationResult struct {
	Params     ParameterSet `json:"params"`
	Accuracy   float64      `json:"accuracy"` // percent, 0-100
	Considered int          `json:"considered"`
	Hits       int          `json:"hits"`
	Misses     int          `json:"misses"`
	Skipped    int          `json:"skipped"`
}

// BestResult tracks the highest-scoring cell of a sweep.
// Found is false until the first cell completes.
type BestResult struct {
	EvaluationResult
	Index int  `json:"index"`
	Found bool `json:"found"`
}

// Consider replaces the tracked result only when r is strictly better,
// so the earliest enumerated cell wins ties.
func (b BestResult) Consider(index int, r EvaluationResult) BestResult {
	if b.Found && r.Accuracy <= b.Accuracy {
		return b
	}
	return BestResult{EvaluationResult: r, Index: index, Found: true}
}

// CellRecord is the progress record emitted after each grid cell.
type CellRecord struct {
	RunID     string        `json:"run_id"`
	Index     int           `json:"index"`
	Total     int           `json:"total"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
	EvaluationResult
}

// SweepReport is the outcome of a whole grid search.
type SweepReport struct {
	RunID      string             `json:"run_id"`
	SampleSize int                `json:"sample_size"`
	Cells      []EvaluationResult `json:"cells"`
	Best       BestResult         `json:"best"`
	Aborted    bool               `json:"aborted"`
	AbortedAt  ParameterSet       `json:"aborted_at,omitempty"`
	AbortCause string             `json:"abort_cause,omitempty"`
}
