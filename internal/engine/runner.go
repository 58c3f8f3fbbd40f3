/*
PURPOSE:
  High-level runner that orchestrates the tuning run.
  Loads the dataset, draws the validation sample once, then walks the
  parameter grid and tracks the best-scoring cell.

REQUIREMENTS:
  User-specified:
  - The same sample is reused for every grid cell.
  - Cells are evaluated in enumeration order; ties keep the earlier cell.
  - Failure policy is a choice: skip failed queries or abort the sweep.
  - Print one row per cell and a final best-combination summary.

  Implementation-discovered:
  - Queries inside one cell may run in parallel (concurrency > 1) as long
    as outcomes land in sample order and best tracking waits for the
    whole cell.
  - Each run gets a ksuid so log lines and result files can be joined.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/dataset, internal/engine (client, judge, grid), internal/output

ERROR HANDLING:
  - Empty or unreadable dataset: logged, run ends cleanly, no network activity.
  - Sample larger than dataset: fatal before any query.
  - Transport failure under abort policy: sweep stops, completed cells are
    still reported, error is marked model.ErrSweepAborted.
  - Sink write failures are logged and do not stop the sweep.

USAGE:
  err := engine.Run(ctx, cfg, os.Stdout)

RELATED FILES:
  - internal/engine/client.go
  - internal/engine/judge.go
  - internal/engine/aggregate.go
  - internal/engine/grid.go

MAINTENANCE:
  - Keep best tracking attributable to whole cells if scheduling changes.
*/

package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"
	"golang.org/x/sync/errgroup"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/dataset"
	"github.com/daryltucker/relevance-tuner/internal/model"
	"github.com/daryltucker/relevance-tuner/internal/output"
)

// Searcher runs one query against the search service.
type Searcher interface {
	Search(ctx context.Context, query string, params model.ParameterSet) ([]model.ResultRecord, error)
}

// Tuner evaluates a grid of parameter sets against one validation sample.
type Tuner struct {
	Searcher    Searcher
	Policy      config.FailurePolicy
	Concurrency int
	Sinks       []output.Sink
	Logger      *slog.Logger
	RunID       string
}

func (t *Tuner) logger() *slog.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return output.Logger
}

// Sweep evaluates every cell of grid in order and returns the report.
// On abort the report still holds every completed cell.
func (t *Tuner) Sweep(ctx context.Context, sample model.Sample, grid Grid) (*model.SweepReport, error) {
	log := t.logger()
	cells := grid.Cells()
	report := &model.SweepReport{
		RunID:      t.RunID,
		SampleSize: len(sample),
		Cells:      make([]model.EvaluationResult, 0, len(cells)),
	}

	log.Info("Starting grid search", "cells", len(cells), "sample_size", len(sample), "policy", t.Policy)

	for i, params := range cells {
		start := time.Now()

		res, err := t.EvaluateCell(ctx, sample, params)
		if err != nil {
			report.Aborted = true
			report.AbortedAt = params
			report.AbortCause = err.Error()
			log.Error("Sweep aborted", "cell", i, "params", params.String(), "completed", len(report.Cells), "error", err)
			return report, errors.Mark(errors.Wrapf(err, "cell %d (%s)", i, params), model.ErrSweepAborted)
		}

		report.Cells = append(report.Cells, res)
		report.Best = report.Best.Consider(i, res)

		rec := model.CellRecord{
			RunID:            t.RunID,
			Index:            i,
			Total:            len(cells),
			Timestamp:        start,
			Duration:         time.Since(start),
			EvaluationResult: res,
		}
		log.Info("Cell complete",
			"cell", i+1,
			"of", len(cells),
			"params", params.String(),
			"accuracy", res.Accuracy,
			"considered", res.Considered,
			"skipped", res.Skipped,
		)
		for _, s := range t.Sinks {
			if err := s.Write(rec); err != nil {
				log.Error("Failed to write cell record", "cell", i, "error", err)
			}
		}
	}

	if report.Best.Found {
		log.Info("Grid search finished",
			"best_params", report.Best.Params.String(),
			"best_accuracy", report.Best.Accuracy,
		)
	}
	return report, nil
}

// EvaluateCell queries every sample item under params and aggregates the
// outcomes. It returns an error only when the sweep must stop: the context
// was cancelled, or a transport failure hit under the abort policy.
func (t *Tuner) EvaluateCell(ctx context.Context, sample model.Sample, params model.ParameterSet) (model.EvaluationResult, error) {
	outcomes := make([]model.Outcome, len(sample))

	if t.Concurrency <= 1 {
		for i, item := range sample {
			if err := ctx.Err(); err != nil {
				return model.EvaluationResult{}, err
			}
			o, err := t.query(ctx, item, params)
			if err != nil {
				return model.EvaluationResult{}, err
			}
			outcomes[i] = o
		}
		return Aggregate(params, outcomes), nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.Concurrency)
	for i, item := range sample {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			o, err := t.query(gctx, item, params)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return model.EvaluationResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.EvaluationResult{}, err
	}
	return Aggregate(params, outcomes), nil
}

// query runs and judges one item. The error is non-nil only when the
// abort policy turns a transport failure into a stop signal.
func (t *Tuner) query(ctx context.Context, item model.LabeledItem, params model.ParameterSet) (model.Outcome, error) {
	records, err := t.Searcher.Search(ctx, item.Title, params)
	o := Judge(item, records, err)

	log := t.logger()
	switch o.Kind {
	case model.Skipped:
		log.Debug("Query skipped", "id", item.ID, "title", item.Title, "reason", o.Reason, "error", err)
		if o.Reason == model.SkipTransportFailure && t.Policy == config.PolicyAbort {
			return o, errors.Wrapf(err, "query for item %d", item.ID)
		}
	case model.Miss:
		log.Debug("Query missed", "id", item.ID, "title", item.Title, "got_id", o.ObservedID, "got_title", o.ObservedTitle)
	default:
		log.Debug("Query hit", "id", item.ID, "title", item.Title)
	}
	return o, nil
}

// Run executes the full tuning run described by cfg and prints the
// progress table and summary to stdout.
func Run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	runID := ksuid.New().String()
	log := output.Logger.With("run_id", runID)

	ds, err := dataset.Load(cfg.Dataset.Path, dataset.Options{
		TitleColumn: cfg.Dataset.TitleColumn,
		Delimiter:   cfg.Dataset.DelimiterRune(),
	})
	if err != nil {
		log.Error("Failed to load dataset", "path", cfg.Dataset.Path, "error", err)
	}
	if len(ds) == 0 {
		log.Warn("Dataset is empty, nothing to tune", "path", cfg.Dataset.Path)
		return nil
	}
	log.Info("Loaded dataset", "path", cfg.Dataset.Path, "items", len(ds))

	sample, err := dataset.Sample(ds, cfg.SampleSize, dataset.NewSource(cfg.Seed))
	if err != nil {
		return errors.Wrap(err, "draw validation sample")
	}

	client, err := NewClient(cfg)
	if err != nil {
		return err
	}

	grid := NewGrid(cfg.Grid)
	table := output.NewTableWriter(stdout, grid.Names())
	sinks := []output.Sink{table}

	if cfg.OutputDir != "" {
		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create output directory %s", cfg.OutputDir)
		}

		csvPath := filepath.Join(cfg.OutputDir, cfg.OutputFile)
		csvWriter, err := output.NewCSVWriter(csvPath, grid.Names())
		if err != nil {
			return errors.Wrapf(err, "failed to init CSV writer at %s", csvPath)
		}
		defer csvWriter.Close()

		jsonPath := filepath.Join(cfg.OutputDir, cfg.JSONFile)
		jsonWriter, err := output.NewJSONWriter(jsonPath)
		if err != nil {
			return errors.Wrapf(err, "failed to init JSON writer at %s", jsonPath)
		}
		defer jsonWriter.Close()

		sinks = append(sinks, csvWriter, jsonWriter)
	}

	tuner := &Tuner{
		Searcher:    client,
		Policy:      cfg.FailurePolicy,
		Concurrency: cfg.Concurrency,
		Sinks:       sinks,
		Logger:      log,
		RunID:       runID,
	}

	if err := table.Header(); err != nil {
		return err
	}
	report, sweepErr := tuner.Sweep(ctx, sample, grid)
	if err := table.Summary(report); err != nil {
		log.Error("Failed to print summary", "error", err)
	}
	return sweepErr
}
