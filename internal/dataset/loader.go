/*
PURPOSE:
  Loads the labeled dataset (row id, title) used as ground truth.

REQUIREMENTS:
  User-specified:
  - First row is a header and is discarded.
  - Title is read from the second column by default.
  - Rows that are too short are dropped and never receive an id.

  Implementation-discovered:
  - Real exports contain quoted titles with commas and ragged rows,
    so the reader runs with lazy quotes and variable field counts.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine.Run
  - Produces: model.Dataset

ERROR HANDLING:
  - Open or parse failures return an EMPTY dataset plus an error marked
    model.ErrDatasetUnavailable. The caller logs and stops cleanly.

USAGE:
  ds, err := dataset.Load("data/wiki_movie_plots_deduped.csv", dataset.DefaultOptions())
*/

package dataset

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// Options controls how the tabular source is parsed.
type Options struct {
	// TitleColumn is the zero-based column holding the title.
	TitleColumn int
	// Delimiter separates fields. Zero means comma.
	Delimiter rune
}

// DefaultOptions reads titles from the second column of a comma-separated file.
func DefaultOptions() Options {
	return Options{TitleColumn: 1, Delimiter: ','}
}

// Load reads the dataset at path.
func Load(path string, opts Options) (model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Dataset{}, errors.Mark(errors.Wrapf(err, "open dataset %s", path), model.ErrDatasetUnavailable)
	}
	defer f.Close()

	ds, err := Read(f, opts)
	if err != nil {
		return model.Dataset{}, errors.Wrapf(err, "read dataset %s", path)
	}
	return ds, nil
}

// Read parses a dataset from r. Ids are assigned to retained rows only,
// in order, starting at 0.
func Read(r io.Reader, opts Options) (model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	// Header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return model.Dataset{}, nil
		}
		return model.Dataset{}, errors.Mark(errors.Wrap(err, "parse header"), model.ErrDatasetUnavailable)
	}

	ds := model.Dataset{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return model.Dataset{}, errors.Mark(errors.Wrap(err, "parse row"), model.ErrDatasetUnavailable)
		}
		if len(row) <= opts.TitleColumn {
			continue
		}
		ds = append(ds, model.LabeledItem{ID: len(ds), Title: row[opts.TitleColumn]})
	}
	return ds, nil
}
