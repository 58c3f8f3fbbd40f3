/*
PURPOSE:
  Defines the configuration structure and loading logic for Relevance Tuner.
  Adheres to "Config IS Code" philosophy.

REQUIREMENTS:
  User-specified:
  - Allow configuration of the search endpoint, dataset, sample size,
    timeout and the candidate values for each ranking knob.
  - Failure policy must be a visible choice (skip or abort).

  Implementation-discovered:
  - Needs to support YAML parsing.
  - Needs to support Environment variables overrides (TUNER_...).
  - Grid axes keep file order; the order decides tie-breaks.

ARCHITECTURE INTEGRATION:
  - Used by: internal/cli, internal/engine
  - Dependencies: gopkg.in/yaml.v3, github.com/kelseyhightower/envconfig

ERROR HANDLING:
  - Returns explicit error if config file is invalid.
  - Missing default files fall back to defaults; a missing explicit file is an error.
  - Validation problems are collected and reported together (ErrInvalidConfig).

IMPLEMENTATION RULES:
  - Precedence: defaults < YAML < environment < CLI flags (applied in internal/cli).
  - Defaults match the stock tuning run (100 samples, 1s timeout, 27 cells).

USAGE:
  cfg, err := config.Load("tuner.yaml")

SELF-HEALING INSTRUCTIONS:
  - If new fields are needed, add to Config struct and update DefaultConfig() and Validate().

RELATED FILES:
  - internal/cli/run.go
  - internal/engine/runner.go

MAINTENANCE:
  - Update when adding new tuning parameters.
*/

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/daryltucker/relevance-tuner/internal/model"
)

// FailurePolicy decides what a transport failure does to a sweep.
type FailurePolicy string

const (
	// PolicySkip counts the failed query as skipped and keeps going.
	PolicySkip FailurePolicy = "skip"
	// PolicyAbort stops the whole sweep on the first transport failure.
	PolicyAbort FailurePolicy = "abort"
)

// Config represents the full configuration for Relevance Tuner.
type Config struct {
	Endpoint   string        `yaml:"endpoint" envconfig:"TUNER_ENDPOINT"`
	QueryParam string        `yaml:"query_param" envconfig:"TUNER_QUERY_PARAM"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"TUNER_TIMEOUT"`
	// MaxQPS throttles outgoing queries. Zero disables throttling.
	MaxQPS float64 `yaml:"max_qps" envconfig:"TUNER_MAX_QPS"`
	// Concurrency bounds parallel queries inside one grid cell.
	Concurrency   int           `yaml:"concurrency" envconfig:"TUNER_CONCURRENCY"`
	FailurePolicy FailurePolicy `yaml:"failure_policy" envconfig:"TUNER_FAILURE_POLICY"`

	Dataset    DatasetConfig `yaml:"dataset"`
	SampleSize int           `yaml:"sample_size" envconfig:"TUNER_SAMPLE_SIZE"`
	// Seed pins the sampler. Zero draws a fresh seed per run.
	Seed uint64 `yaml:"seed" envconfig:"TUNER_SEED"`

	// Grid lists the knobs in enumeration order, outermost first.
	Grid []Axis `yaml:"grid" ignored:"true"`

	OutputDir  string `yaml:"output_dir" envconfig:"TUNER_OUTPUT_DIR"`
	OutputFile string `yaml:"output_file" envconfig:"TUNER_OUTPUT_FILE"`
	JSONFile   string `yaml:"json_file" envconfig:"TUNER_JSON_FILE"`

	Log LogConfig `yaml:"log"`
}

// DatasetConfig locates and describes the labeled dataset.
type DatasetConfig struct {
	Path        string `yaml:"path" envconfig:"TUNER_DATASET_PATH"`
	TitleColumn int    `yaml:"title_column" envconfig:"TUNER_DATASET_TITLE_COLUMN"`
	Delimiter   string `yaml:"delimiter" envconfig:"TUNER_DATASET_DELIMITER"`
}

// DelimiterRune returns the configured delimiter as a rune.
func (d DatasetConfig) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"TUNER_LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"TUNER_LOG_FORMAT"`
}

// Axis is one ranking knob and its candidate values.
type Axis struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Endpoint:      "http://localhost:8080/search",
		QueryParam:    "q",
		Timeout:       1 * time.Second,
		MaxQPS:        0,
		Concurrency:   1,
		FailurePolicy: PolicySkip,
		Dataset: DatasetConfig{
			Path:        "data/wiki_movie_plots_deduped.csv",
			TitleColumn: 1,
			Delimiter:   ",",
		},
		SampleSize: 100,
		Grid: []Axis{
			{Name: "w_title", Values: []float64{1.0, 5.0, 10.0}},
			{Name: "k1", Values: []float64{1.2, 1.5, 2.0}},
			{Name: "b", Values: []float64{0.4, 0.75, 1.0}},
		},
		OutputDir:  ".",
		OutputFile: "tuning_results.csv",
		JSONFile:   "tuning_results.jsonl",
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from a file, then applies environment overrides.
// If path is specified, it attempts to load that file.
// If path is empty, it searches for default files in order.
// If no file found, defaults are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	var data []byte
	var err error

	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	} else {
		for _, name := range []string{"tuner.yaml", "relevance_tuner.yaml"} {
			data, err = os.ReadFile(name)
			if err == nil {
				path = name
				break
			}
		}
	}

	if data != nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, errors.Wrap(err, "processing env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.Endpoint == "" {
		errs = append(errs, "endpoint is required")
	} else if !strings.HasPrefix(c.Endpoint, "http://") && !strings.HasPrefix(c.Endpoint, "https://") {
		errs = append(errs, fmt.Sprintf("endpoint must be an http(s) URL: %s", c.Endpoint))
	}

	if c.QueryParam == "" {
		errs = append(errs, "query_param is required")
	}

	if c.Timeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}

	if c.MaxQPS < 0 {
		errs = append(errs, "max_qps must not be negative")
	}

	if c.Concurrency < 1 {
		errs = append(errs, "concurrency must be at least 1")
	}

	switch c.FailurePolicy {
	case PolicySkip, PolicyAbort:
	default:
		errs = append(errs, fmt.Sprintf("invalid failure_policy: %s (must be skip or abort)", c.FailurePolicy))
	}

	if c.Dataset.Path == "" {
		errs = append(errs, "dataset.path is required")
	}
	if c.Dataset.TitleColumn < 0 {
		errs = append(errs, "dataset.title_column must not be negative")
	}
	if utf8.RuneCountInString(c.Dataset.Delimiter) != 1 {
		errs = append(errs, fmt.Sprintf("dataset.delimiter must be a single character: %q", c.Dataset.Delimiter))
	}

	if c.SampleSize < 1 {
		errs = append(errs, "sample_size must be positive")
	}

	if len(c.Grid) == 0 {
		errs = append(errs, "grid must define at least one axis")
	}
	names := make(map[string]bool, len(c.Grid))
	for i, a := range c.Grid {
		switch {
		case a.Name == "":
			errs = append(errs, fmt.Sprintf("grid axis %d has no name", i))
		case a.Name == c.QueryParam:
			errs = append(errs, fmt.Sprintf("grid axis %s collides with query_param", a.Name))
		case names[a.Name]:
			errs = append(errs, fmt.Sprintf("grid axis %s is defined twice", a.Name))
		}
		names[a.Name] = true
		if len(a.Values) == 0 {
			errs = append(errs, fmt.Sprintf("grid axis %s has no values", a.Name))
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("invalid log level: %s (must be debug, info, warn, or error)", c.Log.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("invalid log format: %s (must be text or json)", c.Log.Format))
	}

	if len(errs) > 0 {
		return errors.Mark(
			errors.Newf("config validation failed:\n  - %s", strings.Join(errs, "\n  - ")),
			model.ErrInvalidConfig,
		)
	}
	return nil
}

// ParseAxis parses "name=v1,v2,v3" as used by the --axis flag.
func ParseAxis(s string) (Axis, error) {
	name, list, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(list) == "" {
		return Axis{}, errors.Newf("axis %q must look like name=v1,v2", s)
	}

	a := Axis{Name: name}
	for _, raw := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Axis{}, errors.Wrapf(err, "axis %s: bad value %q", name, raw)
		}
		a.Values = append(a.Values, v)
	}
	return a, nil
}
