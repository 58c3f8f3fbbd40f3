/*
PURPOSE:
  Defines the 'run' subcommand.
  Executes the full grid search.

REQUIREMENTS:
  User-specified:
  - Run the tuning sweep.
  - Specific flags for overrides.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config, then validate again.

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Run()
  - Uses: internal/config

ERROR HANDLING:
  - Returns error if config load fails, overrides are invalid or the sweep aborts.

USAGE:
  relevance-tuner run --endpoint http://localhost:8080/search --policy abort
*/

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/engine"
)

var (
	endpointOverride    string
	datasetOverride     string
	outputOverride      string
	policyOverride      string
	sampleSizeOverride  int
	concurrencyOverride int
	maxQPSOverride      float64
	seedOverride        uint64
	timeoutOverride     time.Duration
	axisOverrides       []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the grid search",
	Long: `Executes the full tuning sweep against a running search endpoint.

The process follows a strict protocol:
1. Load: Reads the labeled dataset (header row discarded, title in column 2).
2. Sample: Draws one validation sample, reused for every grid cell.
3. Sweep: Queries every sample title under every parameter combination and
   scores top-1 accuracy (id match, then case-insensitive title match).

Failed queries are skipped by default. With --policy abort the first
transport failure stops the sweep and the completed cells are reported.`,
	Example: `  # Run with defaults (uses tuner.yaml if present)
  relevance-tuner run

  # Point at another server and stop on the first connection error
  relevance-tuner run --endpoint http://search-2:8080/search --policy abort

  # Replace the grid from the command line (outermost axis first)
  relevance-tuner run --axis w_title=1,5 --axis k1=1.2,2 --axis b=0.75

  # Reproducible sample, 4 parallel queries per cell
  relevance-tuner run --seed 42 --concurrency 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// 2. Overrides
		if err := applyRunOverrides(cmd, cfg); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// 3. Execution
		return engine.Run(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func applyRunOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if endpointOverride != "" {
		cfg.Endpoint = endpointOverride
	}
	if datasetOverride != "" {
		cfg.Dataset.Path = datasetOverride
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputOverride
	}
	if policyOverride != "" {
		cfg.FailurePolicy = config.FailurePolicy(policyOverride)
	}
	if flags.Changed("sample-size") {
		cfg.SampleSize = sampleSizeOverride
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = concurrencyOverride
	}
	if flags.Changed("max-qps") {
		cfg.MaxQPS = maxQPSOverride
	}
	if flags.Changed("seed") {
		cfg.Seed = seedOverride
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeoutOverride
	}
	if len(axisOverrides) > 0 {
		grid := make([]config.Axis, 0, len(axisOverrides))
		for _, raw := range axisOverrides {
			a, err := config.ParseAxis(raw)
			if err != nil {
				return err
			}
			grid = append(grid, a)
		}
		cfg.Grid = grid
	}
	return nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&endpointOverride, "endpoint", "", "Search endpoint URL")
	runCmd.Flags().StringVarP(&datasetOverride, "dataset", "d", "", "Path to the labeled CSV dataset")
	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for results (CSV/JSON); empty disables files")
	runCmd.Flags().StringVar(&policyOverride, "policy", "", "Failure policy: skip or abort")
	runCmd.Flags().IntVarP(&sampleSizeOverride, "sample-size", "n", 0, "Number of titles in the validation sample")
	runCmd.Flags().IntVar(&concurrencyOverride, "concurrency", 1, "Parallel queries per grid cell")
	runCmd.Flags().Float64Var(&maxQPSOverride, "max-qps", 0, "Throttle queries per second (0 = unlimited)")
	runCmd.Flags().Uint64Var(&seedOverride, "seed", 0, "Sampler seed (0 = random per run)")
	runCmd.Flags().DurationVar(&timeoutOverride, "timeout", 0, "Per-query timeout (e.g. 1s, 500ms)")
	runCmd.Flags().StringArrayVar(&axisOverrides, "axis", nil, "Grid axis as name=v1,v2,...; repeat in enumeration order")
}
