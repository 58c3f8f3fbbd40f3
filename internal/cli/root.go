/*
PURPOSE:
  Defines the root Cobra command for the Relevance Tuner CLI.
  Handles global flags and command initialization.

REQUIREMENTS:
  User-specified:
  - Provide a CLI interface.
  - Support global flags like --config.

  Implementation-discovered:
  - Needs to expose an Execute() function for main.go.
  - Every subcommand needs the same config + logger bootstrap.

ARCHITECTURE INTEGRATION:
  - Called by: cmd/relevance-tuner/main.go
  - Calls: Child commands (run, grid, probe)

ERROR HANDLING:
  - Returns error to main.go for exit code handling.

IMPLEMENTATION RULES:
  - Use `PersistentFlags()` for flags available to all subcommands.
  - Keep Run logic in subcommands, Root is usually empty or helps.

RELATED FILES:
  - cmd/relevance-tuner/main.go
*/

package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/output"
)

var (
	// cfgFile stores the path to the config file (if specified via flag)
	cfgFile   string
	logLevel  string
	logFormat string

	rootCmd = &cobra.Command{
		Use:   "relevance-tuner",
		Short: "Grid-search ranking parameters against a live search endpoint",
		Long: `Relevance Tuner samples labeled titles, queries a running search service with
every combination of ranking parameters and reports the combination with the
best top-1 accuracy. Use 'run --help' for tuning options.`,
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tuner.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json")
}

// loadConfig loads the config file and env overrides, applies the global
// flags and installs the configured logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}

	output.SetLogger(output.NewLogger(cfg.Log.Level, cfg.Log.Format, os.Stderr))
	return cfg, nil
}
