/*
PURPOSE:
  Entry point for the Relevance Tuner application.
  Initializes the CLI root command and executes it.

REQUIREMENTS:
  User-specified:
  - Must serve as the single binary entry point.
  - Must exit non-zero when the sweep aborts or setup fails.

  Implementation-discovered:
  - Uses cobra for CLI command management.
  - Ctrl-C cancels the in-flight sweep through the command context.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -o relevance-tuner ./cmd/relevance-tuner
  ./relevance-tuner [command] [flags]

RELATED FILES:
  - internal/cli/root.go - The actual root command definition.
*/

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/daryltucker/relevance-tuner/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
