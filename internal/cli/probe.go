/*
PURPOSE:
  Defines the 'probe' subcommand.
  Sends a single query to the search endpoint and prints the ranked results.

REQUIREMENTS:
  User-specified:
  - Check connectivity and response shape before a full run.

  Implementation-discovered:
  - Parameters default to the first grid cell so the probe matches what
    the sweep would send first.
  - Failures print the classified cause (transport vs protocol).

ARCHITECTURE INTEGRATION:
  - Calls: internal/engine.Client.Search()

ERROR HANDLING:
  - Returns the client error unchanged; main.go prints it.

USAGE:
  relevance-tuner probe "The Great Train Robbery" --param k1=2 --top 3
*/

package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/engine"
	"github.com/daryltucker/relevance-tuner/internal/model"
)

var (
	probeParams []string
	probeTop    int
)

var probeCmd = &cobra.Command{
	Use:   "probe <query>",
	Short: "Send one query to the search endpoint and print the results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if endpointOverride != "" {
			cfg.Endpoint = endpointOverride
		}

		params, err := probeParameterSet(cfg, probeParams)
		if err != nil {
			return err
		}

		client, err := engine.NewClient(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Querying %s with %s...\n", cfg.Endpoint, params)

		records, err := client.Search(cmd.Context(), args[0], params)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "(no results)")
			return nil
		}
		for i, r := range records {
			if probeTop > 0 && i >= probeTop {
				break
			}
			fmt.Fprintf(out, "%2d. [%d] %s\n", i+1, r.ID, r.Title)
		}
		return nil
	},
}

// probeParameterSet starts from the first grid cell and applies name=value
// overrides. Names not on the grid are appended in the order given.
func probeParameterSet(cfg *config.Config, overrides []string) (model.ParameterSet, error) {
	var params model.ParameterSet
	if cells := engine.NewGrid(cfg.Grid).Cells(); len(cells) > 0 {
		params = append(params, cells[0]...)
	}

	for _, raw := range overrides {
		name, value, ok := strings.Cut(raw, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.Newf("invalid --param %q: expected name=value", raw)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid --param %q", raw)
		}

		replaced := false
		for i := range params {
			if params[i].Name == name {
				params[i].Value = v
				replaced = true
			}
		}
		if !replaced {
			params = append(params, model.Param{Name: name, Value: v})
		}
	}
	return params, nil
}

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().StringVar(&endpointOverride, "endpoint", "", "Search endpoint URL")
	probeCmd.Flags().StringArrayVar(&probeParams, "param", nil, "Ranking parameter as name=value (repeatable)")
	probeCmd.Flags().IntVar(&probeTop, "top", 10, "Show at most this many results (0 = all)")
}
