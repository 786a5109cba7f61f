package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/young1lin/agent-web-search/internal/handler"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/internal/search"
)

const braveName = "brave-search"

// NewBraveCommand builds the brave-search command
func NewBraveCommand(rt *Runtime) *cobra.Command {
	var (
		flags      commonFlags
		numResults int
		showVer    bool
	)

	cmd := &cobra.Command{
		Use:   braveName + " <query...>",
		Short: "Search the web with the Brave Search API",
		Long: `Search the web with the Brave Search API and print the results
as readable text or, with --json, as a single JSON document.

The subscription token is read from the BRAVE_API_KEY environment variable.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVer {
				printVersion(cmd.OutOrStdout(), braveName, rt)
				return nil
			}

			r := flags.renderer(rt)
			base := models.APIError{
				Provider: models.ProviderBrave,
				Query:    strings.TrimSpace(strings.Join(args, " ")),
			}

			query, err := parseQuery(args)
			if err != nil {
				return handler.Report(r, base, err)
			}
			n, err := parseNumResults(numResults)
			if err != nil {
				return handler.Report(r, base, err)
			}
			opts := models.SearchOptions{Query: query, NumResults: n, Output: outputMode(flags.asJSON)}

			cfg, err := flags.setup(rt)
			if err != nil {
				return handler.Report(r, base, err)
			}

			provider := search.NewBraveProvider(&cfg.Brave, rt.HTTPClient)
			return handler.NewBraveHandler(provider, r).Search(cmd.Context(), opts)
		},
	}

	flags.registerPersistent(cmd.Flags())
	flags.registerOutput(cmd.Flags())
	cmd.Flags().IntVarP(&numResults, "num-results", "n", models.DefaultResults, "number of results to return (1-100)")
	cmd.Flags().BoolVarP(&showVer, "version", "v", false, "show version")

	return cmd
}

// RunBrave executes brave-search with args and returns the exit code
func RunBrave(ctx context.Context, args []string, rt *Runtime) int {
	return execute(ctx, NewBraveCommand(rt), args, rt)
}
