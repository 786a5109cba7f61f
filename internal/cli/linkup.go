package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/handler"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/internal/search"
)

const linkupName = "linkup-search"

// NewLinkupCommand builds the linkup-search command with its search and
// fetch subcommands
func NewLinkupCommand(rt *Runtime) *cobra.Command {
	var (
		flags   commonFlags
		showVer bool
	)

	cmd := &cobra.Command{
		Use:   linkupName,
		Short: "Search the web or fetch a page with the Linkup API",
		Long: `Search the web or fetch a single page through the Linkup API.

The bearer credential is read from the LINKUP_API_KEY environment variable.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVer {
				printVersion(cmd.OutOrStdout(), linkupName, rt)
				return nil
			}
			return &apperr.ValidationError{Message: "Please specify 'search' or 'fetch' mode"}
		},
	}

	flags.registerPersistent(cmd.PersistentFlags())
	cmd.Flags().BoolVarP(&showVer, "version", "v", false, "show version")

	cmd.AddCommand(newLinkupSearchCommand(rt, &flags))
	cmd.AddCommand(newLinkupFetchCommand(rt, &flags))

	return cmd
}

func newLinkupSearchCommand(rt *Runtime, flags *commonFlags) *cobra.Command {
	sf := searchFlags{}

	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search the web",
		Example: `  linkup-search search "rust async runtimes" -n 5
  linkup-search search "AI news" --from-date 2025-01-01 --include-domains arxiv.org openai.com
  linkup-search search "who maintains Go" --output-type sourcedAnswer --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := flags.renderer(rt)
			base := models.APIError{
				Provider: models.ProviderLinkup,
				Mode:     "search",
				Query:    strings.TrimSpace(strings.Join(args, " ")),
			}

			opts, err := sf.options(args, outputMode(flags.asJSON))
			if err != nil {
				return handler.Report(r, base, err)
			}

			cfg, err := flags.setup(rt)
			if err != nil {
				return handler.Report(r, base, err)
			}

			provider := search.NewLinkupProvider(&cfg.Linkup, rt.HTTPClient)
			return handler.NewLinkupHandler(provider, r).Search(cmd.Context(), opts)
		},
	}

	fs := cmd.Flags()
	flags.registerOutput(fs)
	fs.IntVarP(&sf.numResults, "num-results", "n", models.DefaultResults, "number of results to return (1-100)")
	fs.StringVar(&sf.depth, "depth", string(models.DepthStandard), "search depth: standard or deep")
	fs.StringVar(&sf.outputType, "output-type", string(models.OutputSearchResults), "output type: searchResults, sourcedAnswer or structured")
	fs.StringVar(&sf.fromDate, "from-date", "", "only results published on or after this date (YYYY-MM-DD)")
	fs.StringVar(&sf.toDate, "to-date", "", "only results published on or before this date (YYYY-MM-DD)")
	fs.Var(newDomainList(&sf.includeDomains), "include-domains", "only search these domains")
	fs.Var(newDomainList(&sf.excludeDomains), "exclude-domains", "never return results from these domains")
	fs.StringVar(&sf.schema, "schema", "", "JSON schema for structured output, inline or @file")

	return cmd
}

func newLinkupFetchCommand(rt *Runtime, flags *commonFlags) *cobra.Command {
	var (
		format   string
		renderJS bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch a single page",
		Example: `  linkup-search fetch https://example.com
  linkup-search fetch https://example.com --output-format html --render-js --json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := flags.renderer(rt)
			base := models.APIError{
				Provider: models.ProviderLinkup,
				Mode:     "fetch",
				URL:      strings.TrimSpace(strings.Join(args, " ")),
			}

			url, err := parseURL(args)
			if err != nil {
				return handler.Report(r, base, err)
			}
			f, err := parseFetchFormat(format)
			if err != nil {
				return handler.Report(r, base, err)
			}
			opts := models.FetchOptions{
				URL:      url,
				Format:   f,
				RenderJS: renderJS,
				Output:   outputMode(flags.asJSON),
			}

			cfg, err := flags.setup(rt)
			if err != nil {
				return handler.Report(r, base, err)
			}

			provider := search.NewLinkupProvider(&cfg.Linkup, rt.HTTPClient)
			return handler.NewLinkupHandler(provider, r).Fetch(cmd.Context(), opts)
		},
	}

	flags.registerOutput(cmd.Flags())
	cmd.Flags().StringVar(&format, "output-format", string(models.FormatMarkdown), "content format: markdown or html")
	cmd.Flags().BoolVar(&renderJS, "render-js", false, "render JavaScript before extracting content")

	return cmd
}

// RunLinkup executes linkup-search with args and returns the exit code
func RunLinkup(ctx context.Context, args []string, rt *Runtime) int {
	return execute(ctx, NewLinkupCommand(rt), args, rt)
}
