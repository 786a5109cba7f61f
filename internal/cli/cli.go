// Package cli builds the brave-search and linkup-search command trees and maps
// every invocation outcome to a process exit code.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/young1lin/agent-web-search/internal/apperr"
	"github.com/young1lin/agent-web-search/internal/config"
	"github.com/young1lin/agent-web-search/internal/handler"
	"github.com/young1lin/agent-web-search/internal/models"
	"github.com/young1lin/agent-web-search/internal/presenter"
	"github.com/young1lin/agent-web-search/internal/search"
	"github.com/young1lin/agent-web-search/pkg/logger"
)

// Runtime carries the process environment of one invocation
type Runtime struct {
	Stdout io.Writer
	Stderr io.Writer

	// Styled enables terminal emphasis in text output
	Styled bool

	// HTTPClient overrides the provider transport when set
	HTTPClient search.Doer

	LoadConfig func(cfgFile string) (*config.Config, error)

	Version   string
	BuildDate string
}

// DefaultRuntime wires the real process streams and configuration
func DefaultRuntime(version, buildDate string) *Runtime {
	return &Runtime{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Styled:     term.IsTerminal(int(os.Stdout.Fd())),
		LoadConfig: config.Load,
		Version:    version,
		BuildDate:  buildDate,
	}
}

// commonFlags are shared by every command that talks to a provider
type commonFlags struct {
	cfgFile string
	verbose bool
	asJSON  bool
}

func (f *commonFlags) registerPersistent(fs *pflag.FlagSet) {
	fs.StringVarP(&f.cfgFile, "config", "c", "", "config file path")
	fs.BoolVar(&f.verbose, "verbose", false, "enable debug logging on stderr")
}

func (f *commonFlags) registerOutput(fs *pflag.FlagSet) {
	fs.BoolVar(&f.asJSON, "json", false, "output results as JSON")
}

func (f *commonFlags) renderer(rt *Runtime) presenter.Renderer {
	return presenter.New(outputMode(f.asJSON), rt.Stdout, rt.Stderr, rt.Styled)
}

// setup loads configuration and initializes logging
func (f *commonFlags) setup(rt *Runtime) (*config.Config, error) {
	load := rt.LoadConfig
	if load == nil {
		load = config.Load
	}

	cfg, err := load(f.cfgFile)
	if err != nil {
		return nil, &apperr.ConfigurationError{Message: "failed to load configuration", Err: err}
	}

	level := cfg.Logging.Level
	if f.verbose {
		level = "debug"
	}
	logger.Init(level, cfg.Logging.Format)

	return cfg, nil
}

// execute runs cmd with args and returns the process exit code. Errors
// that were not presented along the way are printed as a single line.
func execute(ctx context.Context, cmd *cobra.Command, args []string, rt *Runtime) int {
	cmd.SetArgs(expandListFlags(args))
	cmd.SetOut(rt.Stdout)
	cmd.SetErr(rt.Stderr)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		verr := &apperr.ValidationError{Message: err.Error()}

		// Flags are parsed in order, so --json is known if it came first
		if asJSON, _ := c.Flags().GetBool("json"); asJSON {
			r := presenter.New(models.OutputJSON, rt.Stdout, rt.Stderr, false)
			return handler.Report(r, flagErrorBase(c), verr)
		}
		return verr
	})

	err := cmd.ExecuteContext(ctx)
	logger.Sync()

	if err != nil && !apperr.IsReported(err) {
		fmt.Fprintf(rt.Stderr, "Error: %v\n", err)
	}
	return apperr.ExitCode(err)
}

// flagErrorBase describes the invocation whose flags failed to parse, using
// the positional arguments read before the failure.
func flagErrorBase(c *cobra.Command) models.APIError {
	args := strings.TrimSpace(strings.Join(c.Flags().Args(), " "))

	switch c.Name() {
	case "search":
		return models.APIError{Provider: models.ProviderLinkup, Mode: "search", Query: args}
	case "fetch":
		return models.APIError{Provider: models.ProviderLinkup, Mode: "fetch", URL: args}
	case linkupName:
		return models.APIError{Provider: models.ProviderLinkup}
	default:
		return models.APIError{Provider: models.ProviderBrave, Query: args}
	}
}

func printVersion(w io.Writer, name string, rt *Runtime) {
	fmt.Fprintf(w, "%s %s (built %s)\n", name, rt.Version, rt.BuildDate)
}
