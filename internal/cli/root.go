// Package cli implements the cobra command tree for res2csv.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/config"
	"github.com/hupe1980/res2csv/internal/logging"
	"github.com/hupe1980/res2csv/internal/version"
)

// ExitError carries the process exit code a failure maps to.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}

	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute builds the command tree, runs it, and returns the exit code.
// Failures are reported on stderr before the code is returned.
func Execute() int {
	err := NewRootCommand().Execute()
	if err == nil {
		return 0
	}

	_, _ = fmt.Fprintf(os.Stderr, "res2csv: %v\n", err)

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	return 1
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached. The root command itself performs the export.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "res2csv <input-json> <output-directory>",
		Short: "Export JSON resource inventories to per-type CSV files",
		Long: `res2csv reads a JSON document with a top-level "resources" array,
groups the resources by their declared "types", flattens each resource
into dotted key paths, and writes one CSV file per type into the
output directory.

Passing "-" as the output directory streams every CSV to stdout
instead, each preceded by a "==> file <==" marker.

Exit codes:
  0  Success
  1  Input unreadable or no top-level "resources" array
  2  Usage, flag, or configuration errors
  3  Completed, but some resources were skipped
  6  One or more output files could not be written
  7  Input is not valid JSON (also: validate --strict failures)
  8  Differences found (diff)`,
		Args:          exactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initRunContext(cmd, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "path to config file (default: auto-discover .res2csv.yaml)")
	pf.String("log-level", "info", "minimum log level (debug, info, warn, error)")
	pf.String("log-format", "text", "log output format (text or json)")
	pf.Bool("no-color", false, "disable ANSI colors")
	pf.BoolP("quiet", "q", false, "only print errors")

	// Export flags live on the root command itself.
	registerRenderFlags(cmd)
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "preview the export without writing files")

	// Map flag parse failures to usage errors. Subcommands inherit this.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: 2, Err: err}
	})

	cmd.AddCommand(
		newVersionCommand(),
		newInspectCommand(),
		newValidateCommand(),
		newDiffCommand(),
		newWatchCommand(),
		newCompletionCommand(),
	)

	return cmd
}

// initRunContext resolves the configuration, enforces the version gate,
// installs the logger, and stashes all of it in the command context for
// the RunE handlers.
func initRunContext(cmd *cobra.Command, cfgFile string) error {
	cfg, err := config.Load(cmd, cfgFile)
	if err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	if err := cfg.CheckRequiredVersion(version.GetInfo().Version); err != nil {
		return &ExitError{Code: 2, Err: err}
	}

	logger := logging.Setup(cfg)

	ctx := config.NewContext(cmd.Context(), cfg)
	ctx = config.NewContextWithConfigFile(ctx, cfg.ConfigFile)
	ctx = logging.NewContext(ctx, logger)
	cmd.SetContext(ctx)

	logger.Debug("configuration resolved",
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
	)

	return nil
}

// exactArgs is cobra.ExactArgs with the error mapped to exit code 2,
// since cobra argument validation does not go through the flag error func.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return &ExitError{Code: 2, Err: err}
		}

		return nil
	}
}
