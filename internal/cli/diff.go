package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/config"
	"github.com/hupe1980/res2csv/internal/textdiff"
)

func newDiffCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <input-json> <output-directory>",
		Short: "Compare generated CSV files against what is on disk",
		Long: `Diff recomputes the per-type CSV files from the input document and
compares them against the files currently in the output directory,
without writing anything. A file missing from the directory is
treated as empty.

Exit codes:
  0  No differences
  1  Error
  2  Invalid arguments
  8  Differences found`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], args[1])
		},
	}

	registerRenderFlags(cmd)

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, inputPath, outputDir string) error {
	cfg := config.FromContext(ctx)

	res, err := runPipeline(ctx, inputPath, cfg)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()

	changed := 0

	for _, group := range res.Groups {
		path := filepath.Join(outputDir, group.FileName)

		existing, readErr := os.ReadFile(path) //nolint:gosec // path derives from sanitized type names
		if readErr != nil {
			if !errors.Is(readErr, fs.ErrNotExist) {
				return &ExitError{Code: 1, Err: fmt.Errorf("reading %s: %w", path, readErr)}
			}

			existing = nil
		}

		diffOpts := textdiff.DefaultOptions()
		diffOpts.OldLabel = path
		diffOpts.NewLabel = group.FileName + " (generated)"

		result, diffErr := textdiff.Compute(string(existing), string(group.CSV), diffOpts)
		if diffErr != nil {
			return &ExitError{Code: 1, Err: fmt.Errorf("computing diff for %s: %w", group.FileName, diffErr)}
		}

		if !result.Changed {
			continue
		}

		changed++

		_, _ = fmt.Fprintf(w, "%s: %s\n", group.FileName, result.Stat())
		textdiff.Write(w, result, !cfg.NoColor)
	}

	if changed == 0 {
		_, _ = fmt.Fprintln(w, "No differences found.")

		return nil
	}

	return &ExitError{Code: 8, Err: fmt.Errorf("%d file(s) differ", changed)}
}
