package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/config"
	"github.com/hupe1980/res2csv/internal/logging"
	"github.com/hupe1980/res2csv/internal/output"
)

type exportOptions struct {
	dryRun bool
}

// runExport is the root command's action: it runs the pipeline and writes
// one CSV file per group into the output directory.
func runExport(ctx context.Context, cmd *cobra.Command, inputPath, outputDir string, opts *exportOptions) error {
	logger := logging.FromContext(ctx)
	cfg := config.FromContext(ctx)

	res, err := runPipeline(ctx, inputPath, cfg)
	if err != nil {
		return err
	}

	toStdout := outputDir == "-"

	var failed []string

	written := 0

	for _, group := range res.Groups {
		path := filepath.Join(outputDir, group.FileName)

		if opts.dryRun {
			logger.Info("dry-run: skipping write",
				slog.String("type", group.Type),
				slog.String("path", path),
				slog.Int("rows", len(group.Table.Rows)),
			)

			continue
		}

		var w output.Writer
		if toStdout {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "==> %s <==\n", group.FileName)
			w = output.NewStdoutWriter(cmd.OutOrStdout())
		} else {
			w = output.NewFileWriter(path, output.WithLogger(logger))
		}

		if writeErr := w.Write(group.CSV); writeErr != nil {
			logger.Error("write failed",
				slog.String("path", path),
				slog.String("error", writeErr.Error()),
			)

			failed = append(failed, group.FileName)

			continue
		}

		written++
	}

	printExportSummary(cmd.ErrOrStderr(), res, written, failed, opts.dryRun)

	// Write failures outrank skipped resources.
	if len(failed) > 0 {
		return &ExitError{Code: 6, Err: fmt.Errorf("%d of %d group file(s) could not be written", len(failed), len(res.Groups))}
	}

	if skips := res.Grouping.Skips(); len(skips) > 0 {
		return &ExitError{Code: 3, Err: fmt.Errorf("%d resource(s) skipped", len(skips))}
	}

	return nil
}

// printExportSummary prints a human-readable summary of the export.
func printExportSummary(w io.Writer, res *pipelineResult, written int, failed []string, dryRun bool) {
	_, _ = fmt.Fprintf(w, "\n--- Export Summary ---\n")
	_, _ = fmt.Fprintf(w, "Input:     %s\n", res.Document.Path)
	_, _ = fmt.Fprintf(w, "Resources: %d\n", len(res.Document.Resources))
	_, _ = fmt.Fprintf(w, "Groups:    %d\n", res.Grouping.Len())

	if skips := res.Grouping.Skips(); len(skips) > 0 {
		_, _ = fmt.Fprintf(w, "Skipped:   %d\n", len(skips))
	}

	if dryRun {
		_, _ = fmt.Fprintf(w, "Files:     %d (dry-run, nothing written)\n", res.Grouping.Len())
	} else {
		_, _ = fmt.Fprintf(w, "Files:     %d\n", written)
	}

	if len(failed) > 0 {
		_, _ = fmt.Fprintf(w, "Failed:    %s\n", strings.Join(failed, ", "))
	}

	_, _ = fmt.Fprintf(w, "----------------------\n")
}
