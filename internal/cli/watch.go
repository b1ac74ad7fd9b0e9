package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/config"
	"github.com/hupe1980/res2csv/internal/logging"
	"github.com/hupe1980/res2csv/internal/output"
	"github.com/hupe1980/res2csv/internal/watch"
)

type watchOptions struct {
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <input-json> <output-directory>",
		Short: "Watch the input document and re-export on change",
		Long: `Watch monitors the input JSON document and re-runs the export
whenever it changes. File events are debounced to avoid rapid re-runs.

Each run reports the resource count, the number of files written, and
any column changes compared to the previous run (columns added or
removed, groups appearing or disappearing).`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	registerRenderFlags(cmd)

	cmd.Flags().DurationVar(&opts.debounce, "debounce", 500*time.Millisecond, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, inputPath, outputDir string, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)

	// Headers of the previous run, per type, for change detection.
	var prevColumns map[string][]string

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		res, err := runPipeline(fnCtx, inputPath, cfg)
		if err != nil {
			return nil, err
		}

		currColumns := make(map[string][]string, len(res.Groups))

		for _, group := range res.Groups {
			w := output.NewFileWriter(filepath.Join(outputDir, group.FileName), output.WithLogger(logger))
			if writeErr := w.Write(group.CSV); writeErr != nil {
				return nil, fmt.Errorf("writing %s: %w", group.FileName, writeErr)
			}

			currColumns[group.Type] = group.Table.Columns
		}

		var changes []watch.ColumnChange
		if prevColumns != nil {
			changes = watch.DiffColumns(prevColumns, currColumns)
		}

		prevColumns = currColumns

		return &watch.RunResult{
			Resources:     len(res.Document.Resources),
			Skipped:       len(res.Grouping.Skips()),
			Files:         len(res.Groups),
			ColumnChanges: changes,
		}, nil
	}

	watchOpts := watch.Options{
		Input:    inputPath,
		Debounce: opts.debounce,
		Logger:   logger,
		Out:      cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}
