package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hupe1980/res2csv/internal/config"
	"github.com/hupe1980/res2csv/internal/flatten"
	"github.com/hupe1980/res2csv/internal/inventory"
	"github.com/hupe1980/res2csv/internal/logging"
	"github.com/hupe1980/res2csv/internal/output"
)

// exportGroup is one type group rendered to CSV, ready to be written.
type exportGroup struct {
	Type     string
	FileName string
	Table    *output.Table
	CSV      []byte
}

// pipelineResult holds the outputs of the load → group → flatten → encode
// pipeline. This is the shared core used by the root export as well as the
// inspect, diff, and watch commands.
type pipelineResult struct {
	Document *inventory.Document
	Grouping *inventory.Grouping
	Groups   []exportGroup
}

func runPipeline(ctx context.Context, inputPath string, cfg *config.Config) (*pipelineResult, error) {
	logger := logging.FromContext(ctx)

	if err := output.ValidReplacement(cfg.Replacement); err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	if err := output.ValidColumnOrder(cfg.ColumnOrder); err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	// 1. Load and parse the input document.
	doc, err := inventory.Load(inputPath)
	if err != nil {
		return nil, exitErrorForLoad(err)
	}

	logger.Info("document loaded",
		slog.String("path", doc.Path),
		slog.Int("resources", len(doc.Resources)),
	)

	// 2. Group resources by declared type.
	grouping := doc.Group(logger)

	// 3. Load per-type overrides from the config file, when one is in use.
	overrides, err := loadExportOverrides(ctx, logger)
	if err != nil {
		return nil, &ExitError{Code: 2, Err: err}
	}

	// 4. Flatten each group's members and render the tables.
	flattenOpts := flatten.Options{NullValue: cfg.NullValue}

	groups := make([]exportGroup, 0, grouping.Len())

	for _, typeName := range grouping.Types() {
		members := grouping.Members(typeName)

		rows := make([]flatten.Row, 0, len(members))
		for _, m := range members {
			rows = append(rows, flatten.MapWithOptions(m.Fields, flattenOpts))
		}

		table, tableErr := output.BuildTable(rows, cfg.ColumnOrder)
		if tableErr != nil {
			return nil, &ExitError{Code: 2, Err: tableErr}
		}

		if pinned := overrides.ColumnsFor(typeName); len(pinned) > 0 {
			output.PinColumns(table, pinned)
		}

		data, encErr := output.EncodeCSV(table)
		if encErr != nil {
			return nil, &ExitError{Code: 1, Err: fmt.Errorf("encoding CSV for type %q: %w", typeName, encErr)}
		}

		fileName := overrides.FileFor(typeName, output.FileName(typeName, cfg.Replacement))

		groups = append(groups, exportGroup{
			Type:     typeName,
			FileName: fileName,
			Table:    table,
			CSV:      data,
		})
	}

	logger.Info("groups built",
		slog.Int("groups", len(groups)),
		slog.Int("skipped", len(grouping.Skips())),
	)

	return &pipelineResult{
		Document: doc,
		Grouping: grouping,
		Groups:   groups,
	}, nil
}

// exitErrorForLoad maps document loading failures to their exit codes:
// malformed JSON is 7, everything else (unreadable file, wrong shape) is 1.
func exitErrorForLoad(err error) error {
	var parseErr *inventory.ParseError
	if errors.As(err, &parseErr) {
		return &ExitError{Code: 7, Err: err}
	}

	return &ExitError{Code: 1, Err: err}
}

// loadExportOverrides reads per-type export overrides from the resolved
// config file. No config file means no overrides.
func loadExportOverrides(ctx context.Context, logger *slog.Logger) (*config.ExportOverrides, error) {
	path := config.ConfigFileFromContext(ctx)

	overrides, err := config.LoadExportOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("loading export overrides: %w", err)
	}

	if !overrides.IsEmpty() {
		logger.Debug("loaded export overrides",
			slog.String("file", path),
			slog.Int("types", len(overrides.TypeOverrides)),
		)
	}

	return overrides, nil
}
