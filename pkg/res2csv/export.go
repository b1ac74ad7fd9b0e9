// Package res2csv provides a public Go API for exporting JSON resource
// inventories to per-type CSV files.
//
// This package exposes the res2csv export pipeline as a library, allowing
// programmatic use without the CLI.
//
// Basic usage:
//
//	result, err := res2csv.Export(ctx, "inventory.json", "out")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d file(s)\n", len(result.Files))
//
// With options:
//
//	result, err := res2csv.Export(ctx, "inventory.json", "out",
//	    res2csv.WithColumnOrder(res2csv.OrderAlpha),
//	    res2csv.WithNullValue("NULL"),
//	)
package res2csv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/hupe1980/res2csv/internal/flatten"
	"github.com/hupe1980/res2csv/internal/inventory"
	"github.com/hupe1980/res2csv/internal/logging"
	"github.com/hupe1980/res2csv/internal/output"
)

// Column orderings accepted by WithColumnOrder.
const (
	OrderFirstSeen = output.OrderFirstSeen
	OrderAlpha     = output.OrderAlpha
)

// Writer persists one rendered CSV document.
type Writer interface {
	Write(data []byte) error
}

// WriterFactory builds the Writer used for a given output path. Replacing
// it redirects the export away from the filesystem, for example into an
// in-memory map in tests.
type WriterFactory func(path string) Writer

// Option configures the export pipeline.
// Use the With* functions to create Options.
type Option func(*options)

// options holds the internal configuration for the export pipeline.
type options struct {
	columnOrder string
	nullValue   string
	replacement string
	logger      *slog.Logger
	newWriter   WriterFactory
}

// WithColumnOrder sets the CSV header ordering: OrderFirstSeen (default)
// or OrderAlpha.
func WithColumnOrder(order string) Option { return func(o *options) { o.columnOrder = order } }

// WithNullValue sets the cell text emitted for JSON null values (default: "").
func WithNullValue(v string) Option { return func(o *options) { o.nullValue = v } }

// WithReplacement sets the substitute for characters not allowed in file
// names (default: "_").
func WithReplacement(r string) Option { return func(o *options) { o.replacement = r } }

// WithLogger sets the logger for pipeline diagnostics (default: discard).
func WithLogger(logger *slog.Logger) Option { return func(o *options) { o.logger = logger } }

// WithWriterFactory replaces the file writer used for each output path.
func WithWriterFactory(f WriterFactory) Option { return func(o *options) { o.newWriter = f } }

// Skip records a resource that was left out of every group.
type Skip struct {
	// Index is the resource's position in the input array.
	Index int

	// ID is the resource's "id" field, when it had one.
	ID string

	// Reason explains why the resource was skipped.
	Reason string
}

// File describes one written CSV file.
type File struct {
	// Type is the group type name the file was derived from.
	Type string

	// Name is the file name inside the output directory.
	Name string

	// Rows is the number of data rows, excluding the header.
	Rows int

	// Columns holds the header columns in output order.
	Columns []string
}

// Result holds the output of a successful export.
type Result struct {
	// Resources is the number of elements in the input "resources" array.
	Resources int

	// Files describes the written CSV files, one per group.
	Files []File

	// Skips lists the resources that landed in no group. Skips do not fail
	// the export; callers decide how strict to be.
	Skips []Skip
}

// Export reads the JSON inventory document at inputPath, groups its
// resources by declared type, and writes one CSV file per type into
// outputDir.
//
// Pass no options to use all defaults:
//
//	result, err := res2csv.Export(ctx, "inventory.json", "out")
func Export(ctx context.Context, inputPath, outputDir string, opts ...Option) (*Result, error) {
	if inputPath == "" {
		return nil, errors.New("input path must not be empty")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	o.applyDefaults()

	if err := output.ValidReplacement(o.replacement); err != nil {
		return nil, err
	}

	if err := output.ValidColumnOrder(o.columnOrder); err != nil {
		return nil, err
	}

	// 1. Load the document.
	doc, err := inventory.Load(inputPath)
	if err != nil {
		return nil, err
	}

	// 2. Group resources by declared type.
	grouping := doc.Group(o.logger)

	result := &Result{
		Resources: len(doc.Resources),
		Files:     make([]File, 0, grouping.Len()),
	}

	for _, s := range grouping.Skips() {
		result.Skips = append(result.Skips, Skip{Index: s.Index, ID: s.ID, Reason: s.Reason})
	}

	// 3. Flatten, render, and write each group.
	flattenOpts := flatten.Options{NullValue: o.nullValue}

	for _, typeName := range grouping.Types() {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		members := grouping.Members(typeName)

		rows := make([]flatten.Row, 0, len(members))
		for _, m := range members {
			rows = append(rows, flatten.MapWithOptions(m.Fields, flattenOpts))
		}

		table, tableErr := output.BuildTable(rows, o.columnOrder)
		if tableErr != nil {
			return nil, tableErr
		}

		data, encErr := output.EncodeCSV(table)
		if encErr != nil {
			return nil, fmt.Errorf("encoding CSV for type %q: %w", typeName, encErr)
		}

		name := output.FileName(typeName, o.replacement)

		w := o.newWriter(filepath.Join(outputDir, name))
		if writeErr := w.Write(data); writeErr != nil {
			return nil, fmt.Errorf("writing %s: %w", name, writeErr)
		}

		result.Files = append(result.Files, File{
			Type:    typeName,
			Name:    name,
			Rows:    len(table.Rows),
			Columns: table.Columns,
		})
	}

	return result, nil
}

// applyDefaults sets zero-value fields to sensible defaults.
func (o *options) applyDefaults() {
	if o.columnOrder == "" {
		o.columnOrder = OrderFirstSeen
	}

	if o.replacement == "" {
		o.replacement = "_"
	}

	if o.logger == nil {
		o.logger = logging.Discard()
	}

	if o.newWriter == nil {
		logger := o.logger
		o.newWriter = func(path string) Writer {
			return output.NewFileWriter(path, output.WithLogger(logger))
		}
	}
}
