package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// relevantOps are the fsnotify operations that can change the watched
// input: plain writes, atomic-save renames, and delete/recreate cycles.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// RunFunc performs one export on behalf of the watcher and reports what
// it produced.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult carries the counters of one export run. The watcher prints
// them after every trigger and derives column changes between runs.
type RunResult struct {
	// Resources counts the elements of the "resources" array.
	Resources int

	// Skipped counts resources that joined no group.
	Skipped int

	// Files counts the CSV files written.
	Files int

	// ColumnChanges lists header differences against the previous run.
	ColumnChanges []ColumnChange
}

// Options configures the watch behaviour.
type Options struct {
	// Input is the JSON document to watch.
	Input string

	// Debounce is the quiet period before triggering a re-export.
	Debounce time.Duration

	// Logger receives structured diagnostics.
	Logger *slog.Logger

	// Out receives human-facing status lines.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// normalize fills optional fields so Run never has to nil-check them.
func (o *Options) normalize() {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}

	if o.Out == nil {
		o.Out = io.Discard
	}
}

// Run blocks watching the input file, re-exporting on every change,
// until ctx is cancelled or SIGINT/SIGTERM arrives.
//
// It watches the parent directory rather than the file itself: editors
// that save via temp-file-plus-rename would otherwise detach the watch
// after the first save.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	opts.normalize()

	input, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("resolving input path %q: %w", opts.Input, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.Input, opts.Debounce)

	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		doRun(sigCtx, opts, runFn, path)
	})
	defer debouncer.Stop()

	return eventLoop(sigCtx, watcher, opts, input, debouncer.Trigger)
}

// eventLoop dispatches fsnotify events until the watcher closes or the
// context ends. onChange receives the path of every relevant event.
func eventLoop(ctx context.Context, watcher *fsnotify.Watcher, opts Options, input string, onChange func(string)) error {
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(opts.Out, "\nstopping watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if isRelevant(event, input) {
				onChange(event.Name)
			}

		case notifyErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("fsnotify error", slog.String("error", notifyErr.Error()))
		}
	}
}

// doRun executes one export and prints its status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	stamp := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", stamp, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d resources, %d files)\n",
		stamp, trigger, result.Resources, result.Files)

	if result.Skipped > 0 {
		fmt.Fprintf(opts.Out, "  skipped: %d resource(s)\n", result.Skipped)
	}

	if len(result.ColumnChanges) > 0 {
		fmt.Fprintf(opts.Out, "  columns: %s\n", ColumnDiffSummary(result.ColumnChanges))
	}
}

// isRelevant reports whether the event touches the watched input file
// with an operation that can change its contents. Sibling files in the
// same directory (editor temp files, exported CSVs) never match.
func isRelevant(event fsnotify.Event, input string) bool {
	if event.Op&relevantOps == 0 {
		return false
	}

	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	return name == input
}
