// Package textdiff computes and renders unified diffs between text
// documents, used to compare a fresh CSV export against files on disk.
package textdiff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Result holds the outcome of comparing two texts line by line.
type Result struct {
	// Unified is the complete diff in unified format. Empty when the
	// texts are identical.
	Unified string

	// Changed reports whether the texts differ.
	Changed bool

	// Added and Removed count changed lines on each side.
	Added   int
	Removed int

	// OldLabel and NewLabel are the file labels used in the diff header.
	OldLabel string
	NewLabel string
}

// Options configures diff computation.
type Options struct {
	// OldLabel is the label for the old (on-disk) side.
	OldLabel string

	// NewLabel is the label for the new (freshly rendered) side.
	NewLabel string

	// Context is the number of unchanged lines shown around changes.
	Context int
}

// DefaultOptions returns the standard diff options.
func DefaultOptions() Options {
	return Options{
		OldLabel: "existing",
		NewLabel: "proposed",
		Context:  3,
	}
}

// Compute returns the unified diff between oldText and newText.
func Compute(oldText, newText string, opts Options) (*Result, error) {
	unified, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	})
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	res := &Result{
		Unified:  unified,
		Changed:  unified != "",
		OldLabel: opts.OldLabel,
		NewLabel: opts.NewLabel,
	}
	res.Added, res.Removed = countChanges(unified)

	return res, nil
}

// countChanges tallies added and removed lines in a unified diff. The
// +++/--- file header lines do not count.
func countChanges(unified string) (added, removed int) {
	for _, line := range strings.Split(unified, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		case strings.HasPrefix(line, "+"):
			added++
		case strings.HasPrefix(line, "-"):
			removed++
		}
	}

	return added, removed
}

// Stat returns a short change summary such as "+2 -1".
func (r *Result) Stat() string {
	if !r.Changed {
		return "no changes"
	}

	return fmt.Sprintf("+%d -%d", r.Added, r.Removed)
}

// Write renders the diff to w with optional ANSI colors.
func Write(w io.Writer, r *Result, color bool) {
	if !r.Changed {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(r.Unified, "\n") {
		if !color {
			_, _ = fmt.Fprintln(w, line)
			continue
		}

		writeColorLine(w, line)
	}
}

// writeColorLine prints one diff line, coloring additions green,
// removals red, hunk headers cyan, and file headers bold.
func writeColorLine(w io.Writer, line string) {
	const (
		reset = "\033[0m"
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
	)

	var color string

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		color = bold
	case strings.HasPrefix(line, "@@"):
		color = cyan
	case strings.HasPrefix(line, "-"):
		color = red
	case strings.HasPrefix(line, "+"):
		color = green
	default:
		_, _ = fmt.Fprintln(w, line)
		return
	}

	_, _ = fmt.Fprintf(w, "%s%s%s\n", color, line, reset)
}

// splitLines feeds difflib, which wants every element to keep its
// trailing newline.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}

	return strings.SplitAfter(s, "\n")
}
