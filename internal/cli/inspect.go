package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	sigsyaml "sigs.k8s.io/yaml"

	"github.com/hupe1980/res2csv/internal/config"
)

type inspectOptions struct {
	showColumns bool
	format      string
}

func newInspectCommand() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <input-json>",
		Short: "Inspect an input document without exporting",
		Long: `Inspect a JSON resource document to preview which groups would be
exported, which file each group maps to, which columns each CSV would
carry, and which resources would be skipped — without writing anything.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerRenderFlags(cmd)

	f := cmd.Flags()
	f.BoolVar(&opts.showColumns, "show-columns", false, "list every column per group")
	f.StringVar(&opts.format, "format", "table", "output format: table, json, yaml")

	return cmd
}

// inspectReport is what the inspect command prints, in all three formats.
type inspectReport struct {
	Input     string         `json:"input"`
	Resources int            `json:"resources"`
	Groups    []groupSummary `json:"groups"`
	Skips     []skipSummary  `json:"skips,omitempty"`
}

type groupSummary struct {
	Type    string   `json:"type"`
	File    string   `json:"file"`
	Members int      `json:"members"`
	Columns []string `json:"columns,omitempty"`
}

type skipSummary struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func runInspect(ctx context.Context, cmd *cobra.Command, inputPath string, opts *inspectOptions) error {
	cfg := config.FromContext(ctx)

	res, err := runPipeline(ctx, inputPath, cfg)
	if err != nil {
		return err
	}

	report := newInspectReport(res)
	w := cmd.OutOrStdout()

	switch opts.format {
	case "table":
		report.writeTable(w, opts.showColumns)
		return nil
	case "json":
		return report.writeJSON(w)
	case "yaml":
		return report.writeYAML(w)
	default:
		return &ExitError{Code: 2, Err: fmt.Errorf("unknown format %q: expected table, json, yaml", opts.format)}
	}
}

func newInspectReport(res *pipelineResult) inspectReport {
	report := inspectReport{
		Input:     res.Document.Path,
		Resources: len(res.Document.Resources),
		Groups:    make([]groupSummary, 0, len(res.Groups)),
	}

	for _, group := range res.Groups {
		report.Groups = append(report.Groups, groupSummary{
			Type:    group.Type,
			File:    group.FileName,
			Members: len(group.Table.Rows),
			Columns: group.Table.Columns,
		})
	}

	for _, s := range res.Grouping.Skips() {
		report.Skips = append(report.Skips, skipSummary{
			Index:  s.Index,
			ID:     s.ID,
			Reason: s.Reason,
		})
	}

	return report
}

func (r inspectReport) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(r)
}

func (r inspectReport) writeYAML(w io.Writer) error {
	data, err := sigsyaml.Marshal(r)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func (r inspectReport) writeTable(w io.Writer, showColumns bool) {
	_, _ = fmt.Fprintf(w, "\n=== Input: %s ===\n", r.Input)
	_, _ = fmt.Fprintf(w, "Resources: %d\n", r.Resources)

	r.writeGroupSection(w)

	if showColumns {
		r.writeColumnSection(w)
	}

	r.writeSkipSection(w)
}

func (r inspectReport) writeGroupSection(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n--- Groups (%d) ---\n", len(r.Groups))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TYPE\tFILE\tMEMBERS\tCOLUMNS")

	for _, g := range r.Groups {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\n", g.Type, g.File, g.Members, len(g.Columns))
	}

	_ = tw.Flush()
}

func (r inspectReport) writeColumnSection(w io.Writer) {
	for _, g := range r.Groups {
		_, _ = fmt.Fprintf(w, "\n--- Columns: %s ---\n", g.Type)

		for i, c := range g.Columns {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, c)
		}
	}
}

func (r inspectReport) writeSkipSection(w io.Writer) {
	if len(r.Skips) == 0 {
		return
	}

	_, _ = fmt.Fprintf(w, "\n--- Skipped (%d) ---\n", len(r.Skips))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "INDEX\tID\tREASON")

	for _, s := range r.Skips {
		id := s.ID
		if id == "" {
			id = "-"
		}

		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\n", s.Index, id, s.Reason)
	}

	_ = tw.Flush()
}
