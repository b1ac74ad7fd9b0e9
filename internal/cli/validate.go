package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/inventory"
	"github.com/hupe1980/res2csv/internal/logging"
)

type validateOptions struct {
	strict bool
}

func newValidateCommand() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate <input-json>",
		Short: "Validate an input document",
		Long: `Validate that an input document is well-formed JSON with a top-level
"resources" array, and report every resource that would be skipped
during an export.

Returns exit code 7 when the document is not valid JSON, or when
resources would be skipped and --strict is set.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on skipped resources in addition to malformed input")

	return cmd
}

func runValidate(cmd *cobra.Command, inputPath string, opts *validateOptions) error {
	logger := logging.FromContext(cmd.Context())

	// 1. Load and parse the document.
	doc, err := inventory.Load(inputPath)
	if err != nil {
		var parseErr *inventory.ParseError
		if errors.As(err, &parseErr) {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "JSON syntax error: %v\n", err)
		}

		return exitErrorForLoad(err)
	}

	// 2. Group and collect skips.
	grouping := doc.Group(logger)
	skips := grouping.Skips()

	// 3. Print findings.
	for _, s := range skips {
		id := s.ID
		if id == "" {
			id = "-"
		}

		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "resource %d (id=%s): %s\n", s.Index, id, s.Reason)
	}

	// 4. Determine exit code.
	if opts.strict && len(skips) > 0 {
		return &ExitError{Code: 7, Err: fmt.Errorf("validation failed with %d skipped resource(s) (strict mode)", len(skips))}
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Validation passed. %d resource(s) in %d group(s), %d skipped.\n",
		len(doc.Resources), grouping.Len(), len(skips))

	return nil
}
