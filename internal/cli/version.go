package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/version"
)

func newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the res2csv version together with commit, build date, Go version, and platform.",
		Args:  cobra.NoArgs,
		// No config needed; skip the root's pre-run.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			text := info.String()

			if asJSON {
				j, err := info.JSON()
				if err != nil {
					return err
				}

				text = j
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), text)

			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
