package cli

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/res2csv/internal/output"
)

// registerRenderFlags adds the flags that shape CSV rendering. They are
// registered without variables; values are resolved through the config
// layer so flags, environment, and config file share one precedence.
func registerRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("column-order", output.OrderFirstSeen, "column order in CSV headers: first-seen, alpha")
	f.String("null-value", "", "cell text for JSON null values")
	f.String("replacement", "_", "replacement for characters not allowed in file names")
}
