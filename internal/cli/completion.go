package cli

import (
	"github.com/spf13/cobra"
)

func newCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate a completion script for your shell",
		Long: `Generate a completion script for res2csv and print it to stdout.

Load it directly for the current session, or install it where your
shell picks it up:

  Bash:        source <(res2csv completion bash)
  Zsh:         res2csv completion zsh > "${fpath[1]}/_res2csv"
  Fish:        res2csv completion fish > ~/.config/fish/completions/res2csv.fish
  PowerShell:  res2csv completion powershell | Out-String | Invoke-Expression
`,
		// No config needed; skip the root's pre-run.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Args:              cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:         []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			out := cmd.OutOrStdout()

			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}

	return cmd
}
