package cmd

import (
	"github.com/spf13/cobra"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
)

func newCompletionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh>",
		Short: "Generate a shell completion script",
		Long: `Prints a completion script that also completes existing branch names.

  source <(forage-wt completion bash)
  forage-wt completion zsh > "${fpath[1]}/_forage-wt"`,
		ValidArgs: []string{"bash", "zsh"},
		Args:      cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			default:
				return ferrors.UnknownShell(args[0])
			}
		},
	}
}
