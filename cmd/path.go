package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPathCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "path <branch...>",
		Short: "Print the worktree path of a branch",
		Long: `Prints the worktree path of an existing environment, for example:

  cd "$(forage-wt path fix-bug-123)"`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := c.manager()
			if err != nil {
				return err
			}
			id, err := mgr.Resolve(strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id.WorktreePath)
			return nil
		},
	}
}
