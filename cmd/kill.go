package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

func newKillCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "kill <branch...>",
		Short: "Remove the container and worktree of a branch",
		Long: `Stops and removes the branch's container, then removes its worktree.

The branch itself is kept. The port directory is removed once no other
worktree lives in it.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: c.completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := c.manager()
			if err != nil {
				return err
			}
			return mgr.Kill(cmd.Context(), strings.Join(args, " "))
		},
	}
}
