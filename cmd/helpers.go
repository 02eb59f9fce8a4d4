package cmd

import (
	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
)

// Helper aliases for user-facing output (delegates to logging package)
var (
	logInfo    = logging.UserInfo
	logSuccess = logging.UserSuccess
)

// completeBranches offers the branch ids of existing environments. Only
// the first word is completed since labels are joined.
func (c *cli) completeBranches(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	mgr, err := c.manager()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	slots, err := mgr.Index.List()
	if err != nil {
		logging.Debug("completion failed", "repo", mgr.Repo.Root, "error", err)
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, s := range slots {
		names = append(names, s.Branch)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
