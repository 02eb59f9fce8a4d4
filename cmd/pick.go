package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/tui"
)

func newPickCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Interactive environment picker",
		Long: `Opens an interactive TUI for selecting an environment.

Use arrow keys or j/k to navigate, / to filter.

Actions:
  Enter/o - Attach to the selected environment
  d/x     - Kill the selected environment
  q/Esc   - Quit`,
		Args: cobra.NoArgs,
		RunE: c.runPick,
	}
}

func (c *cli) runPick(cmd *cobra.Command, args []string) error {
	if !tui.IsTerminal(c.app.Stdin, c.app.Stdout) {
		return ferrors.ValidationError("pick needs an interactive terminal")
	}

	mgr, err := c.manager()
	if err != nil {
		return err
	}

	logging.Debug("picker mode started")

	rows, err := mgr.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logInfo("No environments for %s. Create one with: forage-wt <branch>", mgr.Repo.Name)
		return nil
	}

	result, err := tui.RunPicker(rows, mgr.Repo.Name, tea.WithInput(c.app.Stdin), tea.WithOutput(c.app.Stdout))
	if err != nil {
		return fmt.Errorf("picker error: %w", err)
	}

	logging.Debug("picker result", "action", result.Action, "branch", result.Row.Branch)

	switch result.Action {
	case tui.ActionAttach:
		return mgr.Open(cmd.Context(), result.Row.Branch)
	case tui.ActionKill:
		return mgr.Kill(cmd.Context(), result.Row.Branch)
	}
	return nil
}
