package cmd

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/app"
	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
)

// cli carries the app and the global flags of one invocation.
type cli struct {
	app *app.App

	verbose    bool
	jsonOutput bool
	yes        bool
}

func (c *cli) manager() (*lifecycle.Manager, error) {
	return c.app.Manager(c.yes)
}

func newRootCmd(c *cli) *cobra.Command {
	var format string

	root := &cobra.Command{
		Use:   "forage-wt [branch...]",
		Short: "Branch-per-container development environments",
		Long: `forage-wt gives every branch its own git worktree and container.

Without arguments it lists the environments of the current repository.
With a branch name it attaches to that environment, creating the branch,
worktree and container first when needed. Words are joined and normalized,
so "Fix Bug #123" opens fix-bug-123.

Environments live next to the repository:

  {parent}/{repo}.worktrees/{port}/{branch}

Host port {port} is forwarded to the container's service port.

A first word naming a subcommand (kill, init, path, pick, history,
completion, help) runs that subcommand, so branches with those names
cannot be opened from the command line. Pick them with "forage-wt pick"
or give them another name.`,
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: c.completeBranches,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(c.verbose, c.jsonOutput, c.app.Stderr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return c.runList(cmd, format)
			}
			mgr, err := c.manager()
			if err != nil {
				return err
			}
			return mgr.Open(cmd.Context(), strings.Join(args, " "))
		},
	}

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose output")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "Output logs in JSON format")
	root.PersistentFlags().BoolVarP(&c.yes, "yes", "y", false, "Assume yes for confirmations")
	root.Flags().StringVar(&format, "format", formatTable, "List format: table, json or yaml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		newKillCmd(c),
		newInitCmd(c),
		newCompletionCmd(c),
		newPickCmd(c),
		newPathCmd(c),
		newHistoryCmd(c),
	)
	return root
}

// Run executes forage-wt with args, where args[0] is the program name,
// and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer, opts ...app.Option) int {
	logging.SetOutput(stdout, stderr)

	c := &cli{
		app: app.New(append([]app.Option{app.WithIO(stdin, stdout, stderr)}, opts...)...),
	}
	root := newRootCmd(c)
	root.SetArgs(args[1:])
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ferrors.ExitSuccess
	}
	if errors.Is(err, lifecycle.ErrDeclined) {
		logging.UserInfo("Aborted")
		return ferrors.ExitSuccess
	}

	logging.UserError("%v", err)
	return ferrors.GetExitCode(err)
}
