package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/audit"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
)

func newHistoryCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "history [branch...]",
		Short: "Show lifecycle events of the repository",
		Long: `Shows create, provision, start, attach and kill events recorded for
the current repository, optionally limited to one branch.`,
		ValidArgsFunction: c.completeBranches,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistory(cmd, strings.Join(args, " "), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Output format: table, json or yaml")
	return cmd
}

func (c *cli) runHistory(cmd *cobra.Command, label, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	repo, err := c.app.Repo()
	if err != nil {
		return err
	}

	branch := ""
	if label != "" {
		if branch, err = lifecycle.BranchID(label); err != nil {
			return err
		}
	}

	journal := c.app.Journal(repo)
	events, err := journal.Events(branch)
	if err != nil {
		return err
	}
	if events == nil {
		events = []audit.Event{}
	}

	out := cmd.OutOrStdout()
	if format != formatTable {
		return writeStructured(out, format, events)
	}

	if len(events) == 0 {
		logInfo("No events recorded in %s", journal.Path())
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tEVENT\tBRANCH\tPORT\tDETAILS")
	for _, e := range events {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Type, e.Branch, e.Port, e.Details)
	}
	return tw.Flush()
}
