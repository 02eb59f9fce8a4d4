package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	ferrors "github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/errors"
	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)

	stateColors = map[string]lipgloss.Color{
		"running": lipgloss.Color("42"),
		"stopped": lipgloss.Color("214"),
		"absent":  lipgloss.Color("245"),
		"unknown": lipgloss.Color("196"),
	}
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML:
		return nil
	default:
		return ferrors.ValidationError(fmt.Sprintf("unknown format %q (want table, json or yaml)", format))
	}
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported structured format %q", format)
	}
}

func (c *cli) runList(cmd *cobra.Command, format string) error {
	if err := checkFormat(format); err != nil {
		return err
	}
	mgr, err := c.manager()
	if err != nil {
		return err
	}
	rows, err := mgr.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format != formatTable {
		return writeStructured(out, format, rows)
	}

	if len(rows) == 0 {
		logInfo("No environments for %s. Create one with: forage-wt <branch>", mgr.Repo.Name)
		return nil
	}
	fmt.Fprintln(out, renderTable(rows))
	return nil
}

func renderTable(rows []lifecycle.Row) string {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = []string{strconv.Itoa(r.Port), r.Branch, r.State, r.Container, r.Path}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("241"))).
		Headers("PORT", "BRANCH", "STATE", "CONTAINER", "PATH").
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 2 && row >= 0 && row < len(data) {
				if color, ok := stateColors[data[row][2]]; ok {
					return cellStyle.Foreground(color)
				}
			}
			return cellStyle
		}).
		String()
}
