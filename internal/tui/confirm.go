package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	valueStyle = lipgloss.NewStyle().
			Bold(true)
)

// RenderSummary formats fields as an aligned label/value block.
func RenderSummary(title string, fields []lifecycle.Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}

	var b strings.Builder
	b.WriteString(titleStyle.UnsetMarginBottom().Render(title))
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(f.Label + ":" + strings.Repeat(" ", width-len(f.Label)+1)))
		b.WriteString(valueStyle.Render(f.Value))
	}
	return boxStyle.Render(b.String())
}

// confirmModel asks a yes/no question under a summary box.
type confirmModel struct {
	title    string
	fields   []lifecycle.Field
	answered bool
	yes      bool
}

func newConfirmModel(title string, fields []lifecycle.Field) confirmModel {
	return confirmModel{title: title, fields: fields}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "y", "Y", "enter":
			m.answered, m.yes = true, true
			return m, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			m.answered, m.yes = true, false
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return RenderSummary(m.title, m.fields) + "\n" +
		helpStyle.Render("Proceed? [y/enter] yes  [n/esc] no") + "\n"
}
