package tui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/port"
)

// portModel reads the starting port of a repository.
type portModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newPortModel() portModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. 9000"
	ti.CharLimit = 5
	ti.Width = 10
	ti.Prompt = "Starting port: "
	ti.Validate = func(s string) error {
		if s == "" {
			return nil
		}
		_, err := strconv.Atoi(s)
		return err
	}
	ti.Focus()
	return portModel{input: ti}
}

func (m portModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m portModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "esc", "ctrl+c":
			m.done, m.cancelled = true, true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m portModel) View() string {
	if m.done {
		return ""
	}
	return titleStyle.UnsetMarginBottom().Render("No environments yet for this repository.") + "\n" +
		m.input.View() + "\n" +
		helpStyle.Render("Ports are allocated upward from here, between "+
			strconv.Itoa(port.Min)+" and "+strconv.Itoa(port.Max)+".") + "\n"
}

// Value returns the entered text.
func (m portModel) Value() string {
	return m.input.Value()
}
