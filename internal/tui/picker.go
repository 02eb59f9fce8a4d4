package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionAttach
	ActionKill
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action Action
	Row    lifecycle.Row
}

// stateOrder fixes the order of the title summary.
var stateOrder = []string{"running", "stopped", "absent", "unknown"}

var stateIcons = map[string]string{
	"running": "✓",
	"stopped": "●",
	"absent":  "○",
}

var stateStyles = map[string]lipgloss.Style{
	"running": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	"stopped": lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	"absent":  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func stateIcon(state string) string {
	if icon, ok := stateIcons[state]; ok {
		return icon
	}
	return "?"
}

// envItem is one environment in the list.
type envItem struct {
	row lifecycle.Row
}

func (i envItem) Title() string {
	return i.row.Branch
}

func (i envItem) Description() string {
	status := stateIcon(i.row.State) + " " + i.row.State
	if style, ok := stateStyles[i.row.State]; ok {
		status = style.Render(status)
	}
	return fmt.Sprintf("%s | :%d | %s | %s", status, i.row.Port, i.row.Container, truncatePath(i.row.Path, 40))
}

func (i envItem) FilterValue() string {
	return i.row.Branch
}

func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	return "..." + path[len(path)-maxLen+3:]
}

// summarize counts rows per state, e.g. "2 running, 1 stopped".
func summarize(rows []lifecycle.Row) string {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[r.State]++
	}
	var parts []string
	for _, s := range stateOrder {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	return strings.Join(parts, ", ")
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)
)

type pickerKeys struct {
	open key.Binding
	kill key.Binding
	quit key.Binding
}

var keys = pickerKeys{
	open: key.NewBinding(key.WithKeys("enter", "o")),
	kill: key.NewBinding(key.WithKeys("d", "x")),
	quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
}

// Model is the bubbletea model for the environment picker
type Model struct {
	list     list.Model
	result   PickerResult
	quitting bool
}

// NewPicker creates a picker over rows of the repository repo.
func NewPicker(rows []lifecycle.Row, repo string) Model {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = envItem{row: r}
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("39")).Bold(true)

	l := list.New(items, delegate, 80, 20)
	l.Title = fmt.Sprintf("forage-wt - %s (%s)", repo, summarize(rows))
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.Styles.Title = titleStyle

	return Model{list: l}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// choose ends the program with action on the selected row.
func (m Model) choose(action Action) (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(envItem)
	if !ok {
		return m, nil
	}
	m.result = PickerResult{Action: action, Row: item.row}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.open):
			return m.choose(ActionAttach)
		case key.Matches(msg, keys.kill):
			return m.choose(ActionKill)
		case key.Matches(msg, keys.quit):
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View() + "\n" + helpStyle.Render("[enter] Attach  [d] Kill  [/] Filter  [q] Quit")
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the picker in the alternate screen. No rows means
// nothing to pick and returns ActionNone without starting a program.
func RunPicker(rows []lifecycle.Row, repo string, opts ...tea.ProgramOption) (PickerResult, error) {
	if len(rows) == 0 {
		return PickerResult{Action: ActionNone}, nil
	}

	p := tea.NewProgram(NewPicker(rows, repo), append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
	final, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}
	return final.(Model).Result(), nil
}
