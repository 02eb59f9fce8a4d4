// Package tui provides the interactive terminal pieces of forage-wt.
//
// # Prompts
//
// NewPrompter returns a lifecycle.Prompter. When both ends are terminals
// the confirmation summary and the starting-port question are Bubble Tea
// programs; otherwise LinePrompter reads answers line by line, which is
// what scripts and tests drive.
//
// # Environment Picker
//
//	result, err := tui.RunPicker(rows, repo.Name)
//	switch result.Action {
//	case tui.ActionAttach:
//	    // open result.Row.Branch
//	case tui.ActionKill:
//	    // kill result.Row.Branch
//	case tui.ActionQuit:
//	}
//
// # Dependencies
//
// Uses the Charm libraries:
//   - github.com/charmbracelet/bubbletea - TUI framework
//   - github.com/charmbracelet/bubbles - UI components
//   - github.com/charmbracelet/lipgloss - Styling
package tui
