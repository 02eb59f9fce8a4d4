package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// User-facing output functions with glyph prefixes.
// These write to the configured stdout/stderr for CLI output,
// separate from the structured debug logging.

var (
	userMu     sync.Mutex
	userStdout io.Writer = os.Stdout
	userStderr io.Writer = os.Stderr
	userColor            = true

	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// SetOutput redirects user output. Nil writers keep the current destination.
func SetOutput(stdout, stderr io.Writer) {
	userMu.Lock()
	defer userMu.Unlock()
	if stdout != nil {
		userStdout = stdout
	}
	if stderr != nil {
		userStderr = stderr
	}
}

// SetColor toggles glyph styling.
func SetColor(enabled bool) {
	userMu.Lock()
	defer userMu.Unlock()
	userColor = enabled
}

func emit(w io.Writer, style lipgloss.Style, glyph, format string, args []any) {
	if userColor {
		glyph = style.Render(glyph)
	}
	fmt.Fprintf(w, glyph+" "+format+"\n", args...)
}

// UserInfo prints an info message to stdout.
func UserInfo(format string, args ...any) {
	userMu.Lock()
	defer userMu.Unlock()
	emit(userStdout, infoStyle, "ℹ", format, args)
}

// UserSuccess prints a success message to stdout.
func UserSuccess(format string, args ...any) {
	userMu.Lock()
	defer userMu.Unlock()
	emit(userStdout, successStyle, "✓", format, args)
}

// UserWarning prints a warning message to stderr.
func UserWarning(format string, args ...any) {
	userMu.Lock()
	defer userMu.Unlock()
	emit(userStderr, warningStyle, "⚠", format, args)
}

// UserError prints an error message to stderr.
func UserError(format string, args ...any) {
	userMu.Lock()
	defer userMu.Unlock()
	emit(userStderr, errorStyle, "✗", format, args)
}
