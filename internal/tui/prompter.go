package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
)

// IsTerminal reports whether both in and out are terminals.
func IsTerminal(in io.Reader, out io.Writer) bool {
	fin, ok := in.(*os.File)
	if !ok {
		return false
	}
	fout, ok := out.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(fin.Fd())) && term.IsTerminal(int(fout.Fd()))
}

// NewPrompter returns a TeaPrompter on a terminal and a LinePrompter otherwise.
func NewPrompter(in io.Reader, out io.Writer) lifecycle.Prompter {
	if IsTerminal(in, out) {
		return &TeaPrompter{In: in, Out: out}
	}
	return NewLinePrompter(in, out)
}

// TeaPrompter asks through Bubble Tea programs.
type TeaPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p *TeaPrompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	prog := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(p.In),
		tea.WithOutput(p.Out),
	)
	return prog.Run()
}

func (p *TeaPrompter) Confirm(ctx context.Context, title string, fields []lifecycle.Field) (bool, error) {
	final, err := p.run(ctx, newConfirmModel(title, fields))
	if err != nil {
		return false, err
	}
	return final.(confirmModel).yes, nil
}

func (p *TeaPrompter) StartingPort(ctx context.Context) (string, error) {
	final, err := p.run(ctx, newPortModel())
	if err != nil {
		return "", err
	}
	m := final.(portModel)
	if m.cancelled {
		return "", lifecycle.ErrDeclined
	}
	return m.Value(), nil
}

// LinePrompter reads answers one line at a time.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a LinePrompter reading in and writing questions to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// readLine returns the next line without its terminator. EOF after a
// partial line returns that line.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *LinePrompter) Confirm(ctx context.Context, title string, fields []lifecycle.Field) (bool, error) {
	fmt.Fprintln(p.out, title)
	for _, f := range fields {
		fmt.Fprintf(p.out, "  %-10s %s\n", f.Label+":", f.Value)
	}
	fmt.Fprint(p.out, "Proceed? [y/N] ")

	line, err := p.readLine()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func (p *LinePrompter) StartingPort(ctx context.Context) (string, error) {
	fmt.Fprint(p.out, "No environments yet. Starting port: ")
	line, err := p.readLine()
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(p.out)
		return "", nil
	}
	return line, err
}

var (
	_ lifecycle.Prompter = (*TeaPrompter)(nil)
	_ lifecycle.Prompter = (*LinePrompter)(nil)
)
