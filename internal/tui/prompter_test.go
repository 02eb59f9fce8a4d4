package tui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/lifecycle"
)

var summaryFields = []lifecycle.Field{
	{Label: "Branch", Value: "alpha"},
	{Label: "Port", Value: "9000"},
}

func TestLinePrompter_Confirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{" y \n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
		{"y", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Create environment", summaryFields)
			if err != nil {
				t.Fatalf("Confirm() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for _, want := range []string{"Create environment", "Branch:", "alpha", "Proceed? [y/N]"} {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestLinePrompter_Sequence(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("9000\ny\n"), &out)

	port, err := p.StartingPort(context.Background())
	if err != nil || port != "9000" {
		t.Fatalf("StartingPort() = %q, %v", port, err)
	}
	ok, err := p.Confirm(context.Background(), "t", nil)
	if err != nil || !ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
}

func TestLinePrompter_StartingPortEOF(t *testing.T) {
	p := NewLinePrompter(strings.NewReader(""), &bytes.Buffer{})
	port, err := p.StartingPort(context.Background())
	if err != nil {
		t.Fatalf("StartingPort() error: %v", err)
	}
	if port != "" {
		t.Errorf("StartingPort() = %q, want empty", port)
	}
}

func TestNewPrompter_NonTerminal(t *testing.T) {
	p := NewPrompter(strings.NewReader(""), &bytes.Buffer{})
	if _, ok := p.(*LinePrompter); !ok {
		t.Errorf("NewPrompter() = %T, want *LinePrompter", p)
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Kill environment", summaryFields)
	for _, want := range []string{"Kill environment", "Branch:", "alpha", "Port:", "9000"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestConfirmModel(t *testing.T) {
	tests := []struct {
		key  tea.KeyMsg
		want bool
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, false},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			m := newConfirmModel("Create environment", summaryFields)
			if !strings.Contains(m.View(), "Proceed?") {
				t.Error("View should ask to proceed")
			}
			next, cmd := m.Update(tt.key)
			cm := next.(confirmModel)
			if !cm.answered {
				t.Fatal("model should be answered")
			}
			if cm.yes != tt.want {
				t.Errorf("yes = %v, want %v", cm.yes, tt.want)
			}
			if cmd == nil {
				t.Error("should quit")
			}
		})
	}
}

func TestConfirmModel_IgnoresOtherKeys(t *testing.T) {
	m := newConfirmModel("t", nil)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	if next.(confirmModel).answered {
		t.Error("unrelated key should not answer")
	}
	if cmd != nil {
		t.Error("unrelated key should not quit")
	}
}

func TestPortModel(t *testing.T) {
	m := newPortModel()
	var model tea.Model = m
	for _, r := range "9000" {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	pm := model.(portModel)

	if pm.Value() != "9000" {
		t.Errorf("Value() = %q, want 9000", pm.Value())
	}
	if pm.cancelled || !pm.done {
		t.Error("enter should finish without cancelling")
	}
	if cmd == nil {
		t.Error("enter should quit")
	}
}

func TestPortModel_Cancel(t *testing.T) {
	model, _ := newPortModel().Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !model.(portModel).cancelled {
		t.Error("esc should cancel")
	}
}
