package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeCommand(bar *CommandBarModel, command string) string {
	bar.Activate()
	for _, r := range command {
		bar.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return bar.Submit()
}

func TestCommandBar_SubmitClosesBar(t *testing.T) {
	bar := NewCommandBar([]string{"sync", "logs"})

	got := typeCommand(bar, "sync")

	if got != ":sync" {
		t.Errorf("expected :sync, got %q", got)
	}
	if bar.IsActive() {
		t.Error("expected bar to close after submit")
	}
}

func TestCommandBar_History(t *testing.T) {
	bar := NewCommandBar(nil)
	typeCommand(bar, "sync")
	typeCommand(bar, "logs")

	bar.Activate()
	bar.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := bar.Value(); got != ":logs" {
		t.Errorf("expected most recent command, got %q", got)
	}

	bar.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := bar.Value(); got != ":sync" {
		t.Errorf("expected older command, got %q", got)
	}

	bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	bar.Update(tea.KeyMsg{Type: tea.KeyDown})
	if got := bar.Value(); got != ":" {
		t.Errorf("expected empty prompt past the newest entry, got %q", got)
	}
}

func TestCommandBar_EmptyInputNotRecorded(t *testing.T) {
	bar := NewCommandBar(nil)
	typeCommand(bar, "")

	bar.Activate()
	bar.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := bar.Value(); got != ":" {
		t.Errorf("expected no history, got %q", got)
	}
}
