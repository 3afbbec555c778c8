package views

import (
	"strings"
	"testing"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/lifecycle"
	tea "github.com/charmbracelet/bubbletea"
)

func TestChooserView_SpaceTogglesDirectory(t *testing.T) {
	chooser := lifecycle.NewDirectoryChooser([]domain.Directory{{Name: "Documents"}, {Name: "Photos"}}, nil)
	view := NewChooserView()
	view.SetSize(100, 40)
	view.Activate(chooser)

	view.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})

	if !chooser.IsChosen("Documents") {
		t.Error("expected Documents to be chosen")
	}
	if !strings.Contains(view.View(), "[x] Documents") {
		t.Error("expected checked box in view")
	}

	view.ToggleSelected()
	if chooser.IsChosen("Documents") {
		t.Error("expected second toggle to clear the choice")
	}
}

func TestChooserView_NilChooserStaysInactive(t *testing.T) {
	view := NewChooserView()
	view.Activate(nil)

	if view.IsActive() {
		t.Error("expected inactive view")
	}
	view.ToggleSelected()
}

func TestDirectoryItem(t *testing.T) {
	item := DirectoryItem{name: "Photos/"}

	if got := item.Title(); got != "[ ] Photos/" {
		t.Errorf("unexpected title %q", got)
	}
	if got := item.Description(); got != "/Photos" {
		t.Errorf("unexpected description %q", got)
	}
}
