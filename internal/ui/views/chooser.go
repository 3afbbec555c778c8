package views

import (
	"fmt"
	"strings"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/lifecycle"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type DirectoryItem struct {
	name   string
	chosen bool
}

func (i DirectoryItem) FilterValue() string { return i.name }
func (i DirectoryItem) Title() string {
	box := "[ ]"
	if i.chosen {
		box = "[x]"
	}
	return fmt.Sprintf("%s %s", box, i.name)
}
func (i DirectoryItem) Description() string { return "/" + strings.Trim(i.name, "/") }

// ChooserViewModel renders a DirectoryChooser as a checklist.
type ChooserViewModel struct {
	list    list.Model
	chooser *lifecycle.DirectoryChooser
	active  bool
	width   int
	height  int
}

func NewChooserView() *ChooserViewModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Choose remote directories"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &ChooserViewModel{list: l}
}

func (m *ChooserViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width-8, height-16)
}

func (m *ChooserViewModel) Activate(chooser *lifecycle.DirectoryChooser) {
	m.chooser = chooser
	m.active = chooser != nil
	m.list.Select(0)
	m.refresh()
}

func (m *ChooserViewModel) Deactivate() {
	m.active = false
	m.chooser = nil
	m.list.SetItems(nil)
}

func (m *ChooserViewModel) IsActive() bool {
	return m.active
}

// ToggleSelected flips the directory under the cursor.
func (m *ChooserViewModel) ToggleSelected() {
	item, ok := m.list.SelectedItem().(DirectoryItem)
	if !ok || m.chooser == nil {
		return
	}
	m.chooser.Toggle(item.name)
	m.refresh()
}

func (m *ChooserViewModel) refresh() {
	if m.chooser == nil {
		return
	}
	options := m.chooser.Options()
	items := make([]list.Item, len(options))
	for i, option := range options {
		items[i] = DirectoryItem{name: option.Name, chosen: m.chooser.IsChosen(option.Name)}
	}
	m.list.SetItems(items)
}

func (m *ChooserViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == " " {
		m.ToggleSelected()
		return nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *ChooserViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.list.View())
	b.WriteString("\n\n")

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("Space: Toggle | Enter: Choose | Esc: Close")
	b.WriteString(help)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(m.width - 4)

	return boxStyle.Render(b.String())
}
