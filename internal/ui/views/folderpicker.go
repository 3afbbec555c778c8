package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FolderPickedMsg carries the picker result. An empty Path means the user
// cancelled.
type FolderPickedMsg struct {
	Path string
}

// FolderPickerModel browses directories; the current directory is the
// selection.
type FolderPickerModel struct {
	picker filepicker.Model
	title  string
	active bool
	width  int
	height int
}

func NewFolderPicker() *FolderPickerModel {
	return &FolderPickerModel{}
}

func (m *FolderPickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.active {
		m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: width, Height: height - 14})
	}
}

// Activate opens the picker at path and returns the command that lists it.
func (m *FolderPickerModel) Activate(title, path string) tea.Cmd {
	fp := filepicker.New()
	fp.CurrentDirectory = path
	fp.DirAllowed = false
	fp.FileAllowed = false
	fp.ShowPermissions = false
	fp.ShowSize = false

	m.picker = fp
	m.title = title
	m.active = true
	m.picker, _ = m.picker.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height - 14})

	return m.picker.Init()
}

func (m *FolderPickerModel) Deactivate() {
	m.active = false
}

func (m *FolderPickerModel) IsActive() bool {
	return m.active
}

func (m *FolderPickerModel) CurrentDirectory() string {
	return m.picker.CurrentDirectory
}

func (m *FolderPickerModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "s":
			path := m.picker.CurrentDirectory
			m.Deactivate()
			return func() tea.Msg { return FolderPickedMsg{Path: path} }
		case "esc", "q":
			m.Deactivate()
			return func() tea.Msg { return FolderPickedMsg{} }
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return cmd
}

func (m *FolderPickerModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true)

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Render(m.picker.CurrentDirectory))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n\n")

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("Enter/l: Open | h/Backspace: Up | s: Select this folder | Esc: Cancel")
	b.WriteString(help)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(m.width - 4)

	return boxStyle.Render(b.String())
}
