package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EditViewModel shows the pending state of the account being edited.
type EditViewModel struct {
	name              string
	localDirectory    string
	remoteDirectories []string
	busy              bool
	width             int
	height            int
}

func NewEditView() *EditViewModel {
	return &EditViewModel{}
}

func (m *EditViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *EditViewModel) SetAccount(name, localDirectory string, remoteDirectories []string) {
	m.name = name
	m.localDirectory = localDirectory
	m.remoteDirectories = append([]string(nil), remoteDirectories...)
}

func (m *EditViewModel) SetBusy(busy bool) {
	m.busy = busy
}

func (m *EditViewModel) IsBusy() bool {
	return m.busy
}

func (m *EditViewModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")).
		Bold(true)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))

	b.WriteString(titleStyle.Render("Edit " + m.name))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Local directory: "))
	b.WriteString(valueStyle.Render(m.localDirectory))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Remote directories:"))
	b.WriteString("\n")
	for _, directory := range m.remoteDirectories {
		b.WriteString(valueStyle.Render("  /" + strings.Trim(directory, "/")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	helpText := "l: Change local directory | r: Change remote directories | Ctrl+S: Save | Ctrl+D: Delete | Esc: Close"
	if m.busy {
		helpText = "Working..."
	}
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render(helpText)
	b.WriteString(help)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(m.width - 4)

	return boxStyle.Render(b.String())
}
