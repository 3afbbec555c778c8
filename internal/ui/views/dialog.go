package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogAlert
	DialogConfirm
)

// DialogModel is a modal alert or yes/no question.
type DialogModel struct {
	kind    DialogKind
	message string
	width   int
}

func NewDialog() *DialogModel {
	return &DialogModel{}
}

func (m *DialogModel) SetWidth(width int) {
	m.width = width
}

func (m *DialogModel) ShowAlert(message string) {
	m.kind = DialogAlert
	m.message = message
}

func (m *DialogModel) ShowConfirm(message string) {
	m.kind = DialogConfirm
	m.message = message
}

func (m *DialogModel) Deactivate() {
	m.kind = DialogNone
	m.message = ""
}

func (m *DialogModel) IsActive() bool {
	return m.kind != DialogNone
}

func (m *DialogModel) Kind() DialogKind {
	return m.kind
}

func (m *DialogModel) Message() string {
	return m.message
}

func (m *DialogModel) View() string {
	if !m.IsActive() {
		return ""
	}

	var b strings.Builder

	border := lipgloss.Color("#7C3AED")
	title := "Confirm"
	help := "y: Yes | n/Esc: No"
	if m.kind == DialogAlert {
		border = lipgloss.Color("#EF4444")
		title = "Alert"
		help = "Press any key to continue"
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(border).
		Bold(true)

	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.message)
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render(help))

	width := m.width - 4
	if width > 80 {
		width = 80
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(width)

	return boxStyle.Render(b.String())
}
