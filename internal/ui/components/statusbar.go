package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type StatusBarModel struct {
	width   int
	message string
	isError bool
	hint    string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

// SetHint sets the right-aligned text, such as the settings file location.
func (m *StatusBarModel) SetHint(hint string) {
	m.hint = hint
}

func (m *StatusBarModel) Message() string {
	return m.message
}

func (m *StatusBarModel) IsError() bool {
	return m.isError
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.isError = false
}

func (m *StatusBarModel) View() string {
	content := " " + m.message

	if m.hint != "" {
		gap := m.width - lipgloss.Width(content) - lipgloss.Width(m.hint) - 1
		if gap > 1 {
			content += strings.Repeat(" ", gap) + m.hint + " "
		}
	}

	if m.width > 3 && lipgloss.Width(content) > m.width {
		content = content[:m.width-3] + "..."
	} else if lipgloss.Width(content) < m.width {
		content += strings.Repeat(" ", m.width-lipgloss.Width(content))
	}

	bgColor := lipgloss.Color("#374151")
	if m.isError {
		bgColor = lipgloss.Color("#991B1B")
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(bgColor).
		Width(m.width)

	return style.Render(content)
}
