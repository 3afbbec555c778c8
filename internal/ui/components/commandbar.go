package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type CommandBarModel struct {
	textInput textinput.Model
	width     int
	active    bool
	history   []string
	cursor    int
}

func NewCommandBar(suggestions []string) *CommandBarModel {
	ti := textinput.New()
	ti.Placeholder = "sync | add | logs | q"
	ti.CharLimit = 256
	ti.Width = 50
	ti.ShowSuggestions = len(suggestions) > 0

	prefixed := make([]string, len(suggestions))
	for i, suggestion := range suggestions {
		prefixed[i] = ":" + suggestion
	}
	ti.SetSuggestions(prefixed)

	return &CommandBarModel{textInput: ti}
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 10 {
		m.textInput.Width = width - 10
	}
}

func (m *CommandBarModel) Activate() {
	m.active = true
	m.cursor = len(m.history)
	m.textInput.Focus()
	m.textInput.SetValue(":")
	m.textInput.CursorEnd()
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.textInput.Blur()
	m.textInput.SetValue("")
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Value() string {
	return m.textInput.Value()
}

// Submit returns the entered command, records it in the history and closes
// the bar.
func (m *CommandBarModel) Submit() string {
	value := strings.TrimSpace(m.textInput.Value())
	if value != "" && value != ":" {
		m.history = append(m.history, value)
	}
	m.Deactivate()
	return value
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.textInput.SetValue(m.history[m.cursor])
				m.textInput.CursorEnd()
			}
			return nil
		case "down":
			if m.cursor < len(m.history)-1 {
				m.cursor++
				m.textInput.SetValue(m.history[m.cursor])
			} else {
				m.cursor = len(m.history)
				m.textInput.SetValue(":")
			}
			m.textInput.CursorEnd()
			return nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return cmd
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#1F2937")).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Width(m.width)

	return style.Render(" " + m.textInput.View())
}
