package views

import (
	"fmt"
	"strings"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var logLevelColors = []struct {
	prefix string
	color  lipgloss.Color
}{
	{"[ERROR]", lipgloss.Color("#EF4444")},
	{"[EXEC]", lipgloss.Color("#3B82F6")},
	{"[FILE_WRITE]", lipgloss.Color("#F59E0B")},
	{"[FILE_OPEN]", lipgloss.Color("#10B981")},
}

type LogsViewModel struct {
	width      int
	height     int
	offset     int
	active     bool
	errorsOnly bool
	logs       []logger.LogEntry
}

func NewLogsView() *LogsViewModel {
	return &LogsViewModel{}
}

func (m *LogsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *LogsViewModel) Activate() {
	m.active = true
	m.errorsOnly = false
	m.reload()
}

func (m *LogsViewModel) Deactivate() {
	m.active = false
	m.offset = 0
}

func (m *LogsViewModel) IsActive() bool {
	return m.active
}

// reload snapshots the session log and scrolls to the newest entry.
func (m *LogsViewModel) reload() {
	entries := logger.GetLogs()
	if m.errorsOnly {
		filtered := entries[:0]
		for _, entry := range entries {
			if strings.HasPrefix(entry.Message, "[ERROR]") {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	m.logs = entries
	m.offset = m.maxOffset()
}

func (m *LogsViewModel) visibleLines() int {
	lines := m.height - 8
	if lines < 1 {
		return 1
	}
	return lines
}

func (m *LogsViewModel) maxOffset() int {
	maxOffset := len(m.logs) - m.visibleLines()
	if maxOffset < 0 {
		return 0
	}
	return maxOffset
}

func (m *LogsViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active {
		return nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if m.offset > 0 {
			m.offset--
		}
	case "down", "j":
		if m.offset < m.maxOffset() {
			m.offset++
		}
	case "pgup":
		m.offset = max(m.offset-m.visibleLines(), 0)
	case "pgdown":
		m.offset = min(m.offset+m.visibleLines(), m.maxOffset())
	case "g", "home":
		m.offset = 0
	case "G", "end":
		m.offset = m.maxOffset()
	case "e":
		m.errorsOnly = !m.errorsOnly
		m.reload()
	case "r":
		m.reload()
	}

	return nil
}

func (m *LogsViewModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Padding(1, 0)

	title := fmt.Sprintf("Session Logs (%d entries)", len(m.logs))
	if m.errorsOnly {
		title += " - errors only"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	if len(m.logs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Italic(true)
		b.WriteString(emptyStyle.Render("No logs yet"))
	} else {
		end := min(m.offset+m.visibleLines(), len(m.logs))
		for _, entry := range m.logs[m.offset:end] {
			lineStyle := lipgloss.NewStyle().Foreground(lineColor(entry.Message))
			b.WriteString(lineStyle.Render(fmt.Sprintf("[%s] %s", entry.Timestamp.Format("15:04:05.000"), entry.Message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	scrollInfo := ""
	if len(m.logs) > m.visibleLines() {
		scrollInfo = fmt.Sprintf(" | Showing %d-%d of %d", m.offset+1, min(m.offset+m.visibleLines(), len(m.logs)), len(m.logs))
	}

	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)
	b.WriteString(helpStyle.Render("j/k: Scroll | PgUp/PgDn: Page | g/G: Top/Bottom | e: Errors only | r: Refresh | Esc: Close" + scrollInfo))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Padding(1, 2).
		Width(m.width - 4)

	return boxStyle.Render(b.String())
}

func lineColor(message string) lipgloss.Color {
	for _, level := range logLevelColors {
		if strings.HasPrefix(message, level.prefix) {
			return level.color
		}
	}
	return lipgloss.Color("#E5E7EB")
}
