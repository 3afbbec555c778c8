package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

type SyncState int

const (
	SyncIdle SyncState = iota
	SyncRunning
	SyncDone
	// SyncUnset means there is nothing to sync.
	SyncUnset
)

type TopBarModel struct {
	width        int
	accountCount int
	lastSync     time.Time
	syncState    SyncState
	syncAt       time.Time
	syncFailed   int
	currentView  string
	shortcuts    []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

const (
	fixedRows       = 4
	contextColWidth = 50
	colMargin       = 4
	maxValueWidth   = 38
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

// SetAccounts records the registry summary: how many pairings exist and the
// most recent sync among them. An empty registry shows the sync as unset
// unless a run is still going.
func (m *TopBarModel) SetAccounts(count int, lastSync time.Time) {
	m.accountCount = count
	m.lastSync = lastSync

	switch {
	case count == 0 && m.syncState != SyncRunning:
		m.SetSyncUnset()
	case count > 0 && m.syncState == SyncUnset:
		m.syncState = SyncIdle
	}
}

func (m *TopBarModel) SetSyncRunning(at time.Time) {
	m.syncState = SyncRunning
	m.syncAt = at
	m.syncFailed = 0
}

func (m *TopBarModel) SetSyncDone(at time.Time, failed int) {
	m.syncState = SyncDone
	m.syncAt = at
	m.syncFailed = failed
}

func (m *TopBarModel) SetSyncUnset() {
	m.syncState = SyncUnset
	m.syncAt = time.Time{}
	m.syncFailed = 0
}

func (m *TopBarModel) SyncState() SyncState {
	return m.syncState
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay()

	topSection := []string{titleOrangeStyle.Render("bewCloud Desktop Sync"), ""}

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string
		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 1 {
			padding1 = 1
		}
		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	return titleStyle.Width(m.width).Render(strings.Join(topSection, "\n"))
}

func (m *TopBarModel) buildContextInfo() []string {
	lastSync := "never"
	if !m.lastSync.IsZero() {
		lastSync = m.lastSync.Local().Format("2 Jan 2006 15:04")
	}

	syncState := m.syncStatusText()

	viewName := m.currentView
	if viewName == "" {
		viewName = "Accounts"
	}

	return []string{
		"👤 " + titleOrangeStyle.Render("Accounts: ") + valueWhiteStyle.Render(fmt.Sprintf("%d", m.accountCount)),
		"🕒 " + titleOrangeStyle.Render("Last sync: ") + valueWhiteStyle.Render(lastSync),
		"🔄 " + titleOrangeStyle.Render("Sync: ") + valueWhiteStyle.Render(syncState),
		"🎯 " + titleOrangeStyle.Render("View: ") + valueWhiteStyle.Render(truncate(viewName, maxValueWidth)),
	}
}

func (m *TopBarModel) syncStatusText() string {
	switch m.syncState {
	case SyncRunning:
		return "running since " + m.syncAt.Local().Format("15:04:05")
	case SyncDone:
		text := "done at " + m.syncAt.Local().Format("15:04:05")
		if m.syncFailed > 0 {
			text += fmt.Sprintf(", %d failed", m.syncFailed)
		}
		return text
	case SyncUnset:
		return "no accounts"
	default:
		return "idle"
	}
}

func (m *TopBarModel) buildShortcutsDisplay() ([]string, []string, int) {
	var formatted []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		line := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(strings.TrimSpace(parts[1]))
		formatted = append(formatted, line)

		if width := lipgloss.Width(line); width > maxWidth {
			maxWidth = width
		}
	}

	if len(formatted) <= fixedRows {
		return formatted, nil, maxWidth
	}
	return formatted[:fixedRows], formatted[fixedRows:], maxWidth
}

func truncate(value string, width int) string {
	if len(value) <= width {
		return value
	}
	return value[:width-3] + "..."
}
