package views

import (
	"fmt"
	"time"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const lastSyncLayout = "2 January 2006 15:04"

// FormatLastSync renders a sync time as a long British date in local time.
func FormatLastSync(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format(lastSyncLayout)
}

type AccountItem struct {
	account domain.Account
}

func (i AccountItem) FilterValue() string { return i.account.RemoteName }
func (i AccountItem) Title() string {
	return fmt.Sprintf("%s // Last sync: %s", i.account.RemoteName, FormatLastSync(i.account.LastSyncTime))
}
func (i AccountItem) Description() string {
	description := i.account.LocalDirectory
	if i.account.HasSynced() {
		description += " (" + humanize.Time(i.account.LastSyncTime) + ")"
	}
	return description
}

type AccountsViewModel struct {
	list   list.Model
	width  int
	height int
}

func NewAccountsView() *AccountsViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Accounts"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return &AccountsViewModel{list: l}
}

func (m *AccountsViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-12)
}

func (m *AccountsViewModel) SetAccounts(accounts []domain.Account) {
	items := make([]list.Item, len(accounts))
	for i, account := range accounts {
		items[i] = AccountItem{account: account}
	}
	m.list.SetItems(items)
}

func (m *AccountsViewModel) Len() int {
	return len(m.list.Items())
}

func (m *AccountsViewModel) SelectedAccount() *domain.Account {
	item, ok := m.list.SelectedItem().(AccountItem)
	if !ok {
		return nil
	}
	account := item.account
	return &account
}

func (m *AccountsViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *AccountsViewModel) View() string {
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\nEnter: Edit | a: Add | s: Sync now | l: Logs | q: Quit")

	if m.Len() == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Padding(1, 2).
			Render("No configured accounts found. Create one below!")
		return empty + help
	}

	return m.list.View() + help
}
