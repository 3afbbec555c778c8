package views

import (
	"strings"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/lifecycle"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldURL = iota
	fieldEmail
	fieldPassword
	fieldName
)

// CredentialsFormModel collects connection details. The create form asks for
// an account name too; the edit variant reuses the account's name.
type CredentialsFormModel struct {
	title      string
	inputs     []textinput.Model
	inputFocus int
	active     bool
	busy       bool
	width      int
	height     int
}

func NewCreateForm() *CredentialsFormModel {
	return newCredentialsForm("Add New Account", true)
}

func NewCredentialsForm() *CredentialsFormModel {
	return newCredentialsForm("Change Remote Directories", false)
}

func newCredentialsForm(title string, withName bool) *CredentialsFormModel {
	urlInput := textinput.New()
	urlInput.Placeholder = "https://bewcloud.example.com/dav"
	urlInput.CharLimit = 256

	emailInput := textinput.New()
	emailInput.Placeholder = "jane@example.com"
	emailInput.CharLimit = 256

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.CharLimit = 256
	passwordInput.EchoMode = textinput.EchoPassword

	inputs := []textinput.Model{urlInput, emailInput, passwordInput}

	if withName {
		nameInput := textinput.New()
		nameInput.Placeholder = "bewcloud"
		nameInput.CharLimit = 64
		inputs = append(inputs, nameInput)
	}

	return &CredentialsFormModel{
		title:  title,
		inputs: inputs,
	}
}

func (m *CredentialsFormModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = width - 12
	}
}

// Activate shows the form. Values typed earlier are kept so a failed attempt
// can be retried.
func (m *CredentialsFormModel) Activate() {
	m.active = true
	m.busy = false
	m.focus(m.inputFocus)
}

func (m *CredentialsFormModel) Deactivate() {
	m.active = false
	m.busy = false
	m.blurAll()
}

func (m *CredentialsFormModel) Reset() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
	}
	m.inputFocus = 0
	if m.active {
		m.focus(0)
	}
}

func (m *CredentialsFormModel) IsActive() bool {
	return m.active
}

func (m *CredentialsFormModel) SetBusy(busy bool) {
	m.busy = busy
}

func (m *CredentialsFormModel) IsBusy() bool {
	return m.busy
}

func (m *CredentialsFormModel) Credentials() lifecycle.Credentials {
	credentials := lifecycle.Credentials{
		URL:      strings.TrimSpace(m.inputs[fieldURL].Value()),
		Username: strings.TrimSpace(m.inputs[fieldEmail].Value()),
		Password: m.inputs[fieldPassword].Value(),
	}
	if len(m.inputs) > fieldName {
		credentials.Name = strings.TrimSpace(m.inputs[fieldName].Value())
	}
	return credentials
}

// ClearPassword drops the password once it has been used.
func (m *CredentialsFormModel) ClearPassword() {
	m.inputs[fieldPassword].SetValue("")
}

func (m *CredentialsFormModel) Update(msg tea.Msg) tea.Cmd {
	if !m.active || m.busy {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			m.focus((m.inputFocus + 1) % len(m.inputs))
			return nil
		case "shift+tab", "up":
			m.focus((m.inputFocus - 1 + len(m.inputs)) % len(m.inputs))
			return nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	return cmd
}

func (m *CredentialsFormModel) focus(index int) {
	m.blurAll()
	m.inputFocus = index
	m.inputs[index].Focus()
}

func (m *CredentialsFormModel) blurAll() {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *CredentialsFormModel) View() string {
	if !m.active {
		return ""
	}

	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Render(m.title + "\n\n")
	b.WriteString(title)

	labels := []string{"URL:", "Email:", "Password:", "Account name:"}
	for i := range m.inputs {
		b.WriteString(labels[i] + "\n")
		b.WriteString(m.inputs[i].View() + "\n\n")
	}

	helpText := "Tab: Next | Shift+Tab: Previous | Enter: Connect | Esc: Cancel"
	if m.busy {
		helpText = "Connecting..."
	}
	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render(helpText)
	b.WriteString(help)

	return b.String()
}
