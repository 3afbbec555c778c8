package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// KeyBinding maps keys to a handler in the views where it applies.
type KeyBinding struct {
	Keys        []string
	Description string
	AvailableIn []ViewState
	Handler     func(Model) (Model, tea.Cmd)
}

type Command struct {
	Names       []string
	Description string
	Handler     func(Model, []string) (Model, tea.Cmd)
}

type CommandRegistry struct {
	keyBindings []*KeyBinding
	commands    []*Command
}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{}

	r.keyBindings = []*KeyBinding{
		{Keys: []string{"enter"}, Description: "Edit", AvailableIn: []ViewState{ViewAccounts}, Handler: handleEditKey},
		{Keys: []string{"a"}, Description: "Add account", AvailableIn: []ViewState{ViewAccounts}, Handler: handleAddKey},
		{Keys: []string{"s"}, Description: "Sync now", AvailableIn: []ViewState{ViewAccounts}, Handler: handleSyncKey},
		{Keys: []string{"l"}, Description: "Logs", AvailableIn: []ViewState{ViewAccounts}, Handler: handleLogsKey},
		{Keys: []string{":"}, Description: "Command", AvailableIn: []ViewState{ViewAccounts}, Handler: handleCommandKey},
		{Keys: []string{"q"}, Description: "Quit", AvailableIn: []ViewState{ViewAccounts}, Handler: handleQuitKey},
		{Keys: []string{"l"}, Description: "Local directory", AvailableIn: []ViewState{ViewEdit}, Handler: handleChangeLocalKey},
		{Keys: []string{"r"}, Description: "Remote directories", AvailableIn: []ViewState{ViewEdit}, Handler: handleChangeRemoteKey},
		{Keys: []string{"ctrl+s"}, Description: "Save", AvailableIn: []ViewState{ViewEdit}, Handler: handleSaveKey},
		{Keys: []string{"ctrl+d"}, Description: "Delete", AvailableIn: []ViewState{ViewEdit}, Handler: handleDeleteKey},
		{Keys: []string{"esc", "q"}, Description: "Close", AvailableIn: []ViewState{ViewEdit}, Handler: handleCloseEditKey},
	}

	r.commands = []*Command{
		{Names: []string{"sync", "s"}, Description: "Sync all accounts", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return handleSyncKey(m) }},
		{Names: []string{"add", "a"}, Description: "Add account", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return handleAddKey(m) }},
		{Names: []string{"logs", "l"}, Description: "Show logs", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return handleLogsKey(m) }},
		{Names: []string{"quit", "q"}, Description: "Quit", Handler: func(m Model, _ []string) (Model, tea.Cmd) { return m, tea.Quit }},
	}

	return r
}

// CommandNames lists the primary name of every command.
func (r *CommandRegistry) CommandNames() []string {
	names := make([]string, len(r.commands))
	for i, command := range r.commands {
		names[i] = command.Names[0]
	}
	return names
}

func (r *CommandRegistry) HandleKey(m Model, key string) (Model, tea.Cmd, bool) {
	for _, binding := range r.keyBindings {
		if !binding.availableIn(m.state) {
			continue
		}
		for _, k := range binding.Keys {
			if k == key {
				newModel, cmd := binding.Handler(m)
				return newModel, cmd, true
			}
		}
	}
	return m, nil, false
}

// ExecuteCommand runs a command typed into the command bar, with or without
// the leading colon.
func (r *CommandRegistry) ExecuteCommand(m Model, input string) (Model, tea.Cmd) {
	parts := strings.Fields(strings.TrimPrefix(strings.TrimSpace(input), ":"))
	if len(parts) == 0 {
		return m, nil
	}

	name, args := parts[0], parts[1:]
	for _, command := range r.commands {
		for _, n := range command.Names {
			if n == name {
				return command.Handler(m, args)
			}
		}
	}

	m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s", name), true)
	return m, nil
}

func (r *CommandRegistry) GetContextualShortcuts(state ViewState) []string {
	var shortcuts []string
	for _, binding := range r.keyBindings {
		if binding.availableIn(state) {
			shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", binding.Keys[0], binding.Description))
		}
	}
	return shortcuts
}

func (b *KeyBinding) availableIn(state ViewState) bool {
	for _, s := range b.AvailableIn {
		if s == state {
			return true
		}
	}
	return false
}
