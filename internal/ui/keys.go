package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func handleEditKey(m Model) (Model, tea.Cmd) {
	account := m.accountsView.SelectedAccount()
	if account == nil {
		return m, nil
	}
	return m.openEditDialog(*account), nil
}

func handleAddKey(m Model) (Model, tea.Cmd) {
	if m.state != ViewAccounts {
		return m, nil
	}
	return m.openCreateForm(), nil
}

func handleSyncKey(m Model) (Model, tea.Cmd) {
	m.statusBar.SetMessage("Requesting sync...", false)
	return m, m.runSync()
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleCommandKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	return m, tea.Quit
}

func handleChangeLocalKey(m Model) (Model, tea.Cmd) {
	if m.editView.IsBusy() {
		return m, nil
	}
	m.picker = pickEditLocal
	return m, m.folderPicker.Activate("Choose local directory", m.editFlow.LocalDirectoryDefault())
}

func handleChangeRemoteKey(m Model) (Model, tea.Cmd) {
	if m.editView.IsBusy() {
		return m, nil
	}
	m.credentialsForm.Reset()
	m.credentialsForm.Activate()
	return m, nil
}

func handleSaveKey(m Model) (Model, tea.Cmd) {
	if m.editView.IsBusy() {
		return m, nil
	}
	m.editView.SetBusy(true)
	return m, m.saveRemote()
}

func handleDeleteKey(m Model) (Model, tea.Cmd) {
	if m.editView.IsBusy() {
		return m, nil
	}
	m.confirm = confirmDelete
	m.dialog.ShowConfirm(m.editFlow.DeleteConfirmation())
	return m, nil
}

func handleCloseEditKey(m Model) (Model, tea.Cmd) {
	return m.closeEditDialog(), nil
}
