package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/lifecycle"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/ui/components"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/ui/views"
	tea "github.com/charmbracelet/bubbletea"
)

type ViewState int

const (
	ViewAccounts ViewState = iota
	ViewCreate
	ViewEdit
)

func (s ViewState) String() string {
	switch s {
	case ViewAccounts:
		return "Accounts"
	case ViewCreate:
		return "Add Account"
	case ViewEdit:
		return "Edit Account"
	default:
		return "Unknown"
	}
}

type pickerPurpose int

const (
	pickCreateLocal pickerPurpose = iota
	pickEditLocal
)

type chooserPurpose int

const (
	chooseForCreate chooserPurpose = iota
	chooseForEdit
)

type confirmPurpose int

const (
	confirmNone confirmPurpose = iota
	confirmNonEmpty
	confirmDelete
)

// Dependencies are the collaborators the UI drives.
type Dependencies struct {
	Repository domain.Repository
	Host       domain.Host
	Discoverer domain.Discoverer
	// Alerts must be the same queue the discoverer alerts through.
	Alerts *AlertQueue
	// Changes signals settings file changes; nil disables live reload.
	Changes <-chan struct{}
	// SyncEvents reports background sync runs; nil leaves the sync status
	// at what the UI requested.
	SyncEvents   <-chan domain.SyncEvent
	SettingsPath string
}

type Model struct {
	state           ViewState
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	accountsView    *views.AccountsViewModel
	createForm      *views.CredentialsFormModel
	credentialsForm *views.CredentialsFormModel
	chooserView     *views.ChooserViewModel
	folderPicker    *views.FolderPickerModel
	editView        *views.EditViewModel
	dialog          *views.DialogModel
	logsView        *views.LogsViewModel
	repository      domain.Repository
	createFlow      *lifecycle.CreateFlow
	editFlow        *lifecycle.EditFlow
	syncer          lifecycle.SyncTrigger
	alerts          *AlertQueue
	changes         <-chan struct{}
	syncEvents      <-chan domain.SyncEvent
	ctx             context.Context
	commandRegistry *CommandRegistry

	picker  pickerPurpose
	chooser chooserPurpose
	confirm confirmPurpose
	// set once the create form was opened for an empty registry, so closing
	// it is not undone by the next reload
	autoOpened bool
}

func NewModel(deps Dependencies) Model {
	alerts := deps.Alerts
	if alerts == nil {
		alerts = NewAlertQueue()
	}

	syncer := lifecycle.NewSyncer(deps.Repository, deps.Host)
	registry := NewCommandRegistry()

	statusBar := components.NewStatusBar()
	statusBar.SetHint(deps.SettingsPath)

	return Model{
		state:           ViewAccounts,
		topBar:          components.NewTopBar(),
		statusBar:       statusBar,
		commandBar:      components.NewCommandBar(registry.CommandNames()),
		accountsView:    views.NewAccountsView(),
		createForm:      views.NewCreateForm(),
		credentialsForm: views.NewCredentialsForm(),
		chooserView:     views.NewChooserView(),
		folderPicker:    views.NewFolderPicker(),
		editView:        views.NewEditView(),
		dialog:          views.NewDialog(),
		logsView:        views.NewLogsView(),
		repository:      deps.Repository,
		createFlow:      lifecycle.NewCreateFlow(deps.Host, deps.Discoverer, alerts, syncer),
		editFlow:        lifecycle.NewEditFlow(deps.Host, deps.Discoverer, alerts, syncer),
		syncer:          syncer,
		alerts:          alerts,
		changes:         deps.Changes,
		syncEvents:      deps.SyncEvents,
		ctx:             context.Background(),
		commandRegistry: registry,
	}
}

func (m Model) Init() tea.Cmd {
	m.updateShortcuts()
	return tea.Batch(m.loadAccounts(), m.runSync(), m.waitForRegistryChange(), m.waitForSyncEvent())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.dialog.SetWidth(msg.Width)
		m.accountsView.SetSize(msg.Width, msg.Height)
		m.createForm.SetSize(msg.Width, msg.Height)
		m.credentialsForm.SetSize(msg.Width, msg.Height)
		m.chooserView.SetSize(msg.Width, msg.Height)
		m.folderPicker.SetSize(msg.Width, msg.Height)
		m.editView.SetSize(msg.Width, msg.Height)
		m.logsView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m, cmd = m.handleKey(msg)

	case AccountsLoadedMsg:
		m, cmd = m.handleAccountsLoaded(msg)

	case RegistryChangedMsg:
		cmd = tea.Batch(m.loadAccounts(), m.waitForRegistryChange())

	case SyncRequestedMsg:
		if msg.started {
			m.statusBar.SetMessage("Sync requested", false)
		} else {
			m.topBar.SetSyncUnset()
			m.statusBar.SetMessage(lifecycle.MsgNoAccounts, false)
		}

	case SyncEventMsg:
		m, cmd = m.handleSyncEvent(msg)

	case ConnectedMsg:
		m, cmd = m.handleConnected(msg)

	case views.FolderPickedMsg:
		m, cmd = m.handleFolderPicked(msg)

	case LocalDirectoryOutcomeMsg:
		m, cmd = m.handleLocalDirectoryOutcome(msg)

	case RemoteDirectoriesFetchedMsg:
		m, cmd = m.handleRemoteDirectoriesFetched(msg)

	case EditResultMsg:
		m, cmd = m.handleEditResult(msg)

	default:
		// directory listings and cursor blinks of the active component
		switch {
		case m.folderPicker.IsActive():
			cmd = m.folderPicker.Update(msg)
		case m.commandBar.IsActive():
			cmd = m.commandBar.Update(msg)
		case m.credentialsForm.IsActive():
			cmd = m.credentialsForm.Update(msg)
		case m.state == ViewCreate:
			cmd = m.createForm.Update(msg)
		case m.state == ViewAccounts:
			cmd = m.accountsView.Update(msg)
		}
	}

	m.showPendingAlert()
	return m, cmd
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	switch {
	case m.dialog.IsActive():
		content = m.dialog.View()
	case m.logsView.IsActive():
		content = m.logsView.View()
	case m.folderPicker.IsActive():
		content = m.folderPicker.View()
	case m.chooserView.IsActive():
		content = m.chooserView.View()
	case m.credentialsForm.IsActive():
		content = FormBoxStyle.Width(m.width - 4).Render(m.credentialsForm.View())
	default:
		switch m.state {
		case ViewAccounts:
			content = m.accountsView.View()
		case ViewCreate:
			content = m.accountsView.View() + "\n\n" + FormBoxStyle.Width(m.width-4).Render(m.createForm.View())
		case ViewEdit:
			content = m.editView.View()
		}
	}

	topBar := m.topBar.View()

	if commandBar := m.commandBar.View(); commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}

	return topBar + "\n" + content + "\n" + m.statusBar.View()
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	key := msg.String()

	if m.dialog.IsActive() {
		return m.handleDialogKey(key)
	}

	if m.commandBar.IsActive() {
		switch key {
		case "enter":
			input := m.commandBar.Submit()
			logger.Log("UI: Executing command: %s", input)
			return m.commandRegistry.ExecuteCommand(m, input)
		case "esc":
			m.commandBar.Deactivate()
			return m, nil
		default:
			return m, m.commandBar.Update(msg)
		}
	}

	if m.logsView.IsActive() {
		switch key {
		case "esc", "q":
			m.logsView.Deactivate()
			return m, nil
		default:
			return m, m.logsView.Update(msg)
		}
	}

	if m.folderPicker.IsActive() {
		return m, m.folderPicker.Update(msg)
	}

	if m.chooserView.IsActive() {
		return m.handleChooserKey(msg)
	}

	if m.credentialsForm.IsActive() {
		return m.handleCredentialsKey(msg)
	}

	if m.state == ViewCreate {
		return m.handleCreateFormKey(msg)
	}

	if newModel, cmd, handled := m.commandRegistry.HandleKey(m, key); handled {
		return newModel, cmd
	}

	if m.state == ViewAccounts {
		return m, m.accountsView.Update(msg)
	}
	return m, nil
}

func (m Model) handleDialogKey(key string) (Model, tea.Cmd) {
	if m.dialog.Kind() == views.DialogAlert {
		m.dialog.Deactivate()
		return m, nil
	}

	var answer bool
	switch key {
	case "y", "Y":
		answer = true
	case "n", "N", "esc":
		answer = false
	default:
		return m, nil
	}

	purpose := m.confirm
	m.confirm = confirmNone
	m.dialog.Deactivate()

	switch purpose {
	case confirmNonEmpty:
		m.createForm.SetBusy(true)
		return m, m.confirmNonEmpty(answer)
	case confirmDelete:
		if !answer {
			return m, nil
		}
		m.editView.SetBusy(true)
		return m, m.deleteRemote()
	}
	return m, nil
}

func (m Model) handleCreateFormKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.createForm.IsBusy() {
			return m, nil
		}
		m.createForm.SetBusy(true)
		return m, m.connect(m.createForm.Credentials())
	case "esc":
		return m.closeCreateForm(), nil
	default:
		return m, m.createForm.Update(msg)
	}
}

func (m Model) handleCredentialsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.credentialsForm.IsBusy() {
			return m, nil
		}
		m.credentialsForm.SetBusy(true)
		return m, m.fetchRemoteDirectories(m.credentialsForm.Credentials())
	case "esc":
		m.credentialsForm.Deactivate()
		m.credentialsForm.Reset()
		return m, nil
	default:
		return m, m.credentialsForm.Update(msg)
	}
}

func (m Model) handleChooserKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.chooser == chooseForEdit {
			if m.editFlow.CommitDirectories() {
				m.chooserView.Deactivate()
				m.refreshEditView()
			}
			return m, nil
		}

		defaultPath, ok := m.createFlow.ChooseDirectories()
		if !ok {
			return m, nil
		}
		m.chooserView.Deactivate()
		m.picker = pickCreateLocal
		return m, m.folderPicker.Activate("Choose local directory", defaultPath)

	case "esc":
		m.chooserView.Deactivate()
		if m.chooser == chooseForEdit {
			m.editFlow.CloseChooser()
		}
		return m, nil

	default:
		return m, m.chooserView.Update(msg)
	}
}

func (m Model) handleAccountsLoaded(msg AccountsLoadedMsg) (Model, tea.Cmd) {
	config := msg.config
	if config == nil {
		config = &domain.Config{}
	}

	m.accountsView.SetAccounts(config.Accounts)

	var latest time.Time
	for _, account := range config.Accounts {
		if account.LastSyncTime.After(latest) {
			latest = account.LastSyncTime
		}
	}
	m.topBar.SetAccounts(len(config.Accounts), latest)

	if m.state == ViewEdit && m.editFlow.IsOpen() {
		m = m.reconcileEditDialog(config)
	}

	if !config.IsEmpty() {
		m.autoOpened = false
		return m, nil
	}

	if m.state == ViewAccounts && !m.autoOpened {
		m.autoOpened = true
		return m.openCreateForm(), nil
	}
	return m, nil
}

// reconcileEditDialog follows the edited account across registry reloads:
// the dialog closes when the account is gone and its fields are derived again
// when the pairing changed on disk.
func (m Model) reconcileEditDialog(config *domain.Config) Model {
	name := m.editFlow.Account().RemoteName
	account, ok := config.FindAccount(name)
	if !ok {
		logger.Log("UI: Account %s no longer configured, closing edit dialog", name)
		m.dismissEditOverlays()
		m = m.closeEditDialog()
		m.statusBar.SetMessage(fmt.Sprintf("Account %s was removed", name), true)
		return m
	}

	if m.editFlow.Refresh(*account) {
		m.dismissEditOverlays()
		m.refreshEditView()
		m.statusBar.SetMessage(fmt.Sprintf("Account %s changed on disk", name), false)
	}
	return m
}

// dismissEditOverlays closes the chooser and folder picker opened from the
// edit dialog, whose results would apply to stale fields.
func (m Model) dismissEditOverlays() {
	if m.chooserView.IsActive() && m.chooser == chooseForEdit {
		m.chooserView.Deactivate()
	}
	if m.folderPicker.IsActive() && m.picker == pickEditLocal {
		m.folderPicker.Deactivate()
	}
}

func (m Model) handleConnected(msg ConnectedMsg) (Model, tea.Cmd) {
	m.createForm.SetBusy(false)
	if m.state != ViewCreate {
		return m, nil
	}

	if msg.opened {
		m.chooser = chooseForCreate
		m.chooserView.Activate(m.createFlow.Chooser())
		return m, nil
	}

	if m.alerts.Len() == 0 && m.createFlow.State() == lifecycle.StateCredentialsEntered {
		m.statusBar.SetMessage("No remote directories to choose from", true)
	}
	return m, nil
}

func (m Model) handleFolderPicked(msg views.FolderPickedMsg) (Model, tea.Cmd) {
	switch m.picker {
	case pickEditLocal:
		if m.editFlow.ChangeLocalDirectory(msg.Path) {
			m.refreshEditView()
		}
		return m, nil
	default:
		if m.state != ViewCreate {
			return m, nil
		}
		m.createForm.SetBusy(true)
		return m, m.chooseLocalDirectory(msg.Path)
	}
}

func (m Model) handleLocalDirectoryOutcome(msg LocalDirectoryOutcomeMsg) (Model, tea.Cmd) {
	m.createForm.SetBusy(false)

	switch msg.outcome {
	case lifecycle.OutcomeNeedsConfirmation:
		m.confirm = confirmNonEmpty
		m.dialog.ShowConfirm(lifecycle.NonEmptyWarning(msg.path))
		return m, nil

	case lifecycle.OutcomeDeclined, lifecycle.OutcomeFailed:
		m.picker = pickCreateLocal
		return m, m.folderPicker.Activate("Choose local directory", m.createFlow.LocalDirectoryDefault())

	case lifecycle.OutcomeAborted:
		m.createForm.Reset()
		return m, nil

	case lifecycle.OutcomeSucceeded:
		m.createForm.Deactivate()
		m.createForm.Reset()
		m.state = ViewAccounts
		m.topBar.SetView(m.state.String())
		m.updateShortcuts()
		m.statusBar.SetMessage("Account added, sync requested", false)
		return m, m.loadAccounts()
	}

	return m, nil
}

func (m Model) handleRemoteDirectoriesFetched(msg RemoteDirectoriesFetchedMsg) (Model, tea.Cmd) {
	m.credentialsForm.SetBusy(false)
	m.credentialsForm.ClearPassword()

	if !msg.opened || m.state != ViewEdit {
		return m, nil
	}

	m.credentialsForm.Deactivate()
	m.credentialsForm.Reset()
	m.chooser = chooseForEdit
	m.chooserView.Activate(m.editFlow.Chooser())
	return m, nil
}

func (m Model) handleEditResult(msg EditResultMsg) (Model, tea.Cmd) {
	m.editView.SetBusy(false)

	if !msg.ok {
		return m, nil
	}

	m.state = ViewAccounts
	m.topBar.SetView(m.state.String())
	m.updateShortcuts()

	if msg.operation == operationDelete {
		m.statusBar.SetMessage("Account deleted, sync requested", false)
	} else {
		m.statusBar.SetMessage("Account updated, sync requested", false)
	}
	return m, m.loadAccounts()
}

func (m Model) openCreateForm() Model {
	m.createFlow.Cancel()
	m.statusBar.ClearMessage()
	m.createForm.Reset()
	m.createForm.Activate()
	m.state = ViewCreate
	m.topBar.SetView(m.state.String())
	m.updateShortcuts()
	return m
}

func (m Model) closeCreateForm() Model {
	m.createFlow.Cancel()
	m.createForm.Deactivate()
	m.createForm.Reset()
	m.state = ViewAccounts
	m.topBar.SetView(m.state.String())
	m.updateShortcuts()
	return m
}

func (m Model) openEditDialog(account domain.Account) Model {
	m.editFlow.Open(account)
	m.statusBar.ClearMessage()
	m.refreshEditView()
	m.state = ViewEdit
	m.topBar.SetView(m.state.String())
	m.updateShortcuts()
	return m
}

func (m Model) closeEditDialog() Model {
	m.editFlow.Close()
	m.credentialsForm.Deactivate()
	m.credentialsForm.Reset()
	m.state = ViewAccounts
	m.topBar.SetView(m.state.String())
	m.updateShortcuts()
	return m
}

func (m Model) refreshEditView() {
	account := m.editFlow.Account()
	m.editView.SetAccount(account.RemoteName, m.editFlow.LocalDirectory(), m.editFlow.ChosenDirectories())
}

// showPendingAlert moves the next queued alert into the dialog once the
// previous one was dismissed.
func (m Model) showPendingAlert() {
	if m.dialog.IsActive() {
		return
	}
	if message, ok := m.alerts.Next(); ok {
		m.dialog.ShowAlert(message)
	}
}

func (m Model) updateShortcuts() {
	m.topBar.SetShortcuts(m.commandRegistry.GetContextualShortcuts(m.state))
}

func (m Model) loadAccounts() tea.Cmd {
	repository := m.repository
	return func() tea.Msg {
		config, err := repository.Load()
		if err != nil {
			logger.LogError("LOAD_SETTINGS", "registry", err)
			return AccountsLoadedMsg{config: &domain.Config{}}
		}
		return AccountsLoadedMsg{config: config}
	}
}

func (m Model) runSync() tea.Cmd {
	syncer := m.syncer
	return func() tea.Msg {
		return SyncRequestedMsg{started: syncer.RunSync()}
	}
}

func (m Model) waitForRegistryChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return RegistryChangedMsg{}
	}
}

func (m Model) waitForSyncEvent() tea.Cmd {
	if m.syncEvents == nil {
		return nil
	}
	events := m.syncEvents
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return SyncEventMsg{event: event}
	}
}

func (m Model) handleSyncEvent(msg SyncEventMsg) (Model, tea.Cmd) {
	event := msg.event
	if event.Running {
		m.topBar.SetSyncRunning(event.At)
		return m, m.waitForSyncEvent()
	}

	m.topBar.SetSyncDone(event.At, event.Failed)
	switch {
	case event.Failed > 0:
		m.statusBar.SetMessage(fmt.Sprintf("Sync finished: %d accounts failed, see logs", event.Failed), true)
	case event.Err != nil:
		m.statusBar.SetMessage("Sync failed, see logs", true)
	default:
		m.statusBar.SetMessage("Sync finished", false)
	}
	return m, tea.Batch(m.loadAccounts(), m.waitForSyncEvent())
}

func (m Model) connect(credentials lifecycle.Credentials) tea.Cmd {
	flow, ctx := m.createFlow, m.ctx
	return func() tea.Msg {
		return ConnectedMsg{opened: flow.Connect(ctx, credentials)}
	}
}

func (m Model) chooseLocalDirectory(path string) tea.Cmd {
	flow, ctx := m.createFlow, m.ctx
	return func() tea.Msg {
		return LocalDirectoryOutcomeMsg{outcome: flow.ChooseLocalDirectory(ctx, path), path: path}
	}
}

func (m Model) confirmNonEmpty(confirmed bool) tea.Cmd {
	flow, ctx := m.createFlow, m.ctx
	return func() tea.Msg {
		path := flow.LocalDirectory()
		return LocalDirectoryOutcomeMsg{outcome: flow.ConfirmNonEmpty(ctx, confirmed), path: path}
	}
}

func (m Model) fetchRemoteDirectories(credentials lifecycle.Credentials) tea.Cmd {
	flow, ctx := m.editFlow, m.ctx
	return func() tea.Msg {
		return RemoteDirectoriesFetchedMsg{opened: flow.FetchRemoteDirectories(ctx, credentials)}
	}
}

func (m Model) saveRemote() tea.Cmd {
	flow, ctx := m.editFlow, m.ctx
	return func() tea.Msg {
		return EditResultMsg{operation: operationUpdate, ok: flow.Save(ctx)}
	}
}

func (m Model) deleteRemote() tea.Cmd {
	flow, ctx := m.editFlow, m.ctx
	return func() tea.Msg {
		return EditResultMsg{operation: operationDelete, ok: flow.Delete(ctx)}
	}
}

const (
	operationUpdate = "update"
	operationDelete = "delete"
)

type AccountsLoadedMsg struct {
	config *domain.Config
}

type RegistryChangedMsg struct{}

type SyncRequestedMsg struct {
	started bool
}

type SyncEventMsg struct {
	event domain.SyncEvent
}

type ConnectedMsg struct {
	opened bool
}

type LocalDirectoryOutcomeMsg struct {
	outcome lifecycle.Outcome
	path    string
}

type RemoteDirectoriesFetchedMsg struct {
	opened bool
}

type EditResultMsg struct {
	operation string
	ok        bool
}
