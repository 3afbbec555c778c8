package ui

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/lifecycle"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/ui/components"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/ui/views"
	tea "github.com/charmbracelet/bubbletea"
)

type mockRepository struct {
	mu     sync.Mutex
	config *domain.Config
}

func (m *mockRepository) Load() (*domain.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config, nil
}

func (m *mockRepository) set(config *domain.Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

type mockHost struct {
	repo         *mockRepository
	emptyResult  bool
	addResult    bool
	updateResult bool
	deleteResult bool

	runSyncCalls int
	addRequests  []domain.NewRemoteRequest
	updateCalls  []domain.UpdatedRemote
	deleteCalls  []domain.UpdatedRemote
}

func (m *mockHost) RunSync() {
	m.runSyncCalls++
}

func (m *mockHost) IsLocalDirectoryEmpty(ctx context.Context, path string) bool {
	return m.emptyResult
}

func (m *mockHost) AddRemote(ctx context.Context, remote domain.NewRemoteRequest) bool {
	m.addRequests = append(m.addRequests, remote)
	if m.addResult && m.repo != nil {
		m.repo.set(&domain.Config{Accounts: []domain.Account{{
			RemoteName:        remote.Name,
			LocalDirectory:    remote.LocalDirectory,
			RemoteDirectories: remote.RemoteDirectories,
		}}})
	}
	return m.addResult
}

func (m *mockHost) UpdateRemote(ctx context.Context, remote domain.UpdatedRemote) bool {
	m.updateCalls = append(m.updateCalls, remote)
	return m.updateResult
}

func (m *mockHost) DeleteRemote(ctx context.Context, remote domain.UpdatedRemote) bool {
	m.deleteCalls = append(m.deleteCalls, remote)
	return m.deleteResult
}

type mockDiscoverer struct {
	directories []domain.Directory
}

func (m *mockDiscoverer) ListRemoteDirectories(ctx context.Context, baseURL, username, password string) []domain.Directory {
	return m.directories
}

func accountsConfig() *domain.Config {
	return &domain.Config{Accounts: []domain.Account{{
		RemoteName:        "bewcloud",
		LocalDirectory:    "/home/user/sync",
		RemoteDirectories: []string{"Documents"},
	}}}
}

func createTestModel(repo *mockRepository, host *mockHost) Model {
	m := NewModel(Dependencies{
		Repository: repo,
		Host:       host,
		Discoverer: &mockDiscoverer{directories: []domain.Directory{{Name: "Documents"}, {Name: "Photos"}}},
	})
	return update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(m Model, msg tea.Msg) Model {
	updated, _ := m.Update(msg)
	return updated.(Model)
}

// run feeds msg to the model and then the message produced by the returned
// command, if any.
func run(m Model, msg tea.Msg) Model {
	updated, cmd := m.Update(msg)
	m = updated.(Model)
	if cmd == nil {
		return m
	}
	if next := cmd(); next != nil {
		if _, isBatch := next.(tea.BatchMsg); !isBatch {
			return update(m, next)
		}
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadAccounts(m Model) Model {
	return update(m, m.loadAccounts()())
}

func TestEmptyRegistry_OpensCreateForm(t *testing.T) {
	m := createTestModel(&mockRepository{config: &domain.Config{}}, &mockHost{})
	m = loadAccounts(m)

	if m.state != ViewCreate {
		t.Fatalf("expected create form to open, got %v", m.state)
	}
	if !m.createForm.IsActive() {
		t.Error("expected create form to be active")
	}
	if !strings.Contains(m.View(), "No configured accounts found. Create one below!") {
		t.Error("expected empty registry message in view")
	}
}

func TestEmptyRegistry_ClosedFormStaysClosedOnReload(t *testing.T) {
	m := createTestModel(&mockRepository{config: &domain.Config{}}, &mockHost{})
	m = loadAccounts(m)

	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != ViewAccounts {
		t.Fatalf("expected accounts view after esc, got %v", m.state)
	}

	m = loadAccounts(m)
	if m.state != ViewAccounts {
		t.Errorf("expected form to stay closed after reload, got %v", m.state)
	}
}

func TestAccountsLoaded_ShowsAccounts(t *testing.T) {
	m := createTestModel(&mockRepository{config: accountsConfig()}, &mockHost{})
	m = loadAccounts(m)

	if m.state != ViewAccounts {
		t.Errorf("expected accounts view, got %v", m.state)
	}
	if m.accountsView.Len() != 1 {
		t.Errorf("expected 1 account, got %d", m.accountsView.Len())
	}
	if !strings.Contains(m.View(), "bewcloud // Last sync: never") {
		t.Error("expected account line in view")
	}
}

func TestSyncKey_TriggersSyncOnce(t *testing.T) {
	host := &mockHost{}
	m := createTestModel(&mockRepository{config: accountsConfig()}, host)
	m = loadAccounts(m)

	m = run(m, keyRunes("s"))

	if host.runSyncCalls != 1 {
		t.Errorf("expected one sync run, got %d", host.runSyncCalls)
	}
	if m.statusBar.Message() != "Sync requested" {
		t.Errorf("unexpected status %q", m.statusBar.Message())
	}
}

func TestSyncKey_EmptyRegistryIsNoOp(t *testing.T) {
	host := &mockHost{}
	m := createTestModel(&mockRepository{config: &domain.Config{}}, host)

	m = run(m, keyRunes("s"))

	if host.runSyncCalls != 0 {
		t.Errorf("expected no sync run, got %d", host.runSyncCalls)
	}
	if m.statusBar.Message() != lifecycle.MsgNoAccounts {
		t.Errorf("unexpected status %q", m.statusBar.Message())
	}
}

func TestCreateAccount_EndToEnd(t *testing.T) {
	repo := &mockRepository{config: &domain.Config{}}
	host := &mockHost{repo: repo, emptyResult: true, addResult: true}
	m := createTestModel(repo, host)
	m = loadAccounts(m)

	m = update(m, m.connect(lifecycle.Credentials{
		URL:      "https://x/dav",
		Username: "jane@example.com",
		Password: "s3cret",
		Name:     "bewcloud",
	})())
	if !m.chooserView.IsActive() {
		t.Fatal("expected chooser to open")
	}

	m.chooserView.ToggleSelected()
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.folderPicker.IsActive() {
		t.Fatal("expected folder picker to open")
	}

	localDir := t.TempDir()
	m = update(m, views.FolderPickedMsg{Path: localDir})
	m = update(m, m.chooseLocalDirectory(localDir)())

	if len(host.addRequests) != 1 {
		t.Fatalf("expected one add call, got %d", len(host.addRequests))
	}
	if !reflect.DeepEqual(host.addRequests[0].RemoteDirectories, []string{"Documents"}) {
		t.Errorf("unexpected remote directories %v", host.addRequests[0].RemoteDirectories)
	}
	if m.state != ViewAccounts || m.createForm.IsActive() {
		t.Error("expected create form to close")
	}
	if host.runSyncCalls != 1 {
		t.Errorf("expected exactly one sync run, got %d", host.runSyncCalls)
	}
	if m.createFlow.State() != lifecycle.StateSucceeded {
		t.Errorf("expected flow to succeed, got %s", m.createFlow.State())
	}
}

func TestCreateAccount_NonEmptyFolderAsksForConfirmation(t *testing.T) {
	repo := &mockRepository{config: &domain.Config{}}
	host := &mockHost{repo: repo, emptyResult: false, addResult: true}
	m := createTestModel(repo, host)
	m = loadAccounts(m)

	m = update(m, m.connect(lifecycle.Credentials{URL: "https://x/dav", Name: "bewcloud"})())
	m.chooserView.ToggleSelected()
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(m, m.chooseLocalDirectory("/home/user/full")())

	if m.dialog.Kind() != views.DialogConfirm {
		t.Fatal("expected confirmation dialog")
	}
	if m.dialog.Message() != lifecycle.NonEmptyWarning("/home/user/full") {
		t.Errorf("unexpected confirmation %q", m.dialog.Message())
	}

	m = run(m, keyRunes("y"))

	if len(host.addRequests) != 1 {
		t.Fatalf("expected add after confirmation, got %d calls", len(host.addRequests))
	}
	if m.state != ViewAccounts {
		t.Errorf("expected accounts view, got %v", m.state)
	}
}

func TestCreateAccount_ValidationAlert(t *testing.T) {
	m := createTestModel(&mockRepository{config: &domain.Config{}}, &mockHost{})
	m = loadAccounts(m)

	m = update(m, m.connect(lifecycle.Credentials{URL: "bewcloud", Name: "x"})())

	if m.dialog.Kind() != views.DialogAlert || m.dialog.Message() != lifecycle.MsgURLRequired {
		t.Errorf("expected URL alert, got %q", m.dialog.Message())
	}
	if m.chooserView.IsActive() {
		t.Error("expected no chooser")
	}
}

func TestEditSaveFailure_KeepsDialogOpen(t *testing.T) {
	host := &mockHost{updateResult: false}
	m := createTestModel(&mockRepository{config: accountsConfig()}, host)
	m = loadAccounts(m)

	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != ViewEdit {
		t.Fatalf("expected edit view, got %v", m.state)
	}

	m = run(m, tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.state != ViewEdit || !m.editFlow.IsOpen() {
		t.Error("expected edit dialog to stay open")
	}
	if m.dialog.Kind() != views.DialogAlert || m.dialog.Message() != lifecycle.MsgUpdateFailed {
		t.Errorf("expected update failure alert, got %q", m.dialog.Message())
	}
	if m.editFlow.LocalDirectory() != "/home/user/sync" {
		t.Errorf("expected local directory to be kept, got %s", m.editFlow.LocalDirectory())
	}
	if host.runSyncCalls != 0 {
		t.Error("expected no sync after failure")
	}
}

func TestEditDelete_RequiresConfirmation(t *testing.T) {
	host := &mockHost{deleteResult: true}
	m := createTestModel(&mockRepository{config: accountsConfig()}, host)
	m = loadAccounts(m)
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if m.dialog.Kind() != views.DialogConfirm {
		t.Fatal("expected delete confirmation")
	}

	m = run(m, keyRunes("n"))
	if len(host.deleteCalls) != 0 {
		t.Fatal("expected no delete after declining")
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlD})
	m = run(m, keyRunes("y"))

	if len(host.deleteCalls) != 1 {
		t.Fatalf("expected one delete call, got %d", len(host.deleteCalls))
	}
	if m.state != ViewAccounts {
		t.Errorf("expected accounts view after delete, got %v", m.state)
	}
}

func TestEditClose_ResetsFlow(t *testing.T) {
	m := createTestModel(&mockRepository{config: accountsConfig()}, &mockHost{})
	m = loadAccounts(m)
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})

	m = update(m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.state != ViewAccounts {
		t.Errorf("expected accounts view, got %v", m.state)
	}
	if m.editFlow.IsOpen() {
		t.Error("expected edit flow to be closed")
	}
}

func TestAlerts_ShownOneAtATime(t *testing.T) {
	m := createTestModel(&mockRepository{config: accountsConfig()}, &mockHost{})
	m.alerts.Alert("first")
	m.alerts.Alert("second")

	m = update(m, RegistryChangedMsg{})
	if m.dialog.Message() != "first" {
		t.Fatalf("expected first alert, got %q", m.dialog.Message())
	}

	m = update(m, keyRunes("x"))
	if m.dialog.Message() != "second" {
		t.Fatalf("expected second alert, got %q", m.dialog.Message())
	}

	m = update(m, keyRunes("x"))
	if m.dialog.IsActive() {
		t.Error("expected no more alerts")
	}
}

func openEditDialog(t *testing.T, repo *mockRepository, host *mockHost) Model {
	t.Helper()
	m := createTestModel(repo, host)
	m = loadAccounts(m)
	m = update(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != ViewEdit {
		t.Fatalf("expected edit view, got %v", m.state)
	}
	return m
}

func TestRegistryReload_ClosesEditDialogForRemovedAccount(t *testing.T) {
	repo := &mockRepository{config: accountsConfig()}
	host := &mockHost{updateResult: true}
	m := openEditDialog(t, repo, host)

	repo.set(&domain.Config{Accounts: []domain.Account{{
		RemoteName:        "other",
		LocalDirectory:    "/home/user/other",
		RemoteDirectories: []string{"Photos"},
	}}})
	m = loadAccounts(m)

	if m.state != ViewAccounts || m.editFlow.IsOpen() {
		t.Fatalf("expected edit dialog to close, state=%v open=%v", m.state, m.editFlow.IsOpen())
	}

	m = update(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if len(host.updateCalls) != 0 {
		t.Errorf("expected no update for a removed account, got %v", host.updateCalls)
	}
	if m.dialog.IsActive() {
		t.Errorf("expected no alert, got %q", m.dialog.Message())
	}
}

func TestRegistryReload_DerivesEditFieldsAgain(t *testing.T) {
	repo := &mockRepository{config: accountsConfig()}
	m := openEditDialog(t, repo, &mockHost{})

	moved := accountsConfig()
	moved.Accounts[0].LocalDirectory = "/moved"
	repo.set(moved)
	m = loadAccounts(m)

	if m.state != ViewEdit {
		t.Fatalf("expected edit dialog to stay open, got %v", m.state)
	}
	if m.editFlow.LocalDirectory() != "/moved" {
		t.Errorf("expected local directory to follow the registry, got %s", m.editFlow.LocalDirectory())
	}
	if !strings.Contains(m.View(), "/moved") {
		t.Error("expected edit view to show the new local directory")
	}
}

func TestRegistryReload_LastSyncOnlyKeepsEdits(t *testing.T) {
	repo := &mockRepository{config: accountsConfig()}
	m := openEditDialog(t, repo, &mockHost{})
	m.editFlow.ChangeLocalDirectory("/home/user/elsewhere")

	synced := accountsConfig()
	synced.Accounts[0].LastSyncTime = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	repo.set(synced)
	m = loadAccounts(m)

	if m.state != ViewEdit {
		t.Fatalf("expected edit dialog to stay open, got %v", m.state)
	}
	if m.editFlow.LocalDirectory() != "/home/user/elsewhere" {
		t.Errorf("expected pending edit to survive, got %s", m.editFlow.LocalDirectory())
	}
}

func TestSyncEvents_UpdateSyncStatus(t *testing.T) {
	events := make(chan domain.SyncEvent, 2)
	m := NewModel(Dependencies{
		Repository: &mockRepository{config: accountsConfig()},
		Host:       &mockHost{},
		Discoverer: &mockDiscoverer{},
		SyncEvents: events,
	})
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

	events <- domain.SyncEvent{Running: true, At: at}
	m = update(m, m.waitForSyncEvent()())
	if m.topBar.SyncState() != components.SyncRunning {
		t.Fatalf("expected running state, got %v", m.topBar.SyncState())
	}

	events <- domain.SyncEvent{At: at.Add(time.Minute), Failed: 1, Err: errors.New("bisync failed")}
	updated, cmd := m.Update(m.waitForSyncEvent()())
	m = updated.(Model)

	if m.topBar.SyncState() != components.SyncDone {
		t.Errorf("expected done state, got %v", m.topBar.SyncState())
	}
	if !m.statusBar.IsError() || m.statusBar.Message() != "Sync finished: 1 accounts failed, see logs" {
		t.Errorf("unexpected status %q", m.statusBar.Message())
	}
	if cmd == nil {
		t.Error("expected the model to keep listening and reload accounts")
	}
}

func TestSyncStatus_UnsetWithoutAccounts(t *testing.T) {
	m := createTestModel(&mockRepository{config: &domain.Config{}}, &mockHost{})

	m = run(m, m.runSync()())
	if m.topBar.SyncState() != components.SyncUnset {
		t.Errorf("expected unset state, got %v", m.topBar.SyncState())
	}
}
