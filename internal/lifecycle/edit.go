package lifecycle

import (
	"context"
	"slices"
	"sync"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

// EditFlow holds the transient state of the edit dialog for one account.
// Nothing is persisted until Save or Delete succeeds.
type EditFlow struct {
	host       domain.Host
	discoverer domain.Discoverer
	alerter    domain.Alerter
	syncer     SyncTrigger
	homeDir    func() string

	mu             sync.Mutex
	generation     uint64
	open           bool
	account        domain.Account
	localDirectory string
	chosen         []string
	chooser        *DirectoryChooser
}

func NewEditFlow(host domain.Host, discoverer domain.Discoverer, alerter domain.Alerter, syncer SyncTrigger) *EditFlow {
	return &EditFlow{
		host:       host,
		discoverer: discoverer,
		alerter:    alerter,
		syncer:     syncer,
		homeDir:    homeDirectory,
	}
}

// Open derives the transient fields from the account, replacing whatever a
// previous account left behind.
func (f *EditFlow) Open(account domain.Account) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deriveLocked(account)
}

// Refresh reconciles the open dialog with a reloaded copy of its account.
// When the persisted pairing changed, the transient fields are derived again
// and pending requests become stale; a change of LastSyncTime alone keeps
// them. It reports whether the fields were derived again.
func (f *EditFlow) Refresh(account domain.Account) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open || account.RemoteName != f.account.RemoteName {
		return false
	}

	if account.LocalDirectory == f.account.LocalDirectory &&
		slices.Equal(account.RemoteDirectories, f.account.RemoteDirectories) {
		f.account.LastSyncTime = account.LastSyncTime
		return false
	}

	logger.Log("Account %s changed on disk, edit fields derived again", account.RemoteName)
	f.deriveLocked(account)
	return true
}

func (f *EditFlow) deriveLocked(account domain.Account) {
	f.generation++
	f.open = true
	f.account = account
	f.account.RemoteDirectories = append([]string(nil), account.RemoteDirectories...)
	f.localDirectory = account.LocalDirectory
	f.chosen = append([]string(nil), account.RemoteDirectories...)
	f.chooser = nil
}

func (f *EditFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.generation++
	f.resetLocked()
}

func (f *EditFlow) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *EditFlow) Account() domain.Account {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.account
}

func (f *EditFlow) LocalDirectory() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.localDirectory
}

func (f *EditFlow) ChosenDirectories() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.chosen...)
}

func (f *EditFlow) Chooser() *DirectoryChooser {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chooser
}

func (f *EditFlow) LocalDirectoryDefault() string {
	f.mu.Lock()
	local := f.localDirectory
	f.mu.Unlock()

	if local != "" {
		return local
	}
	return f.homeDir()
}

// ChangeLocalDirectory replaces the transient local directory. An empty
// selection is rejected.
func (f *EditFlow) ChangeLocalDirectory(path string) bool {
	if path == "" {
		f.alert(MsgLocalDirectoryMissing)
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return false
	}
	f.localDirectory = path
	return true
}

// FetchRemoteDirectories lists the remote directories with freshly entered
// credentials and opens the chooser seeded with the current selection.
func (f *EditFlow) FetchRemoteDirectories(ctx context.Context, credentials Credentials) bool {
	if msg := validateURL(credentials.URL); msg != "" {
		f.alert(msg)
		return false
	}

	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return false
	}
	generation := f.generation
	name := f.account.RemoteName
	f.mu.Unlock()

	directories := f.discoverer.ListRemoteDirectories(ctx, credentials.URL, credentials.Username, credentials.Password)

	f.mu.Lock()
	defer f.mu.Unlock()

	if generation != f.generation {
		logger.Log("Discarding directories for %s fetched after the dialog was closed", name)
		return false
	}
	if len(directories) == 0 {
		return false
	}

	f.chooser = NewDirectoryChooser(directories, f.chosen)
	return true
}

// CommitDirectories replaces the transient remote directories with the
// chooser selection.
func (f *EditFlow) CommitDirectories() bool {
	f.mu.Lock()
	if f.chooser == nil {
		f.mu.Unlock()
		return false
	}

	chosen := f.chooser.Chosen()
	if len(chosen) == 0 {
		f.mu.Unlock()
		f.alert(MsgRemoteDirectoryMissing)
		return false
	}

	f.chosen = chosen
	f.chooser = nil
	f.mu.Unlock()
	return true
}

// CloseChooser drops the chooser without touching the current selection.
func (f *EditFlow) CloseChooser() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chooser = nil
}

func (f *EditFlow) Save(ctx context.Context) bool {
	remote, generation, ok := f.pending()
	if !ok {
		return false
	}

	if !f.host.UpdateRemote(ctx, remote) {
		if f.isCurrent(generation) {
			f.alert(MsgUpdateFailed)
		}
		return false
	}

	return f.finish(generation, "update", remote.Name)
}

func (f *EditFlow) DeleteConfirmation() string {
	return MsgDeleteConfirmation
}

// Delete removes the pairing. The caller asks for confirmation first.
func (f *EditFlow) Delete(ctx context.Context) bool {
	remote, generation, ok := f.pending()
	if !ok {
		return false
	}

	if !f.host.DeleteRemote(ctx, remote) {
		if f.isCurrent(generation) {
			f.alert(MsgDeleteFailed)
		}
		return false
	}

	return f.finish(generation, "delete", remote.Name)
}

func (f *EditFlow) pending() (domain.UpdatedRemote, uint64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.open {
		return domain.UpdatedRemote{}, 0, false
	}

	return domain.UpdatedRemote{
		Name:              f.account.RemoteName,
		LocalDirectory:    f.localDirectory,
		RemoteDirectories: append([]string(nil), f.chosen...),
	}, f.generation, true
}

func (f *EditFlow) isCurrent(generation uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return generation == f.generation
}

func (f *EditFlow) finish(generation uint64, operation, name string) bool {
	f.mu.Lock()
	if generation != f.generation {
		f.mu.Unlock()
		logger.Log("Discarding %s result for %s after the dialog was closed", operation, name)
		return false
	}

	f.generation++
	f.resetLocked()
	f.mu.Unlock()

	f.syncer.RunSync()
	return true
}

func (f *EditFlow) resetLocked() {
	f.open = false
	f.account = domain.Account{}
	f.localDirectory = ""
	f.chosen = nil
	f.chooser = nil
}

func (f *EditFlow) alert(message string) {
	if f.alerter != nil {
		f.alerter.Alert(message)
	}
}
