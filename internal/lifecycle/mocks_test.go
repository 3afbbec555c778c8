package lifecycle

import (
	"context"
	"sync"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
)

type mockHost struct {
	mu sync.Mutex

	emptyResult  bool
	addResult    bool
	updateResult bool
	deleteResult bool

	runSyncCalls  int
	emptyChecks   []string
	addRequests   []domain.NewRemoteRequest
	updateCalls   []domain.UpdatedRemote
	deleteCalls   []domain.UpdatedRemote
	beforeAddDone func()
}

func (m *mockHost) RunSync() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runSyncCalls++
}

func (m *mockHost) IsLocalDirectoryEmpty(ctx context.Context, path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emptyChecks = append(m.emptyChecks, path)
	return m.emptyResult
}

func (m *mockHost) AddRemote(ctx context.Context, remote domain.NewRemoteRequest) bool {
	m.mu.Lock()
	m.addRequests = append(m.addRequests, remote)
	hook := m.beforeAddDone
	result := m.addResult
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return result
}

func (m *mockHost) UpdateRemote(ctx context.Context, remote domain.UpdatedRemote) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls = append(m.updateCalls, remote)
	return m.updateResult
}

func (m *mockHost) DeleteRemote(ctx context.Context, remote domain.UpdatedRemote) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, remote)
	return m.deleteResult
}

func (m *mockHost) syncCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.runSyncCalls
}

type mockDiscoverer struct {
	mu          sync.Mutex
	directories []domain.Directory
	calls       int
	// started and release let a test hold a call in flight
	started chan struct{}
	release chan struct{}
}

func (m *mockDiscoverer) ListRemoteDirectories(ctx context.Context, baseURL, username, password string) []domain.Directory {
	m.mu.Lock()
	m.calls++
	started, release := m.started, m.release
	directories := append([]domain.Directory(nil), m.directories...)
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	return directories
}

func (m *mockDiscoverer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockAlerter) Alert(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
}

func (m *mockAlerter) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

type mockRepository struct {
	config *domain.Config
	err    error
}

func (m *mockRepository) Load() (*domain.Config, error) {
	return m.config, m.err
}

func directories(names ...string) []domain.Directory {
	result := make([]domain.Directory, len(names))
	for i, name := range names {
		result[i] = domain.Directory{Name: name}
	}
	return result
}

func oneAccount() *domain.Config {
	return &domain.Config{Accounts: []domain.Account{{
		RemoteName:        "bewcloud",
		LocalDirectory:    "/home/user/sync",
		RemoteDirectories: []string{"Documents"},
	}}}
}
