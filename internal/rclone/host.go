package rclone

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

const (
	defaultBinary = "rclone"
	eventBuffer   = 16
	remoteType    = "webdav"
	// bisync does not work with vendor=other
	remoteVendor = "fastmail"
)

var (
	ErrInvalidRemote  = errors.New("invalid remote")
	ErrSyncInProgress = errors.New("sync already in progress")
)

// Registry is the writable account registry the host persists pairings in.
type Registry interface {
	Load() (*domain.Config, error)
	AddAccount(account domain.Account) error
	UpdateAccount(remote domain.UpdatedRemote, now time.Time) error
	DeleteAccount(name string) error
	TouchLastSync(name string, now time.Time) error
}

// Host implements domain.Host on top of the rclone CLI.
type Host struct {
	registry Registry
	runner   Runner
	binary   string
	flags    []string
	now      func() time.Time

	syncing atomic.Bool
	wg      sync.WaitGroup
	events  chan domain.SyncEvent
}

type Option func(*Host)

func WithRunner(runner Runner) Option {
	return func(h *Host) {
		h.runner = runner
	}
}

func WithBinary(binary string) Option {
	return func(h *Host) {
		if binary != "" {
			h.binary = binary
		}
	}
}

// WithBisyncFlags appends extra flags to every bisync invocation.
func WithBisyncFlags(flags []string) Option {
	return func(h *Host) {
		h.flags = append([]string(nil), flags...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(h *Host) {
		h.now = now
	}
}

func NewHost(registry Registry, opts ...Option) *Host {
	h := &Host{
		registry: registry,
		runner:   ExecRunner{},
		binary:   defaultBinary,
		now:      time.Now,
		events:   make(chan domain.SyncEvent, eventBuffer),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) AddRemote(ctx context.Context, remote domain.NewRemoteRequest) bool {
	if err := validateNewRemote(remote); err != nil {
		logger.LogError("ADD_REMOTE", remote.Name, err)
		return false
	}

	config, err := h.registry.Load()
	if err != nil {
		logger.LogError("ADD_REMOTE", remote.Name, err)
		return false
	}
	if _, exists := config.FindAccount(remote.Name); exists {
		logger.LogError("ADD_REMOTE", remote.Name, fmt.Errorf("%w: name already in use", ErrInvalidRemote))
		return false
	}

	_, err = h.runner.Run(ctx, h.binary,
		"config", "create", remote.Name, remoteType,
		"url="+remote.URL,
		"user="+remote.Username,
		"pass="+remote.Password,
		"vendor="+remoteVendor,
		"--non-interactive",
		"--obscure",
	)
	if err != nil {
		logger.LogError("ADD_REMOTE", remote.Name, err)
		return false
	}

	account := domain.Account{
		RemoteDirectories: append([]string(nil), remote.RemoteDirectories...),
		RemoteName:        remote.Name,
		LocalDirectory:    remote.LocalDirectory,
	}

	if err := h.bisync(ctx, account, true); err != nil {
		logger.LogError("FIRST_SYNC", remote.Name, err)
	}

	account.LastSyncTime = h.now()
	if err := h.registry.AddAccount(account); err != nil {
		logger.LogError("ADD_REMOTE", remote.Name, err)
		// the remote is unusable without a registry entry; synced files stay on disk
		if _, delErr := h.runner.Run(ctx, h.binary, "config", "delete", remote.Name); delErr != nil {
			logger.LogError("ADD_REMOTE_CLEANUP", remote.Name, delErr)
		}
		return false
	}

	logger.Log("Added remote %s -> %s", remote.Name, remote.LocalDirectory)
	return true
}

func (h *Host) UpdateRemote(ctx context.Context, remote domain.UpdatedRemote) bool {
	if err := validateUpdatedRemote(remote); err != nil {
		logger.LogError("UPDATE_REMOTE", remote.Name, err)
		return false
	}

	config, err := h.registry.Load()
	if err != nil {
		logger.LogError("UPDATE_REMOTE", remote.Name, err)
		return false
	}
	if _, exists := config.FindAccount(remote.Name); !exists {
		logger.LogError("UPDATE_REMOTE", remote.Name, fmt.Errorf("%w: unknown remote", ErrInvalidRemote))
		return false
	}

	// Directories dropped from the pairing are left on disk.
	account := domain.Account{
		RemoteDirectories: remote.RemoteDirectories,
		RemoteName:        remote.Name,
		LocalDirectory:    remote.LocalDirectory,
	}
	if err := h.bisync(ctx, account, true); err != nil {
		logger.LogError("FIRST_SYNC", remote.Name, err)
	}

	if err := h.registry.UpdateAccount(remote, h.now()); err != nil {
		logger.LogError("UPDATE_REMOTE", remote.Name, err)
		return false
	}

	logger.Log("Updated remote %s", remote.Name)
	return true
}

// DeleteRemote removes the rclone remote and the registry entry. Local files
// are kept; the user removes them manually.
func (h *Host) DeleteRemote(ctx context.Context, remote domain.UpdatedRemote) bool {
	if remote.Name == "" {
		logger.LogError("DELETE_REMOTE", "", fmt.Errorf("%w: a remote name is required", ErrInvalidRemote))
		return false
	}

	if _, err := h.runner.Run(ctx, h.binary, "config", "delete", remote.Name); err != nil {
		logger.LogError("DELETE_REMOTE", remote.Name, err)
		return false
	}

	if err := h.registry.DeleteAccount(remote.Name); err != nil {
		logger.LogError("DELETE_REMOTE", remote.Name, err)
		return false
	}

	logger.Log("Deleted remote %s", remote.Name)
	return true
}

func (h *Host) IsLocalDirectoryEmpty(ctx context.Context, path string) bool {
	dir, err := os.Open(path)
	if err != nil {
		return false
	}
	defer dir.Close()

	_, err = dir.Readdirnames(1)
	return errors.Is(err, io.EOF)
}

// RunSync starts a background sync of every account. A call while a run is
// still going is dropped.
func (h *Host) RunSync() {
	if !h.syncing.CompareAndSwap(false, true) {
		logger.Log("Sync already running, skipping")
		return
	}

	h.emit(domain.SyncEvent{Running: true, At: h.now()})

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()

		failed, err := h.syncAll(context.Background())
		if err != nil {
			logger.LogError("SYNC", "all accounts", err)
		}
		h.syncing.Store(false)
		h.emit(domain.SyncEvent{At: h.now(), Failed: failed, Err: err})
	}()
}

// SyncEvents delivers the start and finish of runs begun by RunSync. Events
// are dropped while the buffer is full.
func (h *Host) SyncEvents() <-chan domain.SyncEvent {
	return h.events
}

func (h *Host) emit(event domain.SyncEvent) {
	select {
	case h.events <- event:
	default:
		logger.Log("Sync event dropped, no listener")
	}
}

// RunSyncAndWait syncs every account and returns once all runs finished.
func (h *Host) RunSyncAndWait(ctx context.Context) error {
	if !h.syncing.CompareAndSwap(false, true) {
		return ErrSyncInProgress
	}
	defer h.syncing.Store(false)

	_, err := h.syncAll(ctx)
	return err
}

// Wait blocks until background runs started by RunSync have finished.
func (h *Host) Wait() {
	h.wg.Wait()
}

func (h *Host) IsSyncing() bool {
	return h.syncing.Load()
}

// syncAll returns the number of accounts that failed alongside their errors.
func (h *Host) syncAll(ctx context.Context) (int, error) {
	runID := uuid.New().String()

	config, err := h.registry.Load()
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}
	if config.IsEmpty() {
		logger.Log("Sync %s: no configured accounts found", runID)
		return 0, nil
	}

	logger.Log("Sync %s: started for %d accounts", runID, len(config.Accounts))
	start := h.now()

	var errs []error
	for _, account := range config.Accounts {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := h.bisync(ctx, account, false); err != nil {
			logger.LogError("SYNC", account.RemoteName, err)
			errs = append(errs, fmt.Errorf("%s: %w", account.RemoteName, err))
			continue
		}

		if err := h.registry.TouchLastSync(account.RemoteName, h.now()); err != nil {
			logger.LogError("SYNC", account.RemoteName, err)
			errs = append(errs, err)
		}
	}

	logger.Log("Sync %s: finished in %v with %d errors", runID, h.now().Sub(start), len(errs))
	return len(errs), errors.Join(errs...)
}

// bisync runs one bisync per remote directory of the account. resync marks a
// first sync of a new or changed pairing.
func (h *Host) bisync(ctx context.Context, account domain.Account, resync bool) error {
	var errs []error

	for _, directory := range account.RemoteDirectories {
		remotePath := remoteDirectoryPath(account.RemoteName, directory)
		localPath := localDirectoryPath(account.LocalDirectory, directory)

		if resync {
			// bisync needs the local side to exist, unlike copy or sync
			if err := os.MkdirAll(localPath, 0755); err != nil {
				errs = append(errs, fmt.Errorf("failed to create %s: %w", localPath, err))
				continue
			}
		}

		args := []string{"bisync", "-v", remotePath, localPath}
		if resync {
			args = append(args, "--resync")
		}
		args = append(args, h.flags...)

		if _, err := h.runner.Run(ctx, h.binary, args...); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func remoteDirectoryPath(remoteName, directory string) string {
	return fmt.Sprintf("%s:/%s/", remoteName, strings.Trim(directory, "/"))
}

func localDirectoryPath(localDirectory, directory string) string {
	return filepath.Join(localDirectory, filepath.FromSlash(strings.Trim(directory, "/"))) + string(filepath.Separator)
}

func validateNewRemote(remote domain.NewRemoteRequest) error {
	if remote.URL == "" || !strings.Contains(remote.URL, "://") {
		return fmt.Errorf("%w: a URL is required", ErrInvalidRemote)
	}
	if remote.Name == "" {
		return fmt.Errorf("%w: an account name is required", ErrInvalidRemote)
	}
	return validatePairing(remote.LocalDirectory, remote.RemoteDirectories)
}

func validateUpdatedRemote(remote domain.UpdatedRemote) error {
	if remote.Name == "" {
		return fmt.Errorf("%w: an account name is required", ErrInvalidRemote)
	}
	return validatePairing(remote.LocalDirectory, remote.RemoteDirectories)
}

func validatePairing(localDirectory string, remoteDirectories []string) error {
	if len(remoteDirectories) == 0 {
		return fmt.Errorf("%w: at least one remote directory is required", ErrInvalidRemote)
	}
	if localDirectory == "" {
		return fmt.Errorf("%w: a local directory is required", ErrInvalidRemote)
	}
	info, err := os.Stat(localDirectory)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: an existing local directory is required", ErrInvalidRemote)
	}
	return nil
}
