package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

const (
	appDir     = "bewcloud-desktop-sync"
	configFile = "config.json"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("account already exists")
)

// LocalRepository keeps the account registry in a JSON file. Reads always go
// to disk so that every caller sees the latest durable state.
type LocalRepository struct {
	configPath string
	mu         sync.Mutex
}

// DefaultDataDir returns the per-user application data directory.
func DefaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, appDir), nil
}

func NewLocalRepository(dataDir string) (*LocalRepository, error) {
	if dataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = dir
	}

	repo := &LocalRepository{
		configPath: filepath.Join(dataDir, configFile),
	}

	if err := repo.ensureConfigDir(); err != nil {
		return nil, err
	}

	return repo, nil
}

func (r *LocalRepository) Path() string {
	return r.configPath
}

func (r *LocalRepository) ensureConfigDir() error {
	dir := filepath.Dir(r.configPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

func (r *LocalRepository) Load() (*domain.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.read()
	if err != nil {
		return nil, err
	}

	config := &domain.Config{Accounts: make([]domain.Account, 0, len(file.Accounts))}
	for _, record := range file.Accounts {
		config.Accounts = append(config.Accounts, record.toDomain())
	}

	logger.Log("Registry loaded from %s: %d accounts", r.configPath, len(config.Accounts))
	return config, nil
}

func (r *LocalRepository) AddAccount(account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.read()
	if err != nil {
		return err
	}

	if findRecord(file, account.RemoteName) >= 0 {
		logger.LogError("ADD_ACCOUNT", account.RemoteName, ErrAccountExists)
		return fmt.Errorf("%w: %s", ErrAccountExists, account.RemoteName)
	}

	logger.Log("Adding account: %s (%s)", account.RemoteName, account.LocalDirectory)
	file.Accounts = append(file.Accounts, recordFromDomain(account))
	return r.save(file)
}

func (r *LocalRepository) UpdateAccount(remote domain.UpdatedRemote, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.read()
	if err != nil {
		return err
	}

	i := findRecord(file, remote.Name)
	if i < 0 {
		logger.LogError("UPDATE_ACCOUNT", remote.Name, ErrAccountNotFound)
		return fmt.Errorf("%w: %s", ErrAccountNotFound, remote.Name)
	}

	logger.Log("Updating account: %s (%s, %d remote directories)", remote.Name, remote.LocalDirectory, len(remote.RemoteDirectories))
	file.Accounts[i].RemoteDirectories = append([]string{}, remote.RemoteDirectories...)
	file.Accounts[i].Rclone.LocalDirectory = remote.LocalDirectory
	file.Accounts[i].LastSyncTime = now.UTC().Format(time.RFC3339)
	return r.save(file)
}

func (r *LocalRepository) DeleteAccount(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.read()
	if err != nil {
		return err
	}

	i := findRecord(file, name)
	if i < 0 {
		logger.LogError("DELETE_ACCOUNT", name, ErrAccountNotFound)
		return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}

	logger.Log("Deleting account: %s", name)
	file.Accounts = append(file.Accounts[:i], file.Accounts[i+1:]...)
	return r.save(file)
}

func (r *LocalRepository) TouchLastSync(name string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.read()
	if err != nil {
		return err
	}

	i := findRecord(file, name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}

	file.Accounts[i].LastSyncTime = now.UTC().Format(time.RFC3339)
	return r.save(file)
}

func findRecord(file *settingsFile, name string) int {
	for i, record := range file.Accounts {
		if record.Rclone.RemoteName == name {
			return i
		}
	}
	return -1
}

// read must be called with r.mu held.
func (r *LocalRepository) read() (*settingsFile, error) {
	logger.LogFileOpen(r.configPath)
	data, err := os.ReadFile(r.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			file := &settingsFile{Accounts: []accountRecord{}}
			if saveErr := r.save(file); saveErr != nil {
				return nil, saveErr
			}
			return file, nil
		}
		logger.LogError("LOAD", r.configPath, err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	file := &settingsFile{}
	if err := json.Unmarshal(data, file); err != nil {
		logger.LogError("UNMARSHAL", r.configPath, err)
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if file.Accounts == nil {
		file.Accounts = []accountRecord{}
	}

	return file, nil
}

// save must be called with r.mu held. The file is replaced atomically so a
// watcher never observes a partial write.
func (r *LocalRepository) save(file *settingsFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		logger.LogError("MARSHAL", r.configPath, err)
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.configPath), configFile+".*.tmp")
	if err != nil {
		logger.LogError("SAVE", r.configPath, err)
		return fmt.Errorf("failed to create temp config: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		logger.LogError("SAVE", tmpPath, err)
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write config: %w", err)
	}

	logger.LogFileWrite(r.configPath)
	if err := os.Rename(tmpPath, r.configPath); err != nil {
		os.Remove(tmpPath)
		logger.LogError("SAVE", r.configPath, err)
		return fmt.Errorf("failed to replace config: %w", err)
	}

	return nil
}
