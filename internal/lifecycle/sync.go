package lifecycle

import (
	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

// SyncTrigger starts a sync run after a successful lifecycle operation.
type SyncTrigger interface {
	RunSync() bool
}

type Syncer struct {
	repo domain.Repository
	host domain.Host
}

func NewSyncer(repo domain.Repository, host domain.Host) *Syncer {
	return &Syncer{repo: repo, host: host}
}

// RunSync reloads the registry and asks the host to sync every account. It
// reports whether a run was requested; the run's own result is never awaited
// and never reaches the caller.
func (s *Syncer) RunSync() bool {
	config, err := s.repo.Load()
	if err != nil {
		logger.LogError("SYNC", "registry", err)
		return false
	}
	if config.IsEmpty() {
		logger.Log(MsgNoAccounts)
		return false
	}

	s.host.RunSync()
	return true
}
