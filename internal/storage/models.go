package storage

import (
	"time"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/domain"
)

// settingsFile is the on-disk shape of config.json.
type settingsFile struct {
	Accounts []accountRecord `json:"accounts"`
}

type accountRecord struct {
	RemoteDirectories []string     `json:"remoteDirectories"`
	Rclone            rcloneRecord `json:"rclone"`
	LastSyncTime      string       `json:"lastSyncTime"`
}

type rcloneRecord struct {
	RemoteName     string `json:"remoteName"`
	LocalDirectory string `json:"localDirectory"`
}

func (r accountRecord) toDomain() domain.Account {
	account := domain.Account{
		RemoteDirectories: append([]string(nil), r.RemoteDirectories...),
		RemoteName:        r.Rclone.RemoteName,
		LocalDirectory:    r.Rclone.LocalDirectory,
	}
	if r.LastSyncTime != "" {
		if t, err := time.Parse(time.RFC3339, r.LastSyncTime); err == nil {
			account.LastSyncTime = t
		}
	}
	return account
}

func recordFromDomain(a domain.Account) accountRecord {
	record := accountRecord{
		RemoteDirectories: append([]string{}, a.RemoteDirectories...),
		Rclone: rcloneRecord{
			RemoteName:     a.RemoteName,
			LocalDirectory: a.LocalDirectory,
		},
	}
	if !a.LastSyncTime.IsZero() {
		record.LastSyncTime = a.LastSyncTime.UTC().Format(time.RFC3339)
	}
	return record
}
