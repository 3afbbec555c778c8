package domain

import "time"

// Account is one configured pairing of an rclone remote with a local folder.
// It never carries the WebDAV credentials; rclone keeps those after creation.
type Account struct {
	RemoteDirectories []string
	RemoteName        string
	LocalDirectory    string
	LastSyncTime      time.Time
}

func (a Account) HasSynced() bool {
	return !a.LastSyncTime.IsZero()
}

type Config struct {
	Accounts []Account
}

func (c *Config) IsEmpty() bool {
	return c == nil || len(c.Accounts) == 0
}

func (c *Config) FindAccount(remoteName string) (*Account, bool) {
	if c == nil {
		return nil, false
	}
	for i := range c.Accounts {
		if c.Accounts[i].RemoteName == remoteName {
			return &c.Accounts[i], true
		}
	}
	return nil, false
}

// NewRemoteRequest carries user input through the create flow. It is never persisted.
type NewRemoteRequest struct {
	URL               string
	Username          string
	Password          string
	Name              string
	LocalDirectory    string
	RemoteDirectories []string
}

// UpdatedRemote identifies a pairing for update and delete. Credentials are
// intentionally absent.
type UpdatedRemote struct {
	Name              string
	LocalDirectory    string
	RemoteDirectories []string
}

type Directory struct {
	Name string
}
