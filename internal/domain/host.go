package domain

import (
	"context"
	"time"
)

// Host is the command layer that owns rclone remotes and the persisted registry.
type Host interface {
	// RunSync starts a sync of every configured account and returns at once.
	// The outcome is not reported to the caller.
	RunSync()

	IsLocalDirectoryEmpty(ctx context.Context, path string) bool

	AddRemote(ctx context.Context, remote NewRemoteRequest) bool

	UpdateRemote(ctx context.Context, remote UpdatedRemote) bool

	DeleteRemote(ctx context.Context, remote UpdatedRemote) bool
}

// Discoverer lists candidate remote folders for a set of credentials. Failures
// are reported to the user by the implementation and yield an empty slice.
type Discoverer interface {
	ListRemoteDirectories(ctx context.Context, baseURL, username, password string) []Directory
}

type Alerter interface {
	Alert(message string)
}

// SyncEvent reports a background sync run starting or finishing.
type SyncEvent struct {
	Running bool
	At      time.Time
	// Failed counts the accounts whose sync failed and Err joins every
	// failure of the run. Both are only set on finish.
	Failed int
	Err    error
}
