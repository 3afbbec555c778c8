package components

import (
	"strings"
	"testing"
	"time"
)

func TestTopBar_SyncStatus(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		apply func(bar *TopBarModel)
		state SyncState
		want  string
	}{
		{"idle", func(bar *TopBarModel) { bar.SetAccounts(1, time.Time{}) }, SyncIdle, "idle"},
		{"running", func(bar *TopBarModel) { bar.SetSyncRunning(at) }, SyncRunning, "running since 09:30:00"},
		{"done", func(bar *TopBarModel) { bar.SetSyncDone(at, 0) }, SyncDone, "done at 09:30:00"},
		{"done with failures", func(bar *TopBarModel) { bar.SetSyncDone(at, 2) }, SyncDone, "done at 09:30:00, 2 failed"},
		{"no accounts", func(bar *TopBarModel) { bar.SetAccounts(0, time.Time{}) }, SyncUnset, "no accounts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewTopBar()
			bar.SetWidth(160)
			tt.apply(bar)

			if bar.SyncState() != tt.state {
				t.Errorf("expected state %v, got %v", tt.state, bar.SyncState())
			}
			if !strings.Contains(bar.View(), tt.want) {
				t.Errorf("expected %q in top bar", tt.want)
			}
		})
	}
}

func TestTopBar_RunningSurvivesEmptyRegistry(t *testing.T) {
	bar := NewTopBar()
	bar.SetSyncRunning(time.Now())

	bar.SetAccounts(0, time.Time{})
	if bar.SyncState() != SyncRunning {
		t.Errorf("expected running state to be kept, got %v", bar.SyncState())
	}

	bar.SetSyncDone(time.Now(), 0)
	bar.SetAccounts(0, time.Time{})
	if bar.SyncState() != SyncUnset {
		t.Errorf("expected unset after the run, got %v", bar.SyncState())
	}

	bar.SetAccounts(1, time.Time{})
	if bar.SyncState() != SyncIdle {
		t.Errorf("expected idle once accounts exist, got %v", bar.SyncState())
	}
}
