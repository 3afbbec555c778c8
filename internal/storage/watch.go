package storage

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

const defaultDebounce = 150 * time.Millisecond

// Watcher reports changes to config.json, for example a background sync
// updating lastSyncTime. Bursts of events are coalesced into one notification.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	changes  chan struct{}
	debounce time.Duration
}

// NewWatcher watches the directory holding configPath. The directory is
// watched rather than the file because saves replace the file by rename.
func NewWatcher(configPath string) (*Watcher, error) {
	return newWatcher(configPath, defaultDebounce)
}

func newWatcher(configPath string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(configPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(configPath), err)
	}

	w := &Watcher{
		watcher:  fw,
		path:     configPath,
		changes:  make(chan struct{}, 1),
		debounce: debounce,
	}
	go w.run()

	logger.Log("Watching %s for changes", configPath)
	return w, nil
}

// Changes is closed when the watcher is closed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

func (w *Watcher) run() {
	defer close(w.changes)

	var timer *time.Timer
	var fire <-chan time.Time
	name := filepath.Base(w.path)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if timer != nil {
					timer.Stop()
				}
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.LogError("WATCH", w.path, err)

		case <-fire:
			fire = nil
			select {
			case w.changes <- struct{}{}:
			default:
			}
		}
	}
}
