package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/ythdp/ythdp/log"
)

// settleDelay coalesces the several write events a single save produces.
const settleDelay = 100 * time.Millisecond

// WatchHandlers are called from the watcher goroutine.
type WatchHandlers struct {
	// PlayerAppeared is called when the player socket is created.
	PlayerAppeared func()

	// SettingsChanged is called once a burst of writes to the settings file settles.
	SettingsChanged func()
}

// Watcher reports file system changes the player and settings go through.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	clock     clockwork.Clock
	socket    string
	settings  string
}

// NewWatcher watches the directories holding socketPath and settingsPath.
// An empty path is not watched.
func NewWatcher(clock clockwork.Clock, socketPath, settingsPath string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		clock:     clock,
		socket:    filepath.Clean(socketPath),
		settings:  filepath.Clean(settingsPath),
	}

	for _, path := range []string{socketPath, settingsPath} {
		if path == "" {
			continue
		}

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			_ = fsWatcher.Close()
			return nil, err
		}
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, err
		}
		log.Debugf("watching %s", dir)
	}

	return w, nil
}

// Run delivers events to handlers until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context, handlers WatchHandlers) {
	defer func() { _ = w.fsWatcher.Close() }()

	var settle clockwork.Timer
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			switch filepath.Clean(event.Name) {
			case w.socket:
				if event.Has(fsnotify.Create) && handlers.PlayerAppeared != nil {
					log.Debugf("player socket created: %s", event.Name)
					handlers.PlayerAppeared()
				}
			case w.settings:
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if handlers.SettingsChanged == nil {
					continue
				}
				if settle != nil {
					settle.Stop()
				}
				settle = w.clock.AfterFunc(settleDelay, handlers.SettingsChanged)
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warnf("watcher error: %v", err)
		}
	}
}
