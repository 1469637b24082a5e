// Package watcher hot-reloads the configuration file and notifies the
// application of changes.
package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tokenwatch/tokenwatch/internal/config"
	log "github.com/tokenwatch/tokenwatch/internal/logging"
)

// debounceWindow absorbs editor write bursts (truncate+write, rename).
const debounceWindow = 200 * time.Millisecond

// Watcher observes one config file and invokes the callback with the
// freshly parsed config after each change.
type Watcher struct {
	path     string
	onChange func(*config.Config)
	fs       *fsnotify.Watcher
	lastCfg  *config.Config
}

// New creates a watcher for the given config file path.
func New(path string, onChange func(*config.Config)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: editors often replace the file, which drops
	// a watch set on the file itself.
	if err := fs.Add(filepath.Dir(path)); err != nil {
		_ = fs.Close()
		return nil, err
	}

	lastCfg, _ := config.LoadConfigOptional(path, true)
	return &Watcher{path: path, onChange: onChange, fs: fs, lastCfg: lastCfg}, nil
}

// Run processes filesystem events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) {
	defer func() {
		_ = w.fs.Close()
	}()

	var debounce *time.Timer
	reload := func() {
		newCfg, err := config.LoadConfig(w.path)
		if err != nil {
			log.WithError(err).Warnf("config reload failed, keeping previous config")
			return
		}
		changes := buildConfigChangeDetails(w.lastCfg, newCfg)
		if len(changes) == 0 {
			return
		}
		for _, change := range changes {
			log.Infof("config changed: %s", change)
		}
		w.lastCfg = newCfg
		if w.onChange != nil {
			w.onChange(newCfg)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceWindow, reload)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warnf("config watcher error")
		}
	}
}
