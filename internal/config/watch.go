package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration whenever config.yaml changes on disk
type Watcher struct {
	loader  *Loader
	path    string
	watcher *fsnotify.Watcher

	changes chan *Config
	errors  chan error
	done    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// Watch starts watching the config directory. The directory is watched rather
// than the file so editors that save by renaming are picked up too.
func (l *Loader) Watch() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := fw.Add(l.configDir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", l.configDir, err)
	}

	w := &Watcher{
		loader:  l,
		path:    filepath.Clean(l.ConfigPath()),
		watcher: fw,
		changes: make(chan *Config, 1),
		errors:  make(chan error, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Changes delivers the merged config after every successful reload. Only the
// latest config is kept when the receiver falls behind.
func (w *Watcher) Changes() <-chan *Config {
	return w.changes
}

// Errors delivers reload and watch failures
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching and closes both channels
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.changes)
		close(w.errors)
	})
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			cfg, err := w.loader.Reload()
			if err != nil {
				w.sendError(err)
				continue
			}
			w.sendConfig(cfg)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(fmt.Errorf("config watcher error: %w", err))
		}
	}
}

func (w *Watcher) sendConfig(cfg *Config) {
	select {
	case w.changes <- cfg:
	default:
		select {
		case <-w.changes:
		default:
		}
		w.changes <- cfg
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}
