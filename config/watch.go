package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last file event before the
// config is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Update carries a reloaded config, or the error that prevented the reload.
type Update struct {
	Config *Config
	Err    error
	Event  fsnotify.Event
}

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	debounce time.Duration
	updates  chan Update
	done     chan struct{}
}

// Watch starts watching path. The containing directory is watched so
// editors that replace the file by rename are still seen.
func Watch(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", dir, err)
	}
	w := &Watcher{
		fsw:      fsw,
		path:     path,
		debounce: debounce,
		updates:  make(chan Update, 1),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Updates delivers one Update per settled burst of changes.
func (w *Watcher) Updates() <-chan Update { return w.updates }

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var last fsnotify.Event

	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			last = event
			timer.Reset(w.debounce)

		case <-timer.C:
			cfg, err := LoadFile(w.path)
			w.send(Update{Config: cfg, Err: err, Event: last})

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.send(Update{Err: err})

		case <-w.done:
			timer.Stop()
			return
		}
	}
}

// send replaces an undelivered update so readers only see the newest one.
func (w *Watcher) send(u Update) {
	for {
		select {
		case w.updates <- u:
			return
		case <-w.done:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == filepath.Clean(w.path)
}
