// SPDX-License-Identifier: GPL-2.0-or-later

package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher reloads a config file whenever it changes. The directory is
// watched since editors tend to replace files instead of writing them.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	Reloads chan *File
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}
	watcher := &Watcher{
		watcher: w,
		path:    abs,
		Reloads: make(chan *File, 4),
		Errors:  make(chan error, 4),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

// run reloads the file once it was quiet for the debounce time, a single
// save often shows up as several events.
func (w *Watcher) run() {
	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			timer.Reset(debounce)
		case <-timer.C:
			f, err := Load(w.path)
			if err != nil {
				w.send(nil, err)
				continue
			}
			w.send(f, nil)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.send(nil, err)
		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

func (w *Watcher) send(f *File, err error) {
	if err != nil {
		select {
		case w.Errors <- err:
		case <-w.closeCh:
		}
		return
	}
	select {
	case w.Reloads <- f:
	case <-w.closeCh:
	}
}
