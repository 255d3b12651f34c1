// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the quiet period required after the last write
// before a change notification fires.
const DefaultWatchDebounce = 500 * time.Millisecond

// =============================================================================
// FILE WATCHER
// =============================================================================

// Watcher reports changes to a single file, typically a Config path for
// hot-reload. Notifications are debounced so editors and atomic saves
// that touch the file several times in quick succession produce one
// callback.
type Watcher struct {
	// path is the absolute location of the watched file
	path string

	// onChange is invoked with the file path after the debounce window
	onChange func(path string)

	watcher  *fsnotify.Watcher
	debounce time.Duration

	// mu protects pending
	mu sync.Mutex

	// pending records the last change time while a debounce is open
	pending map[string]time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for path. onChange runs on a background
// goroutine once per settled change. A debounce of zero or less uses
// DefaultWatchDebounce.
func NewWatcher(path string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     abs,
		onChange: onChange,
		watcher:  fsw,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching. The parent directory is watched rather than the
// file itself so atomic saves, which replace the file by rename, keep
// producing events.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()
	return nil
}

// processEvents filters directory events down to the watched file.
func (w *Watcher) processEvents() {
	// Panic recovery: a watcher failure is non-fatal, the goroutine exits
	defer func() {
		if r := recover(); r != nil {
			_ = r
		}
	}()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending[event.Name] = time.Now()
				w.mu.Unlock()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// processPending fires onChange once a pending change has been quiet for
// the debounce window.
func (w *Watcher) processPending() {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			now := time.Now()

			w.mu.Lock()
			var settled []string
			for path, changeTime := range w.pending {
				if now.Sub(changeTime) >= w.debounce {
					settled = append(settled, path)
					delete(w.pending, path)
				}
			}
			w.mu.Unlock()

			for _, path := range settled {
				w.onChange(path)
			}
		}
	}
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
