// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package state

import (
	"reflect"
	"sort"
	"sync"
)

// =============================================================================
// CHANGE EVENT
// =============================================================================

// Change represents a single state mutation delivered to watchers.
type Change struct {
	// Key is the state key that changed.
	Key string

	// Old is the previous value (nil when the key was absent).
	Old any

	// New is the new value (nil when the key was deleted).
	New any
}

// WatchFunc receives state changes for a watched key.
type WatchFunc func(Change)

// =============================================================================
// STORE
// =============================================================================

// Store is a thread-safe key-value store with per-key change watchers.
//
// Watchers fire only when a value actually changes (compared with
// reflect.DeepEqual) and run synchronously in registration order, outside
// the store's lock so a watcher may call back into the store.
type Store struct {
	mu       sync.RWMutex
	values   map[string]any
	watchers map[string][]watcherEntry
	nextID   int
}

type watcherEntry struct {
	id int
	fn WatchFunc
}

// New creates a store, optionally seeded with initial values.
// No watchers exist yet, so seeding never notifies.
func New(initial map[string]any) *Store {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Store{
		values:   values,
		watchers: make(map[string][]watcherEntry),
	}
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Get returns the value for key, or nil when absent.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

// GetDefault returns the value for key, or def when absent.
func (s *Store) GetDefault(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Lookup returns the value for key and whether it exists.
func (s *Store) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Has reports whether key exists.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Keys returns all state keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a copy of the entire state.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Set stores value under key. Watchers fire only when the new value differs
// from the old one. An absent key reads as nil, so setting an absent key to
// nil is a complete no-op.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	old := s.values[key]
	if reflect.DeepEqual(old, value) {
		s.mu.Unlock()
		return
	}
	s.values[key] = value
	fns := s.watcherFuncsLocked(key)
	s.mu.Unlock()

	notify(fns, Change{Key: key, Old: old, New: value})
}

// Update applies multiple Set calls, in sorted key order for deterministic
// watcher delivery.
func (s *Store) Update(updates map[string]any) {
	keys := make([]string, 0, len(updates))
	for k := range updates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Set(k, updates[k])
	}
}

// Delete removes key. Watchers are notified with a nil new value. Deleting
// an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	old, existed := s.values[key]
	if !existed {
		s.mu.Unlock()
		return
	}
	delete(s.values, key)
	fns := s.watcherFuncsLocked(key)
	s.mu.Unlock()

	notify(fns, Change{Key: key, Old: old, New: nil})
}

// Clear removes all state without notifying watchers.
func (s *Store) Clear() {
	s.mu.Lock()
	s.values = make(map[string]any)
	s.mu.Unlock()
}

// Replace swaps the entire state for a new one, diffing against the current
// contents: removed keys are deleted, added and changed keys are set, and
// watchers fire for each effective change.
func (s *Store) Replace(newState map[string]any) {
	s.mu.RLock()
	removed := make([]string, 0)
	for k := range s.values {
		if _, ok := newState[k]; !ok {
			removed = append(removed, k)
		}
	}
	s.mu.RUnlock()

	sort.Strings(removed)
	for _, k := range removed {
		s.Delete(k)
	}
	s.Update(newState)
}

// =============================================================================
// WATCHERS
// =============================================================================

// Watch registers a callback for changes to key and returns a token for
// Unwatch.
func (s *Store) Watch(key string, fn WatchFunc) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.watchers[key] = append(s.watchers[key], watcherEntry{id: s.nextID, fn: fn})
	return s.nextID
}

// Unwatch removes the watcher registered under token for key.
func (s *Store) Unwatch(key string, token int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.watchers[key]
	for i, e := range entries {
		if e.id == token {
			s.watchers[key] = append(entries[:i:i], entries[i+1:]...)
			return
		}
	}
}

// watcherFuncsLocked snapshots the watcher list for key. Caller holds the lock.
func (s *Store) watcherFuncsLocked(key string) []WatchFunc {
	entries := s.watchers[key]
	if len(entries) == 0 {
		return nil
	}
	fns := make([]WatchFunc, len(entries))
	for i, e := range entries {
		fns[i] = e.fn
	}
	return fns
}

func notify(fns []WatchFunc, c Change) {
	for _, fn := range fns {
		fn(c)
	}
}
