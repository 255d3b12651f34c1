// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package state provides a key-value store with change notification.
//
// A Store maps string keys to arbitrary values and invokes registered
// watchers when a key's value changes. Watchers fire only when the new value
// actually differs from the old one, so redundant Set calls are free.
//
// # Key Types
//
//   - Store: thread-safe key-value store
//   - Change: the key, old value and new value of one mutation
//
// # Usage
//
//	store := state.New(nil)
//	store.Set("current_layer", "core")
//
//	token := store.Watch("current_layer", func(c state.Change) {
//	    log.Printf("layer changed from %v to %v", c.Old, c.New)
//	})
//	defer store.Unwatch("current_layer", token)
//
//	store.Set("current_layer", "api") // watcher fires
//	store.Set("current_layer", "api") // no change, watcher silent
package state
