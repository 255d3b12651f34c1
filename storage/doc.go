// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists application state between runs.
//
// Three pieces live here:
//
//   - Config: a schemaless key-value settings file. The on-disk format
//     follows the file extension (.toml is TOML, everything else JSON)
//     and every save goes through an atomic temp-file + rename so a
//     crash never leaves a half-written file behind.
//   - Watcher: fsnotify-based change notification for a single file,
//     debounced so editors that write in bursts trigger one reload.
//   - History: a SQLite-backed log of screen submissions with search
//     and pruning.
//
// # Key Types
//
//   - Config: Load, Save, Get, Set against one settings file
//   - Watcher: NewWatcher, Start, Close
//   - History: OpenHistory, Record, Recent, Search, Prune, Clear, Close
//
// # Usage
//
//	cfg := storage.NewConfig(filepath.Join(dir, "settings.json"))
//	theme, _ := cfg.Get("theme", "dark")
//	if err := cfg.Set("theme", "light"); err != nil {
//		return err
//	}
//
//	h, err := storage.OpenHistory(filepath.Join(dir, "history.db"))
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//	id, err := h.Record("login", map[string]any{"user": "sam"})
package storage
