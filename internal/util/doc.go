// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the prototui library.
//
// This package contains the small pieces the widget packages lean on:
// display-width aware string handling and crash-safe file writing.
//
// # Key Functions
//
// String Utilities:
//   - StringWidth: display width of a string in terminal columns
//   - TruncateWidth: display-width truncation (CJK aware) with ellipsis
//   - WrapText: word-boundary wrapping to a display width
//   - PadWidth: right-pad a string to a display width
//   - TruncateRunes: UTF-8 safe rune-count truncation
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	// Fit a cell value into a table column
//	cell := util.TruncateWidth(value, colWidth)
//
//	// Persist configuration without risking a torn file
//	err := util.AtomicWriteFile(path, data, 0644)
package util
