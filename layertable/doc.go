// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package layertable provides a data table widget with grouped rows,
// selection modes, and filtering, built on bubbles/table.
//
// Rows carry named cell values, an optional layer (group) label, and a
// stable key. The widget groups rows by layer, sorts layers and rows
// case-insensitively, and renders a header line per layer with blank
// separator rows between groups. Layer headers and separators are
// synthetic: the cursor skips them, they cannot be selected, and they
// never appear in results.
//
// # Selection Modes
//
//   - SelectSingle (default): Enter reports the highlighted row
//   - SelectNone: like single, rows are only highlighted
//   - SelectRadio: one row carries the ● marker; Space/Enter move it
//   - SelectMulti: Space toggles ●/○ checkboxes, Enter confirms the set
//
// # Messages
//
// User actions surface as messages returned through tea.Cmd:
// RowHighlightedMsg on cursor movement, RowSelectedMsg on Enter (single,
// none, radio) and Space (radio), RowToggledMsg on Space (multi), and
// SelectionConfirmedMsg on Enter (multi).
//
// # Usage
//
//	t := layertable.New(
//		layertable.WithColumns([]string{"Name", "Status"}),
//		layertable.WithRows(rows),
//		layertable.WithSelectMode(layertable.SelectMulti),
//		layertable.WithFilterable(true),
//	)
//
//	// inside the parent Update:
//	case layertable.SelectionConfirmedMsg:
//		chosen := msg.Rows
package layertable
