// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layertable

import tea "github.com/charmbracelet/bubbletea"

// =============================================================================
// MESSAGES
// =============================================================================

// RowHighlightedMsg reports cursor movement. Row is nil when the cursor
// has no data row under it.
type RowHighlightedMsg struct {
	Row *Row
	Key string
}

// RowSelectedMsg reports Enter on a row (single, none, radio modes) or
// Space in radio mode.
type RowSelectedMsg struct {
	Row Row
	Key string
}

// RowToggledMsg reports Space toggling a row in multi mode. Selected is
// the row's state after the toggle.
type RowToggledMsg struct {
	Row      Row
	Key      string
	Selected bool
}

// SelectionConfirmedMsg reports Enter in multi mode with every toggled
// row, in source order.
type SelectionConfirmedMsg struct {
	Rows []Row
}

func highlightCmd(row *Row, key string) tea.Cmd {
	return func() tea.Msg { return RowHighlightedMsg{Row: row, Key: key} }
}

func selectCmd(row Row, key string) tea.Cmd {
	return func() tea.Msg { return RowSelectedMsg{Row: row, Key: key} }
}

func toggleCmd(row Row, key string, selected bool) tea.Cmd {
	return func() tea.Msg { return RowToggledMsg{Row: row, Key: key, Selected: selected} }
}

func confirmCmd(rows []Row) tea.Cmd {
	return func() tea.Msg { return SelectionConfirmedMsg{Rows: rows} }
}
