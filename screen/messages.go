// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import tea "github.com/charmbracelet/bubbletea"

// =============================================================================
// MESSAGES
// =============================================================================

// SubmitMsg reports a confirmed screen: Enter after passing validation,
// or Y on a confirmation dialog.
type SubmitMsg struct {
	Result Result
}

// CancelMsg reports a cancelled screen: Esc with nothing focused, or N
// on a confirmation dialog.
type CancelMsg struct {
	Result Result
}

func submitCmd(result Result) tea.Cmd {
	return func() tea.Msg { return SubmitMsg{Result: result} }
}

func cancelCmd(result Result) tea.Cmd {
	return func() tea.Msg { return CancelMsg{Result: result} }
}
