// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package panel provides a scrollable explanation panel for contextual
// help, hints, and status messages.
//
// The panel sits alongside main content (a table or form) and shows three
// zones: a title, the explanatory content, and a hint line. All three
// scroll together in a bubbles viewport when the content overflows.
//
// # Key Types
//
//   - Model: the panel widget, created with New
//   - ContentOption: partial updates for UpdateContent
//
// # Key Functions
//
//   - New: create a panel with title, content, and hint
//   - UpdateContent: change only the zones named by options
//   - SetSuccess, SetError, SetWarning, SetInfo: status messages with
//     a glyph title and matching color
//   - SetMarkdown: render markdown content through glamour
//   - SetCode: render syntax-highlighted code through chroma
//
// # Usage
//
//	p := panel.New(
//		"Select a Service",
//		"Choose the service you want to configure.",
//		"Use arrow keys to navigate, Enter to select.",
//	)
//	p.SetSize(40, 12)
//
//	// Later, after a selection:
//	p.UpdateContent(
//		panel.WithContent("You selected: Service A"),
//		panel.WithHint("Press Enter to continue."),
//	)
package panel
