// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for prototui widgets.
//
// All colors use Lip Gloss AdaptiveColor so widgets look right on light and
// dark terminals without configuration. A Theme bundles the named styles the
// widget packages draw from; the zero-config path is DefaultTheme().
//
// # Key Types
//
//   - Theme: the full style set used by layertable, panel and screen
//   - LayoutMode: responsive layout buckets derived from terminal width
//
// # Usage
//
//	theme := styles.DefaultTheme()
//	title := theme.Title.Render("Select a Service")
package styles
