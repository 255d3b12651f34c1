// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package screen provides a universal form screen: a titled left
// column of fields (text inputs, layered tables, boolean toggles,
// static messages), a right-hand explanation panel, and a footer of
// key hints.
//
// Tab and Shift+Tab cycle focus through the visible fields, Enter
// validates and submits, and Esc first unfocuses the active field and
// then cancels the screen. Required fields that fail validation are
// listed in the explanation panel until the next successful submit.
// A single-select table submits the screen directly when a row is
// picked.
//
// # Key Types
//
//   - Model: the screen itself, following the Init/Update/View contract
//   - Field: declarative field definition, one per widget
//   - Result: terminal outcome with the collected field values
//   - SubmitMsg, CancelMsg: emitted when the screen finishes
//
// # Key Functions
//
//   - New: create a screen from options
//   - NewConfirmation: create a Y/N confirmation screen
//   - Run: drive a screen in its own bubbletea program
//
// # Usage
//
//	m := screen.New("Deploy Service",
//		screen.WithMessage("Pick a target and confirm."),
//		screen.WithFields(
//			screen.TextField("tag", "Image tag"),
//			screen.TableField("target", columns, rows),
//			screen.BoolField("migrate", "Run migrations", false),
//		),
//		screen.WithExplanation("Deploy", "Deploys the selected service.", "Enter submits"),
//	)
//	result, err := screen.Run(ctx, m)
//	if err != nil {
//		return err
//	}
//	if result.Confirmed {
//		tag := result.Values["tag"].(string)
//		...
//	}
package screen
