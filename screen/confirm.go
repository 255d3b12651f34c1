// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

// NewConfirmation creates a yes/no confirmation screen. Y confirms and
// N cancels; Enter is disabled so a stray keypress cannot confirm.
// Options are applied on top of the confirmation defaults, so callers
// can still override the explanation panel or add fields.
func NewConfirmation(title, message string, opts ...Option) Model {
	base := []Option{
		WithMessage(message),
		WithExplanation(
			"Confirmation",
			"Please confirm your choice.",
			"Press Y for Yes or N for No",
		),
	}

	m := New(title, append(base, opts...)...)
	m.confirmation = true
	m.allowSubmit = false
	return m
}
