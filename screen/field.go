// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"github.com/jeranaias/prototui/layertable"
)

// =============================================================================
// FIELD
// =============================================================================

// FieldType identifies what a field renders and collects.
type FieldType int

const (
	// FieldText is a single-line text input.
	FieldText FieldType = iota

	// FieldTable is an embedded layered table.
	FieldTable

	// FieldBool is a yes/no toggle.
	FieldBool

	// FieldMessage is static text with no interaction.
	FieldMessage
)

// Field describes one field on a screen. The constructor functions
// (TextField, TableField, BoolField, MessageField) fill in the
// documented defaults; a zero Field is a text field.
type Field struct {
	// ID is the unique field identifier, the key in Result.Values
	ID string

	// Type selects the widget
	Type FieldType

	// Label is rendered above the field
	Label string

	// DefaultValue pre-fills text fields
	DefaultValue string

	// Placeholder shows in empty text fields
	Placeholder string

	// Columns and Rows feed table fields
	Columns []string
	Rows    []layertable.Row

	// SelectMode for table fields (TableField defaults to radio)
	SelectMode layertable.SelectMode

	// ShowLayers, ShowColumnHeaders, AutoHeight configure table fields
	// (TableField defaults all three to true)
	ShowLayers        bool
	ShowColumnHeaders bool
	AutoHeight        bool

	// Filterable enables the "/" filter on table fields
	Filterable bool

	// DefaultBool pre-sets boolean fields
	DefaultBool bool

	// Required fields must be non-blank (text) or have a selection
	// (table) before the screen submits
	Required bool

	// InitiallyHidden fields start invisible and not required; reveal
	// them with SetFieldVisibility
	InitiallyHidden bool
}

// TextField creates a text input field.
func TextField(id, label string) Field {
	return Field{
		ID:    id,
		Type:  FieldText,
		Label: label,
	}
}

// TableField creates a table selection field with the usual form
// defaults: radio selection, layers and column headers shown, height
// fitted to the rows.
func TableField(id string, columns []string, rows []layertable.Row) Field {
	return Field{
		ID:                id,
		Type:              FieldTable,
		Columns:           columns,
		Rows:              rows,
		SelectMode:        layertable.SelectRadio,
		ShowLayers:        true,
		ShowColumnHeaders: true,
		AutoHeight:        true,
	}
}

// BoolField creates a yes/no toggle field.
func BoolField(id, label string, value bool) Field {
	return Field{
		ID:          id,
		Type:        FieldBool,
		Label:       label,
		DefaultBool: value,
	}
}

// MessageField creates a static text field.
func MessageField(id, text string) Field {
	return Field{
		ID:    id,
		Type:  FieldMessage,
		Label: text,
	}
}

// focusable reports whether the field takes keyboard focus.
func (f Field) focusable() bool {
	return f.Type != FieldMessage
}

// name returns the label when set, else the ID. Used in validation
// messages.
func (f Field) name() string {
	if f.Label != "" {
		return f.Label
	}
	return f.ID
}

// =============================================================================
// RESULT
// =============================================================================

// Result is the terminal outcome of a screen.
type Result struct {
	// Confirmed is true when the user submitted, false on cancel
	Confirmed bool

	// Values maps field ID to the collected value: string for text
	// fields, []layertable.Row for table fields, bool for boolean
	// fields
	Values map[string]any
}
