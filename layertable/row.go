// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layertable

import (
	"github.com/google/uuid"
)

// =============================================================================
// ROW
// =============================================================================

// Row is one data row in the table.
type Row struct {
	// Values maps column name to cell value
	Values map[string]string

	// Layer is the optional group label; empty means ungrouped
	Layer string

	// Key is a stable identifier used to preserve selection and cursor
	// position across rebuilds. Left empty, a unique key is generated.
	Key string
}

// SelectMode controls how rows are selected.
type SelectMode int

const (
	// SelectSingle highlights one row; Enter reports it.
	SelectSingle SelectMode = iota

	// SelectNone allows highlighting only.
	SelectNone

	// SelectRadio keeps exactly one row marked with ●.
	SelectRadio

	// SelectMulti lets Space toggle any number of rows.
	SelectMulti
)

// String returns the mode name.
func (m SelectMode) String() string {
	switch m {
	case SelectNone:
		return "none"
	case SelectRadio:
		return "radio"
	case SelectMulti:
		return "multi"
	default:
		return "single"
	}
}

// hasCheckbox reports whether the mode renders a checkbox column.
func (m SelectMode) hasCheckbox() bool {
	return m == SelectRadio || m == SelectMulti
}

// Checkbox glyphs
const (
	glyphSelected   = "●"
	glyphUnselected = "○"
)

// Synthetic row key prefixes
const (
	layerHeaderPrefix = "layer-header-"
	separatorPrefix   = "separator-"
)

// normalizeRows copies rows, fills empty cell maps, and guarantees every
// row a unique non-empty key.
func normalizeRows(rows []Row) []Row {
	normalized := make([]Row, len(rows))
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		if row.Values == nil {
			row.Values = map[string]string{}
		}
		if row.Key == "" || seen[row.Key] {
			row.Key = "row-" + uuid.NewString()
		}
		seen[row.Key] = true
		normalized[i] = row
	}
	return normalized
}
