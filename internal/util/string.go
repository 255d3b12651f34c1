// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// UNICODE: Width-aware truncation keeps table cells aligned even when values
// contain double-width (CJK) characters. Rune counts are not display columns;
// go-runewidth does the terminal-accurate math.

// TruncateWidth truncates a string to a maximum display width, appending a
// single-column ellipsis when anything was cut.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "…")
}

// PadWidth right-pads a string with spaces to the given display width.
// Strings already at or beyond the width are returned unchanged.
func PadWidth(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// StringWidth returns the display width of a string in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// WrapText wraps text to a maximum display width, breaking at word
// boundaries where possible. Existing line breaks are preserved; words
// wider than the limit are split mid-word.
func WrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	var out []string
	for _, line := range strings.Split(s, "\n") {
		out = append(out, wrapLine(line, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var lines []string
	var current string
	currentWidth := 0
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if currentWidth > 0 && currentWidth+1+w > width {
			lines = append(lines, current)
			current, currentWidth = "", 0
		}
		for w > width {
			if currentWidth > 0 {
				lines = append(lines, current)
				current, currentWidth = "", 0
			}
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than the limit still advances.
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			lines = append(lines, head)
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		if currentWidth > 0 {
			current += " "
			currentWidth++
		}
		current += word
		currentWidth += w
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// TruncateRunes truncates a string to a maximum number of runes (characters).
// This is safe for UTF-8 strings as it counts characters, not bytes.
// If the string is truncated, "..." is appended.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}
