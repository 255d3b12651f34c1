// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components the prototui widgets draw from.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// SCREEN CHROME STYLES
	// ==========================================================================

	Title        lipgloss.Style
	Message      lipgloss.Style
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// FIELD STYLES
	// ==========================================================================

	FieldLabel lipgloss.Style
	FieldError lipgloss.Style
	BoolValue  lipgloss.Style

	// ==========================================================================
	// TABLE STYLES
	// ==========================================================================

	TableHeader   lipgloss.Style
	TableCell     lipgloss.Style
	TableSelected lipgloss.Style
	TableBorder   lipgloss.Style
	LayerHeader   lipgloss.Style
	FilterInfo    lipgloss.Style

	// ==========================================================================
	// PANEL STYLES
	// ==========================================================================

	PanelBorder  lipgloss.Style
	PanelTitle   lipgloss.Style
	PanelContent lipgloss.Style
	PanelHint    lipgloss.Style
	PanelSuccess lipgloss.Style
	PanelError   lipgloss.Style
	PanelWarning lipgloss.Style
	PanelInfo    lipgloss.Style
}

// DefaultTheme creates a theme with all styles configured for the current
// terminal.
func DefaultTheme() *Theme {
	// Detect terminal capabilities
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor
	isDark := termenv.HasDarkBackground()

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// Screen chrome
	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Padding(0, 1)

	t.Message = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Fields
	t.FieldLabel = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true).
		Padding(0, 1)

	t.FieldError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.BoolValue = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	// Table
	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary).
		Padding(0, 1).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(Overlay)

	t.TableCell = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.TableSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true)

	t.TableBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.LayerHeader = lipgloss.NewStyle().
		Foreground(Purple).
		Bold(true)

	t.FilterInfo = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(0, 1)

	// Panel
	t.PanelBorder = lipgloss.NewStyle().
		Background(Surface).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.PanelTitle = lipgloss.NewStyle().
		Background(Purple).
		Foreground(TextInverse).
		Bold(true)

	t.PanelContent = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.PanelHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.PanelSuccess = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.PanelError = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.PanelWarning = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.PanelInfo = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// LayoutModeFor returns the layout bucket for a terminal width.
func LayoutModeFor(width int) LayoutMode {
	if width < 60 {
		return LayoutNarrow
	}
	if width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}
