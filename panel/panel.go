// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package panel

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prototui/internal/util"
	"github.com/jeranaias/prototui/styles"
)

// Default outer dimensions before SetSize is called.
const (
	DefaultWidth  = 40
	DefaultHeight = 10
)

// =============================================================================
// MODEL
// =============================================================================

// Model is the explanation panel widget. Create it with New; it follows
// the usual Init/Update/View contract.
type Model struct {
	viewport viewport.Model
	theme    *styles.Theme

	title   string
	content string
	hint    string

	// titleStyle tracks the status color; plain titles use the theme's
	// PanelTitle style.
	titleStyle lipgloss.Style

	// preformatted content (markdown, highlighted code) already carries
	// its own wrapping and styling
	preformatted bool

	width   int
	height  int
	focused bool
}

// ContentOption names one zone for a partial UpdateContent.
type ContentOption func(*Model)

// WithTitle replaces the panel title.
func WithTitle(title string) ContentOption {
	return func(m *Model) {
		m.title = title
		m.titleStyle = m.theme.PanelTitle
	}
}

// WithContent replaces the panel content.
func WithContent(content string) ContentOption {
	return func(m *Model) {
		m.content = content
		m.preformatted = false
	}
}

// WithHint replaces the hint line.
func WithHint(hint string) ContentOption {
	return func(m *Model) { m.hint = hint }
}

// New creates an explanation panel with the given zones.
func New(title, content, hint string) Model {
	theme := styles.DefaultTheme()

	m := Model{
		theme:      theme,
		title:      title,
		content:    content,
		hint:       hint,
		titleStyle: theme.PanelTitle,
		width:      DefaultWidth,
		height:     DefaultHeight,
	}
	m.viewport = viewport.New(m.contentWidth(), m.contentHeight())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update scrolls the viewport while the panel is focused.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the panel inside its border.
func (m Model) View() string {
	return m.theme.PanelBorder.Render(m.viewport.View())
}

// =============================================================================
// CONTENT
// =============================================================================

// UpdateContent applies a partial update: only the zones named by the
// options change.
func (m *Model) UpdateContent(opts ...ContentOption) {
	for _, opt := range opts {
		opt(m)
	}
	m.refresh()
}

// SetTitle replaces the title and resets any status coloring.
func (m *Model) SetTitle(title string) {
	m.title = title
	m.titleStyle = m.theme.PanelTitle
	m.refresh()
}

// SetContent replaces the content zone.
func (m *Model) SetContent(content string) {
	m.content = content
	m.preformatted = false
	m.refresh()
}

// SetHint replaces the hint line.
func (m *Model) SetHint(hint string) {
	m.hint = hint
	m.refresh()
}

// Clear empties all three zones and scrolls back to the top.
func (m *Model) Clear() {
	m.title = ""
	m.content = ""
	m.hint = ""
	m.titleStyle = m.theme.PanelTitle
	m.preformatted = false
	m.viewport.GotoTop()
	m.refresh()
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// SetSuccess displays a success message under a ✓ Success title.
func (m *Model) SetSuccess(message, hint string) {
	m.setStatus("✓ Success", m.theme.PanelSuccess, message, hint)
}

// SetError displays an error message under a ✗ Error title.
func (m *Model) SetError(message, hint string) {
	m.setStatus("✗ Error", m.theme.PanelError, message, hint)
}

// SetWarning displays a warning message under a ⚠ Warning title.
func (m *Model) SetWarning(message, hint string) {
	m.setStatus("⚠ Warning", m.theme.PanelWarning, message, hint)
}

// SetInfo displays an informational message under an ℹ Info title.
func (m *Model) SetInfo(message, hint string) {
	m.setStatus("ℹ Info", m.theme.PanelInfo, message, hint)
}

func (m *Model) setStatus(title string, style lipgloss.Style, message, hint string) {
	m.title = title
	m.titleStyle = style
	m.content = message
	m.hint = hint
	m.preformatted = false
	m.viewport.GotoTop()
	m.refresh()
}

// =============================================================================
// SIZE AND FOCUS
// =============================================================================

// SetSize sets the panel's outer dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = m.contentWidth()
	m.viewport.Height = m.contentHeight()
	m.refresh()
}

// contentWidth is the inner text width: border and padding take four
// columns.
func (m Model) contentWidth() int {
	w := m.width - 4
	if w < 1 {
		w = 1
	}
	return w
}

// contentHeight is the inner text height: the border takes two rows.
func (m Model) contentHeight() int {
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// Focus enables scrolling keys.
func (m *Model) Focus() {
	m.focused = true
}

// Blur disables scrolling keys.
func (m *Model) Blur() {
	m.focused = false
}

// Focused reports whether the panel handles keys.
func (m Model) Focused() bool {
	return m.focused
}

// ScrollToTop resets the scroll position.
func (m *Model) ScrollToTop() {
	m.viewport.GotoTop()
}

// ScrollToBottom scrolls to the end of the content.
func (m *Model) ScrollToBottom() {
	m.viewport.GotoBottom()
}

// AtTop reports whether the viewport shows the first content line.
func (m Model) AtTop() bool {
	return m.viewport.AtTop()
}

// AtBottom reports whether the viewport shows the last content line.
func (m Model) AtBottom() bool {
	return m.viewport.AtBottom()
}

// Title returns the raw title text.
func (m Model) Title() string {
	return m.title
}

// Content returns the raw content text.
func (m Model) Content() string {
	return m.content
}

// Hint returns the raw hint text.
func (m Model) Hint() string {
	return m.hint
}

// Width returns the outer width.
func (m Model) Width() int {
	return m.width
}

// Height returns the outer height.
func (m Model) Height() int {
	return m.height
}

// =============================================================================
// RENDERING
// =============================================================================

// refresh rebuilds the viewport content from the three zones.
func (m *Model) refresh() {
	width := m.contentWidth()

	var sections []string
	if m.title != "" {
		sections = append(sections, m.titleStyle.Render(util.WrapText(m.title, width)))
	}
	if m.content != "" {
		body := m.content
		if !m.preformatted {
			body = m.theme.PanelContent.Render(util.WrapText(body, width))
		}
		sections = append(sections, body)
	}
	if m.hint != "" {
		sections = append(sections, m.theme.PanelHint.Render(util.WrapText(m.hint, width)))
	}

	m.viewport.SetContent(strings.Join(sections, "\n\n"))
}
