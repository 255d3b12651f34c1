// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/prototui/layertable"
	"github.com/jeranaias/prototui/panel"
	"github.com/jeranaias/prototui/styles"
)

// Default outer dimensions before the first WindowSizeMsg.
const (
	DefaultWidth  = 100
	DefaultHeight = 30
)

// =============================================================================
// MODEL
// =============================================================================

// fieldState pairs a field definition with its live widget.
type fieldState struct {
	def     Field
	input   textinput.Model
	table   layertable.Model
	boolVal bool
	visible bool
	invalid bool
}

// Model is the universal screen: a left column with title, message, and
// fields, a right explanation panel, and a footer of key hints. Create
// it with New; it follows the usual Init/Update/View contract.
type Model struct {
	title   string
	message string
	fields  []fieldState

	explanation panel.Model

	// original explanation text, restored after validation errors clear
	origExplanationTitle   string
	origExplanationContent string
	origExplanationHint    string

	submitLabel  string
	cancelLabel  string
	allowSubmit  bool
	confirmation bool

	theme *styles.Theme
	keys  KeyMap

	width  int
	height int

	// focusIndex points into fields; -1 means nothing is focused
	focusIndex int

	finished bool
	result   Result
}

// Option configures the screen at construction time.
type Option func(*Model)

// WithFields sets the screen's fields, in display order.
func WithFields(fields ...Field) Option {
	return func(m *Model) {
		m.fields = make([]fieldState, len(fields))
		for i, f := range fields {
			m.fields[i] = fieldState{def: f}
		}
	}
}

// WithMessage sets the main message shown under the title.
func WithMessage(message string) Option {
	return func(m *Model) { m.message = message }
}

// WithExplanation sets the explanation panel's three zones.
func WithExplanation(title, content, hint string) Option {
	return func(m *Model) {
		m.origExplanationTitle = title
		m.origExplanationContent = content
		m.origExplanationHint = hint
	}
}

// WithSubmitLabel sets the footer label for Enter (default "Submit").
func WithSubmitLabel(label string) Option {
	return func(m *Model) { m.submitLabel = label }
}

// WithCancelLabel sets the footer label for Esc (default "Cancel").
func WithCancelLabel(label string) Option {
	return func(m *Model) { m.cancelLabel = label }
}

// WithAllowSubmit controls whether Enter submits the screen (default
// true). When disabled, Enter reaches the focused field instead.
func WithAllowSubmit(allow bool) Option {
	return func(m *Model) { m.allowSubmit = allow }
}

// WithTheme overrides the default theme.
func WithTheme(theme *styles.Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// WithKeyMap overrides the default key bindings.
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) { m.keys = keys }
}

// WithSize sets the initial outer dimensions.
func WithSize(width, height int) Option {
	return func(m *Model) {
		m.width = width
		m.height = height
	}
}

// New creates a universal screen.
func New(title string, opts ...Option) Model {
	m := Model{
		title:       title,
		submitLabel: "Submit",
		cancelLabel: "Cancel",
		allowSubmit: true,
		theme:       styles.DefaultTheme(),
		keys:        DefaultKeyMap(),
		width:       DefaultWidth,
		height:      DefaultHeight,
		focusIndex:  -1,
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.explanation = panel.New(
		m.origExplanationTitle,
		m.origExplanationContent,
		m.origExplanationHint,
	)
	m.initFields()
	m.layout()
	m.focusFirst()

	return m
}

// initFields builds the widget behind each field definition.
func (m *Model) initFields() {
	for i := range m.fields {
		f := &m.fields[i]
		f.visible = !f.def.InitiallyHidden
		if f.def.InitiallyHidden {
			// Hidden fields must not block submission.
			f.def.Required = false
		}

		switch f.def.Type {
		case FieldText:
			ti := textinput.New()
			ti.SetValue(f.def.DefaultValue)
			ti.Placeholder = f.def.Placeholder
			f.input = ti

		case FieldTable:
			t := layertable.New(
				layertable.WithColumns(f.def.Columns),
				layertable.WithRows(f.def.Rows),
				layertable.WithSelectMode(f.def.SelectMode),
				layertable.WithShowLayers(f.def.ShowLayers),
				layertable.WithShowColumnHeaders(f.def.ShowColumnHeaders),
				layertable.WithAutoHeight(f.def.AutoHeight),
				layertable.WithFilterable(f.def.Filterable),
				layertable.WithTheme(m.theme),
			)
			t.Blur()
			f.table = t

		case FieldBool:
			f.boolVal = f.def.DefaultBool
		}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case layertable.RowSelectedMsg:
		// A single-select table submits the screen as soon as a row is
		// picked.
		if f := m.focusedField(); f != nil && f.def.Type == FieldTable &&
			f.def.SelectMode == layertable.SelectSingle {
			return m.submit()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forwardToFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.confirmation {
		switch {
		case key.Matches(msg, m.keys.Yes):
			return m.finish(Result{Confirmed: true, Values: map[string]any{}}, submitCmd)
		case key.Matches(msg, m.keys.No):
			return m.finish(Result{Confirmed: false, Values: map[string]any{}}, cancelCmd)
		}
	}

	// A filtering table owns every key until its filter closes.
	if f := m.focusedField(); f != nil && f.def.Type == FieldTable && f.table.Filtering() {
		return m.forwardToFocused(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.focusIndex >= 0 {
			m.blurFocused()
			return m, nil
		}
		return m.cancel()

	case key.Matches(msg, m.keys.NextField):
		return m, m.focusNext()

	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusPrev()

	case key.Matches(msg, m.keys.Submit):
		if m.allowSubmit {
			return m.submit()
		}
		// Submit disabled: the focused field sees the key.

	case key.Matches(msg, m.keys.Toggle):
		if f := m.focusedField(); f != nil && f.def.Type == FieldBool {
			m.fields[m.focusIndex].boolVal = !m.fields[m.focusIndex].boolVal
			return m, nil
		}
	}

	return m.forwardToFocused(msg)
}

// forwardToFocused routes a message to the focused field's widget.
func (m Model) forwardToFocused(msg tea.Msg) (Model, tea.Cmd) {
	if m.focusIndex < 0 || m.focusIndex >= len(m.fields) {
		return m, nil
	}
	f := &m.fields[m.focusIndex]
	var cmd tea.Cmd
	switch f.def.Type {
	case FieldText:
		f.input, cmd = f.input.Update(msg)
	case FieldTable:
		f.table, cmd = f.table.Update(msg)
	}
	return m, cmd
}

// =============================================================================
// FOCUS
// =============================================================================

// focusableIndices lists the visible fields that take focus.
func (m *Model) focusableIndices() []int {
	var indices []int
	for i := range m.fields {
		if m.fields[i].visible && m.fields[i].def.focusable() {
			indices = append(indices, i)
		}
	}
	return indices
}

func (m *Model) focusedField() *fieldState {
	if m.focusIndex < 0 || m.focusIndex >= len(m.fields) {
		return nil
	}
	return &m.fields[m.focusIndex]
}

// focusNext moves focus to the next field, wrapping around. With
// nothing focused it focuses the first field.
func (m *Model) focusNext() tea.Cmd {
	foc := m.focusableIndices()
	if len(foc) == 0 {
		return nil
	}
	pos := -1
	for i, idx := range foc {
		if idx == m.focusIndex {
			pos = i
			break
		}
	}
	if pos < 0 {
		return m.focusField(foc[0])
	}
	return m.focusField(foc[(pos+1)%len(foc)])
}

// focusPrev moves focus to the previous field, wrapping around. With
// nothing focused it focuses the last field.
func (m *Model) focusPrev() tea.Cmd {
	foc := m.focusableIndices()
	if len(foc) == 0 {
		return nil
	}
	pos := -1
	for i, idx := range foc {
		if idx == m.focusIndex {
			pos = i
			break
		}
	}
	if pos < 0 {
		return m.focusField(foc[len(foc)-1])
	}
	return m.focusField(foc[(pos-1+len(foc))%len(foc)])
}

func (m *Model) focusField(index int) tea.Cmd {
	m.blurFocused()
	m.focusIndex = index
	f := &m.fields[index]
	switch f.def.Type {
	case FieldText:
		return f.input.Focus()
	case FieldTable:
		f.table.Focus()
	}
	return nil
}

func (m *Model) blurFocused() {
	f := m.focusedField()
	if f == nil {
		return
	}
	switch f.def.Type {
	case FieldText:
		f.input.Blur()
	case FieldTable:
		f.table.Blur()
	}
	m.focusIndex = -1
}

func (m *Model) focusFirst() {
	if foc := m.focusableIndices(); len(foc) > 0 {
		m.focusField(foc[0])
	}
}

// =============================================================================
// SUBMIT AND CANCEL
// =============================================================================

func (m Model) submit() (Model, tea.Cmd) {
	if !m.allowSubmit {
		return m, nil
	}
	errs := m.validate()
	if len(errs) > 0 {
		m.showValidationErrors(errs)
		return m, nil
	}
	m.clearValidationErrors()
	return m.finish(Result{Confirmed: true, Values: m.Values()}, submitCmd)
}

func (m Model) cancel() (Model, tea.Cmd) {
	return m.finish(Result{Confirmed: false, Values: map[string]any{}}, cancelCmd)
}

func (m Model) finish(result Result, cmd func(Result) tea.Cmd) (Model, tea.Cmd) {
	m.result = result
	m.finished = true
	return m, cmd(result)
}

// validate checks required fields, marks the failing ones, and returns
// one message per failure.
func (m *Model) validate() []string {
	var errs []string
	for i := range m.fields {
		f := &m.fields[i]
		f.invalid = false
		if !f.def.Required {
			continue
		}
		switch f.def.Type {
		case FieldText:
			if strings.TrimSpace(f.input.Value()) == "" {
				f.invalid = true
				errs = append(errs, fmt.Sprintf("%s is required", f.def.name()))
			}
		case FieldTable:
			if len(f.table.SelectedRows()) == 0 {
				f.invalid = true
				errs = append(errs, fmt.Sprintf("%s is required", f.def.name()))
			}
		}
	}
	return errs
}

func (m *Model) showValidationErrors(errs []string) {
	bullets := make([]string, len(errs))
	for i, err := range errs {
		bullets[i] = "• " + err
	}
	m.explanation.UpdateContent(
		panel.WithTitle("Validation Error"),
		panel.WithContent("Please fix the following errors:\n\n"+strings.Join(bullets, "\n")),
		panel.WithHint("Fix errors and try again"),
	)
}

func (m *Model) clearValidationErrors() {
	for i := range m.fields {
		m.fields[i].invalid = false
	}
	m.explanation.UpdateContent(
		panel.WithTitle(m.origExplanationTitle),
		panel.WithContent(m.origExplanationContent),
		panel.WithHint(m.origExplanationHint),
	)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Values collects the current value of every field: text fields as
// strings, table fields as their selected rows, boolean fields as
// bools. Hidden fields are included.
func (m Model) Values() map[string]any {
	values := make(map[string]any, len(m.fields))
	for i := range m.fields {
		f := &m.fields[i]
		switch f.def.Type {
		case FieldText:
			values[f.def.ID] = f.input.Value()
		case FieldTable:
			values[f.def.ID] = f.table.SelectedRows()
		case FieldBool:
			values[f.def.ID] = f.boolVal
		}
	}
	return values
}

// Result returns the terminal result after the screen submitted or
// cancelled.
func (m Model) Result() Result {
	return m.result
}

// Finished reports whether the screen has reached a terminal result.
func (m Model) Finished() bool {
	return m.finished
}

// SetFieldVisibility shows or hides a field and its label. With
// toggleRequired, the field's required flag tracks its visibility.
// Returns false when no field has the ID.
func (m *Model) SetFieldVisibility(id string, visible, toggleRequired bool) bool {
	for i := range m.fields {
		f := &m.fields[i]
		if f.def.ID != id {
			continue
		}
		f.visible = visible
		if toggleRequired {
			f.def.Required = visible
		}
		if !visible && m.focusIndex == i {
			m.blurFocused()
		}
		return true
	}
	return false
}

// UpdateExplanation forwards a partial update to the explanation panel.
func (m *Model) UpdateExplanation(opts ...panel.ContentOption) {
	m.explanation.UpdateContent(opts...)
}

// Table returns the embedded table of a table field for programmatic
// updates, or nil when the ID names no table field.
func (m *Model) Table(id string) *layertable.Model {
	for i := range m.fields {
		if m.fields[i].def.ID == id && m.fields[i].def.Type == FieldTable {
			return &m.fields[i].table
		}
	}
	return nil
}

// FocusedID returns the ID of the focused field, or "".
func (m Model) FocusedID() string {
	if f := m.focusedField(); f != nil {
		return f.def.ID
	}
	return ""
}

// Title returns the screen title.
func (m Model) Title() string {
	return m.title
}

// SetSize sets the outer dimensions and relayouts both columns.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.layout()
}

// layout splits the window: main content on the left, explanation
// panel on the right at two fifths of the width. Narrow terminals drop
// the panel and give the main column the full width.
func (m *Model) layout() {
	panelWidth := m.panelWidth()
	mainWidth := m.width - panelWidth

	bodyHeight := m.height - 2
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	if panelWidth > 0 {
		m.explanation.SetSize(panelWidth, bodyHeight)
	}

	for i := range m.fields {
		f := &m.fields[i]
		switch f.def.Type {
		case FieldText:
			f.input.Width = mainWidth - 6
		case FieldTable:
			f.table.SetSize(mainWidth-2, 0)
		}
	}
}

// panelWidth is the explanation panel's share of the window, zero when
// the layout is too narrow for two columns.
func (m Model) panelWidth() int {
	if styles.LayoutModeFor(m.width) == styles.LayoutNarrow {
		return 0
	}
	return m.width * 2 / 5
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	body := m.renderMain()
	if m.panelWidth() > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.explanation.View())
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderFooter())
}

func (m Model) renderMain() string {
	var sections []string
	sections = append(sections, m.theme.Title.Render(m.title))
	if m.message != "" {
		sections = append(sections, m.theme.Message.Render(m.message))
	}
	for i := range m.fields {
		f := &m.fields[i]
		if !f.visible {
			continue
		}
		sections = append(sections, m.renderField(i, f))
	}

	mainWidth := m.width - m.panelWidth()
	return lipgloss.NewStyle().Width(mainWidth).Render(strings.Join(sections, "\n\n"))
}

func (m Model) renderField(index int, f *fieldState) string {
	if f.def.Type == FieldMessage {
		return m.theme.Message.Render(f.def.Label)
	}

	var parts []string
	if f.def.Label != "" {
		labelStyle := m.theme.FieldLabel
		if f.invalid {
			labelStyle = m.theme.FieldError
		}
		parts = append(parts, labelStyle.Render(f.def.Label))
	}

	switch f.def.Type {
	case FieldText:
		parts = append(parts, f.input.View())
	case FieldTable:
		parts = append(parts, f.table.View())
	case FieldBool:
		parts = append(parts, m.renderBool(index, f))
	}
	return strings.Join(parts, "\n")
}

func (m Model) renderBool(index int, f *fieldState) string {
	value := "No"
	if f.boolVal {
		value = "Yes"
	}
	line := fmt.Sprintf("[%s] (Press Space to toggle)", value)
	if m.focusIndex == index {
		return m.theme.TableSelected.Render(line)
	}
	return m.theme.BoolValue.Render(line)
}

func (m Model) renderFooter() string {
	type hint struct {
		key  string
		desc string
	}
	var hints []hint
	if m.confirmation {
		hints = append(hints,
			hint{m.keys.Yes.Help().Key, "yes"},
			hint{m.keys.No.Help().Key, "no"},
		)
	} else {
		if m.allowSubmit {
			hints = append(hints, hint{m.keys.Submit.Help().Key, m.submitLabel})
		}
		if len(m.focusableIndices()) > 1 {
			hints = append(hints, hint{m.keys.NextField.Help().Key, "next field"})
		}
	}
	hints = append(hints, hint{m.keys.Cancel.Help().Key, m.cancelLabel})

	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = m.theme.ShortcutKey.Render(h.key) + " " + m.theme.ShortcutDesc.Render(h.desc)
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  ·  "))
}
