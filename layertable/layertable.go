// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package layertable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jeranaias/prototui/internal/util"
	"github.com/jeranaias/prototui/styles"
)

// maxVisibleRows caps the row area in auto-height mode before scrolling.
const maxVisibleRows = 10

// maxFitColumnWidth caps content-fitted column widths.
const maxFitColumnWidth = 40

// =============================================================================
// MODEL
// =============================================================================

// displayRow is one rendered table line: either a data row (rowIndex >= 0
// into Model.rows) or a synthetic layer header / separator.
type displayRow struct {
	key      string
	layer    string
	rowIndex int
}

// Model is the layered table widget. Create it with New; it follows the
// usual Init/Update/View contract.
type Model struct {
	table  table.Model
	filter textinput.Model
	keys   KeyMap
	theme  *styles.Theme

	columns []string
	rows    []Row

	mode        SelectMode
	showLayers  bool
	showHeaders bool
	autoHeight  bool
	filterable  bool
	width       int
	height      int

	focused    bool
	filtering  bool
	filterText string

	// selected holds toggled row keys in multi mode
	selected map[string]bool

	// radioKey is the ● row in radio mode
	radioKey string

	// cursorKey restores the cursor across rebuilds
	cursorKey string

	display   []displayRow
	tableRows []table.Row

	collator *collate.Collator
}

// Option configures the table at construction time.
type Option func(*Model)

// WithColumns sets the column names, in display order.
func WithColumns(columns []string) Option {
	return func(m *Model) { m.columns = columns }
}

// WithRows sets the initial rows.
func WithRows(rows []Row) Option {
	return func(m *Model) { m.rows = normalizeRows(rows) }
}

// WithSelectMode sets the selection mode (default SelectSingle).
func WithSelectMode(mode SelectMode) Option {
	return func(m *Model) { m.mode = mode }
}

// WithShowLayers controls layer headers and separators (default true).
func WithShowLayers(show bool) Option {
	return func(m *Model) { m.showLayers = show }
}

// WithShowColumnHeaders controls the column header line (default true).
func WithShowColumnHeaders(show bool) Option {
	return func(m *Model) { m.showHeaders = show }
}

// WithAutoHeight sizes the widget to its row count, capped at
// maxVisibleRows (default false).
func WithAutoHeight(auto bool) Option {
	return func(m *Model) { m.autoHeight = auto }
}

// WithFilterable enables the / filter input (default false).
func WithFilterable(filterable bool) Option {
	return func(m *Model) { m.filterable = filterable }
}

// WithWidth sets the outer widget width.
func WithWidth(width int) Option {
	return func(m *Model) { m.width = width }
}

// WithHeight sets the outer widget height (ignored with auto-height).
func WithHeight(height int) Option {
	return func(m *Model) { m.height = height }
}

// WithTheme overrides the default theme.
func WithTheme(theme *styles.Theme) Option {
	return func(m *Model) { m.theme = theme }
}

// WithKeyMap overrides the default key bindings.
func WithKeyMap(keys KeyMap) Option {
	return func(m *Model) { m.keys = keys }
}

// New creates a layered table.
func New(opts ...Option) Model {
	m := Model{
		keys:        DefaultKeyMap(),
		theme:       styles.DefaultTheme(),
		mode:        SelectSingle,
		showLayers:  true,
		showHeaders: true,
		focused:     true,
		selected:    make(map[string]bool),
		collator:    collate.New(language.Und, collate.IgnoreCase),
	}

	for _, opt := range opts {
		opt(&m)
	}

	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Prompt = "/ "
	m.filter = ti

	m.table = table.New(table.WithFocused(true))
	m.applyTableStyles()
	m.rebuild()

	return m
}

// applyTableStyles wires the theme into the embedded table. Without
// column headers the header line is rendered borderless and stripped
// from the view.
func (m *Model) applyTableStyles() {
	ts := table.DefaultStyles()
	if m.showHeaders {
		ts.Header = m.theme.TableHeader
	} else {
		ts.Header = m.theme.TableCell
	}
	ts.Cell = m.theme.TableCell
	ts.Selected = m.theme.TableSelected
	m.table.SetStyles(ts)
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			return m.moveCursor(-1)
		case key.Matches(msg, m.keys.Down):
			return m.moveCursor(1)
		case key.Matches(msg, m.keys.Filter):
			if m.filterable {
				m.filtering = true
				m.table.Blur()
				return m, m.filter.Focus()
			}
			return m, nil
		case key.Matches(msg, m.keys.Select):
			return m.handleSelect()
		case key.Matches(msg, m.keys.Toggle):
			return m.handleToggle()
		}
		// Page and jump keys are swallowed: they would land on
		// synthetic rows.
		return m, nil

	default:
		if m.filtering {
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// updateFilter routes keys while the filter input is focused.
func (m Model) updateFilter(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.filter.SetValue("")
		m.filter.Blur()
		m.filtering = false
		m.filterText = ""
		m.table.Focus()
		m.rebuild()
		return m, nil

	case tea.KeyTab, tea.KeyUp, tea.KeyDown:
		// Hand focus back to the table; the input stays visible while
		// it still holds text.
		m.filter.Blur()
		m.filtering = false
		m.table.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if value := m.filter.Value(); value != m.filterText {
		m.filterText = value
		m.rebuild()
	}
	return m, cmd
}

// moveCursor shifts the cursor by direction (-1 or 1), skipping
// synthetic rows and wrapping at both ends.
func (m Model) moveCursor(direction int) (Model, tea.Cmd) {
	valid := m.validIndices()
	if len(valid) == 0 {
		return m, nil
	}

	cursor := m.table.Cursor()
	pos := -1
	for i, idx := range valid {
		if idx == cursor {
			pos = i
			break
		}
	}

	var target int
	if pos < 0 {
		// Cursor is off a data row; snap to the first valid one.
		target = valid[0]
	} else {
		next := (pos + direction + len(valid)) % len(valid)
		target = valid[next]
	}

	m.jumpTo(target)
	m.cursorKey = m.display[target].key
	row := m.rowAt(target)
	return m, highlightCmd(row, m.cursorKey)
}

// handleSelect handles Enter.
func (m Model) handleSelect() (Model, tea.Cmd) {
	switch m.mode {
	case SelectMulti:
		return m, confirmCmd(m.SelectedRows())
	case SelectRadio:
		return m.selectRadioAtCursor()
	default:
		row := m.CursorRow()
		if row == nil {
			return m, nil
		}
		return m, selectCmd(*row, row.Key)
	}
}

// handleToggle handles Space.
func (m Model) handleToggle() (Model, tea.Cmd) {
	switch m.mode {
	case SelectMulti:
		row := m.CursorRow()
		if row == nil {
			return m, nil
		}
		m.selected[row.Key] = !m.selected[row.Key]
		m.refreshCheckboxes()
		return m, toggleCmd(*row, row.Key, m.selected[row.Key])
	case SelectRadio:
		return m.selectRadioAtCursor()
	default:
		return m, nil
	}
}

// selectRadioAtCursor moves the ● marker to the cursor row.
func (m Model) selectRadioAtCursor() (Model, tea.Cmd) {
	row := m.CursorRow()
	if row == nil {
		return m, nil
	}
	m.radioKey = row.Key
	m.refreshCheckboxes()
	return m, selectCmd(*row, row.Key)
}

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m Model) View() string {
	var sections []string

	if m.filterable && (m.filtering || m.filterText != "") {
		sections = append(sections, m.filter.View())
		if m.filterText != "" {
			sections = append(sections, m.theme.FilterInfo.Render(m.filterInfo()))
		}
	}

	tableView := m.table.View()
	if !m.showHeaders {
		if i := strings.Index(tableView, "\n"); i >= 0 {
			tableView = tableView[i+1:]
		}
	}
	sections = append(sections, m.theme.TableBorder.Render(tableView))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// filterInfo builds the match-count line shown under the filter input.
func (m Model) filterInfo() string {
	matches := 0
	for _, dr := range m.display {
		if dr.rowIndex >= 0 {
			matches++
		}
	}
	return fmt.Sprintf("Filter: %s (%d of %d matches)", m.filterText, matches, len(m.rows))
}

// Height returns the widget's outer height. In auto-height mode that is
// the column header block, up to maxVisibleRows rows, and the border,
// with 3 for an empty table.
func (m Model) Height() int {
	if !m.autoHeight && m.height > 0 {
		return m.height
	}
	headerHeight := 0
	if m.showHeaders {
		headerHeight = 2
	}
	if !m.autoHeight {
		return headerHeight + m.table.Height() + 2
	}
	count := len(m.display)
	if count == 0 {
		return 3
	}
	visible := count
	if visible > maxVisibleRows {
		visible = maxVisibleRows
	}
	return headerHeight + visible + 2
}

// =============================================================================
// REBUILD
// =============================================================================

// rebuild regenerates the display rows from the source rows: filter,
// group by layer, sort, insert synthetic rows, then restore cursor and
// selection state.
func (m *Model) rebuild() {
	m.display = nil
	m.tableRows = nil

	visible := m.visibleRowIndices()
	groups := m.groupByLayer(visible)

	hasCheckbox := m.mode.hasCheckbox()
	cellCount := len(m.columns)
	if hasCheckbox {
		cellCount++
	}

	for layerIndex, group := range groups {
		if m.showLayers && group.name != "" {
			cells := make(table.Row, cellCount)
			label := fmt.Sprintf("── %s ──", group.name)
			// The label goes in the first data column, after the
			// checkbox column when there is one.
			labelIdx := 0
			if hasCheckbox {
				labelIdx = 1
			}
			if labelIdx < len(cells) {
				cells[labelIdx] = label
			}
			m.appendDisplayRow(displayRow{
				key:      fmt.Sprintf("%s%d", layerHeaderPrefix, layerIndex),
				layer:    group.name,
				rowIndex: -1,
			}, cells)
		}

		m.sortWithinLayer(group.indices)

		for _, rowIndex := range group.indices {
			row := m.rows[rowIndex]
			cells := make(table.Row, 0, cellCount)
			if hasCheckbox {
				cells = append(cells, m.checkboxGlyph(row.Key))
			}
			for _, col := range m.columns {
				cells = append(cells, row.Values[col])
			}
			m.appendDisplayRow(displayRow{
				key:      row.Key,
				layer:    row.Layer,
				rowIndex: rowIndex,
			}, cells)
		}

		if m.showLayers && layerIndex < len(groups)-1 {
			m.appendDisplayRow(displayRow{
				key:      fmt.Sprintf("%s%d", separatorPrefix, layerIndex),
				layer:    group.name,
				rowIndex: -1,
			}, make(table.Row, cellCount))
		}
	}

	cols := m.buildColumns()
	m.fitCells(cols)

	// Clearing rows first keeps the embedded table from rendering old
	// rows against the new column set.
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(m.tableRows)
	m.applyHeight()
	m.restoreCursor()
}

func (m *Model) appendDisplayRow(dr displayRow, cells table.Row) {
	m.display = append(m.display, dr)
	m.tableRows = append(m.tableRows, cells)
}

// visibleRowIndices applies the filter: a case-insensitive substring
// match against every cell value.
func (m *Model) visibleRowIndices() []int {
	indices := make([]int, 0, len(m.rows))
	needle := strings.ToLower(m.filterText)
	for i, row := range m.rows {
		if needle != "" && !rowMatches(row, needle) {
			continue
		}
		indices = append(indices, i)
	}
	return indices
}

func rowMatches(row Row, needle string) bool {
	for _, value := range row.Values {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}

// layerGroup is one ordered group of source row indices.
type layerGroup struct {
	name    string
	indices []int
}

// groupByLayer buckets rows by layer. Named layers sort alphabetically
// (case-insensitive collation); the unnamed layer goes last. With layers
// hidden everything lands in one unnamed group.
func (m *Model) groupByLayer(indices []int) []layerGroup {
	buckets := make(map[string][]int)
	for _, idx := range indices {
		layer := ""
		if m.showLayers {
			layer = m.rows[idx].Layer
		}
		buckets[layer] = append(buckets[layer], idx)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.SliceStable(names, func(a, b int) bool {
		return m.collator.CompareString(names[a], names[b]) < 0
	})
	if _, ok := buckets[""]; ok {
		names = append(names, "")
	}

	groups := make([]layerGroup, 0, len(names))
	for _, name := range names {
		groups = append(groups, layerGroup{name: name, indices: buckets[name]})
	}
	return groups
}

// sortWithinLayer orders rows by their first column's value.
func (m *Model) sortWithinLayer(indices []int) {
	if len(m.columns) == 0 {
		return
	}
	first := m.columns[0]
	sort.SliceStable(indices, func(a, b int) bool {
		va := m.rows[indices[a]].Values[first]
		vb := m.rows[indices[b]].Values[first]
		return m.collator.CompareString(va, vb) < 0
	})
}

// buildColumns derives the table columns. With an explicit width the
// space is split evenly; otherwise columns fit their content, capped at
// maxFitColumnWidth.
func (m *Model) buildColumns() []table.Column {
	hasCheckbox := m.mode.hasCheckbox()

	cols := make([]table.Column, 0, len(m.columns)+1)
	if hasCheckbox {
		cols = append(cols, table.Column{Title: "", Width: 1})
	}

	if m.width > 0 && len(m.columns) > 0 {
		// Outer border, per-cell padding, checkbox column.
		inner := m.width - 2 - 2*(len(m.columns))
		if hasCheckbox {
			inner -= 1 + 2
		}
		per := inner / len(m.columns)
		if per < 4 {
			per = 4
		}
		for _, name := range m.columns {
			cols = append(cols, table.Column{Title: name, Width: per})
		}
		return cols
	}

	for colIdx, name := range m.columns {
		width := util.StringWidth(name)
		cellIdx := colIdx
		if hasCheckbox {
			cellIdx++
		}
		for _, cells := range m.tableRows {
			if w := util.StringWidth(cells[cellIdx]); w > width {
				width = w
			}
		}
		if width > maxFitColumnWidth {
			width = maxFitColumnWidth
		}
		if width < 1 {
			width = 1
		}
		cols = append(cols, table.Column{Title: name, Width: width})
	}
	return cols
}

// fitCells truncates every cell to its column width so long values end
// in an ellipsis instead of spilling past the column.
func (m *Model) fitCells(cols []table.Column) {
	for _, cells := range m.tableRows {
		for i, cell := range cells {
			if i < len(cols) {
				cells[i] = util.TruncateWidth(cell, cols[i].Width)
			}
		}
	}
}

// applyHeight sizes the embedded table's row viewport.
func (m *Model) applyHeight() {
	if m.autoHeight {
		visible := len(m.display)
		if visible > maxVisibleRows {
			visible = maxVisibleRows
		}
		if visible < 1 {
			visible = 1
		}
		m.table.SetHeight(visible)
		return
	}
	if m.height > 0 {
		chrome := 2
		if m.showHeaders {
			chrome += 2
		}
		rows := m.height - chrome
		if rows < 1 {
			rows = 1
		}
		m.table.SetHeight(rows)
	}
}

// restoreCursor puts the cursor back on its remembered row, falling back
// to the first data row.
func (m *Model) restoreCursor() {
	if len(m.display) == 0 {
		m.cursorKey = ""
		return
	}

	target := -1
	if m.cursorKey != "" {
		for i, dr := range m.display {
			if dr.rowIndex >= 0 && dr.key == m.cursorKey {
				target = i
				break
			}
		}
	}
	if target < 0 {
		valid := m.validIndices()
		if len(valid) == 0 {
			m.cursorKey = ""
			return
		}
		target = valid[0]
	}
	m.table.SetCursor(target)
	m.cursorKey = m.display[target].key
}

// validIndices lists the display positions of data rows.
func (m *Model) validIndices() []int {
	valid := make([]int, 0, len(m.display))
	for i, dr := range m.display {
		if dr.rowIndex >= 0 {
			valid = append(valid, i)
		}
	}
	return valid
}

// jumpTo moves the embedded table cursor, scrolling the viewport.
func (m *Model) jumpTo(index int) {
	cursor := m.table.Cursor()
	switch {
	case index > cursor:
		m.table.MoveDown(index - cursor)
	case index < cursor:
		m.table.MoveUp(cursor - index)
	}
}

// rowAt returns a copy of the data row at the display index, or nil.
func (m *Model) rowAt(index int) *Row {
	if index < 0 || index >= len(m.display) {
		return nil
	}
	dr := m.display[index]
	if dr.rowIndex < 0 || dr.rowIndex >= len(m.rows) {
		return nil
	}
	row := m.rows[dr.rowIndex]
	return &row
}

// checkboxGlyph returns the marker for a row key in the current mode.
func (m *Model) checkboxGlyph(key string) string {
	switch m.mode {
	case SelectRadio:
		if key == m.radioKey {
			return glyphSelected
		}
		return ""
	case SelectMulti:
		if m.selected[key] {
			return glyphSelected
		}
		return glyphUnselected
	default:
		return ""
	}
}

// refreshCheckboxes rewrites the checkbox cell of every data row.
func (m *Model) refreshCheckboxes() {
	if !m.mode.hasCheckbox() {
		return
	}
	for i, dr := range m.display {
		if dr.rowIndex < 0 {
			continue
		}
		m.tableRows[i][0] = m.checkboxGlyph(dr.key)
	}
	m.table.SetRows(m.tableRows)
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SetRows replaces all rows. Toggled and radio selections and the cursor
// position survive for rows whose keys are still present.
func (m *Model) SetRows(rows []Row) {
	m.rows = normalizeRows(rows)
	m.rebuild()
}

// SetColumns replaces the column set.
func (m *Model) SetColumns(columns []string) {
	m.columns = columns
	m.rebuild()
}

// AddRow appends a row.
func (m *Model) AddRow(row Row) {
	m.rows = normalizeRows(append(m.rows, row))
	m.rebuild()
}

// AddColumn appends a column. Rows without a value for it render blank.
func (m *Model) AddColumn(name string) {
	m.columns = append(m.columns, name)
	m.rebuild()
}

// UpdateCell changes one cell value by row key. Unknown keys are a no-op.
func (m *Model) UpdateCell(rowKey, column, value string) {
	for i := range m.rows {
		if m.rows[i].Key == rowKey {
			m.rows[i].Values[column] = value
			m.rebuild()
			return
		}
	}
}

// Rows returns the source rows in insertion order.
func (m Model) Rows() []Row {
	return m.rows
}

// Columns returns the column names.
func (m Model) Columns() []string {
	return m.columns
}

// SelectedRows returns the current selection: toggled rows in multi
// mode, the ● row in radio mode, and the highlighted row otherwise.
func (m Model) SelectedRows() []Row {
	switch m.mode {
	case SelectMulti:
		var rows []Row
		for _, row := range m.rows {
			if m.selected[row.Key] {
				rows = append(rows, row)
			}
		}
		return rows
	case SelectRadio:
		if m.radioKey == "" {
			return nil
		}
		for _, row := range m.rows {
			if row.Key == m.radioKey {
				return []Row{row}
			}
		}
		return nil
	default:
		row := m.CursorRow()
		if row == nil {
			return nil
		}
		return []Row{*row}
	}
}

// SelectRowsByLayer selects exactly the rows of one layer: in multi mode
// every row in it (clearing all others), in radio mode its first row.
func (m *Model) SelectRowsByLayer(layer string) {
	switch m.mode {
	case SelectMulti:
		m.selected = make(map[string]bool)
		for _, dr := range m.display {
			if dr.rowIndex >= 0 && dr.layer == layer {
				m.selected[dr.key] = true
			}
		}
	case SelectRadio:
		m.radioKey = ""
		for _, dr := range m.display {
			if dr.rowIndex >= 0 && dr.layer == layer {
				m.radioKey = dr.key
				break
			}
		}
	default:
		return
	}
	m.refreshCheckboxes()
}

// ToggleRowsByLayer toggles a layer in multi mode: fully selected rows
// are deselected, anything less selects the whole layer.
func (m *Model) ToggleRowsByLayer(layer string) {
	if m.mode != SelectMulti {
		return
	}

	var keys []string
	for _, dr := range m.display {
		if dr.rowIndex >= 0 && dr.layer == layer {
			keys = append(keys, dr.key)
		}
	}
	if len(keys) == 0 {
		return
	}

	allSelected := true
	for _, k := range keys {
		if !m.selected[k] {
			allSelected = false
			break
		}
	}
	for _, k := range keys {
		if allSelected {
			delete(m.selected, k)
		} else {
			m.selected[k] = true
		}
	}
	m.refreshCheckboxes()
}

// ToggleAllRows applies the same all-or-nothing toggle to every
// displayed row in multi mode. When everything shown is already
// selected the whole selection is cleared.
func (m *Model) ToggleAllRows() {
	if m.mode != SelectMulti {
		return
	}

	var keys []string
	for _, dr := range m.display {
		if dr.rowIndex >= 0 {
			keys = append(keys, dr.key)
		}
	}
	if len(keys) == 0 {
		return
	}

	allSelected := true
	for _, k := range keys {
		if !m.selected[k] {
			allSelected = false
			break
		}
	}
	if allSelected {
		m.selected = make(map[string]bool)
	} else {
		for _, k := range keys {
			m.selected[k] = true
		}
	}
	m.refreshCheckboxes()
}

// CursorRow returns a copy of the highlighted row, or nil when the
// cursor is not on a data row.
func (m Model) CursorRow() *Row {
	return m.rowAt(m.table.Cursor())
}

// CursorLayer returns the layer of the highlighted row.
func (m Model) CursorLayer() string {
	row := m.CursorRow()
	if row == nil {
		return ""
	}
	return row.Layer
}

// Cursor returns the display-row index of the cursor.
func (m Model) Cursor() int {
	return m.table.Cursor()
}

// SetCursor moves the cursor to a display-row index.
func (m *Model) SetCursor(index int) {
	if len(m.display) == 0 {
		return
	}
	m.table.SetCursor(index)
	if row := m.rowAt(m.table.Cursor()); row != nil {
		m.cursorKey = row.Key
	}
}

// SetSize sets the outer widget dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if width > 4 {
		m.table.SetWidth(width - 2)
		m.filter.Width = width - 4
	}
	m.rebuild()
}

// Focus enables key handling.
func (m *Model) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur disables key handling.
func (m *Model) Blur() {
	m.focused = false
	m.filtering = false
	m.filter.Blur()
	m.table.Blur()
}

// Focused reports whether the widget handles keys.
func (m Model) Focused() bool {
	return m.focused
}

// Filtering reports whether the filter input has focus.
func (m Model) Filtering() bool {
	return m.filtering
}

// FilterText returns the active filter string.
func (m Model) FilterText() string {
	return m.filterText
}
