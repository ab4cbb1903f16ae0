package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
)

type tableColumn struct {
	key    string
	label  string
	width  int
	hidden bool
}

// tableState holds the rows, cursor and column state of a sortable table.
// value returns the display text of a cell; sortValue, when set, returns the
// text rows are ordered by.
type tableState[T any] struct {
	allRows []T
	rows    []T
	cursor  int
	offset  int

	viewportHeight int

	columns      []tableColumn
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string

	id        func(T) string
	value     func(T, string) string
	sortValue func(T, string) string
}

func (t *tableState[T]) SetRows(rows []T) {
	t.allRows = append([]T(nil), rows...)
	t.rebuild()
}

func (t *tableState[T]) Len() int { return len(t.rows) }

// Selected returns the row under the cursor.
func (t *tableState[T]) Selected() (T, bool) {
	var zero T
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return zero, false
	}
	return t.rows[t.cursor], true
}

func (t *tableState[T]) ApplyPrefs(prefs TablePrefs) {
	if prefs.SortKey != "" && t.hasColumn(prefs.SortKey) {
		t.sortKey = prefs.SortKey
		t.sortDesc = prefs.SortDesc
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range t.columns {
		t.columns[i].hidden = hidden[t.columns[i].key]
	}
	for i, c := range t.columns {
		if c.key == prefs.ActiveColumn {
			t.activeColumn = i
			break
		}
	}
	t.ensureVisibleActiveColumn()
	t.rebuild()
}

func (t *tableState[T]) Prefs() TablePrefs {
	var hidden []string
	for _, c := range t.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	return TablePrefs{
		SortKey:       t.sortKey,
		SortDesc:      t.sortDesc,
		HiddenColumns: hidden,
		ActiveColumn:  t.columns[t.activeColumn].key,
	}
}

func (t *tableState[T]) hasColumn(key string) bool {
	for _, c := range t.columns {
		if c.key == key {
			return true
		}
	}
	return false
}

func (t *tableState[T]) sortText(row T, key string) string {
	if t.sortValue != nil {
		return t.sortValue(row, key)
	}
	return strings.ToLower(t.value(row, key))
}

func (t *tableState[T]) rebuild() {
	rows := append([]T(nil), t.allRows...)

	if t.filterKey != "" && t.filterValue != "" {
		filtered := make([]T, 0, len(rows))
		target := strings.TrimSpace(t.filterValue)
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(t.value(r, t.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if t.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			left := t.sortText(rows[i], t.sortKey)
			right := t.sortText(rows[j], t.sortKey)
			if left == right {
				return t.id(rows[i]) < t.id(rows[j])
			}
			if t.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	t.rows = rows
	t.clampCursor()
}

func (t *tableState[T]) clampCursor() {
	if len(t.rows) == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
}

func (t *tableState[T]) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range t.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (t *tableState[T]) ensureVisibleActiveColumn() {
	if !t.columns[t.activeColumn].hidden {
		return
	}
	for i := range t.columns {
		if !t.columns[i].hidden {
			t.activeColumn = i
			return
		}
	}
	t.columns[0].hidden = false
	t.activeColumn = 0
}

func (t *tableState[T]) NextColumn() {
	start := t.activeColumn
	for {
		t.activeColumn = (t.activeColumn + 1) % len(t.columns)
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *tableState[T]) PrevColumn() {
	start := t.activeColumn
	for {
		t.activeColumn--
		if t.activeColumn < 0 {
			t.activeColumn = len(t.columns) - 1
		}
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *tableState[T]) JumpToColumn(number int) bool {
	if number < 1 || number > len(t.columns) {
		return false
	}
	idx := number - 1
	if t.columns[idx].hidden {
		return false
	}
	t.activeColumn = idx
	return true
}

func (t *tableState[T]) SortActiveColumn(desc bool) {
	t.sortKey = t.columns[t.activeColumn].key
	t.sortDesc = desc
	t.rebuild()
}

func (t *tableState[T]) HideActiveColumn() bool {
	if len(t.visibleColumnIndexes()) <= 1 {
		return false
	}
	t.columns[t.activeColumn].hidden = true
	t.ensureVisibleActiveColumn()
	return true
}

func (t *tableState[T]) ShowAllColumns() {
	for i := range t.columns {
		t.columns[i].hidden = false
	}
}

func (t *tableState[T]) FilterBySelectedValue() bool {
	row, ok := t.Selected()
	if !ok {
		return false
	}
	key := t.columns[t.activeColumn].key
	value := strings.TrimSpace(t.value(row, key))
	if value == "" || value == "—" {
		return false
	}
	t.filterKey = key
	t.filterValue = value
	t.rebuild()
	return true
}

func (t *tableState[T]) ClearFilter() bool {
	if t.filterKey == "" {
		return false
	}
	t.filterKey = ""
	t.filterValue = ""
	t.rebuild()
	return true
}

func (t *tableState[T]) TableMeta() string {
	col := strings.ToUpper(t.columns[t.activeColumn].label)
	parts := []string{fmt.Sprintf("col %s", col)}
	if t.sortKey != "" {
		order := "asc"
		if t.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(t.sortKey), order))
	}
	if t.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(t.filterKey), t.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

func (t *tableState[T]) viewport() int {
	if t.viewportHeight <= 0 {
		return 10
	}
	return t.viewportHeight
}

// MoveDown moves the cursor down.
func (t *tableState[T]) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		if t.cursor >= t.offset+t.viewport() {
			t.offset++
		}
	}
}

// MoveUp moves the cursor up.
func (t *tableState[T]) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		if t.cursor < t.offset {
			t.offset--
		}
	}
}

// JumpToTop jumps to the first item.
func (t *tableState[T]) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last item.
func (t *tableState[T]) JumpToBottom() {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = len(t.rows) - 1
	if vh := t.viewport(); t.cursor >= vh {
		t.offset = t.cursor - vh + 1
	}
}

// HalfPageDown moves down half a page.
func (t *tableState[T]) HalfPageDown(pageSize int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = min(t.cursor+pageSize/2, len(t.rows)-1)
	if vh := t.viewport(); t.cursor >= t.offset+vh {
		t.offset = t.cursor - vh + 1
	}
}

// HalfPageUp moves up half a page.
func (t *tableState[T]) HalfPageUp(pageSize int) {
	t.cursor = max(t.cursor-pageSize/2, 0)
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
}

// render draws the header, divider and visible rows. cell renders a row's
// cell for display and may style it; widths come from the column defs.
func (t *tableState[T]) render(width, height int, cell func(T, tableColumn) string) string {
	visible := t.visibleColumnIndexes()

	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	totalFixed := 0
	for _, idx := range visible {
		col := t.columns[idx]
		label := formatHeaderLabel(col.label)
		if idx == t.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if t.sortKey == col.key {
			if t.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		cellWidth := max(col.width+2, lipgloss.Width(label)+4)
		totalFixed += cellWidth
		widths = append(widths, cellWidth)
		headers = append(headers, label)
	}
	if len(widths) > 0 {
		extra := width - totalFixed - (len(widths)-1)*tableSeparatorWidth() - 2
		if extra > 0 {
			widths[len(widths)-1] += extra
		}
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	t.viewportHeight = max(1, height-2)
	var rows []string
	for i := t.offset; i < len(t.rows) && i < t.offset+t.viewportHeight; i++ {
		style := NormalRowStyle
		if i == t.cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, 0, len(visible))
		for _, idx := range visible {
			cells = append(cells, cell(t.rows[i], t.columns[idx]))
		}
		rows = append(rows, renderTableRow(cells, widths, style))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, divider, strings.Join(rows, "\n"))
}

func (t *tableState[T]) statusLine(noun string) string {
	parts := []string{fmt.Sprintf("%d %s", len(t.rows), noun)}
	if len(t.rows) > 0 {
		parts = append(parts, fmt.Sprintf("row %d/%d", t.cursor+1, len(t.rows)))
	}
	if t.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filtered: %d/%d", len(t.rows), len(t.allRows)))
	}
	parts = append(parts, t.TableMeta())
	return StatusBarStyle.Render(strings.Join(parts, "  ·  "))
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderActiveHeaderLabel(label string) string {
	return lipgloss.NewStyle().Underline(true).Render(label)
}

func tableSeparatorWidth() int {
	return 0
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	var parts []string
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).MaxHeight(1).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	total += max(0, len(widths)-1) * tableSeparatorWidth()
	return DividerStyle.Render(strings.Repeat("─", total))
}

func renderFormField(label string, input textinput.Model, focused bool) string {
	style := BorderStyle
	if focused {
		style = ActiveBorderStyle
	}

	field := lipgloss.JoinVertical(
		lipgloss.Left,
		LabelStyle.Render(label),
		input.View(),
	)

	return style.Render(field)
}

func renderField(label, value string) string {
	if value == "" {
		value = "—"
	}
	return LabelStyle.Render(label+":") + " " + NormalRowStyle.Render(value)
}

// renderEmpty renders a centered hint for a screen with no rows.
func renderEmpty(msg string, width, height int) string {
	return EmptyStateStyle.Width(width).Height(height).Render(msg)
}
