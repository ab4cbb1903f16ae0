package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/listing"
	"tesoura/internal/model"
	"tesoura/internal/util"
)

// Rows taken by the expanded detail panel.
const shopDetailHeight = 8

// ShopsModel is the customer's incrementally loaded shop list.
type ShopsModel struct {
	items     []model.Shop
	cursor    int
	offset    int
	expanded  string
	pending   bool
	exhausted bool
	err       error

	height    int
	lookahead int
	spinner   spinner.Model
}

// NewShopsModel creates an empty list. lookahead is the number of rows past
// the viewport at which the next page is requested.
func NewShopsModel(lookahead int) *ShopsModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle
	return &ShopsModel{lookahead: lookahead, spinner: sp}
}

// SetState copies the synchronizer snapshot into the view.
func (m *ShopsModel) SetState(st listing.State) {
	m.items = st.Items
	m.pending = st.Pending
	m.exhausted = st.Exhausted
	m.err = st.Err
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

// SetSize sets the height available to the screen.
func (m *ShopsModel) SetSize(height int) {
	m.height = height
}

// rowsVisible is the number of list rows that fit. The header, divider and
// status lines are subtracted, as is the detail panel when open.
func (m *ShopsModel) rowsVisible() int {
	rows := m.height - 3
	if m.expanded != "" {
		rows -= shopDetailHeight
	}
	return max(1, rows)
}

// NeedsMore reports whether the sentinel row after the last shop is within
// the viewport plus the lookahead margin and a fetch may start.
func (m *ShopsModel) NeedsMore() bool {
	if m.pending || m.exhausted {
		return false
	}
	return listing.NearEnd(m.offset, m.rowsVisible(), len(m.items), m.lookahead)
}

// Selected returns the shop under the cursor.
func (m *ShopsModel) Selected() (model.Shop, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return model.Shop{}, false
	}
	return m.items[m.cursor], true
}

// ToggleDetail expands or collapses the selected shop.
func (m *ShopsModel) ToggleDetail() {
	shop, ok := m.Selected()
	if !ok {
		return
	}
	if m.expanded == shop.ID {
		m.expanded = ""
	} else {
		m.expanded = shop.ID
	}
	m.scrollToCursor()
}

func (m *ShopsModel) scrollToCursor() {
	vh := m.rowsVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+vh {
		m.offset = m.cursor - vh + 1
	}
}

// MoveDown moves the cursor down.
func (m *ShopsModel) MoveDown() {
	if m.cursor < len(m.items)-1 {
		m.cursor++
		m.followCursor()
	}
}

// MoveUp moves the cursor up.
func (m *ShopsModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.followCursor()
	}
}

// JumpToTop jumps to the first item.
func (m *ShopsModel) JumpToTop() {
	m.cursor = 0
	m.offset = 0
	m.followCursor()
}

// JumpToBottom jumps to the last loaded item.
func (m *ShopsModel) JumpToBottom() {
	if len(m.items) > 0 {
		m.cursor = len(m.items) - 1
		m.followCursor()
	}
}

// HalfPageDown moves down half a page.
func (m *ShopsModel) HalfPageDown() {
	if len(m.items) == 0 {
		return
	}
	m.cursor = min(m.cursor+m.rowsVisible()/2, len(m.items)-1)
	m.followCursor()
}

// HalfPageUp moves up half a page.
func (m *ShopsModel) HalfPageUp() {
	m.cursor = max(m.cursor-m.rowsVisible()/2, 0)
	m.followCursor()
}

// followCursor keeps the cursor visible and moves the open detail with it.
func (m *ShopsModel) followCursor() {
	if m.expanded != "" {
		if shop, ok := m.Selected(); ok {
			m.expanded = shop.ID
		}
	}
	m.scrollToCursor()
}

// View renders the list, the sentinel row and the detail panel.
func (m *ShopsModel) View(width, height int) string {
	if len(m.items) == 0 {
		switch {
		case m.pending:
			return renderEmpty(m.spinner.View()+" Loading barbershops…", width, height)
		case m.err != nil:
			return renderEmpty("Could not load barbershops. Press R to retry.", width, height)
		case m.exhausted:
			return renderEmpty("No barbershops available yet.", width, height)
		}
	}

	nameW, ratingW := 28, 18
	addrW := max(12, width-nameW-ratingW-4)
	widths := []int{nameW, addrW, ratingW}

	header := renderTableRow([]string{"NAME", "ADDRESS", "RATING"}, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	vh := m.rowsVisible()
	var rows []string
	for i := m.offset; i < len(m.items) && i < m.offset+vh; i++ {
		shop := m.items[i]
		style := NormalRowStyle
		if i == m.cursor {
			style = SelectedRowStyle
		}
		marker := "▸ "
		if shop.ID == m.expanded {
			marker = "▾ "
		}
		rows = append(rows, renderTableRow([]string{
			marker + util.TruncateString(shop.Name, nameW-4),
			util.TruncateString(shop.Address, addrW-2),
			util.FormatRatingWithStar(shop.Rating, shop.RatingCount),
		}, widths, style))
	}
	if m.offset+vh > len(m.items) {
		rows = append(rows, m.sentinel())
	}

	parts := []string{header, divider, strings.Join(rows, "\n")}
	if shop, ok := m.Selected(); ok && shop.ID == m.expanded {
		parts = append(parts, m.detail(shop, width))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	status := StatusBarStyle.Render(fmt.Sprintf("%d barbershops loaded%s", len(m.items), m.statusSuffix()))
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(content)-1)).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, content, spacer, status)
}

func (m *ShopsModel) sentinel() string {
	switch {
	case m.pending:
		return StatusBarStyle.Render(m.spinner.View() + " loading more…")
	case m.err != nil:
		return ErrorStyle.Render("Failed to load more barbershops (R to retry)")
	case m.exhausted:
		return StatusBarStyle.Render("· end of list ·")
	}
	return ""
}

func (m *ShopsModel) statusSuffix() string {
	if len(m.items) == 0 {
		return ""
	}
	suffix := fmt.Sprintf("  ·  row %d/%d", m.cursor+1, len(m.items))
	if !m.exhausted {
		suffix += "+"
	}
	return suffix
}

func (m *ShopsModel) detail(shop model.Shop, width int) string {
	address := util.FormatAddress(shop.FullAddress)
	if address == "—" {
		address = shop.Address
	}
	fields := []string{
		LabelStyle.Render(shop.Name) + "  " +
			RatingStyle.Render(util.FormatRatingStars(shop.Rating)),
		renderField("Address", address),
		renderField("Phone", shop.Phone),
		renderField("About", util.TruncateString(shop.Description, max(10, width-16))),
		HelpDescStyle.Render("B book a plan at this barbershop"),
	}
	return BorderStyle.Width(max(10, width-4)).Render(strings.Join(fields, "\n"))
}
