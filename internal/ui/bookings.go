package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/bookingcache"
	"tesoura/internal/model"
	"tesoura/internal/util"
)

// BookingsModel lists the customer's bookings.
type BookingsModel struct {
	tableState[model.BookingView]
	fromCache bool
	now       func() time.Time
}

// NewBookingsModel creates the bookings table.
func NewBookingsModel(rows []model.BookingView, fromCache bool) *BookingsModel {
	m := &BookingsModel{fromCache: fromCache, now: time.Now}
	m.columns = []tableColumn{
		{key: "shop", label: "barbershop", width: 26},
		{key: "plan", label: "plan", width: 14},
		{key: "due", label: "next payment", width: 14},
		{key: "status", label: "status", width: 10},
	}
	m.id = func(b model.BookingView) string { return b.ID }
	m.value = func(b model.BookingView, key string) string {
		switch key {
		case "shop":
			return b.ShopName
		case "plan":
			return b.PlanLabel
		case "due":
			return util.FormatDate(b.NextPaymentAt)
		case "status":
			return util.FormatStatus(b.Status)
		}
		return ""
	}
	m.sortValue = func(b model.BookingView, key string) string {
		if key == "due" {
			return b.NextPaymentAt.Format(time.RFC3339)
		}
		return strings.ToLower(m.value(b, key))
	}
	m.SetRows(rows)
	return m
}

// View renders the bookings table.
func (m *BookingsModel) View(width, height int) string {
	if len(m.rows) == 0 {
		return renderEmpty("No bookings yet.\nPick a barbershop on the Barbershops tab and press B.", width, height)
	}

	now := m.now()
	table := m.render(width, height-1, func(b model.BookingView, col tableColumn) string {
		switch col.key {
		case "due":
			return util.FormatDueHuman(b.NextPaymentAt, now)
		case "status":
			return statusCell(b.Status)
		}
		return util.TruncateString(m.value(b, col.key), col.width)
	})

	status := m.statusLine("bookings")
	if m.fromCache {
		status += OfflineStyle.Render("  ·  offline: showing saved bookings")
	}
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(table)-1)).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, table, spacer, status)
}

func statusCell(s model.BookingStatus) string {
	color, ok := bookingStatusColors[s]
	if !ok {
		color = ColorText
	}
	return lipgloss.NewStyle().Foreground(color).Render(util.FormatStatus(s))
}

// BookingFormModel picks a plan for a shop.
type BookingFormModel struct {
	bookings *bookingcache.Service
	keys     FormKeyMap
	userID   string
	shop     model.Shop
	cursor   int
}

// NewBookingFormModel creates a plan picker for shop.
func NewBookingFormModel(bookings *bookingcache.Service, userID string, shop model.Shop) *BookingFormModel {
	return &BookingFormModel{
		bookings: bookings,
		keys:     DefaultFormKeyMap(),
		userID:   userID,
		shop:     shop,
	}
}

// Update handles input.
func (m BookingFormModel) Update(msg tea.Msg) (BookingFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		return m, formCancelled
	case key.Matches(keyMsg, m.keys.Save), keyMsg.String() == "enter":
		return m, m.submit()
	case key.Matches(keyMsg, m.keys.NextField), keyMsg.String() == "j":
		if m.cursor < len(bookingcache.Plans)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.PrevField), keyMsg.String() == "k":
		if m.cursor > 0 {
			m.cursor--
		}
	default:
		if n := keyMsg.String(); len(n) == 1 && n[0] >= '1' && n[0] <= '9' {
			if i := int(n[0] - '1'); i < len(bookingcache.Plans) {
				m.cursor = i
			}
		}
	}
	return m, nil
}

// PlanID returns the highlighted plan.
func (m BookingFormModel) PlanID() int {
	return bookingcache.Plans[m.cursor].ID
}

func (m BookingFormModel) submit() tea.Cmd {
	svc, userID, shopID, planID := m.bookings, m.userID, m.shop.ID, m.PlanID()
	return func() tea.Msg {
		created, all, err := svc.Create(context.Background(), userID, shopID, planID)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.BookingCreatedMsg{Booking: created, Bookings: all}
	}
}

// View renders the form.
func (m *BookingFormModel) View(width, height int) string {
	lines := []string{
		LabelStyle.Render("Book at " + m.shop.Name),
		HelpDescStyle.Render(m.shop.Address),
		"",
	}
	for i, p := range bookingcache.Plans {
		style := NormalRowStyle.Padding(0, 1)
		prefix := "( )"
		if i == m.cursor {
			style = SelectedRowStyle.Padding(0, 1)
			prefix = "(•)"
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %d. %s", prefix, p.ID, p.Label)))
	}
	due := time.Now().Add(bookingcache.BillingCycle)
	lines = append(lines, "",
		HelpDescStyle.Render("First payment due "+util.FormatDate(due)))

	return PanelStyle.
		Width(min(width-4, 60)).
		Render(strings.Join(lines, "\n"))
}
