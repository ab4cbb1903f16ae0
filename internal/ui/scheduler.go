package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/booking"
	"tesoura/internal/model"
	"tesoura/internal/util"
)

// SchedulerModel lists the local bookings.
type SchedulerModel struct {
	tableState[model.LocalBooking]
	scope booking.ConflictScope
}

// NewSchedulerModel creates the local bookings table.
func NewSchedulerModel(rows []model.LocalBooking, scope booking.ConflictScope) *SchedulerModel {
	m := &SchedulerModel{scope: scope}
	m.columns = []tableColumn{
		{key: "date", label: "date", width: 12},
		{key: "time", label: "time", width: 7},
		{key: "name", label: "name", width: 24},
		{key: "service", label: "service", width: 24},
	}
	m.id = localBookingID
	m.value = func(b model.LocalBooking, key string) string {
		switch key {
		case "date":
			return b.Date
		case "time":
			return b.Time
		case "name":
			return b.Name
		case "service":
			return b.Service
		}
		return ""
	}
	m.sortValue = func(b model.LocalBooking, key string) string {
		if key == "date" {
			return booking.DateKey(b.Date) + " " + b.Time
		}
		return strings.ToLower(m.value(b, key))
	}
	m.SetRows(rows)
	return m
}

func localBookingID(b model.LocalBooking) string {
	return b.Name + "|" + b.Date
}

// View renders the table.
func (m *SchedulerModel) View(width, height int) string {
	if len(m.allRows) == 0 {
		return renderEmpty("    No local bookings.\n    Press  a  to schedule one.", width, height)
	}
	table := m.render(width, height-1, func(b model.LocalBooking, col tableColumn) string {
		return util.TruncateString(m.value(b, col.key), col.width)
	})
	status := m.statusLine("bookings") + HelpDescStyle.Render(fmt.Sprintf("  ·  conflicts: %s", m.scope))
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(table)-1)).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, table, spacer, status)
}

// Schedule form field indexes.
const (
	slotName = iota
	slotDate
	slotTime
	slotService
)

// ScheduleFormModel schedules a local booking, or cancels one when cancel is
// set, in which case only name and date are asked for.
type ScheduleFormModel struct {
	scheduler *booking.Scheduler
	keys      FormKeyMap
	cancel    bool
	fields    formFields
}

// NewScheduleFormModel creates a schedule form. name pre-fills the name
// field, typically with the session user's name.
func NewScheduleFormModel(scheduler *booking.Scheduler, name string) *ScheduleFormModel {
	return &ScheduleFormModel{
		scheduler: scheduler,
		keys:      DefaultFormKeyMap(),
		fields: newFormFields(
			fieldSpec{label: "Name", placeholder: "Customer name", limit: 80, value: name},
			fieldSpec{label: "Date (DD/MM/YYYY)", placeholder: util.TodayBR(), limit: 10, value: util.TodayBR()},
			fieldSpec{label: "Time", placeholder: "14:30", limit: 5},
			fieldSpec{label: "Service", placeholder: "Corte, barba…", limit: 80},
		),
	}
}

// NewCancelFormModel creates a form that cancels a booking by name and date.
func NewCancelFormModel(scheduler *booking.Scheduler) *ScheduleFormModel {
	return &ScheduleFormModel{
		scheduler: scheduler,
		keys:      DefaultFormKeyMap(),
		cancel:    true,
		fields: newFormFields(
			fieldSpec{label: "Name", placeholder: "Customer name", limit: 80},
			fieldSpec{label: "Date (DD/MM/YYYY)", placeholder: util.TodayBR(), limit: 10},
		),
	}
}

// Update handles input.
func (m ScheduleFormModel) Update(msg tea.Msg) (ScheduleFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, formCancelled
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.submit()
		case keyMsg.String() == "enter":
			if m.fields.last() {
				return m, m.submit()
			}
			m.fields.next()
			return m, nil
		case key.Matches(keyMsg, m.keys.NextField):
			m.fields.next()
			return m, nil
		case key.Matches(keyMsg, m.keys.PrevField):
			m.fields.prev()
			return m, nil
		}
	}
	return m, m.fields.update(msg)
}

func (m ScheduleFormModel) submit() tea.Cmd {
	if m.cancel {
		return cancelLocalBookingCmd(m.scheduler, m.fields.value(slotName), m.fields.value(slotDate))
	}
	return scheduleLocalBookingCmd(m.scheduler,
		m.fields.value(slotName), m.fields.value(slotDate),
		m.fields.value(slotTime), m.fields.value(slotService))
}

// View renders the form.
func (m *ScheduleFormModel) View(width, height int) string {
	title := "Schedule"
	if m.cancel {
		title = "Cancel booking"
	}
	fields := append([]string{LabelStyle.Render(title)}, m.fields.views(true)...)
	return PanelStyle.
		Width(min(width-4, 60)).
		Render(strings.Join(fields, "\n"))
}

func scheduleLocalBookingCmd(s *booking.Scheduler, name, date, tm, service string) tea.Cmd {
	return func() tea.Msg {
		text, err := s.Schedule(name, date, tm, service)
		return model.LocalBookingResultMsg{Text: text, Err: err, Bookings: s.List()}
	}
}

func cancelLocalBookingCmd(s *booking.Scheduler, name, date string) tea.Cmd {
	return func() tea.Msg {
		removed, err := s.Cancel(name, date)
		text := fmt.Sprintf("Booking for %s on %s canceled", name, date)
		if err == nil && !removed {
			err = fmt.Errorf("no booking found for %s on %s", name, date)
		}
		return model.LocalBookingResultMsg{Text: text, Err: err, Bookings: s.List()}
	}
}

func loadLocalBookingsCmd(s *booking.Scheduler) tea.Cmd {
	return func() tea.Msg {
		return model.LocalBookingsLoadedMsg{Bookings: s.List()}
	}
}

// exportLocalBookingsCmd writes the local bookings as CSV into dir.
func exportLocalBookingsCmd(s *booking.Scheduler, dir string) tea.Cmd {
	return func() tea.Msg {
		if dir == "" {
			return model.ErrorMsg{Err: errors.New("no config directory to export to")}
		}
		path := filepath.Join(dir, "local_bookings.csv")
		f, err := os.Create(path)
		if err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to create export file: %w", err)}
		}
		if err := s.ExportCSV(f); err != nil {
			f.Close()
			return model.ErrorMsg{Err: err}
		}
		if err := f.Close(); err != nil {
			return model.ErrorMsg{Err: fmt.Errorf("failed to write export file: %w", err)}
		}
		return model.InfoMsg{Text: "Exported local bookings to " + path}
	}
}
