package ui

import "tesoura/internal/model"

// tableController is the column, sort and filter surface shared by the
// bookings, owned shops and local schedule tables.
type tableController interface {
	scroller

	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	SortActiveColumn(desc bool)
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string

	Prefs() TablePrefs
	ApplyPrefs(prefs TablePrefs)
}

// scroller is the cursor movement shared by the tables.
type scroller interface {
	MoveDown()
	MoveUp()
	JumpToTop()
	JumpToBottom()
	HalfPageDown(pageSize int)
	HalfPageUp(pageSize int)
}

var (
	_ tableController = (*BookingsModel)(nil)
	_ tableController = (*AdminShopsModel)(nil)
	_ tableController = (*SchedulerModel)(nil)
)

// tableSlot returns where the preferences of the table shown on screen are
// kept, or nil when the screen has no table.
func (p *UIPreferences) tableSlot(screen model.Screen) *TablePrefs {
	switch screen {
	case model.ScreenBookings:
		return &p.Bookings
	case model.ScreenAdminShops:
		return &p.AdminShops
	case model.ScreenScheduler:
		return &p.Scheduler
	}
	return nil
}
