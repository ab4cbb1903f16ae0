package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"tesoura/internal/model"
)

// GState represents the state for "gg" navigation.
type GState int

const (
	GStateIdle GState = iota
	GStateFirstG
)

// KeyMap defines all keybindings for nav mode.
type KeyMap struct {
	Up           key.Binding
	Down         key.Binding
	Select       key.Binding
	Back         key.Binding
	Bottom       key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	Quit         key.Binding
	Help         key.Binding
	Add          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	Book         key.Binding
	Refresh      key.Binding
	Logout       key.Binding
	Login        key.Binding
	Register     key.Binding
	Scheduler    key.Binding
	CancelSlot   key.Binding
	Export       key.Binding
	NextColumn   key.Binding
	PrevColumn   key.Binding
	SortAsc      key.Binding
	SortDesc     key.Binding
	HideColumn   key.Binding
	ShowColumns  key.Binding
	FilterValue  key.Binding
	ClearFilter  key.Binding
	ColumnJump   key.Binding
	Confirm      key.Binding
	Deny         key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b", "h"),
			key.WithHelp("esc", "back"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "½ page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "½ page up"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→", "next tab"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←", "prev tab"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Book: key.NewBinding(
			key.WithKeys("B"),
			key.WithHelp("B", "book"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reload"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
		Login: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "log in"),
		),
		Register: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "register"),
		),
		Scheduler: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "local schedule"),
		),
		CancelSlot: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cancel by name/date"),
		),
		Export: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "export csv"),
		),
		NextColumn: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next col"),
		),
		PrevColumn: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev col"),
		),
		SortAsc: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort asc"),
		),
		SortDesc: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "sort desc"),
		),
		HideColumn: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "hide col"),
		),
		ShowColumns: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "show cols"),
		),
		FilterValue: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "filter value"),
		),
		ClearFilter: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "clear filter"),
		),
		ColumnJump: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "jump col"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// FormKeyMap defines keybindings for insert/edit mode.
type FormKeyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Save      key.Binding
	Cancel    key.Binding
}

// DefaultFormKeyMap returns the default form keybindings.
func DefaultFormKeyMap() FormKeyMap {
	return FormKeyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// relabel returns a copy of b with a screen-specific help description.
func relabel(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}

// navHint is a help-only binding for a group of keys shown as one entry.
func navHint(keys, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, desc))
}

// ScreenHelp lists the bindings shown in the footer of a nav-mode screen.
func (k KeyMap) ScreenHelp(screen model.Screen) []key.Binding {
	move := navHint("j/k", "navigate")
	tabs := navHint("←/→", "tabs")
	switch screen {
	case model.ScreenWelcome:
		return []key.Binding{move, k.Select, k.Login, k.Register, k.Scheduler, k.Quit}
	case model.ScreenShops:
		return []key.Binding{move, relabel(k.Select, "details"), k.Book, k.Refresh, tabs, k.Logout, k.Help}
	case model.ScreenBookings:
		return []key.Binding{move, k.NextColumn, navHint("s/S", "sort"), k.Refresh, tabs, k.Logout, k.Help}
	case model.ScreenAdminShops:
		return []key.Binding{move, k.NextColumn, navHint("s/S", "sort"), navHint("c/C", "hide/show col"),
			navHint("n/N", "filter"), k.Add, k.Edit, k.Delete, k.Logout}
	case model.ScreenScheduler:
		return []key.Binding{move, navHint("s/S", "sort"), relabel(k.Add, "schedule"),
			relabel(k.Delete, "cancel selected"), k.CancelSlot, k.Export, k.Back}
	}
	return []key.Binding{move, k.Quit}
}

// FormHelp lists the bindings shown in the footer while a form is open.
func (k FormKeyMap) FormHelp(screen model.Screen) []key.Binding {
	if screen == model.ScreenBookingForm {
		return []key.Binding{
			navHint("j/k", "choose plan"),
			navHint("1-3", "pick"),
			navHint("enter", "confirm"),
			k.Cancel,
		}
	}
	return []key.Binding{k.NextField, k.PrevField, k.Save, k.Cancel}
}
