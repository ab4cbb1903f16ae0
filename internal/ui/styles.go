package ui

import (
	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/model"
)

// Barber pole palette: warm dark base, brick red accent, steel blue.
var (
	ColorBase    = lipgloss.Color("#1E1B18")
	ColorSurface = lipgloss.Color("#2C2622")
	ColorMuted   = lipgloss.Color("#8C8078")
	ColorText    = lipgloss.Color("#E8DFD5")
	ColorAccent  = lipgloss.Color("#C8553D")
	ColorBlue    = lipgloss.Color("#7FA7CC")
	ColorGreen   = lipgloss.Color("#9BBF85")
	ColorRed     = lipgloss.Color("#E07A6B")
	ColorGold    = lipgloss.Color("#E3B65C")
)

// Chrome
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	BreadcrumbStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	BreadcrumbActiveStyle = lipgloss.NewStyle().
				Foreground(ColorBlue)

	UserBarStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Padding(0, 2)

	TabBarStyle = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorMuted)

	TabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)

	ActiveTabStyle = TabStyle.
			Foreground(ColorText).
			Bold(true).
			Underline(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(ColorMuted)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAccent)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Banners
var (
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorGreen).
			Padding(0, 1)

	ConfirmStyle = lipgloss.NewStyle().
			Foreground(ColorBase).
			Background(ColorGold).
			Bold(true).
			Padding(0, 1)

	OfflineStyle = lipgloss.NewStyle().
			Foreground(ColorGold).
			Italic(true)
)

// Lists, tables and forms
var (
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				Padding(0, 1).
				Background(ColorSurface)

	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorBase).
				Background(ColorBlue)

	NormalRowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	RatingStyle = lipgloss.NewStyle().
			Foreground(ColorGold)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorBlue)

	EmptyStateStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true).
			Padding(2, 4)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	BorderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)

	ActiveBorderStyle = BorderStyle.
				BorderForeground(ColorAccent)

	PanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)
)

// bookingStatusColors maps a booking status to its cell color. Unknown
// statuses use ColorText.
var bookingStatusColors = map[model.BookingStatus]lipgloss.Color{
	model.StatusActive:    ColorGreen,
	model.StatusFreeTrial: ColorGreen,
	model.StatusLate:      ColorGold,
	model.StatusCanceled:  ColorRed,
	model.StatusPaused:    ColorMuted,
}
