package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/model"
)

// RenderHelp renders the context-sensitive footer.
func RenderHelp(keys KeyMap, forms FormKeyMap, screen model.Screen, mode model.Mode, width int) string {
	bindings := keys.ScreenHelp(screen)
	if mode == model.ModeInsert {
		bindings = forms.FormHelp(screen)
	}
	items := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		items = append(items, helpKey(h.Key, h.Desc))
	}
	return renderHelpLine(items, width)
}

func helpKey(key, desc string) string {
	return HelpKeyStyle.Render(key) + " " + HelpDescStyle.Render(desc)
}

func renderHelpLine(keys []string, width int) string {
	line := strings.Join(keys, "  ")
	return FooterStyle.Width(width).Render(line)
}

// RenderFullHelp renders the full help screen.
func RenderFullHelp(width, height int) string {
	content := lipgloss.NewStyle().
		Width(width-4).
		Height(height-6).
		Padding(1, 2)

	sections := []string{
		titleSection("Navigation"),
		helpSection([]helpItem{
			{"j / ↓", "Move down"},
			{"k / ↑", "Move up"},
			{"gg / G", "Jump to top / bottom"},
			{"ctrl+d / ctrl+u", "Half page down / up"},
			{"← / →", "Switch tab"},
			{"enter / l", "Open / select"},
			{"esc", "Back / close"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}),
		titleSection("Tables"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Cycle active column"},
			{"/ then 1-9", "Jump to column"},
			{"s / S", "Sort active column asc/desc"},
			{"c / C", "Hide active column / show all"},
			{"n / N", "Filter by selected value / clear"},
		}),
		titleSection("Barbershops"),
		helpSection([]helpItem{
			{"enter", "Show or hide details"},
			{"B", "Book a plan at the selected barbershop"},
			{"R", "Reload from the first page"},
		}),
		titleSection("My barbershops (admins)"),
		helpSection([]helpItem{
			{"a / e / d", "Add / edit / delete"},
			{"R", "Reload"},
		}),
		titleSection("Local schedule"),
		helpSection([]helpItem{
			{"a", "Schedule a time"},
			{"d", "Cancel the selected booking"},
			{"x", "Cancel by name and date"},
			{"E", "Export to CSV"},
		}),
		titleSection("Session"),
		helpSection([]helpItem{
			{"L", "Log out"},
		}),
		titleSection("Forms"),
		helpSection([]helpItem{
			{"tab / shift+tab", "Next / previous field"},
			{"ctrl+s", "Save"},
			{"esc", "Cancel"},
		}),
	}

	helpText := content.Render(strings.Join(sections, "\n\n"))

	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Width(width).Render("Help"),
		helpText,
		FooterStyle.Width(width).Render(HelpKeyStyle.Render("esc")+" "+HelpDescStyle.Render("close help")),
	)
}

type helpItem struct {
	key  string
	desc string
}

func titleSection(title string) string {
	return LabelStyle.Render(title)
}

func helpSection(items []helpItem) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "  "+HelpKeyStyle.Render(item.key)+" - "+HelpDescStyle.Render(item.desc))
	}
	return strings.Join(lines, "\n")
}
