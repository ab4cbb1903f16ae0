package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/model"
	"tesoura/internal/util"
)

// AdminShopsModel is the establishment admin's table of owned shops.
type AdminShopsModel struct {
	tableState[model.Shop]
}

// NewAdminShopsModel creates the owned shops table.
func NewAdminShopsModel(shops []model.Shop) *AdminShopsModel {
	m := &AdminShopsModel{}
	m.columns = []tableColumn{
		{key: "name", label: "name", width: 24},
		{key: "street", label: "street", width: 22},
		{key: "city", label: "city", width: 14},
		{key: "state", label: "uf", width: 4},
		{key: "zip", label: "cep", width: 10},
		{key: "phone", label: "phone", width: 14},
		{key: "rating", label: "rating", width: 12},
	}
	m.id = func(s model.Shop) string { return s.ID }
	m.value = shopValue
	m.sortValue = func(s model.Shop, key string) string {
		if key == "rating" {
			return fmt.Sprintf("%05.2f|%06d", s.Rating, s.RatingCount)
		}
		return strings.ToLower(shopValue(s, key))
	}
	m.SetRows(shops)
	return m
}

func shopValue(s model.Shop, key string) string {
	switch key {
	case "name":
		return s.Name
	case "street":
		return s.FullAddress.Street
	case "city":
		return s.FullAddress.City
	case "state":
		return s.FullAddress.State
	case "zip":
		return s.FullAddress.Zip
	case "phone":
		return s.Phone
	case "rating":
		return util.FormatRatingWithStar(s.Rating, s.RatingCount)
	}
	return ""
}

// View renders the table.
func (m *AdminShopsModel) View(width, height int) string {
	if len(m.allRows) == 0 {
		return renderEmpty("    You have no barbershops yet.\n    Press  a  to register your first one!", width, height)
	}
	if len(m.visibleColumnIndexes()) == 0 {
		return renderEmpty("No visible columns. Press C to show all columns.", width, height)
	}

	table := m.render(width, height-1, func(s model.Shop, col tableColumn) string {
		if col.key == "rating" {
			return RatingStyle.Render(shopValue(s, col.key))
		}
		v := shopValue(s, col.key)
		if v == "" {
			v = "—"
		}
		return util.TruncateString(v, col.width)
	})

	status := m.statusLine("barbershops")
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(table)-1)).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, table, spacer, status)
}
