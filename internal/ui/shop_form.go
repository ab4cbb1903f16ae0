package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/apiclient"
	"tesoura/internal/model"
	"tesoura/internal/shopadmin"
)

// Shop form field indexes.
const (
	shopName = iota
	shopDescription
	shopStreet
	shopCity
	shopState
	shopCountry
	shopZip
	shopPhone
	shopMEI
)

// ShopFormModel creates or edits an owned shop.
type ShopFormModel struct {
	shops   *shopadmin.Service
	keys    FormKeyMap
	ownerID string
	shopID  string
	fields  formFields
}

// NewShopFormModel creates an empty shop form for ownerID.
func NewShopFormModel(shops *shopadmin.Service, ownerID string) *ShopFormModel {
	return &ShopFormModel{
		shops:   shops,
		keys:    DefaultFormKeyMap(),
		ownerID: ownerID,
		fields: newFormFields(
			fieldSpec{label: "Name *", placeholder: "Barbershop name", limit: 100},
			fieldSpec{label: "Description", placeholder: "What makes it special", limit: 300},
			fieldSpec{label: "Street *", placeholder: "Rua, número", limit: 200},
			fieldSpec{label: "City *", placeholder: "City", limit: 100},
			fieldSpec{label: "State (UF) *", placeholder: "PE", limit: 2},
			fieldSpec{label: "Country", placeholder: apiclient.DefaultCountry, limit: 60, value: apiclient.DefaultCountry},
			fieldSpec{label: "CEP *", placeholder: "00000-000", limit: 9},
			fieldSpec{label: "Phone", placeholder: "(81) 99999-0000", limit: 20},
			fieldSpec{label: "MEI", placeholder: "business registration", limit: 20},
		),
	}
}

// LoadShop fills the form for editing.
func (m *ShopFormModel) LoadShop(shop model.Shop) {
	in := shopadmin.InputFromShop(shop)
	m.shopID = shop.ID
	m.fields.set(shopName, in.Name)
	m.fields.set(shopDescription, in.Description)
	m.fields.set(shopStreet, in.Street)
	m.fields.set(shopCity, in.City)
	m.fields.set(shopState, in.State)
	if in.Country != "" {
		m.fields.set(shopCountry, in.Country)
	}
	m.fields.set(shopZip, in.Zip)
	m.fields.set(shopPhone, in.Phone)
	m.fields.set(shopMEI, in.MEI)
}

// Update handles input.
func (m ShopFormModel) Update(msg tea.Msg) (ShopFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, formCancelled
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.save()
		case key.Matches(keyMsg, m.keys.NextField), keyMsg.String() == "enter":
			m.fields.next()
			return m, nil
		case key.Matches(keyMsg, m.keys.PrevField):
			m.fields.prev()
			return m, nil
		}
	}
	return m, m.fields.update(msg)
}

func (m ShopFormModel) input() model.ShopInput {
	return model.ShopInput{
		Name:        m.fields.value(shopName),
		Description: m.fields.value(shopDescription),
		Street:      m.fields.value(shopStreet),
		City:        m.fields.value(shopCity),
		State:       strings.ToUpper(m.fields.value(shopState)),
		Country:     m.fields.value(shopCountry),
		Zip:         m.fields.value(shopZip),
		Phone:       m.fields.value(shopPhone),
		MEI:         m.fields.value(shopMEI),
	}
}

func (m ShopFormModel) save() tea.Cmd {
	in, svc, ownerID, shopID := m.input(), m.shops, m.ownerID, m.shopID
	return func() tea.Msg {
		ctx := context.Background()
		if shopID != "" {
			if err := svc.Update(ctx, shopID, in); err != nil {
				return model.ErrorMsg{Err: err}
			}
			return model.ShopSavedMsg{ID: shopID, Operation: "update"}
		}
		id, err := svc.Create(ctx, ownerID, in)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.ShopSavedMsg{ID: id, Operation: "insert"}
	}
}

// View renders the form in two columns when there is room.
func (m *ShopFormModel) View(width, height int) string {
	title := "New barbershop"
	if m.shopID != "" {
		title = "Edit barbershop"
	}
	views := m.fields.views(true)

	var body string
	if width >= 100 {
		colWidth := (width - 10) / 2
		left := lipgloss.NewStyle().Width(colWidth).Render(strings.Join(views[:5], "\n"))
		right := lipgloss.NewStyle().Width(colWidth).Render(strings.Join(views[5:], "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	} else {
		body = strings.Join(views, "\n")
	}

	return PanelStyle.
		Width(width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, LabelStyle.Render(title), body))
}
