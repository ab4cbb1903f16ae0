package ui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tesoura/internal/apiclient"
	"tesoura/internal/model"
	"tesoura/internal/session"
)

const logo = `  ✂  t e s o u r a`

type welcomeItem struct {
	label  string
	screen model.Screen
}

var welcomeItems = []welcomeItem{
	{"Log in", model.ScreenLogin},
	{"Create account", model.ScreenRegister},
	{"Local schedule", model.ScreenScheduler},
}

// WelcomeModel is the landing menu shown without a session.
type WelcomeModel struct {
	cursor int
}

func (m *WelcomeModel) MoveDown() {
	if m.cursor < len(welcomeItems)-1 {
		m.cursor++
	}
}

func (m *WelcomeModel) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

// Selected returns the screen of the highlighted entry.
func (m *WelcomeModel) Selected() model.Screen {
	return welcomeItems[m.cursor].screen
}

func (m *WelcomeModel) View(width, height int) string {
	lines := []string{
		HeaderStyle.Render(logo),
		HelpDescStyle.Render("   Book your next cut from the terminal."),
		"",
	}
	for i, item := range welcomeItems {
		style := NormalRowStyle.Padding(0, 2)
		prefix := "  "
		if i == m.cursor {
			style = SelectedRowStyle.Padding(0, 2)
			prefix = "› "
		}
		lines = append(lines, style.Render(prefix+item.label))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		PanelStyle.Render(strings.Join(lines, "\n")))
}

// LoginFormModel collects credentials.
type LoginFormModel struct {
	sessions *session.Manager
	keys     FormKeyMap
	fields   formFields
}

// NewLoginFormModel creates a login form, pre-filling user when known.
func NewLoginFormModel(sessions *session.Manager, user string) *LoginFormModel {
	m := &LoginFormModel{
		sessions: sessions,
		keys:     DefaultFormKeyMap(),
		fields: newFormFields(
			fieldSpec{label: "E-mail or CPF", placeholder: "you@example.com", limit: 120, value: user},
			fieldSpec{label: "Password", placeholder: "password", limit: 64, password: true},
		),
	}
	if user != "" {
		m.fields.next()
	}
	return m
}

// Update handles input.
func (m LoginFormModel) Update(msg tea.Msg) (LoginFormModel, tea.Cmd) {
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

func (m LoginFormModel) submit() tea.Cmd {
	user := m.fields.value(0)
	password := m.fields.inputs[1].Value()
	sessions := m.sessions
	return func() tea.Msg {
		s, err := sessions.Login(context.Background(), user, password)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.LoggedInMsg{Session: s}
	}
}

// View renders the form.
func (m *LoginFormModel) View(width, height int) string {
	fields := append([]string{LabelStyle.Render("Log in")}, m.fields.views(true)...)
	return PanelStyle.
		Width(min(width-4, 60)).
		Render(strings.Join(fields, "\n"))
}

// Register form field indexes.
const (
	regCPF = iota
	regName
	regEmail
	regPassword
)

// RegisterFormModel creates an account.
type RegisterFormModel struct {
	api    *apiclient.Client
	keys   FormKeyMap
	fields formFields
	onRole bool
	admin  bool
}

// NewRegisterFormModel creates an empty registration form.
func NewRegisterFormModel(api *apiclient.Client) *RegisterFormModel {
	return &RegisterFormModel{
		api:  api,
		keys: DefaultFormKeyMap(),
		fields: newFormFields(
			fieldSpec{label: "CPF", placeholder: "000.000.000-00", limit: 14},
			fieldSpec{label: "Name", placeholder: "Full name", limit: 100},
			fieldSpec{label: "E-mail", placeholder: "you@example.com", limit: 120},
			fieldSpec{label: "Password", placeholder: "password", limit: 64, password: true},
		),
	}
}

// Update handles input.
func (m RegisterFormModel) Update(msg tea.Msg) (RegisterFormModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Cancel):
			return m, formCancelled
		case key.Matches(keyMsg, m.keys.Save):
			return m, m.submit()
		case keyMsg.String() == "enter":
			if m.onRole {
				return m, m.submit()
			}
			m.next()
			return m, nil
		case key.Matches(keyMsg, m.keys.NextField):
			m.next()
			return m, nil
		case key.Matches(keyMsg, m.keys.PrevField):
			m.prev()
			return m, nil
		}
		if m.onRole {
			switch keyMsg.String() {
			case " ", "left", "right", "h", "l":
				m.admin = !m.admin
			}
			return m, nil
		}
	}
	if m.onRole {
		return m, nil
	}
	return m, m.fields.update(msg)
}

func (m *RegisterFormModel) next() {
	switch {
	case m.onRole:
		m.onRole = false
		m.fields.focus(0)
	case m.fields.last():
		m.fields.blur()
		m.onRole = true
	default:
		m.fields.next()
	}
}

func (m *RegisterFormModel) prev() {
	switch {
	case m.onRole:
		m.onRole = false
		m.fields.focus(len(m.fields.inputs) - 1)
	case m.fields.focused == 0:
		m.fields.blur()
		m.onRole = true
	default:
		m.fields.prev()
	}
}

func (m RegisterFormModel) role() model.Role {
	if m.admin {
		return model.RoleEstablishmentAdmin
	}
	return model.RoleCustomer
}

func (m RegisterFormModel) submit() tea.Cmd {
	in := model.NewUser{
		CPF:      m.fields.value(regCPF),
		Name:     m.fields.value(regName),
		Email:    m.fields.value(regEmail),
		Password: m.fields.inputs[regPassword].Value(),
		Role:     m.role().Wire(),
	}
	api := m.api
	return func() tea.Msg {
		if err := validateNewUser(in); err != nil {
			return model.ErrorMsg{Err: err}
		}
		u, err := api.CreateUser(context.Background(), in)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		if u.Email == "" {
			u.Email = in.Email
		}
		return model.RegisteredMsg{User: u}
	}
}

func validateNewUser(in model.NewUser) error {
	if in.CPF == "" || in.Name == "" || in.Email == "" || in.Password == "" {
		return model.NewValidationError("", "all fields are required")
	}
	if !strings.Contains(in.Email, "@") {
		return model.NewValidationError("email", "invalid e-mail %q", in.Email)
	}
	return nil
}

// View renders the form.
func (m *RegisterFormModel) View(width, height int) string {
	fields := append([]string{LabelStyle.Render("Create account")}, m.fields.views(!m.onRole)...)

	customer, admin := "( ) customer", "( ) establishment admin"
	if m.admin {
		admin = "(•) establishment admin"
	} else {
		customer = "(•) customer"
	}
	style := BorderStyle
	if m.onRole {
		style = ActiveBorderStyle
	}
	fields = append(fields, style.Render(lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Account type (space to switch)"),
		customer+"   "+admin,
	)))

	return PanelStyle.
		Width(min(width-4, 70)).
		Render(strings.Join(fields, "\n"))
}

func formCancelled() tea.Msg {
	return model.FormCancelledMsg{}
}
