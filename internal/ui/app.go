package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"tesoura/internal/apiclient"
	"tesoura/internal/booking"
	"tesoura/internal/bookingcache"
	"tesoura/internal/listing"
	"tesoura/internal/model"
	"tesoura/internal/session"
	"tesoura/internal/shopadmin"
)

// Deps are the services the views talk to.
type Deps struct {
	API           *apiclient.Client
	Sessions      *session.Manager
	Listing       *listing.Synchronizer
	Bookings      *bookingcache.Service
	Shops         *shopadmin.Service
	Scheduler     *booking.Scheduler
	Prefs         PrefsStore
	ConfigDir     string
	LookaheadRows int
	TermCaps      TerminalCapabilities
	Logger        *zap.Logger
	Version       string
}

type confirmPrompt struct {
	text  string
	onYes tea.Cmd
}

type tab struct {
	name   string
	screen model.Screen
}

// Model is the main application model.
type Model struct {
	deps Deps
	log  *zap.Logger

	screen        model.Screen
	mode          model.Mode
	gState        GState
	columnJump    bool
	width, height int
	error         string
	info          string
	showingHelp   bool
	confirm       *confirmPrompt

	session *model.Session
	avatar  string

	welcome      *WelcomeModel
	login        *LoginFormModel
	register     *RegisterFormModel
	shops        *ShopsModel
	bookings     *BookingsModel
	bookingForm  *BookingFormModel
	adminShops   *AdminShopsModel
	shopForm     *ShopFormModel
	scheduler    *SchedulerModel
	scheduleForm *ScheduleFormModel

	keys  KeyMap
	prefs UIPreferences
}

// New creates a new application model. A saved session skips the welcome
// screen.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	m := Model{
		deps:    deps,
		log:     logger.Named("ui"),
		screen:  model.ScreenWelcome,
		mode:    model.ModeNav,
		welcome: &WelcomeModel{},
		shops:   NewShopsModel(deps.LookaheadRows),
		keys:    DefaultKeyMap(),
		prefs:   loadUIPreferences(deps.Prefs),
	}
	if s, ok := deps.Sessions.Current(); ok {
		m.session = &s
		m.screen = m.homeScreen()
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return m.enterSession()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.shops.SetSize(m.contentHeight())
		if m.screen == model.ScreenShops {
			return m, m.maybeLoadShops()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirm != nil {
			return m.handleConfirm(msg)
		}
		if m.showingHelp {
			switch msg.String() {
			case "?", "esc", "q":
				m.showingHelp = false
			}
			return m, nil
		}
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
		if key.Matches(msg, m.keys.Help) {
			m.showingHelp = true
			return m, nil
		}
		return m.handleNavMode(msg)

	case spinner.TickMsg:
		if !m.shops.pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.shops.spinner, cmd = m.shops.spinner.Update(msg)
		return m, cmd

	case model.ErrorMsg:
		m.error = msg.Err.Error()
		m.info = ""
		return m, nil

	case model.InfoMsg:
		m.info = msg.Text
		m.error = ""
		return m, nil

	case model.FormCancelledMsg:
		m.mode = model.ModeNav
		m.error = ""
		m.closeForm()
		return m, nil

	case model.LoggedInMsg:
		s := msg.Session
		m.session = &s
		m.resetSessionViews()
		m.mode = model.ModeNav
		m.login = nil
		m.error = ""
		m.info = fmt.Sprintf("Welcome, %s!", s.Name)
		m.screen = m.homeScreen()
		return m, m.enterSession()

	case model.RegisteredMsg:
		m.register = nil
		m.login = NewLoginFormModel(m.deps.Sessions, msg.User.Email)
		m.screen = model.ScreenLogin
		m.mode = model.ModeInsert
		m.error = ""
		m.info = "Account created. Log in to continue."
		return m, textinput.Blink

	case model.LoggedOutMsg:
		m.session = nil
		m.resetSessionViews()
		m.screen = model.ScreenWelcome
		m.mode = model.ModeNav
		m.error = ""
		m.info = "Logged out"
		return m, nil

	case model.AvatarLoadedMsg:
		m.avatar = msg.Art
		return m, nil

	case model.ShopsPageMsg:
		if msg.Gen != m.deps.Listing.Generation() {
			// Fetched for a list that was reset since.
			return m, nil
		}
		m.deps.Listing.Finish(listing.Claim{Page: msg.Page, Gen: msg.Gen}, msg.Records, msg.Err)
		m.shops.SetState(m.deps.Listing.Snapshot())
		if msg.Err != nil {
			m.error = "Failed to load barbershops: " + msg.Err.Error()
			return m, nil
		}
		if m.screen == model.ScreenShops {
			return m, m.maybeLoadShops()
		}
		return m, nil

	case model.BookingsLoadedMsg:
		m.bookings = NewBookingsModel(msg.Bookings, msg.FromCache)
		m.bookings.ApplyPrefs(m.prefs.Bookings)
		return m, nil

	case model.BookingCreatedMsg:
		m.bookings = NewBookingsModel(msg.Bookings, false)
		m.bookings.ApplyPrefs(m.prefs.Bookings)
		m.bookingForm = nil
		m.mode = model.ModeNav
		m.screen = model.ScreenBookings
		m.error = ""
		m.info = fmt.Sprintf("Booked %s at %s", msg.Booking.PlanLabel, msg.Booking.ShopName)
		return m, nil

	case model.OwnedShopsLoadedMsg:
		m.adminShops = NewAdminShopsModel(msg.Shops)
		m.adminShops.ApplyPrefs(m.prefs.AdminShops)
		return m, nil

	case model.ShopSavedMsg:
		m.shopForm = nil
		m.mode = model.ModeNav
		m.screen = model.ScreenAdminShops
		m.error = ""
		m.info = "Barbershop created"
		if msg.Operation == "update" {
			m.info = "Barbershop updated"
		}
		return m, m.loadOwnedShopsCmd()

	case model.ShopDeletedMsg:
		m.error = ""
		m.info = "Barbershop deleted"
		return m, m.loadOwnedShopsCmd()

	case model.LocalBookingsLoadedMsg:
		m.setLocalBookings(msg.Bookings)
		return m, nil

	case model.LocalBookingResultMsg:
		m.setLocalBookings(msg.Bookings)
		if msg.Err != nil {
			m.error = msg.Err.Error()
			m.info = ""
			return m, nil
		}
		m.scheduleForm = nil
		m.mode = model.ModeNav
		m.screen = model.ScreenScheduler
		m.error = ""
		m.info = msg.Text
		return m, nil

	default:
		// Pass all other messages to forms
		if m.mode == model.ModeInsert {
			return m.handleInsertMode(msg)
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	contentHeight := m.contentHeight()
	var content string
	var breadcrumbParts []string

	switch m.screen {
	case model.ScreenWelcome:
		content = m.welcome.View(m.width, contentHeight)
	case model.ScreenLogin:
		breadcrumbParts = []string{"Log in"}
		if m.login != nil {
			content = m.login.View(m.width, contentHeight)
		}
	case model.ScreenRegister:
		breadcrumbParts = []string{"Create account"}
		if m.register != nil {
			content = m.register.View(m.width, contentHeight)
		}
	case model.ScreenShops:
		breadcrumbParts = []string{"Barbershops"}
		m.shops.SetSize(contentHeight)
		content = m.shops.View(m.width, contentHeight)
	case model.ScreenBookings:
		breadcrumbParts = []string{"My bookings"}
		if m.bookings != nil {
			content = m.bookings.View(m.width, contentHeight)
		}
	case model.ScreenBookingForm:
		breadcrumbParts = []string{"Barbershops", "Book"}
		if m.bookingForm != nil {
			breadcrumbParts = []string{"Barbershops", m.bookingForm.shop.Name, "Book"}
			content = m.bookingForm.View(m.width, contentHeight)
		}
	case model.ScreenAdminShops:
		breadcrumbParts = []string{"My barbershops"}
		if m.adminShops != nil {
			content = m.adminShops.View(m.width, contentHeight)
		}
	case model.ScreenShopForm:
		breadcrumbParts = []string{"My barbershops", "Form"}
		if m.shopForm != nil {
			content = m.shopForm.View(m.width, contentHeight)
		}
	case model.ScreenScheduler:
		breadcrumbParts = []string{"Local schedule"}
		if m.scheduler != nil {
			content = m.scheduler.View(m.width, contentHeight)
		}
	case model.ScreenScheduleForm:
		breadcrumbParts = []string{"Local schedule", "Form"}
		if m.scheduleForm != nil {
			content = m.scheduleForm.View(m.width, contentHeight)
		}
	}

	parts := []string{renderHeader(breadcrumbParts, m.deps.Version, m.width)}
	if bar := m.userBar(); bar != "" {
		parts = append(parts, bar)
	}
	if m.showTabs() {
		parts = append(parts, renderTabs(m.tabs(), m.screen, m.width))
	}
	parts = append(parts, m.banners()...)

	// Fill the available height so the footer stays at the bottom
	parts = append(parts, lipgloss.NewStyle().
		Width(m.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content))
	parts = append(parts, RenderHelp(m.keys, DefaultFormKeyMap(), m.screen, m.mode, m.width))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// contentHeight is the height left for the current screen once the header,
// footer, user bar, tabs and banners are drawn.
func (m Model) contentHeight() int {
	h := m.height - 4
	if bar := m.userBar(); bar != "" {
		h -= lipgloss.Height(bar)
	}
	if m.showTabs() {
		h -= 2
	}
	h -= len(m.banners())
	return max(1, h)
}

func (m Model) banners() []string {
	var out []string
	if m.confirm != nil {
		out = append(out, ConfirmStyle.Width(m.width).Render(m.confirm.text))
	}
	if m.error != "" {
		out = append(out, ErrorStyle.Width(m.width).MaxHeight(1).Render("Error: "+m.error))
	}
	if m.info != "" {
		out = append(out, SuccessStyle.Width(m.width).MaxHeight(1).Render(m.info))
	}
	return out
}

// userBar shows who is logged in, with the avatar when one was loaded.
func (m Model) userBar() string {
	if m.session == nil {
		return ""
	}
	s := m.session
	if m.avatar == "" {
		return UserBarStyle.Render(LabelStyle.Render(s.Name) + HelpDescStyle.Render("  ·  "+s.Email+"  ·  "+s.RoleKind().String()))
	}
	info := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render(s.Name),
		HelpDescStyle.Render(s.Email),
		HelpDescStyle.Render(s.RoleKind().String()),
	)
	return UserBarStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, m.avatar, "  ", info))
}

// tabs lists the top-level screens the session may use.
func (m Model) tabs() []tab {
	if m.session == nil {
		return nil
	}
	var tabs []tab
	if m.deps.Sessions.Can(session.ActionManageShops) {
		tabs = append(tabs, tab{"My barbershops", model.ScreenAdminShops})
	} else if m.deps.Sessions.Can(session.ActionBook) {
		tabs = append(tabs,
			tab{"Barbershops", model.ScreenShops},
			tab{"My bookings", model.ScreenBookings},
		)
	}
	if m.deps.Sessions.Can(session.ActionLocalSchedule) {
		tabs = append(tabs, tab{"Local schedule", model.ScreenScheduler})
	}
	return tabs
}

func (m Model) showTabs() bool {
	for _, t := range m.tabs() {
		if t.screen == m.screen {
			return true
		}
	}
	return false
}

func (m Model) homeScreen() model.Screen {
	if tabs := m.tabs(); len(tabs) > 0 {
		return tabs[0].screen
	}
	return model.ScreenWelcome
}

func renderTabs(tabs []tab, screen model.Screen, width int) string {
	var tabStrings []string
	for _, t := range tabs {
		style := TabStyle
		if screen == t.screen {
			style = ActiveTabStyle
		}
		tabStrings = append(tabStrings, style.Render(t.name))
	}
	return TabBarStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...))
}

func renderHeader(breadcrumbParts []string, version string, width int) string {
	title := HeaderStyle.Render("✂ tesoura")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}

	left := "  " + title + breadcrumb

	right := time.Now().Format("Mon 02 Jan")
	if version != "" {
		right = version + "  " + right
	}
	right = BreadcrumbStyle.Render(right) + "  "

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}

func (m Model) handleConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		cmd := m.confirm.onYes
		m.confirm = nil
		return m, cmd
	case key.Matches(msg, m.keys.Deny):
		m.confirm = nil
		m.info = "Cancelled"
		return m, nil
	}
	return m, nil
}

// handleNavMode handles navigation mode input.
func (m Model) handleNavMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.columnJump {
		m.columnJump = false
		if t := m.currentTable(); t != nil {
			if n, err := strconv.Atoi(msg.String()); err == nil && t.JumpToColumn(n) {
				m.info = fmt.Sprintf("Jumped to column %d", n)
				m.persistCurrentTablePrefs()
				return m, nil
			}
		}
		m.info = "Column jump cancelled"
		return m, nil
	}

	if t := m.currentTable(); t != nil {
		switch {
		case key.Matches(msg, m.keys.NextColumn):
			t.NextColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.PrevColumn):
			t.PrevColumn()
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.ColumnJump):
			m.columnJump = true
			m.info = "Jump to column: press 1-9 (esc to cancel)"
			return m, nil
		case key.Matches(msg, m.keys.SortAsc):
			t.SortActiveColumn(false)
			m.info = "Sorted ascending"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.SortDesc):
			t.SortActiveColumn(true)
			m.info = "Sorted descending"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.HideColumn):
			if t.HideActiveColumn() {
				m.info = "Column hidden"
				m.persistCurrentTablePrefs()
			} else {
				m.info = "Cannot hide last visible column"
			}
			return m, nil
		case key.Matches(msg, m.keys.ShowColumns):
			t.ShowAllColumns()
			m.info = "All columns shown"
			m.persistCurrentTablePrefs()
			return m, nil
		case key.Matches(msg, m.keys.FilterValue):
			if t.FilterBySelectedValue() {
				m.info = "Filter applied from selected value"
			} else {
				m.info = "No filterable value in selected cell"
			}
			return m, nil
		case key.Matches(msg, m.keys.ClearFilter):
			if t.ClearFilter() {
				m.info = "Filter cleared"
			}
			return m, nil
		}
	}

	// Handle "gg" state machine
	if msg.String() == "g" {
		if m.gState == GStateFirstG {
			m.gState = GStateIdle
			return m.handleJumpToTop()
		}
		m.gState = GStateFirstG
		return m, nil
	}
	m.gState = GStateIdle

	if m.session != nil {
		switch {
		case key.Matches(msg, m.keys.NextTab):
			return m.switchTab(1)
		case key.Matches(msg, m.keys.PrevTab):
			return m.switchTab(-1)
		case key.Matches(msg, m.keys.Logout):
			m.confirm = &confirmPrompt{
				text:  "Log out? (y/n)",
				onYes: logoutCmd(m.deps.Sessions, m.log),
			}
			return m, nil
		}
	}

	switch m.screen {
	case model.ScreenWelcome:
		return m.handleWelcomeNav(msg)
	case model.ScreenShops:
		return m.handleShopsNav(msg)
	case model.ScreenBookings:
		return m.handleBookingsNav(msg)
	case model.ScreenAdminShops:
		return m.handleAdminShopsNav(msg)
	case model.ScreenScheduler:
		return m.handleSchedulerNav(msg)
	}

	return m, nil
}

func (m *Model) currentTable() tableController {
	switch m.screen {
	case model.ScreenBookings:
		if m.bookings != nil {
			return m.bookings
		}
	case model.ScreenAdminShops:
		if m.adminShops != nil {
			return m.adminShops
		}
	case model.ScreenScheduler:
		if m.scheduler != nil {
			return m.scheduler
		}
	}
	return nil
}

func (m *Model) persistCurrentTablePrefs() {
	t, slot := m.currentTable(), m.prefs.tableSlot(m.screen)
	if t == nil || slot == nil {
		return
	}
	*slot = t.Prefs()
	if err := saveUIPreferences(m.deps.Prefs, m.prefs); err != nil {
		m.log.Warn("failed to save ui preferences", zap.Error(err))
	}
}

// handleInsertMode routes input to the open form.
func (m Model) handleInsertMode(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenLogin:
		if m.login != nil {
			form, cmd := m.login.Update(msg)
			m.login = &form
			return m, cmd
		}
	case model.ScreenRegister:
		if m.register != nil {
			form, cmd := m.register.Update(msg)
			m.register = &form
			return m, cmd
		}
	case model.ScreenBookingForm:
		if m.bookingForm != nil {
			form, cmd := m.bookingForm.Update(msg)
			m.bookingForm = &form
			return m, cmd
		}
	case model.ScreenShopForm:
		if m.shopForm != nil {
			form, cmd := m.shopForm.Update(msg)
			m.shopForm = &form
			return m, cmd
		}
	case model.ScreenScheduleForm:
		if m.scheduleForm != nil {
			form, cmd := m.scheduleForm.Update(msg)
			m.scheduleForm = &form
			return m, cmd
		}
	}
	return m, nil
}

// closeForm drops the open form and returns to the screen it came from.
func (m *Model) closeForm() {
	switch m.screen {
	case model.ScreenLogin, model.ScreenRegister:
		m.login = nil
		m.register = nil
		m.screen = model.ScreenWelcome
	case model.ScreenBookingForm:
		m.bookingForm = nil
		m.screen = model.ScreenShops
	case model.ScreenShopForm:
		m.shopForm = nil
		m.screen = model.ScreenAdminShops
	case model.ScreenScheduleForm:
		m.scheduleForm = nil
		m.screen = model.ScreenScheduler
	}
}

// resetSessionViews drops everything loaded for the previous session.
func (m *Model) resetSessionViews() {
	m.avatar = ""
	m.confirm = nil
	m.bookings = nil
	m.bookingForm = nil
	m.adminShops = nil
	m.shopForm = nil
	m.deps.Listing.Reset()
	m.shops = NewShopsModel(m.deps.LookaheadRows)
	m.shops.SetSize(m.contentHeight())
}

func (m *Model) setLocalBookings(rows []model.LocalBooking) {
	if m.scheduler == nil {
		m.scheduler = NewSchedulerModel(rows, m.deps.Scheduler.Scope())
		m.scheduler.ApplyPrefs(m.prefs.Scheduler)
		return
	}
	m.scheduler.SetRows(rows)
}

func (m Model) switchTab(delta int) (tea.Model, tea.Cmd) {
	tabs := m.tabs()
	idx := -1
	for i, t := range tabs {
		if t.screen == m.screen {
			idx = i
			break
		}
	}
	if idx < 0 {
		return m, nil
	}
	next := (idx + delta + len(tabs)) % len(tabs)
	m.screen = tabs[next].screen
	m.error = ""
	return m, m.screenCmd(m.screen)
}

// enterSession loads the home screen and the avatar of a fresh session.
func (m *Model) enterSession() tea.Cmd {
	cmds := []tea.Cmd{m.screenCmd(m.screen)}
	if m.session != nil && m.session.PhotoRef != "" {
		cmds = append(cmds, avatarCmd(m.deps.API, m.session.PhotoRef, m.deps.TermCaps, m.log))
	}
	return tea.Batch(cmds...)
}

// screenCmd loads what screen needs to display.
func (m *Model) screenCmd(screen model.Screen) tea.Cmd {
	switch screen {
	case model.ScreenShops:
		return m.maybeLoadShops()
	case model.ScreenBookings:
		if m.bookings == nil && m.session != nil {
			return loadBookingsCmd(m.deps.Bookings, m.session.ID)
		}
	case model.ScreenAdminShops:
		if m.adminShops == nil {
			return m.loadOwnedShopsCmd()
		}
	case model.ScreenScheduler:
		return loadLocalBookingsCmd(m.deps.Scheduler)
	}
	return nil
}

// maybeLoadShops starts the next page fetch when the sentinel row is in
// range. Start marks the fetch pending before the command runs, so a second
// trigger arriving meanwhile is dropped.
func (m *Model) maybeLoadShops() tea.Cmd {
	if !m.shops.NeedsMore() {
		return nil
	}
	claim, ok := m.deps.Listing.Start()
	if !ok {
		return nil
	}
	m.shops.pending = true
	return tea.Batch(m.shops.spinner.Tick, fetchShopsPageCmd(m.deps.Listing, claim))
}

func (m *Model) loadOwnedShopsCmd() tea.Cmd {
	if m.session == nil {
		return nil
	}
	return loadOwnedShopsCmd(m.deps.Shops, m.session.ID)
}

func (m Model) handleJumpToTop() (tea.Model, tea.Cmd) {
	switch m.screen {
	case model.ScreenShops:
		m.shops.JumpToTop()
		return m, m.maybeLoadShops()
	case model.ScreenWelcome:
		m.welcome.cursor = 0
	default:
		if s := m.currentTable(); s != nil {
			s.JumpToTop()
		}
	}
	return m, nil
}

// scroll applies a movement key to s and reports whether it was one.
func (m Model) scroll(s scroller, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.Down):
		s.MoveDown()
	case key.Matches(msg, m.keys.Up):
		s.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		s.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		s.HalfPageDown(m.height / 2)
	case key.Matches(msg, m.keys.HalfPageUp):
		s.HalfPageUp(m.height / 2)
	default:
		return false
	}
	return true
}

// Navigation handlers for each screen

func (m Model) handleWelcomeNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.welcome.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.welcome.MoveUp()
	case key.Matches(msg, m.keys.Select):
		return m.open(m.welcome.Selected())
	case key.Matches(msg, m.keys.Login):
		return m.open(model.ScreenLogin)
	case key.Matches(msg, m.keys.Register):
		return m.open(model.ScreenRegister)
	case key.Matches(msg, m.keys.Scheduler):
		return m.open(model.ScreenScheduler)
	}
	return m, nil
}

// open switches to a screen reachable from the welcome menu.
func (m Model) open(screen model.Screen) (tea.Model, tea.Cmd) {
	m.error = ""
	m.info = ""
	switch screen {
	case model.ScreenLogin:
		m.login = NewLoginFormModel(m.deps.Sessions, "")
		m.mode = model.ModeInsert
	case model.ScreenRegister:
		m.register = NewRegisterFormModel(m.deps.API)
		m.mode = model.ModeInsert
	}
	m.screen = screen
	if m.mode == model.ModeInsert {
		return m, textinput.Blink
	}
	return m, m.screenCmd(screen)
}

func (m Model) handleShopsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.shops.MoveDown()
	case key.Matches(msg, m.keys.Up):
		m.shops.MoveUp()
	case key.Matches(msg, m.keys.Bottom):
		m.shops.JumpToBottom()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.shops.HalfPageDown()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.shops.HalfPageUp()
	case key.Matches(msg, m.keys.Select):
		m.shops.ToggleDetail()
	case key.Matches(msg, m.keys.Book):
		shop, ok := m.shops.Selected()
		if !ok {
			return m, nil
		}
		s, err := m.deps.Sessions.Require(session.ActionBook)
		if err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.bookingForm = NewBookingFormModel(m.deps.Bookings, s.ID, shop)
		m.screen = model.ScreenBookingForm
		m.mode = model.ModeInsert
		m.error = ""
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if m.shops.pending {
			m.info = "Still loading…"
			return m, nil
		}
		m.deps.Listing.Reset()
		m.shops = NewShopsModel(m.deps.LookaheadRows)
		m.shops.SetSize(m.contentHeight())
		m.error = ""
	}
	return m, m.maybeLoadShops()
}

func (m Model) handleBookingsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		if m.session != nil {
			return m, loadBookingsCmd(m.deps.Bookings, m.session.ID)
		}
	default:
		if m.bookings != nil {
			m.scroll(m.bookings, msg)
		}
	}
	return m, nil
}

func (m Model) handleAdminShopsNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadOwnedShopsCmd()
	case key.Matches(msg, m.keys.Add):
		s, err := m.deps.Sessions.Require(session.ActionManageShops)
		if err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.shopForm = NewShopFormModel(m.deps.Shops, s.ID)
		m.screen = model.ScreenShopForm
		m.mode = model.ModeInsert
		return m, textinput.Blink
	}

	if m.adminShops == nil {
		return m, nil
	}
	shop, selected := m.adminShops.Selected()
	switch {
	case key.Matches(msg, m.keys.Edit), key.Matches(msg, m.keys.Select):
		if !selected {
			return m, nil
		}
		s, err := m.deps.Sessions.Require(session.ActionManageShops)
		if err != nil {
			m.error = err.Error()
			return m, nil
		}
		m.shopForm = NewShopFormModel(m.deps.Shops, s.ID)
		m.shopForm.LoadShop(shop)
		m.screen = model.ScreenShopForm
		m.mode = model.ModeInsert
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if !selected {
			return m, nil
		}
		m.confirm = &confirmPrompt{
			text:  fmt.Sprintf("Delete %s? (y/n)", shop.Name),
			onYes: deleteShopCmd(m.deps.Shops, shop.ID),
		}
		return m, nil
	default:
		m.scroll(m.adminShops, msg)
	}
	return m, nil
}

func (m Model) handleSchedulerNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		if m.session == nil {
			m.screen = model.ScreenWelcome
			m.info = ""
			m.error = ""
		}
		return m, nil
	case key.Matches(msg, m.keys.Add):
		name := ""
		if m.session != nil {
			name = m.session.Name
		}
		m.scheduleForm = NewScheduleFormModel(m.deps.Scheduler, name)
		m.screen = model.ScreenScheduleForm
		m.mode = model.ModeInsert
		return m, textinput.Blink
	case key.Matches(msg, m.keys.CancelSlot):
		m.scheduleForm = NewCancelFormModel(m.deps.Scheduler)
		m.screen = model.ScreenScheduleForm
		m.mode = model.ModeInsert
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Export):
		return m, exportLocalBookingsCmd(m.deps.Scheduler, m.deps.ConfigDir)
	}

	if m.scheduler == nil {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Delete):
		b, ok := m.scheduler.Selected()
		if !ok {
			return m, nil
		}
		m.confirm = &confirmPrompt{
			text:  fmt.Sprintf("Cancel %s's booking on %s at %s? (y/n)", b.Name, b.Date, b.Time),
			onYes: cancelLocalBookingCmd(m.deps.Scheduler, b.Name, b.Date),
		}
	default:
		m.scroll(m.scheduler, msg)
	}
	return m, nil
}
