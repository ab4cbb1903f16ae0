package ui

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tesoura/internal/apiclient"
	"tesoura/internal/booking"
	"tesoura/internal/bookingcache"
	"tesoura/internal/db"
	"tesoura/internal/listing"
	"tesoura/internal/model"
	"tesoura/internal/session"
	"tesoura/internal/shopadmin"
	"tesoura/internal/stubapi"
)

const modelPkg = "tesoura/internal/model"

func newTestDeps(t *testing.T) (Deps, *stubapi.Server) {
	t.Helper()
	stub := stubapi.New(stubapi.Options{Seed: true})
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(ts.Close)

	conn, err := db.Open(filepath.Join(t.TempDir(), "tesoura.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	client := apiclient.New(ts.URL, apiclient.Options{Timeout: 5 * time.Second})
	kv := db.KVStore{DB: conn}
	scheduler, err := booking.New(booking.SQLStore{DB: conn}, booking.ScopeGlobal, nil)
	if err != nil {
		t.Fatalf("booking.New: %v", err)
	}

	return Deps{
		API:       client,
		Sessions:  session.NewManager(client, kv, nil),
		Listing:   listing.New(client, listing.DefaultPageSize, nil),
		Bookings:  bookingcache.New(client, kv, nil),
		Shops:     shopadmin.New(client, nil),
		Scheduler: scheduler,
		Prefs:     kv,
		ConfigDir: t.TempDir(),
	}, stub
}

func login(t *testing.T, deps Deps, email string) {
	t.Helper()
	if _, err := deps.Sessions.Login(context.Background(), email, stubapi.DemoPassword); err != nil {
		t.Fatalf("Login(%s): %v", email, err)
	}
}

// drain runs cmd and every command it leads to, feeding the app's own
// messages back into the model. Timers such as spinner ticks and cursor
// blinks are dropped.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 1000 {
			t.Fatal("command chain did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg == nil || reflect.TypeOf(msg).PkgPath() != modelPkg {
			continue
		}
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		queue = append(queue, nextCmd)
	}
	return m
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+s":
			msg = tea.KeyMsg{Type: tea.KeyCtrlS}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, cmd := m.Update(msg)
		m = drain(t, next.(Model), cmd)
	}
	return m
}

func TestShopsFillViewport(t *testing.T) {
	deps, stub := newTestDeps(t)
	login(t, deps, stubapi.DemoCustomerEmail)

	m := New(deps)
	if m.screen != model.ScreenShops {
		t.Fatalf("restored customer should land on shops, got %v", m.screen)
	}
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	m = drain(t, next.(Model), cmd)

	if got := len(m.shops.items); got != 13 {
		t.Errorf("loaded %d shops, want 13", got)
	}
	if !m.shops.exhausted {
		t.Error("list should be exhausted")
	}
	if got := stub.Hits("GET /establishments"); got != 3 {
		t.Errorf("fetched %d pages, want 3", got)
	}
}

func TestShopsLoadOnScroll(t *testing.T) {
	deps, stub := newTestDeps(t)
	login(t, deps, stubapi.DemoCustomerEmail)

	m := New(deps)
	m.shops.SetSize(6) // three visible rows
	m = drain(t, m, m.maybeLoadShops())

	if got := stub.Hits("GET /establishments"); got != 1 {
		t.Fatalf("fetched %d pages before scrolling, want 1", got)
	}
	if got := len(m.shops.items); got != 5 {
		t.Fatalf("loaded %d shops, want 5", got)
	}

	m = press(t, m, "j", "j", "j")
	if got := stub.Hits("GET /establishments"); got != 1 {
		t.Errorf("fetched %d pages before reaching the end, want 1", got)
	}

	m = press(t, m, "j")
	if got := stub.Hits("GET /establishments"); got != 2 {
		t.Errorf("fetched %d pages after reaching the end, want 2", got)
	}
	if got := len(m.shops.items); got != 10 {
		t.Errorf("loaded %d shops, want 10", got)
	}
}

func TestSessionChangeDropsInFlightPage(t *testing.T) {
	deps, stub := newTestDeps(t)
	login(t, deps, stubapi.DemoCustomerEmail)
	s, _ := deps.Sessions.Current()

	m := New(deps)
	next, before := m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	m = next.(Model)

	next, _ = m.Update(model.LoggedOutMsg{})
	m = next.(Model)
	next, after := m.Update(model.LoggedInMsg{Session: s})
	m = next.(Model)

	m = drain(t, m, before)
	if got := len(m.shops.items); got != 0 {
		t.Fatalf("page fetched before the session change was applied: %d shops", got)
	}
	if !m.deps.Listing.Snapshot().Pending {
		t.Fatal("the new fetch should still be pending")
	}

	m = drain(t, m, after)
	if got := len(m.shops.items); got != 13 {
		t.Errorf("loaded %d shops, want 13", got)
	}
	if !m.shops.exhausted {
		t.Error("list should be exhausted")
	}
	if got := stub.Hits("GET /establishments"); got != 4 {
		t.Errorf("fetched %d pages, want 4", got)
	}
}

func TestLoginThroughForm(t *testing.T) {
	deps, _ := newTestDeps(t)
	m := New(deps)
	if m.screen != model.ScreenWelcome {
		t.Fatalf("screen = %v, want welcome", m.screen)
	}

	m = press(t, m, "i")
	if m.screen != model.ScreenLogin || m.mode != model.ModeInsert {
		t.Fatalf("expected login form, got screen %v mode %v", m.screen, m.mode)
	}

	m = press(t, m, stubapi.DemoCustomerEmail, "tab", "wrong", "enter")
	if m.session != nil {
		t.Fatal("login with a wrong password should fail")
	}
	if m.error == "" {
		t.Error("expected an error banner")
	}

	m = press(t, m, "esc", "i", stubapi.DemoCustomerEmail, "tab", stubapi.DemoPassword, "enter")
	if m.session == nil {
		t.Fatalf("expected a session, error banner: %q", m.error)
	}
	if m.session.Email != stubapi.DemoCustomerEmail {
		t.Errorf("session email = %q", m.session.Email)
	}
	if m.screen != model.ScreenShops {
		t.Errorf("screen = %v, want shops", m.screen)
	}
	if _, ok := deps.Sessions.Current(); !ok {
		t.Error("session should be persisted")
	}
}

func TestSchedulerConflictKeepsForm(t *testing.T) {
	deps, _ := newTestDeps(t)
	m := New(deps)

	m = press(t, m, "t")
	if m.screen != model.ScreenScheduler {
		t.Fatalf("screen = %v, want scheduler", m.screen)
	}

	m = press(t, m, "a", "Ana", "tab", "tab", "14:30", "tab", "Corte", "ctrl+s")
	if m.error != "" {
		t.Fatalf("first booking failed: %s", m.error)
	}
	if m.screen != model.ScreenScheduler || m.scheduler.Len() != 1 {
		t.Fatalf("expected one booking listed, screen %v rows %d", m.screen, m.scheduler.Len())
	}

	m = press(t, m, "a", "Bia", "tab", "tab", "14:30", "tab", "Barba", "ctrl+s")
	if m.error == "" {
		t.Fatal("expected a conflict error")
	}
	if !strings.Contains(m.error, "14:30") {
		t.Errorf("error %q should name the taken time", m.error)
	}
	if m.screen != model.ScreenScheduleForm {
		t.Errorf("form should stay open on conflict, screen %v", m.screen)
	}
	if got := len(deps.Scheduler.List()); got != 1 {
		t.Errorf("scheduler has %d bookings, want 1", got)
	}

	m = press(t, m, "esc")
	if m.screen != model.ScreenScheduler || m.mode != model.ModeNav {
		t.Errorf("esc should close the form, screen %v mode %v", m.screen, m.mode)
	}
}

func TestAdminDeleteNeedsConfirmation(t *testing.T) {
	deps, _ := newTestDeps(t)
	login(t, deps, stubapi.DemoAdminEmail)

	m := New(deps)
	m = drain(t, m, m.Init())
	if m.screen != model.ScreenAdminShops {
		t.Fatalf("screen = %v, want admin shops", m.screen)
	}
	if m.adminShops == nil || m.adminShops.Len() != 4 {
		t.Fatalf("expected 4 owned shops")
	}

	m = press(t, m, "d")
	if m.confirm == nil {
		t.Fatal("delete should ask for confirmation")
	}
	m = press(t, m, "n")
	if m.confirm != nil || m.adminShops.Len() != 4 {
		t.Fatalf("declining should keep the shop, rows %d", m.adminShops.Len())
	}

	m = press(t, m, "d", "y")
	if m.adminShops.Len() != 3 {
		t.Errorf("rows after delete = %d, want 3", m.adminShops.Len())
	}
	if m.info != "Barbershop deleted" {
		t.Errorf("info = %q", m.info)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	deps, _ := newTestDeps(t)
	login(t, deps, stubapi.DemoCustomerEmail)

	if err := deps.Prefs.Put(db.KeyBookings, `{"usuario_id":"1","agendamentos":[]}`); err != nil {
		t.Fatalf("seed booking cache: %v", err)
	}

	m := New(deps)
	m = press(t, m, "L")
	if m.confirm == nil {
		t.Fatal("logout should ask for confirmation")
	}
	m = press(t, m, "y")

	if m.session != nil {
		t.Error("session should be gone")
	}
	if m.screen != model.ScreenWelcome {
		t.Errorf("screen = %v, want welcome", m.screen)
	}
	if _, ok := deps.Sessions.Current(); ok {
		t.Error("persisted session should be deleted")
	}
	if _, ok, _ := deps.Prefs.Get(db.KeyBookings); ok {
		t.Error("booking cache should be deleted")
	}
}

func TestCustomerCannotOpenShopAdmin(t *testing.T) {
	deps, _ := newTestDeps(t)
	login(t, deps, stubapi.DemoCustomerEmail)

	m := New(deps)
	for _, tb := range m.tabs() {
		if tb.screen == model.ScreenAdminShops {
			t.Fatal("customers should not get the shop admin tab")
		}
	}

	if m.screen != model.ScreenShops {
		t.Fatalf("screen = %v, want shops", m.screen)
	}
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = drain(t, next.(Model), cmd)
	if m.screen != model.ScreenBookings {
		t.Errorf("screen = %v, want bookings", m.screen)
	}
}

func TestTablePrefsPersist(t *testing.T) {
	deps, _ := newTestDeps(t)
	m := New(deps)

	m = press(t, m, "t", "S")
	if !m.scheduler.sortDesc || m.scheduler.sortKey != "date" {
		t.Fatalf("sort = %q desc %v", m.scheduler.sortKey, m.scheduler.sortDesc)
	}

	again := New(deps)
	if got := again.prefs.Scheduler; got.SortKey != "date" || !got.SortDesc {
		t.Errorf("restored prefs = %+v", got)
	}
}
