package booking

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"tesoura/internal/db"
	"tesoura/internal/model"
)

// memStore is an in-memory Store that can be told to fail writes.
type memStore struct {
	saved     []model.LocalBooking
	writes    int
	failWrite error
}

func (m *memStore) LoadLocalBookings() ([]model.LocalBooking, error) {
	return append([]model.LocalBooking(nil), m.saved...), nil
}

func (m *memStore) ReplaceLocalBookings(b []model.LocalBooking) error {
	if m.failWrite != nil {
		return m.failWrite
	}
	m.writes++
	m.saved = append([]model.LocalBooking(nil), b...)
	return nil
}

func newScheduler(t *testing.T, scope ConflictScope) (*Scheduler, *memStore) {
	t.Helper()
	store := &memStore{}
	s, err := New(store, scope, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s, store
}

func TestScheduleRejectsInvalidCalendarDate(t *testing.T) {
	s, store := newScheduler(t, ScopeGlobal)

	_, err := s.Schedule("Ana", "31/02/2030", "10:00", "corte")
	var vErr *model.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if store.writes != 0 || len(s.List()) != 0 {
		t.Error("invalid booking was stored")
	}
}

func TestScheduleRequiresAllFields(t *testing.T) {
	s, _ := newScheduler(t, ScopeGlobal)
	cases := [][4]string{
		{"", "15/05/2030", "10:00", "corte"},
		{"Ana", " ", "10:00", "corte"},
		{"Ana", "15/05/2030", "", "corte"},
		{"Ana", "15/05/2030", "10:00", ""},
	}
	for _, c := range cases {
		_, err := s.Schedule(c[0], c[1], c[2], c[3])
		var vErr *model.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("Schedule(%q) = %v, want ValidationError", c, err)
		}
	}
}

func TestValidDate(t *testing.T) {
	valid := []string{"15/05/2030", "29/02/2028", "1/5/2030"}
	invalid := []string{"31/02/2030", "29/02/2030", "2030-05-15", "15/13/2030", "aa/05/2030", "15/05",
		"15/05/30", "01/01/0099", "01/01/0"}
	for _, d := range valid {
		if !ValidDate(d) {
			t.Errorf("ValidDate(%q) = false", d)
		}
	}
	for _, d := range invalid {
		if ValidDate(d) {
			t.Errorf("ValidDate(%q) = true", d)
		}
	}
}

func TestScheduleRejectsShortYear(t *testing.T) {
	s, _ := newScheduler(t, ScopeGlobal)
	_, err := s.Schedule("Ana", "15/05/30", "10:00", "corte")
	var verr *model.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Schedule with a two-digit year: err = %v, want ValidationError", err)
	}
	if got := len(s.List()); got != 0 {
		t.Errorf("List() has %d entries, want 0", got)
	}
}

func TestGlobalTimeConflict(t *testing.T) {
	s, _ := newScheduler(t, ScopeGlobal)

	msg, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte")
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}
	want := "Booking confirmed for Ana on 15/05/2030 at 10:00 - service: corte"
	if msg != want {
		t.Errorf("msg = %q, want %q", msg, want)
	}

	_, err = s.Schedule("Bruno", "15/05/2030", "10:00", "barba")
	var cErr *model.ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if cErr.Time != "10:00" || cErr.Holder != "Ana" || cErr.Date != "15/05/2030" {
		t.Errorf("unexpected conflict %+v", cErr)
	}

	// Different date still conflicts under the global scope.
	if _, err := s.Schedule("Bruno", "16/05/2030", "10:00", "barba"); !errors.As(err, &cErr) {
		t.Errorf("expected conflict on another date, got %v", err)
	}
}

func TestDateScopedConflict(t *testing.T) {
	s, _ := newScheduler(t, ScopeDate)

	if _, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte"); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if _, err := s.Schedule("Bruno", "16/05/2030", "10:00", "barba"); err != nil {
		t.Errorf("other date should be free under date scope: %v", err)
	}
	var cErr *model.ConflictError
	if _, err := s.Schedule("Caio", "15/05/2030", "10:00", "corte"); !errors.As(err, &cErr) {
		t.Errorf("expected same-date conflict, got %v", err)
	}
}

func TestSameKeyOverwrites(t *testing.T) {
	s, _ := newScheduler(t, ScopeGlobal)

	if _, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Schedule("Ana", "15/05/2030", "11:00", "barba"); err != nil {
		t.Fatal(err)
	}
	list := s.List()
	if len(list) != 1 || list[0].Time != "11:00" || list[0].Service != "barba" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestCancel(t *testing.T) {
	s, store := newScheduler(t, ScopeGlobal)
	if _, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte"); err != nil {
		t.Fatal(err)
	}

	ok, err := s.Cancel("Ana", "15/05/2030")
	if err != nil || !ok {
		t.Fatalf("Cancel = %v, %v", ok, err)
	}
	if len(store.saved) != 0 {
		t.Errorf("store still holds %+v", store.saved)
	}

	ok, err = s.Cancel("Ana", "15/05/2030")
	if err != nil || ok {
		t.Errorf("repeat Cancel = %v, %v, want not found", ok, err)
	}

	var vErr *model.ValidationError
	if _, err := s.Cancel("", "15/05/2030"); !errors.As(err, &vErr) {
		t.Errorf("Cancel with blank name = %v", err)
	}
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	s, store := newScheduler(t, ScopeGlobal)
	if _, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte"); err != nil {
		t.Fatal(err)
	}

	store.failWrite = errors.New("disk full")
	if _, err := s.Schedule("Bruno", "15/05/2030", "11:00", "barba"); err == nil {
		t.Fatal("expected write error")
	}
	if ok, err := s.Cancel("Ana", "15/05/2030"); err == nil || ok {
		t.Fatalf("Cancel = %v, %v, want write error", ok, err)
	}
	list := s.List()
	if len(list) != 1 || list[0].Name != "Ana" {
		t.Errorf("state changed after failed writes: %+v", list)
	}
}

func TestPersistsThroughSQLite(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "tesoura.db"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	defer conn.Close()

	s, err := New(SQLStore{DB: conn}, ScopeGlobal, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Schedule("Bruno", "14/05/2030", "09:00", "barba"); err != nil {
		t.Fatal(err)
	}

	reloaded, err := New(SQLStore{DB: conn}, ScopeGlobal, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	list := reloaded.List()
	if len(list) != 2 || list[0].Name != "Bruno" {
		t.Fatalf("unexpected reloaded list %+v", list)
	}

	var cErr *model.ConflictError
	if _, err := reloaded.Schedule("Caio", "20/05/2030", "09:00", "corte"); !errors.As(err, &cErr) {
		t.Errorf("expected conflict against reloaded data, got %v", err)
	}
}

func TestExportCSV(t *testing.T) {
	s, _ := newScheduler(t, ScopeGlobal)
	if _, err := s.Schedule("Ana", "15/05/2030", "10:00", "corte"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "name,date,time,service" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Ana,15/05/2030,10:00,corte" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestParseScope(t *testing.T) {
	for in, want := range map[string]ConflictScope{"": ScopeGlobal, "Global": ScopeGlobal, "date": ScopeDate} {
		got, err := ParseScope(in)
		if err != nil || got != want {
			t.Errorf("ParseScope(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseScope("shop"); err == nil {
		t.Error("expected error for unknown scope")
	}
}
