// Package booking is the standalone local scheduler: bookings keyed by
// customer name and date, with a time-slot conflict check.
package booking

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"tesoura/internal/model"
)

// ConflictScope selects which existing bookings a new time is checked against.
type ConflictScope string

const (
	// ScopeGlobal rejects a time already used by any booking on any date.
	ScopeGlobal ConflictScope = "global"
	// ScopeDate rejects a time only when it is used on the same date.
	ScopeDate ConflictScope = "date"
)

// ParseScope maps a config value to a ConflictScope. Blank means global.
func ParseScope(s string) (ConflictScope, error) {
	switch ConflictScope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeGlobal:
		return ScopeGlobal, nil
	case ScopeDate:
		return ScopeDate, nil
	}
	return "", fmt.Errorf("unknown conflict scope %q (want global or date)", s)
}

// Store persists the whole booking set.
type Store interface {
	LoadLocalBookings() ([]model.LocalBooking, error)
	ReplaceLocalBookings(bookings []model.LocalBooking) error
}

type key struct {
	name string
	date string
}

type slot struct {
	time    string
	service string
}

// Scheduler holds the local bookings in memory and writes the full set back
// to its Store after every change.
type Scheduler struct {
	store Store
	scope ConflictScope
	log   *zap.Logger

	mu      sync.Mutex
	entries map[key]slot
}

// New loads the persisted bookings into a Scheduler.
func New(store Store, scope ConflictScope, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scope == "" {
		scope = ScopeGlobal
	}
	saved, err := store.LoadLocalBookings()
	if err != nil {
		return nil, fmt.Errorf("failed to load local bookings: %w", err)
	}
	entries := make(map[key]slot, len(saved))
	for _, b := range saved {
		entries[key{b.Name, b.Date}] = slot{b.Time, b.Service}
	}
	return &Scheduler{
		store:   store,
		scope:   scope,
		log:     logger.Named("scheduler"),
		entries: entries,
	}, nil
}

// Scope returns the conflict scope in effect.
func (s *Scheduler) Scope() ConflictScope {
	return s.scope
}

// Schedule books time and service for name on date (DD/MM/YYYY). Booking the
// same name and date again replaces the earlier entry.
func (s *Scheduler) Schedule(name, date, tm, service string) (string, error) {
	name = strings.TrimSpace(name)
	date = strings.TrimSpace(date)
	tm = strings.TrimSpace(tm)
	service = strings.TrimSpace(service)

	if name == "" || date == "" || tm == "" || service == "" {
		return "", model.NewValidationError("", "all fields are required")
	}
	if !ValidDate(date) {
		return "", model.NewValidationError("date", "invalid date %q, use DD/MM/YYYY", date)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if holder, ok := s.conflict(date, tm); ok {
		return "", &model.ConflictError{Time: tm, Holder: holder.name, Date: holder.date}
	}

	k := key{name, date}
	prev, existed := s.entries[k]
	s.entries[k] = slot{tm, service}
	if err := s.persist(); err != nil {
		if existed {
			s.entries[k] = prev
		} else {
			delete(s.entries, k)
		}
		return "", err
	}

	s.log.Info("local booking scheduled",
		zap.String("name", name), zap.String("date", date), zap.String("time", tm))
	return fmt.Sprintf("Booking confirmed for %s on %s at %s - service: %s", name, date, tm, service), nil
}

// conflict scans every entry for tm. Must be called with mu held.
func (s *Scheduler) conflict(date, tm string) (key, bool) {
	var found []key
	for k, v := range s.entries {
		if v.time != tm {
			continue
		}
		if s.scope == ScopeDate && k.date != date {
			continue
		}
		found = append(found, k)
	}
	if len(found) == 0 {
		return key{}, false
	}
	// Report the same holder every time when several match.
	sort.Slice(found, func(i, j int) bool {
		if found[i].date != found[j].date {
			return found[i].date < found[j].date
		}
		return found[i].name < found[j].name
	})
	return found[0], true
}

// Cancel removes the booking of name on date. It reports false when no such
// booking exists.
func (s *Scheduler) Cancel(name, date string) (bool, error) {
	name = strings.TrimSpace(name)
	date = strings.TrimSpace(date)
	if name == "" || date == "" {
		return false, model.NewValidationError("", "name and date are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{name, date}
	prev, ok := s.entries[k]
	if !ok {
		return false, nil
	}
	delete(s.entries, k)
	if err := s.persist(); err != nil {
		s.entries[k] = prev
		return false, err
	}
	s.log.Info("local booking canceled", zap.String("name", name), zap.String("date", date))
	return true, nil
}

// List returns every booking ordered by date, time and name.
func (s *Scheduler) List() []model.LocalBooking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Scheduler) snapshot() []model.LocalBooking {
	out := make([]model.LocalBooking, 0, len(s.entries))
	for k, v := range s.entries {
		out = append(out, model.LocalBooking{Name: k.name, Date: k.date, Time: v.time, Service: v.service})
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := DateKey(out[i].Date), DateKey(out[j].Date)
		if di != dj {
			return di < dj
		}
		if out[i].Time != out[j].Time {
			return out[i].Time < out[j].Time
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ExportCSV writes every booking as CSV with a header row.
func (s *Scheduler) ExportCSV(w io.Writer) error {
	bookings := s.List()
	if err := gocsv.Marshal(&bookings, w); err != nil {
		return fmt.Errorf("failed to export bookings: %w", err)
	}
	return nil
}

func (s *Scheduler) persist() error {
	if err := s.store.ReplaceLocalBookings(s.snapshot()); err != nil {
		return fmt.Errorf("failed to save local bookings: %w", err)
	}
	return nil
}

// ValidDate reports whether s is a real calendar date written as
// day/month/year. Years below 100 are rejected, so "15/05/30" is not read
// as the year 30.
func ValidDate(s string) bool {
	_, ok := parseDate(s)
	return ok
}

func parseDate(s string) (time.Time, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || year < 100 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// DateKey returns a DD/MM/YYYY date as YYYY-MM-DD so it sorts by calendar
// order. Invalid dates are returned unchanged.
func DateKey(s string) string {
	if t, ok := parseDate(s); ok {
		return t.Format(time.DateOnly)
	}
	return s
}
