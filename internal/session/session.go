// Package session owns the logged-in identity: login, restore on start-up,
// logout and the role policy views consult.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"tesoura/internal/db"
	"tesoura/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotLoggedIn is returned when an action needs a session and there is none.
var ErrNotLoggedIn = errors.New("not logged in")

// Action is something a view may ask permission for.
type Action int

const (
	// ActionBook creates and lists the user's own bookings.
	ActionBook Action = iota
	// ActionManageShops creates, edits and deletes owned establishments.
	ActionManageShops
	// ActionLocalSchedule uses the standalone local scheduler.
	ActionLocalSchedule
)

func (a Action) String() string {
	switch a {
	case ActionBook:
		return "book"
	case ActionManageShops:
		return "manage shops"
	case ActionLocalSchedule:
		return "local schedule"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Authorize reports whether role may perform action.
func Authorize(role model.Role, action Action) bool {
	switch action {
	case ActionManageShops:
		return role == model.RoleEstablishmentAdmin
	case ActionBook, ActionLocalSchedule:
		return true
	}
	return false
}

// Authenticator verifies credentials against the API.
type Authenticator interface {
	Login(ctx context.Context, user, password string) (model.Session, error)
}

// Store persists the session and the data scoped to it.
type Store interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
	Delete(key string) error
}

// Manager holds the current session.
type Manager struct {
	auth  Authenticator
	store Store
	log   *zap.Logger

	mu      sync.RWMutex
	current *model.Session
}

// NewManager creates a Manager and restores any saved session.
func NewManager(auth Authenticator, store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{auth: auth, store: store, log: logger.Named("session")}
	m.restore()
	return m
}

func (m *Manager) restore() {
	raw, ok, err := m.store.Get(db.KeySession)
	if err != nil {
		m.log.Warn("failed to read saved session", zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var s model.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil || s.ID == "" {
		m.log.Warn("discarding unreadable saved session", zap.Error(err))
		_ = m.store.Delete(db.KeySession)
		return
	}
	m.current = &s
	m.log.Info("session restored", zap.String("user_id", s.ID))
}

// Login authenticates and persists the new session, replacing any previous
// one.
func (m *Manager) Login(ctx context.Context, user, password string) (model.Session, error) {
	user = strings.TrimSpace(user)
	if user == "" || password == "" {
		return model.Session{}, model.NewValidationError("", "user and password are required")
	}

	s, err := m.auth.Login(ctx, user, password)
	if err != nil {
		return model.Session{}, err
	}
	if s.ID == "" {
		return model.Session{}, fmt.Errorf("login response has no user id")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return model.Session{}, fmt.Errorf("failed to encode session: %w", err)
	}
	if err := m.store.Put(db.KeySession, string(raw)); err != nil {
		return model.Session{}, err
	}

	m.mu.Lock()
	m.current = &s
	m.mu.Unlock()
	m.log.Info("logged in", zap.String("user_id", s.ID), zap.String("role", s.RoleKind().String()))
	return s, nil
}

// Current returns the active session, if any.
func (m *Manager) Current() (model.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return model.Session{}, false
	}
	return *m.current, true
}

// Can reports whether the current session may perform action.
func (m *Manager) Can(action Action) bool {
	s, ok := m.Current()
	return ok && Authorize(s.RoleKind(), action)
}

// Require returns the current session or an error when it may not perform
// action.
func (m *Manager) Require(action Action) (model.Session, error) {
	s, ok := m.Current()
	if !ok {
		return model.Session{}, ErrNotLoggedIn
	}
	if !Authorize(s.RoleKind(), action) {
		return model.Session{}, fmt.Errorf("a %s account cannot %s", s.RoleKind(), action)
	}
	return s, nil
}

// Logout forgets the session and the data scoped to it.
func (m *Manager) Logout() error {
	m.mu.Lock()
	prev := m.current
	m.current = nil
	m.mu.Unlock()

	var errs []error
	if err := m.store.Delete(db.KeySession); err != nil {
		errs = append(errs, err)
	}
	if err := m.store.Delete(db.KeyBookings); err != nil {
		errs = append(errs, err)
	}
	if prev != nil {
		m.log.Info("logged out", zap.String("user_id", prev.ID))
	}
	return errors.Join(errs...)
}
