package session

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Manager ties a Store to the cookie transport: it loads the state for an
// incoming request and writes it back, refreshing the expiry on every save.
type Manager struct {
	store  Store
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{store: store, ttl: ttl, cookie: cookie, now: time.Now}
}

// Load returns the state referenced by the request cookie, or a fresh
// anonymous state when there is no cookie or the session is gone.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*State, error) {
	if id := cookieValue(r); id != "" {
		s, err := m.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			return s, nil
		}
	}
	return NewState(m.now(), m.ttl)
}

// Save persists s, drops the id it was rotated away from and sets the cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, s *State) error {
	s.Touch(m.now(), m.ttl)

	if err := m.store.Save(ctx, s); err != nil {
		return err
	}
	if s.previousID != "" {
		if err := m.store.Delete(ctx, s.previousID); err != nil {
			return fmt.Errorf("session: drop rotated id: %w", err)
		}
		s.previousID = ""
	}
	s.isNew = false

	SetCookie(w, s.ID, s.ExpiresAt, m.cookie)
	return nil
}

// Destroy removes s from the store and clears the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *State) error {
	ids := []string{s.ID}
	if s.previousID != "" {
		ids = append(ids, s.previousID)
	}
	for _, id := range ids {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
	}
	ClearCookie(w, m.cookie)
	return nil
}
