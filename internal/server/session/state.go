// Package session keeps per-visitor server-side state: the authenticated
// identity, the shopping cart and one-shot flash messages. Only the opaque
// session id travels to the client, in a cookie.
package session

import (
	"slices"
	"time"
)

// State is the typed session record handed explicitly to every core
// operation. UserID 0 means anonymous.
type State struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id,omitempty"`
	Cart      []int64   `json:"cart,omitempty"`
	Flashes   []string  `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	// previousID is set by Rotate and consumed by Manager.Save.
	previousID string
	isNew      bool
}

// NewState creates an anonymous state with a fresh id.
func NewState(now time.Time, ttl time.Duration) (*State, error) {
	id, err := GenerateID()
	if err != nil {
		return nil, err
	}
	return &State{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		isNew:     true,
	}, nil
}

func (s *State) Authenticated() bool {
	return s.UserID != 0
}

// IsNew reports whether the state was created during this request.
func (s *State) IsNew() bool {
	return s.isNew
}

// Expired reports whether the state is past its expiry at now.
func (s *State) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Touch pushes the expiry to now+ttl.
func (s *State) Touch(now time.Time, ttl time.Duration) {
	s.ExpiresAt = now.Add(ttl)
}

// Rotate assigns a new id, keeping the contents. The old id is deleted from
// the store on the next save. Used on privilege changes such as login.
func (s *State) Rotate() error {
	id, err := GenerateID()
	if err != nil {
		return err
	}
	if s.previousID == "" && !s.isNew {
		s.previousID = s.ID
	}
	s.ID = id
	return nil
}

func (s *State) AddFlash(msg string) {
	s.Flashes = append(s.Flashes, msg)
}

// PopFlashes returns the pending flash messages and clears them.
func (s *State) PopFlashes() []string {
	out := s.Flashes
	s.Flashes = nil
	if out == nil {
		return []string{}
	}
	return out
}

// Clone returns a deep copy, so stores never share slices with callers.
func (s *State) Clone() *State {
	c := *s
	c.Cart = slices.Clone(s.Cart)
	c.Flashes = slices.Clone(s.Flashes)
	return &c
}
