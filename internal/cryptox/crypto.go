// Package cryptox hashes and verifies account passwords with bcrypt.
package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordTooLong is returned for passwords bcrypt would silently truncate.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

// Hasher hashes passwords at a fixed bcrypt cost.
//
// It also keeps a hash of a throwaway password so that a login for an unknown
// user can burn the same amount of CPU as a real comparison.
type Hasher struct {
	cost  int
	dummy []byte
}

// generateFromPassword is a seam for tests that need to force a failure.
var generateFromPassword = bcrypt.GenerateFromPassword

// NewHasher returns a Hasher using cost. Costs outside bcrypt's accepted range
// fall back to bcrypt.DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	dummy, err := generateFromPassword([]byte("bookstore-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}

	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Cost reports the bcrypt cost in use.
func (h *Hasher) Cost() int {
	return h.cost
}

// Hash returns the bcrypt hash of password.
func (h *Hasher) Hash(password []byte) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	b, err := generateFromPassword(password, h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(b), nil
}

// Verify reports whether password matches hash. A malformed hash never matches.
func (h *Hasher) Verify(hash string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}

// VerifyDummy performs a comparison against the throwaway hash and always
// reports false.
func (h *Hasher) VerifyDummy(password []byte) bool {
	_ = bcrypt.CompareHashAndPassword(h.dummy, password)
	return false
}
