package session

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// idSize is 32 bytes, 256 bits of entropy.
const idSize = 32

var randRead = rand.Read

// GenerateID returns a URL-safe random session id.
func GenerateID() (string, error) {
	b := make([]byte, idSize)
	if _, err := randRead(b); err != nil {
		return "", fmt.Errorf("session: failed to generate id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
