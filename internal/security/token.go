package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// RememberTokenBytes is the amount of entropy in a remember-me token.
const RememberTokenBytes = 64

// NewRememberToken returns a hex encoded random token together with the digest
// that is persisted in its place.
func NewRememberToken() (raw string, digest string, err error) {
	buf := make([]byte, RememberTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("read random bytes: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashToken(raw), nil
}

func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
