package domain

import "time"

// RememberToken is the persisted half of a "remember me" login. Only the
// digest of the cookie value is stored.
type RememberToken struct {
	TokenHash string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token must be treated as absent at now.
func (t RememberToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
