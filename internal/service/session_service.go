package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"devnotes/internal/domain"
	"devnotes/internal/repository"
	"devnotes/internal/security"
)

const (
	// SessionTTL bounds the short-lived session cookie.
	SessionTTL = 24 * time.Hour
	// RememberTTL bounds a remember-me token from the moment it is issued.
	RememberTTL = 30 * 24 * time.Hour
)

// LoginResult is returned by a successful login. RememberToken is empty unless
// the caller asked to be remembered.
type LoginResult struct {
	User            *domain.User
	RememberToken   string
	RememberExpires time.Time
}

// SessionService authenticates users and manages remember-me tokens. The
// short-lived session itself belongs to the HTTP layer's session store.
type SessionService interface {
	Login(ctx context.Context, username, password string, rememberMe bool) (*LoginResult, error)
	ResolveRememberToken(ctx context.Context, raw string) (*domain.User, error)
	Logout(ctx context.Context, rememberToken string) error
	Status(ctx context.Context, userID int64) (*domain.User, error)
}

type SessionOption func(*sessionService)

// WithClock replaces time.Now, mostly for expiry tests.
func WithClock(now func() time.Time) SessionOption {
	return func(s *sessionService) {
		s.now = now
	}
}

type sessionService struct {
	users  repository.UserRepository
	tokens repository.RememberTokenRepository
	hasher PasswordHasher
	now    func() time.Time

	dummyOnce   sync.Once
	dummyDigest string
}

func NewSessionService(users repository.UserRepository, tokens repository.RememberTokenRepository, hasher PasswordHasher, opts ...SessionOption) SessionService {
	s := &sessionService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *sessionService) Login(ctx context.Context, username, password string, rememberMe bool) (*LoginResult, error) {
	// usernames are stored trimmed by Register
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.NewValidationError("username", "Username and password are required")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// same bcrypt cost as a real mismatch
			s.hasher.Verify(password, s.timingDigest())
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	result := &LoginResult{User: sanitizeUser(user)}
	if !rememberMe {
		return result, nil
	}

	raw, digest, err := security.NewRememberToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	token := &domain.RememberToken{
		TokenHash: digest,
		UserID:    user.ID,
		ExpiresAt: now.Add(RememberTTL),
		CreatedAt: now,
	}
	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, err
	}

	result.RememberToken = raw
	result.RememberExpires = token.ExpiresAt
	return result, nil
}

func (s *sessionService) ResolveRememberToken(ctx context.Context, raw string) (*domain.User, error) {
	if raw == "" {
		return nil, domain.ErrTokenNotFound
	}

	token, err := s.tokens.Find(ctx, security.HashToken(raw))
	if err != nil {
		return nil, err
	}
	if token.Expired(s.now()) {
		return nil, domain.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *sessionService) Logout(ctx context.Context, rememberToken string) error {
	if rememberToken == "" {
		return nil
	}
	return s.tokens.Delete(ctx, security.HashToken(rememberToken))
}

func (s *sessionService) Status(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

// fallbackTimingDigest is a well-formed cost 12 bcrypt digest used when the
// hasher cannot produce one, so the unknown-user path never skips bcrypt.
const fallbackTimingDigest = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PBBkqquzi.Ss7KIUgO2t0jWMUW"

func (s *sessionService) timingDigest() string {
	s.dummyOnce.Do(func() {
		digest, err := s.hasher.Hash("devnotes-timing-guard")
		if err != nil || digest == "" {
			digest = fallbackTimingDigest
		}
		s.dummyDigest = digest
	})
	return s.dummyDigest
}
