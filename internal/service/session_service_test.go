package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devnotes/internal/domain"
	"devnotes/internal/security"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newSessionFixture(t *testing.T) (*testStore, SessionService, *fakeClock, *domain.User) {
	t.Helper()
	store := newTestStore(t)
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	user, err := NewUserService(store.users, store.hasher).Register(context.Background(), "alice", "secret")
	require.NoError(t, err)

	svc := NewSessionService(store.users, store.tokens, store.hasher, WithClock(clock.Now))
	return store, svc, clock, user
}

func TestSessionService_LoginWithoutRemember(t *testing.T) {
	_, svc, _, alice := newSessionFixture(t)

	res, err := svc.Login(context.Background(), "alice", "secret", false)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, res.User.ID)
	assert.Empty(t, res.User.PasswordHash)
	assert.Empty(t, res.RememberToken)
}

func TestSessionService_InvalidCredentialsAreIndistinguishable(t *testing.T) {
	_, svc, _, _ := newSessionFixture(t)
	ctx := context.Background()

	_, wrongPassword := svc.Login(ctx, "alice", "wrong", true)
	_, unknownUser := svc.Login(ctx, "mallory", "secret", true)

	require.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestSessionService_LoginRequiresBothFields(t *testing.T) {
	_, svc, _, _ := newSessionFixture(t)

	_, err := svc.Login(context.Background(), "", "secret", false)
	require.ErrorIs(t, err, domain.ErrValidation)
	_, err = svc.Login(context.Background(), "alice", "", false)
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestSessionService_RememberTokenLifecycle(t *testing.T) {
	store, svc, clock, alice := newSessionFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice", "secret", true)
	require.NoError(t, err)
	require.Len(t, res.RememberToken, 2*security.RememberTokenBytes)
	assert.Equal(t, clock.now.Add(RememberTTL), res.RememberExpires)

	// only the digest is persisted
	_, err = store.tokens.Find(ctx, res.RememberToken)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)

	user, err := svc.ResolveRememberToken(ctx, res.RememberToken)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	clock.now = clock.now.Add(RememberTTL - time.Second)
	_, err = svc.ResolveRememberToken(ctx, res.RememberToken)
	require.NoError(t, err)

	clock.now = clock.now.Add(time.Second)
	_, err = svc.ResolveRememberToken(ctx, res.RememberToken)
	require.ErrorIs(t, err, domain.ErrTokenExpired)

	// expired rows stay until logout
	_, err = store.tokens.Find(ctx, security.HashToken(res.RememberToken))
	require.NoError(t, err)
}

func TestSessionService_ResolveUnknownToken(t *testing.T) {
	_, svc, _, _ := newSessionFixture(t)

	_, err := svc.ResolveRememberToken(context.Background(), "deadbeef")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
	_, err = svc.ResolveRememberToken(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestSessionService_ResolveTokenOfDeletedUser(t *testing.T) {
	store, svc, _, alice := newSessionFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice", "secret", true)
	require.NoError(t, err)

	_, err = store.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, alice.ID)
	require.NoError(t, err)

	_, err = svc.ResolveRememberToken(ctx, res.RememberToken)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestSessionService_LogoutIsIdempotent(t *testing.T) {
	_, svc, _, _ := newSessionFixture(t)
	ctx := context.Background()

	res, err := svc.Login(ctx, "alice", "secret", true)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RememberToken))
	require.NoError(t, svc.Logout(ctx, res.RememberToken))
	require.NoError(t, svc.Logout(ctx, ""))

	_, err = svc.ResolveRememberToken(ctx, res.RememberToken)
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestSessionService_Status(t *testing.T) {
	_, svc, _, alice := newSessionFixture(t)

	user, err := svc.Status(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Status(context.Background(), alice.ID+1)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSessionService_LoginTrimsUsernameLikeRegister(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	registered, err := NewUserService(store.users, store.hasher).Register(ctx, "  bob  ", "password1")
	require.NoError(t, err)
	assert.Equal(t, "bob", registered.Username)

	svc := NewSessionService(store.users, store.tokens, store.hasher)
	res, err := svc.Login(ctx, "  bob  ", "password1", false)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, res.User.ID)

	_, err = svc.Login(ctx, "   ", "password1", false)
	require.ErrorIs(t, err, domain.ErrValidation)
}

type brokenHasher struct {
	verified []string
}

func (h *brokenHasher) Hash(string) (string, error) {
	return "", errors.New("entropy exhausted")
}

func (h *brokenHasher) Verify(_, digest string) bool {
	h.verified = append(h.verified, digest)
	return false
}

func TestSessionService_UnknownUserStillRunsBcryptWhenHashFails(t *testing.T) {
	store := newTestStore(t)
	hasher := &brokenHasher{}
	svc := NewSessionService(store.users, store.tokens, hasher)

	_, err := svc.Login(context.Background(), "mallory", "secret", false)
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	require.Len(t, hasher.verified, 1)
	assert.Equal(t, fallbackTimingDigest, hasher.verified[0])

	cost, err := bcrypt.Cost([]byte(fallbackTimingDigest))
	require.NoError(t, err)
	assert.Equal(t, security.DefaultBcryptCost, cost)
}
