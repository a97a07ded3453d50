package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devnotes/internal/domain"
)

func TestRememberTokenRepository_CreateFindDelete(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	repo := NewRememberTokenRepository(db)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Create(ctx, &domain.RememberToken{
		TokenHash: "abc",
		UserID:    user.ID,
		ExpiresAt: now.Add(30 * 24 * time.Hour),
		CreatedAt: now,
	}))

	got, err := repo.Find(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.UserID)
	assert.True(t, got.ExpiresAt.Equal(now.Add(30*24*time.Hour)))

	require.NoError(t, repo.Delete(ctx, "abc"))
	_, err = repo.Find(ctx, "abc")
	require.ErrorIs(t, err, domain.ErrTokenNotFound)
}

func TestRememberTokenRepository_FindReturnsExpiredRows(t *testing.T) {
	db := setupDB(t)
	user := createUser(t, db, "alice")
	repo := NewRememberTokenRepository(db)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	require.NoError(t, repo.Create(ctx, &domain.RememberToken{
		TokenHash: "stale",
		UserID:    user.ID,
		ExpiresAt: past,
		CreatedAt: past.Add(-time.Hour),
	}))

	got, err := repo.Find(ctx, "stale")
	require.NoError(t, err)
	assert.True(t, got.Expired(time.Now()))
}

func TestRememberTokenRepository_DeleteUnknownIsNoop(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, NewRememberTokenRepository(db).Delete(context.Background(), "missing"))
}

func TestRememberTokenRepository_Create_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO remember_tokens`).
		WithArgs("abc", int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("db down"))

	err = NewRememberTokenRepository(db).Create(context.Background(), &domain.RememberToken{
		TokenHash: "abc",
		UserID:    1,
		ExpiresAt: time.Now(),
		CreatedAt: time.Now(),
	})
	require.ErrorContains(t, err, "db down")
	require.NoError(t, mock.ExpectationsWereMet())
}
