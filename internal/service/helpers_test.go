package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devnotes/internal/repository"
	"devnotes/internal/repository/sqlite"
	"devnotes/internal/security"
)

type testStore struct {
	db     *sql.DB
	users  repository.UserRepository
	notes  repository.NoteRepository
	tokens repository.RememberTokenRepository
	hasher *security.PasswordHasher
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath, 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db, nil))

	return &testStore{
		db:     db,
		users:  sqlite.NewUserRepository(db),
		notes:  sqlite.NewNoteRepository(db),
		tokens: sqlite.NewRememberTokenRepository(db),
		hasher: security.NewPasswordHasher(bcrypt.MinCost),
	}
}
