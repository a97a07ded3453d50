package http

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devnotes/internal/domain"
)

type stubExports struct {
	lastUser int64
	lastKey  string
}

func (s *stubExports) Export(_ context.Context, userID int64) (*domain.Export, error) {
	s.lastUser = userID
	return &domain.Export{Key: "exports/user-1/a.json", Size: 42, NoteCount: 2, CreatedAt: time.Unix(1700000000, 0)}, nil
}

func (s *stubExports) List(_ context.Context, userID int64) ([]domain.Export, error) {
	s.lastUser = userID
	return []domain.Export{{Key: "exports/user-1/a.json", Size: 42}}, nil
}

func (s *stubExports) DownloadURL(_ context.Context, userID int64, key string) (string, error) {
	s.lastUser, s.lastKey = userID, key
	if key != "exports/user-1/a.json" {
		return "", domain.ErrExportNotFound
	}
	return "https://bucket.example/a.json?sig=1", nil
}

func (s *stubExports) Delete(_ context.Context, userID int64, key string) error {
	s.lastUser, s.lastKey = userID, key
	if key != "exports/user-1/a.json" {
		return domain.ErrExportNotFound
	}
	return nil
}

func TestExports_DisabledWithoutStorage(t *testing.T) {
	app := newTestApp(t)
	client := app.client(t)
	app.do(t, client, http.MethodPost, "/api/auth/register", credentials("alice", "secret", false))

	res := app.do(t, client, http.MethodPost, "/api/exports", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, false, res.body["success"])
	assert.Equal(t, "Not found", res.body["message"])
}

func TestExports_Routes(t *testing.T) {
	stub := &stubExports{}
	app := newTestApp(t, withExports(stub))
	client := app.client(t)

	res := app.do(t, client, http.MethodPost, "/api/exports", nil)
	require.Equal(t, http.StatusUnauthorized, res.status)

	res = app.do(t, client, http.MethodPost, "/api/auth/register", credentials("alice", "secret", false))
	userID := int64(res.body["user"].(map[string]any)["id"].(float64))

	res = app.do(t, client, http.MethodPost, "/api/exports", nil)
	require.Equal(t, http.StatusCreated, res.status)
	export := res.body["export"].(map[string]any)
	assert.Equal(t, "exports/user-1/a.json", export["key"])
	assert.Equal(t, userID, stub.lastUser)

	res = app.do(t, client, http.MethodGet, "/api/exports", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Len(t, res.body["exports"], 1)

	res = app.do(t, client, http.MethodGet, "/api/exports/url?key=exports/user-1/a.json", nil)
	require.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "https://bucket.example/a.json?sig=1", res.body["url"])

	res = app.do(t, client, http.MethodGet, "/api/exports/url", nil)
	assert.Equal(t, http.StatusBadRequest, res.status)

	res = app.do(t, client, http.MethodDelete, "/api/exports?key=exports/user-2/b.json", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, "Export not found", res.body["message"])

	res = app.do(t, client, http.MethodDelete, "/api/exports?key=exports/user-1/a.json", nil)
	assert.Equal(t, http.StatusOK, res.status)
	assert.Equal(t, "exports/user-1/a.json", stub.lastKey)
}
