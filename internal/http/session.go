package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"

	"devnotes/internal/service"
)

const (
	SessionCookieName  = "devnotes_session"
	RememberCookieName = "rememberMe"

	SessionStoreMemory = "memory"
	SessionStoreCookie = "cookie"

	sessionKeyUserID   = "user_id"
	sessionKeyIssuedAt = "issued_at"
)

// NewSessionStore builds the short-lived session backend. The memory store
// keeps session state server side and only puts an opaque id in the cookie.
func NewSessionStore(kind, secret string, production bool) sessions.Store {
	var store sessions.Store
	switch kind {
	case SessionStoreCookie:
		store = cookie.NewStore([]byte(secret))
	default:
		store = memstore.NewStore([]byte(secret))
	}
	store.Options(sessionOptions(production, int(service.SessionTTL.Seconds())))
	return store
}

func sessionOptions(production bool, maxAge int) sessions.Options {
	return sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   production,
		SameSite: http.SameSiteStrictMode,
	}
}

// sessionUserID returns 0 unless the session carries a user issued within SessionTTL.
func sessionUserID(session sessions.Session) int64 {
	userID := readInt64(session.Get(sessionKeyUserID))
	if userID <= 0 {
		return 0
	}
	issuedAt := readInt64(session.Get(sessionKeyIssuedAt))
	if issuedAt == 0 || time.Since(time.Unix(issuedAt, 0)) > service.SessionTTL {
		return 0
	}
	return userID
}

func (h *Handler) startSession(session sessions.Session, userID int64) error {
	session.Set(sessionKeyUserID, userID)
	session.Set(sessionKeyIssuedAt, time.Now().Unix())
	return session.Save()
}

func (h *Handler) endSession(c *gin.Context, session sessions.Session) {
	session.Clear()
	session.Options(sessionOptions(h.opts.Production, -1))
	if err := session.Save(); err != nil {
		requestLogger(c).WithError(err).Warn("destroy session")
	}
}

func (h *Handler) setRememberCookie(c *gin.Context, value string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RememberCookieName, value, int(service.RememberTTL.Seconds()), "/", "", h.opts.Production, true)
}

func (h *Handler) clearRememberCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RememberCookieName, "", -1, "/", "", h.opts.Production, true)
}

func readInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}
