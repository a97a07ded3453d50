package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"devnotes/internal/domain"
)

const (
	contextUserKey   = "devnotes.user"
	contextLoggerKey = "devnotes.logger"
	requestIDHeader  = "X-Request-ID"
)

// requestLog attaches a request scoped logger and writes one line per request.
func requestLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)

		entry := logger.WithField("request_id", requestID)
		c.Set(contextLoggerKey, entry)

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.WithFields(fields).Warn("request completed")
			return
		}
		entry.WithFields(fields).Info("request completed")
	}
}

func requestLogger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(contextLoggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// restoreSession turns a valid remember-me cookie into a fresh short-lived
// session when the request arrives without one. It never rejects a request.
func (h *Handler) restoreSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if sessionUserID(session) != 0 {
			c.Next()
			return
		}

		raw, err := c.Cookie(RememberCookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		user, err := h.auth.ResolveRememberToken(c.Request.Context(), raw)
		switch {
		case err == nil:
			if err := h.startSession(session, user.ID); err != nil {
				requestLogger(c).WithError(err).Warn("re-establish session from remember token")
				break
			}
			c.Set(contextUserKey, user)
		case errors.Is(err, domain.ErrTokenExpired), errors.Is(err, domain.ErrTokenNotFound):
			h.clearRememberCookie(c)
		default:
			requestLogger(c).WithError(err).Warn("resolve remember token")
		}
		c.Next()
	}
}

// requireAuth rejects requests without a session bound to an existing user.
func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := sessionUserID(session)
		if userID == 0 {
			fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		user, err := h.auth.Status(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				h.endSession(c, session)
				fail(c, http.StatusUnauthorized, "User not found")
				return
			}
			requestLogger(c).WithError(err).Error("load session user")
			fail(c, http.StatusInternalServerError, "Authentication error")
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*domain.User); ok {
			return user
		}
	}
	return nil
}
