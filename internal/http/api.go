package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"devnotes/internal/service"
)

// Options configures the HTTP surface.
type Options struct {
	Production     bool
	AllowedOrigins []string
	SessionSecret  string
	SessionStore   string
	Logger         *logrus.Logger
	// HealthCheck reports whether the backing store is reachable.
	HealthCheck func(ctx context.Context) error
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	auth    service.SessionService
	notes   service.NoteService
	exports service.ExportService
	store   sessions.Store
	opts    Options
	logger  *logrus.Logger
}

// NewHandler builds the handler. exports may be nil, in which case the export
// routes are not registered.
func NewHandler(users service.UserService, auth service.SessionService, notes service.NoteService, exports service.ExportService, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:   users,
		auth:    auth,
		notes:   notes,
		exports: exports,
		store:   NewSessionStore(opts.SessionStore, opts.SessionSecret, opts.Production),
		opts:    opts,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLog(h.logger))
	if mw := h.corsMiddleware(); mw != nil {
		router.Use(mw)
	}
	router.Use(sessions.Sessions(SessionCookieName, h.store))
	router.Use(h.restoreSession())

	router.HandleMethodNotAllowed = true
	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Not found")
	})
	router.NoMethod(func(c *gin.Context) {
		fail(c, http.StatusMethodNotAllowed, "Method not allowed")
	})

	api := router.Group("/api")
	{
		api.GET("/test", h.test)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", h.register)
			authRoutes.POST("/login", h.login)
			authRoutes.POST("/logout", h.logout)
			authRoutes.GET("/status", h.status)
		}

		notes := api.Group("/notes", h.requireAuth())
		{
			notes.GET("", h.listNotes)
			notes.POST("", h.createNote)
			notes.GET("/:id", h.getNote)
			notes.PUT("/:id", h.updateNote)
			notes.DELETE("/:id", h.deleteNote)
		}

		if h.exports != nil {
			exports := api.Group("/exports", h.requireAuth())
			{
				exports.POST("", h.createExport)
				exports.GET("", h.listExports)
				exports.GET("/url", h.exportURL)
				exports.DELETE("", h.deleteExport)
			}
		}
	}
}

// corsMiddleware reflects any origin in development. In production only the
// configured origins are allowed, and none means same-origin only.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if h.opts.Production {
		if len(h.opts.AllowedOrigins) == 0 {
			return nil
		}
		cfg.AllowOrigins = h.opts.AllowedOrigins
	} else {
		cfg.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(cfg)
}

func (h *Handler) test(c *gin.Context) {
	database := "Connected to SQLite!"
	if h.opts.HealthCheck != nil {
		if err := h.opts.HealthCheck(c.Request.Context()); err != nil {
			requestLogger(c).WithError(err).Warn("health check failed")
			database = "unavailable"
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "DevNotes API is working!",
		"timestamp":     time.Now().UTC().Format(time.RFC3339Nano),
		"database":      database,
		"authenticated": sessionUserID(sessions.Default(c)) != 0,
	})
}
