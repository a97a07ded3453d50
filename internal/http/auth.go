package http

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"devnotes/internal/domain"
)

type credentialsRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"rememberMe"`
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.startSession(sessions.Default(c), user.ID); err != nil {
		respondError(c, err)
		return
	}

	requestLogger(c).WithField("user_id", user.ID).Info("user registered")
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    userToResponse(user),
	})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Username and password are required")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password, req.RememberMe)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.startSession(sessions.Default(c), res.User.ID); err != nil {
		respondError(c, err)
		return
	}
	if res.RememberToken != "" {
		h.setRememberCookie(c, res.RememberToken)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    userToResponse(res.User),
	})
}

func (h *Handler) logout(c *gin.Context) {
	raw, _ := c.Cookie(RememberCookieName)
	if err := h.auth.Logout(c.Request.Context(), raw); err != nil {
		respondError(c, err)
		return
	}
	if raw != "" {
		h.clearRememberCookie(c)
	}
	h.endSession(c, sessions.Default(c))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logout successful",
	})
}

func (h *Handler) status(c *gin.Context) {
	userID := sessionUserID(sessions.Default(c))
	if userID == 0 {
		c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": false})
		return
	}

	user, err := h.auth.Status(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": true, "authenticated": false})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"authenticated": true,
		"user":          userToResponse(user),
	})
}
