package handler

import (
	"errors"
	"net/http"

	"spca-maps/internal/auth"
	"spca-maps/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Authenticator interface for dependency injection
type Authenticator interface {
	Open() bool
	Login(password string) (token, sessionID string, err error)
	Verify(token string) (string, error)
	SetCookie(c *gin.Context, token string)
}

// AuthHandler serves the staff password gate.
type AuthHandler struct {
	auth Authenticator
	memo *session.Memo
}

func NewAuthHandler(a Authenticator, memo *session.Memo) *AuthHandler {
	return &AuthHandler{auth: a, memo: memo}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if h.auth.Open() {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Title": "Sign in", "Page": "login"})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	token, id, err := h.auth.Login(c.PostForm("password"))
	if err != nil {
		status := http.StatusInternalServerError
		msg := "could not sign in"
		if errors.Is(err, auth.ErrInvalidPassword) {
			status = http.StatusUnauthorized
			msg = "Password incorrect"
		}
		log.Warn().Err(err).Str("client_ip", c.ClientIP()).Msg("login rejected")
		c.HTML(status, "login.html", gin.H{"Title": "Sign in", "Page": "login", "Error": msg})
		return
	}

	log.Info().Str("session", id).Msg("login")
	h.auth.SetCookie(c, token)
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout handles POST /logout and drops the session's loaded data
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(auth.CookieName); err == nil {
		if id, err := h.auth.Verify(token); err == nil {
			h.memo.Forget(id)
		}
	}
	auth.ClearCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
