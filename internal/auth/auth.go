// Package auth implements the shared staff password gate and the signed
// session cookie that identifies a browser session.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"spca-maps/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieName = "spca_session"
	// ContextKey is the gin context key holding the session id.
	ContextKey = "session_id"
)

var (
	ErrInvalidPassword = errors.New("auth: invalid password")
	ErrInvalidToken    = errors.New("auth: invalid session token")
)

// Authenticator checks the staff password and issues session tokens.
// With no password hash configured the gate is open.
type Authenticator struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates an Authenticator. An empty secret gets a random one, which
// invalidates sessions on restart.
func New(passwordHash, secret string, ttl time.Duration) (*Authenticator, error) {
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("auth: invalid password hash: %w", err)
		}
	}
	if secret == "" {
		secret = uuid.NewString()
		log.Warn().Msg("SESSION_SECRET not set, sessions will not survive a restart")
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Authenticator{
		hash:   []byte(passwordHash),
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// HashPassword returns the bcrypt hash to configure as PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("auth: hash password: %w", err)
	}
	return string(hash), nil
}

// Open reports whether no password is required.
func (a *Authenticator) Open() bool {
	return len(a.hash) == 0
}

// Login checks password and returns a fresh session token and its id.
func (a *Authenticator) Login(password string) (token, sessionID string, err error) {
	if !a.Open() {
		if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
			return "", "", ErrInvalidPassword
		}
	}
	return a.Issue()
}

// Issue signs a new session token.
func (a *Authenticator) Issue() (token, sessionID string, err error) {
	now := a.now()
	sessionID = uuid.NewString()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Subject:   "staff",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, sessionID, nil
}

// Verify returns the session id carried by a valid, unexpired token.
func (a *Authenticator) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.ID == "" {
		return "", fmt.Errorf("%w: missing session id", ErrInvalidToken)
	}
	return claims.ID, nil
}

// SetCookie stores token in the session cookie.
func (a *Authenticator) SetCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, int(a.ttl.Seconds()), "/", "", false, true)
}

func ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", false, true)
}

// RequirePage redirects unauthenticated browsers to the login page.
func (a *Authenticator) RequirePage() gin.HandlerFunc {
	return a.require(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	})
}

// RequireAPI rejects unauthenticated API calls with 401.
func (a *Authenticator) RequireAPI() gin.HandlerFunc {
	return a.require(func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
	})
}

func (a *Authenticator) require(deny func(*gin.Context)) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(CookieName); err == nil {
			if id, err := a.Verify(token); err == nil {
				attach(c, id)
				c.Next()
				return
			}
		}

		if !a.Open() {
			deny(c)
			return
		}

		token, id, err := a.Issue()
		if err != nil {
			log.Error().Err(err).Msg("cannot issue session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "cannot start session"})
			return
		}
		a.SetCookie(c, token)
		attach(c, id)
		c.Next()
	}
}

func attach(c *gin.Context, id string) {
	c.Set(ContextKey, id)
	c.Request = c.Request.WithContext(session.WithID(c.Request.Context(), id))
}
