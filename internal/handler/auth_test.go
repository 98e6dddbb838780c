package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"spca-maps/internal/auth"
	"spca-maps/internal/session"
	"spca-maps/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAuthenticator is a mock implementation of the Authenticator interface
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Open() bool {
	return m.Called().Bool(0)
}

func (m *MockAuthenticator) Login(password string) (string, string, error) {
	args := m.Called(password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockAuthenticator) Verify(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) SetCookie(c *gin.Context, token string) {
	m.Called(c, token)
	c.SetCookie(auth.CookieName, token, 3600, "/", "", false, true)
}

func authRouter(t *testing.T, a Authenticator, memo *session.Memo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	h := NewAuthHandler(a, memo)
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/login", h.LoginPage)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	return r
}

func postLogin(r *gin.Engine, password string) *httptest.ResponseRecorder {
	form := url.Values{"password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_LoginPage(t *testing.T) {
	tests := []struct {
		name           string
		open           bool
		expectedStatus int
	}{
		{name: "password required", open: false, expectedStatus: http.StatusOK},
		{name: "open gate skips the form", open: true, expectedStatus: http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := new(MockAuthenticator)
			a.On("Open").Return(tt.open)
			r := authRouter(t, a, session.NewMemo(time.Minute))

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.open {
				assert.Equal(t, "/", w.Header().Get("Location"))
			} else {
				assert.Contains(t, w.Body.String(), `name="password"`)
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("correct password sets the cookie", func(t *testing.T) {
		a := new(MockAuthenticator)
		a.On("Login", "s3cret").Return("tok", "sess-1", nil)
		a.On("SetCookie", mock.Anything, "tok").Return()
		r := authRouter(t, a, session.NewMemo(time.Minute))

		w := postLogin(r, "s3cret")

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Contains(t, w.Header().Get("Set-Cookie"), auth.CookieName+"=tok")
		a.AssertExpectations(t)
	})

	t.Run("wrong password re-renders the form", func(t *testing.T) {
		a := new(MockAuthenticator)
		a.On("Login", "guess").Return("", "", auth.ErrInvalidPassword)
		r := authRouter(t, a, session.NewMemo(time.Minute))

		w := postLogin(r, "guess")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Password incorrect")
		assert.Empty(t, w.Header().Get("Set-Cookie"))
		a.AssertNotCalled(t, "SetCookie", mock.Anything, mock.Anything)
	})

	t.Run("signing failure", func(t *testing.T) {
		a := new(MockAuthenticator)
		a.On("Login", "s3cret").Return("", "", errors.New("sign token: boom"))
		r := authRouter(t, a, session.NewMemo(time.Minute))

		w := postLogin(r, "s3cret")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "could not sign in")
	})
}

func TestAuthHandler_LogoutForgetsSession(t *testing.T) {
	memo := session.NewMemo(time.Minute)
	memo.Set("sess-1", "clients", []int{1, 2, 3})
	memo.Set("sess-2", "clients", []int{4})

	a := new(MockAuthenticator)
	a.On("Verify", "tok").Return("sess-1", nil)
	r := authRouter(t, a, memo)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=0")

	_, ok := memo.Get("sess-1", "clients")
	assert.False(t, ok)
	_, ok = memo.Get("sess-2", "clients")
	assert.True(t, ok)
}
