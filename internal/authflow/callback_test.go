package authflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/model"
	"github.com/NicolasArtemio/frontend-basv1/internal/session"
	"github.com/NicolasArtemio/frontend-basv1/internal/storage"
)

func newTestHandler(t *testing.T) (*Handler, *session.Store) {
	t.Helper()
	sessions := session.New(storage.NewMemory(), zap.NewNop())
	h := NewHandler(sessions, Config{
		OAuthURL:   "http://localhost:3000/api/auth/google",
		AdminEmail: "admin@baspetshop.com",
	}, zap.NewNop())
	return h, sessions
}

func callbackURL(token, user string) string {
	q := url.Values{}
	if token != "" {
		q.Set("token", token)
	}
	if user != "" {
		q.Set("user", user)
	}
	return "/auth/callback?" + q.Encode()
}

func TestCallback_Success(t *testing.T) {
	h, sessions := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, callbackURL("tok-123", `{"email":"admin@baspetshop.com","name":"Nicolás"}`), nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	assert.True(t, sessions.Authenticated())
	assert.Equal(t, "tok-123", sessions.Token())
	identity, _ := sessions.Identity()
	assert.Equal(t, "admin@baspetshop.com", identity.Email)
	assert.Equal(t, "Nicolás", identity.Name)
}

func TestCallback_AccessTokenFallback(t *testing.T) {
	h, sessions := newTestHandler(t)

	q := url.Values{}
	q.Set("access_token", "tok-456")
	q.Set("user", `{"email":"admin@baspetshop.com"}`)
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	h.Callback(rec, req)

	assert.Equal(t, "/admin", rec.Header().Get("Location"))
	assert.Equal(t, "tok-456", sessions.Token())
}

func TestCallback_MissingParams(t *testing.T) {
	cases := []struct {
		name  string
		token string
		user  string
	}{
		{"no token", "", `{"email":"a@b.com"}`},
		{"no user", "tok-123", ""},
		{"nothing", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, sessions := newTestHandler(t)

			req := httptest.NewRequest(http.MethodGet, callbackURL(tc.token, tc.user), nil)
			rec := httptest.NewRecorder()
			h.Callback(rec, req)

			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, "/login?error=missing_params", rec.Header().Get("Location"))
			assert.False(t, sessions.Authenticated())
		})
	}
}

func TestCallback_InvalidUserData(t *testing.T) {
	cases := []struct {
		name string
		user string
	}{
		{"not json", "{{{"},
		{"missing email", `{"name":"Nadie"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, sessions := newTestHandler(t)

			req := httptest.NewRequest(http.MethodGet, callbackURL("tok-123", tc.user), nil)
			rec := httptest.NewRecorder()
			h.Callback(rec, req)

			assert.Equal(t, "/login?error=invalid_user_data", rec.Header().Get("Location"))
			assert.False(t, sessions.Authenticated())
		})
	}
}

func TestLogout_RedirectsToLogin(t *testing.T) {
	h, sessions := newTestHandler(t)
	sessions.Login(context.Background(), model.Identity{Email: "admin@baspetshop.com"}, "tok-123")

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.False(t, sessions.Authenticated())
}

func TestRequireAdmin_AnonymousGoesToLogin(t *testing.T) {
	h, _ := newTestHandler(t)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gate must not pass anonymous visitors")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	h.RequireAdmin(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRequireAdmin_WrongIdentityGoesHome(t *testing.T) {
	h, sessions := newTestHandler(t)
	sessions.Login(context.Background(), model.Identity{Email: "visitor@example.com"}, "tok-123")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("gate must not pass non-admin identities")
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	h.RequireAdmin(next).ServeHTTP(rec, req)

	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	h, sessions := newTestHandler(t)
	sessions.Login(context.Background(), model.Identity{Email: "admin@baspetshop.com"}, "tok-123")

	passed := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		passed = true
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	h.RequireAdmin(next).ServeHTTP(rec, req)

	assert.True(t, passed)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginPage_SurfacesCallbackErrors(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/login?error=missing_params", nil)
	rec := httptest.NewRecorder()
	h.LoginPage(rec, req)

	assert.Contains(t, rec.Body.String(), "Faltan parámetros de sesión")
	assert.Contains(t, rec.Body.String(), "http://localhost:3000/api/auth/google")
}
