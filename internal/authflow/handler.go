// Package authflow holds the HTTP handlers around the session store: the
// login entry point, the identity provider's callback, logout and the
// admin gate. State transitions live in the session store; this package
// only parses and redirects.
package authflow

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/session"
)

type Config struct {
	// OAuthURL is the identity provider's entry point the login page
	// links to.
	OAuthURL string
	// AdminEmail is the only identity allowed through the admin gate.
	AdminEmail string
}

type Handler struct {
	sessions *session.Store
	config   Config
	log      *zap.Logger
}

func NewHandler(sessions *session.Store, cfg Config, log *zap.Logger) *Handler {
	return &Handler{sessions: sessions, config: cfg, log: log}
}

// LoginPage surfaces callback errors and points at the provider's entry
// point.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	var notice string
	switch r.URL.Query().Get("error") {
	case "missing_params":
		notice = "Error de autenticación: Faltan parámetros de sesión"
	case "invalid_user_data":
		notice = "Error de autenticación: Datos de usuario inválidos"
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if notice != "" {
		fmt.Fprintf(w, "<p>%s</p>\n", notice)
	}
	fmt.Fprintf(w, "<a href=%q>Ingresá con tu cuenta corporativa</a>\n", h.config.OAuthURL)
}

// Logout ends the session and navigates back to the login entry point.
// The session store has already cleared in-memory state and storage by
// the time the redirect goes out.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusFound)
}

// AdminHome confirms the gate passed; the admin pages themselves are
// rendered elsewhere.
func (h *Handler) AdminHome(w http.ResponseWriter, r *http.Request) {
	identity, _ := h.sessions.Identity()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<p>Panel de administración — %s</p>\n", identity.Email)
}

// RequireAdmin lets only the configured admin identity through:
// anonymous visitors go to /login, everyone else back to the storefront.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.sessions.Authenticated() {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		identity, _ := h.sessions.Identity()
		if identity.Email != h.config.AdminEmail {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
