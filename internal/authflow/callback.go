package authflow

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/model"
)

// Callback consumes the identity provider's redirect. The provider hands
// back a bearer token and a URL-encoded JSON identity as query
// parameters; both must be present and parseable or the session stays
// Anonymous.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	// Support both provider styles for the token parameter.
	token := query.Get("token")
	if token == "" {
		token = query.Get("access_token")
	}
	userData := query.Get("user")

	if token == "" || userData == "" {
		h.log.Error("missing token or user data in auth callback")
		http.Redirect(w, r, "/login?error=missing_params", http.StatusFound)
		return
	}

	var identity model.Identity
	if err := json.Unmarshal([]byte(userData), &identity); err != nil || identity.Email == "" {
		h.log.Error("failed to parse user data from auth callback", zap.Error(err))
		http.Redirect(w, r, "/login?error=invalid_user_data", http.StatusFound)
		return
	}

	h.sessions.Login(r.Context(), identity, token)
	http.Redirect(w, r, "/admin", http.StatusFound)
}
