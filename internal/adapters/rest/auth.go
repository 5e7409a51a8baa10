package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/lineup/internal/logging"
)

const (
	sessionCookie = "lineup_session"
	sessionMaxAge = 30 * 24 * time.Hour
)

// closeWindowPage is served to the OAuth popup once sign-in completes.
const closeWindowPage = "<script>window.close();</script>"

// sessionID returns the caller's session id, or "" when there is none.
func sessionID(r *http.Request) string {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles GET /login. It makes sure the caller has a session and
// returns the consent URL whose state is that session id.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if id == "" {
		id = uuid.New().String()
	}
	h.setSessionCookie(w, id)

	writeJSON(w, http.StatusOK, map[string]string{"auth_url": h.auth.AuthURL(id)})
}

// SpotifyCallback handles GET /spotify_auth, the OAuth redirect target.
func (h *Handler) SpotifyCallback(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context(), h.logger)

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		if reason := r.URL.Query().Get("error"); reason != "" {
			log.Warn().Str("reason", reason).Msg("catalog sign-in declined")
		}
		writeError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}
	// The state must be the session that started the sign-in in this browser.
	if current := sessionID(r); current == "" || current != state {
		writeError(w, http.StatusBadRequest, "Session mismatch")
		return
	}

	tok, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("token exchange failed")
		writeErrorWithCode(w, http.StatusBadGateway, codeCollaboratorFailure, "Could not complete sign-in")
		return
	}
	if err := h.tokens.Store(r.Context(), state, tok); err != nil {
		log.Error().Err(err).Msg("failed to store session token")
		writeError(w, http.StatusInternalServerError, "Could not complete sign-in")
		return
	}
	h.setSessionCookie(w, state)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(closeWindowPage))
}
