package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/logging"
)

// CreatePlaylist handles POST /create_playlist
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	// 1. Decode and validate the request
	var req domain.PlaylistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "Missing required data")
		return
	}

	// 2. Resolve the caller's token
	tok, err := h.tokens.Token(r.Context(), sessionID(r))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			writeError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		logging.FromContext(r.Context(), h.logger).Error().Err(err).Msg("failed to load session token")
		writeError(w, http.StatusInternalServerError, "Could not load session")
		return
	}

	// 3. Call Service
	url, err := h.playlists.CreateFestivalPlaylist(r.Context(), h.catalogs.ForToken(r.Context(), tok), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, "Missing required data")
			return
		}
		logging.FromContext(r.Context(), h.logger).Error().Err(err).Msg("playlist creation failed")
		writeErrorWithCode(w, http.StatusInternalServerError, codePlaylistFailed, "Could not create playlist")
		return
	}

	// 4. Respond
	writeJSON(w, http.StatusOK, map[string]string{"playlist_url": url})
}
