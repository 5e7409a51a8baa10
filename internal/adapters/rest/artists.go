package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/logging"
)

type artistDataRequest struct {
	Artists []string `json:"artists"`
}

// GetArtistData handles POST /get_artist_data.
func (h *Handler) GetArtistData(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req artistDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Artists) == 0 {
		writeError(w, http.StatusBadRequest, "Missing required data")
		return
	}

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

	catalog := h.catalogs.ForToken(r.Context(), tok)
	artists, err := h.assembler.ResolveLineup(r.Context(), catalog, req.Artists)
	if err != nil {
		writeErrorWithCode(w, http.StatusServiceUnavailable, codeCollaboratorFailure, "Artist lookup was interrupted")
		return
	}
	if len(artists) == 0 {
		writeErrorWithCode(w, http.StatusUnprocessableEntity, codeNoConfidentMatch, "No confident catalog match for any artist")
		return
	}

	writeJSON(w, http.StatusOK, artists)
}
