package rest

import (
	"encoding/json"
	"mime"
	"net/http"
)

// Error codes returned in the "code" field of error bodies.
const (
	codeBadRequest          = "BAD_REQUEST"
	codeUnauthenticated     = "UNAUTHENTICATED"
	codeNoConfidentMatch    = "NO_CONFIDENT_MATCH"
	codeExtractionFailed    = "EXTRACTION_FAILED"
	codePlaylistFailed      = "PLAYLIST_FAILED"
	codeRateLimited         = "RATE_LIMITED"
	codeUnsupportedMedia    = "UNSUPPORTED_MEDIA_TYPE"
	codeNotFound            = "NOT_FOUND"
	codeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	codeInternal            = "INTERNAL"
	codeCollaboratorFailure = "UPSTREAM_UNAVAILABLE"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeErrorWithCode(w, status, codeForStatus(status), message)
}

func writeErrorWithCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusUnauthorized:
		return codeUnauthenticated
	case http.StatusUnsupportedMediaType:
		return codeUnsupportedMedia
	case http.StatusTooManyRequests:
		return codeRateLimited
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return codeCollaboratorFailure
	}
	return codeInternal
}

func isJSONContentType(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
