package rest

import (
	"errors"
	"io"
	"net/http"
)

const (
	maxPosterBytes    = 20 << 20
	multipartMemBytes = 8 << 20
)

// ProcessPoster handles POST /process_poster (multipart field "poster").
func (h *Handler) ProcessPoster(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPosterBytes)
	if err := r.ParseMultipartForm(multipartMemBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeErrorWithCode(w, http.StatusRequestEntityTooLarge, codeBadRequest, "Poster file is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No poster file found")
		return
	}

	file, header, err := r.FormFile("poster")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No poster file found")
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read poster file")
		return
	}

	info, ok := h.extractor.Extract(r.Context(), image, header.Filename)
	if !ok {
		writeErrorWithCode(w, http.StatusInternalServerError, codeExtractionFailed, "Could not extract festival info")
		return
	}

	writeJSON(w, http.StatusOK, info)
}
